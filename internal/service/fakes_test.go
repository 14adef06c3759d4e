package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:                "test-secret",
		JWTExpiry:                1,
		RefreshExpiry:            7,
		FrontendURL:              "http://localhost:5173",
		MembershipApplicationURL: "http://localhost:5173/?join=1",
		AdminEmail:               "admin@ekusa.org",
	}
}

// ============ Events ============

type fakeEventRepo struct {
	mu       sync.Mutex
	events   map[string]*repository.Event
	findErr  error
	listHits int
}

func newFakeEventRepo(events ...*repository.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[string]*repository.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(ctx context.Context, e *repository.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id string) (*repository.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	e, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEventRepo) list(keep func(*repository.Event) bool) []*repository.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listHits++
	var out []*repository.Event
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r *fakeEventRepo) FindAll(ctx context.Context) ([]*repository.Event, error) {
	return r.list(func(*repository.Event) bool { return true }), nil
}

func (r *fakeEventRepo) FindUpcoming(ctx context.Context) ([]*repository.Event, error) {
	today := time.Now().Truncate(24 * time.Hour)
	return r.list(func(e *repository.Event) bool { return !e.EventDate.Before(today) }), nil
}

func (r *fakeEventRepo) FindPast(ctx context.Context) ([]*repository.Event, error) {
	today := time.Now().Truncate(24 * time.Hour)
	return r.list(func(e *repository.Event) bool { return e.EventDate.Before(today) }), nil
}

func (r *fakeEventRepo) Update(ctx context.Context, e *repository.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.UpdatedAt = time.Now()
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events), nil
}

// ============ Memberships ============

type fakeMemberRepo struct {
	mu        sync.Mutex
	members   []*repository.Membership
	createErr error
	findErr   error
}

func (r *fakeMemberRepo) add(name, email, regNo string) *repository.Membership {
	m := &repository.Membership{
		ID:                 uuid.NewString(),
		Name:               name,
		Email:              email,
		Course:             "CS",
		RegistrationNumber: regNo,
		PhoneNumber:        "0700000000",
		CreatedAt:          time.Now(),
	}
	r.mu.Lock()
	r.members = append(r.members, m)
	r.mu.Unlock()
	return m
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *repository.Membership) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now()
	r.members = append(r.members, m)
	return nil
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id string) (*repository.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, m := range r.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) FindByEmailOrRegistrationNumber(ctx context.Context, email, regNo string) (*repository.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, m := range r.members {
		if strings.EqualFold(m.Email, email) || m.RegistrationNumber == regNo {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) FindAll(ctx context.Context) ([]*repository.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*repository.Membership(nil), r.members...), nil
}

func (r *fakeMemberRepo) Search(ctx context.Context, q string) ([]*repository.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q = strings.ToLower(q)
	var out []*repository.Membership
	for _, m := range r.members {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeMemberRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members), nil
}

func (r *fakeMemberRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.members {
		if !m.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ============ Interests ============

type fakeInterestRepo struct {
	mu        sync.Mutex
	interests []*repository.EventInterest
	addErr    error
}

func (r *fakeInterestRepo) Exists(ctx context.Context, memberID, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ei := range r.interests {
		if ei.MemberID == memberID && ei.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeInterestRepo) AddIfAbsent(ctx context.Context, interest *repository.EventInterest) (bool, error) {
	if r.addErr != nil {
		return false, r.addErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ei := range r.interests {
		if ei.MemberID == interest.MemberID && ei.EventID == interest.EventID {
			return false, nil
		}
	}
	interest.ID = uuid.NewString()
	interest.CreatedAt = time.Now()
	r.interests = append(r.interests, interest)
	return true, nil
}

func (r *fakeInterestRepo) FindAll(ctx context.Context) ([]*repository.EventInterest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*repository.EventInterest(nil), r.interests...), nil
}

func (r *fakeInterestRepo) FindByEvent(ctx context.Context, eventID string) ([]*repository.EventInterest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.EventInterest
	for _, ei := range r.interests {
		if ei.EventID == eventID {
			out = append(out, ei)
		}
	}
	return out, nil
}

func (r *fakeInterestRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ei := range r.interests {
		if ei.ID == id {
			r.interests = append(r.interests[:i], r.interests[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeInterestRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.interests), nil
}

func (r *fakeInterestRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return r.Count(ctx)
}

// ============ Registrations ============

type fakeRegistrationRepo struct {
	mu        sync.Mutex
	regs      []*repository.EventRegistration
	createErr error
}

func (r *fakeRegistrationRepo) Create(ctx context.Context, reg *repository.EventRegistration) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	reg.ID = uuid.NewString()
	reg.CreatedAt = time.Now()
	r.regs = append(r.regs, reg)
	return nil
}

func (r *fakeRegistrationRepo) FindByID(ctx context.Context, id string) (*repository.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.ID == id {
			return reg, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistrationRepo) FindAll(ctx context.Context) ([]*repository.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*repository.EventRegistration(nil), r.regs...), nil
}

func (r *fakeRegistrationRepo) FindByEvent(ctx context.Context, eventID string) ([]*repository.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.EventRegistration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, reg := range r.regs {
		if reg.ID == id {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRegistrationRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs), nil
}

func (r *fakeRegistrationRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	return r.Count(ctx)
}

// ============ Contacts ============

type fakeContactRepo struct {
	mu       sync.Mutex
	contacts []*repository.Contact
}

func (r *fakeContactRepo) Create(ctx context.Context, c *repository.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	r.contacts = append(r.contacts, c)
	return nil
}

func (r *fakeContactRepo) FindByID(ctx context.Context, id string) (*repository.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) FindAll(ctx context.Context, status *string) ([]*repository.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*repository.Contact
	for _, c := range r.contacts {
		if status == nil || c.Status == *status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID == id {
			c.Status = status
		}
	}
	return nil
}

func (r *fakeContactRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.contacts {
		if c.ID == id {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeContactRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	list, _ := r.FindAll(ctx, &status)
	return len(list), nil
}

// ============ Admins ============

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*repository.Admin
	tokens map[string]*repository.RefreshToken
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{
		admins: make(map[string]*repository.Admin),
		tokens: make(map[string]*repository.RefreshToken),
	}
}

func (r *fakeAdminRepo) Create(ctx context.Context, a *repository.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.NewString()
	r.admins[a.ID] = a
	return nil
}

func (r *fakeAdminRepo) FindByID(ctx context.Context, id string) (*repository.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[id], nil
}

func (r *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*repository.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		now := time.Now()
		a.LastLoginAt = &now
	}
	return nil
}

func (r *fakeAdminRepo) SaveRefreshToken(ctx context.Context, t *repository.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = t
	return nil
}

func (r *fakeAdminRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[token], nil
}

func (r *fakeAdminRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeAdminRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// ============ Notifications ============

type broadcastCall struct {
	kind    string
	eventID string
	payload map[string]interface{}
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

func (b *recordingBroadcaster) record(kind, eventID string, payload map[string]interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{kind: kind, eventID: eventID, payload: payload})
}

func (b *recordingBroadcaster) BroadcastMembershipCreated(p map[string]interface{}) {
	b.record("membership_created", "", p)
}

func (b *recordingBroadcaster) BroadcastInterestRecorded(eventID string, p map[string]interface{}) {
	b.record("interest_recorded", eventID, p)
}

func (b *recordingBroadcaster) BroadcastRegistrationCreated(eventID string, p map[string]interface{}) {
	b.record("registration_created", eventID, p)
}

func (b *recordingBroadcaster) BroadcastContactReceived(p map[string]interface{}) {
	b.record("contact_received", "", p)
}

func (b *recordingBroadcaster) kinds() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.calls {
		out = append(out, c.kind)
	}
	return out
}

type sentMail struct {
	to       []string
	subject  string
	template string
	data     interface{}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Enqueue(to []string, subject, templateName string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, template: templateName, data: data})
}

func (m *recordingMailer) templates() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		out = append(out, s.template)
	}
	return out
}
