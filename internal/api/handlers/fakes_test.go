package handlers

import (
	"context"
	"time"

	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/service"
	"github.com/ekusa/ekusa-backend/internal/workflow"
	"github.com/golang-jwt/jwt/v5"
)

// fakeInterest returns whatever outcome, view and error it is primed with and
// remembers the last call.
type fakeInterest struct {
	view    workflow.View
	outcome *workflow.Outcome
	url     string
	err     error

	lastClient    string
	lastEvent     string
	lastCheck     *workflow.CheckForm
	lastReg       *workflow.RegistrationForm
	resets        []string
	activeSession int
}

func (f *fakeInterest) record(clientID, eventID string) {
	f.lastClient, f.lastEvent = clientID, eventID
}

func (f *fakeInterest) View(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f.record(clientID, eventID)
	return f.view, f.err
}

func (f *fakeInterest) Open(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f.record(clientID, eventID)
	return f.view, f.err
}

func (f *fakeInterest) SetCheckForm(ctx context.Context, clientID, eventID string, form workflow.CheckForm) (workflow.View, error) {
	f.record(clientID, eventID)
	f.lastCheck = &form
	return f.view, f.err
}

func (f *fakeInterest) SubmitCheck(ctx context.Context, clientID, eventID string, form *workflow.CheckForm) (*workflow.Outcome, workflow.View, error) {
	f.record(clientID, eventID)
	f.lastCheck = form
	return f.outcome, f.view, f.err
}

func (f *fakeInterest) ChooseNewRegistration(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f.record(clientID, eventID)
	return f.view, f.err
}

func (f *fakeInterest) ApplyForMembership(ctx context.Context, clientID, eventID string) (string, workflow.View, error) {
	f.record(clientID, eventID)
	return f.url, f.view, f.err
}

func (f *fakeInterest) SetRegistrationForm(ctx context.Context, clientID, eventID string, form workflow.RegistrationForm) (workflow.View, error) {
	f.record(clientID, eventID)
	f.lastReg = &form
	return f.view, f.err
}

func (f *fakeInterest) SubmitRegistration(ctx context.Context, clientID, eventID string, form *workflow.RegistrationForm) (*workflow.Outcome, workflow.View, error) {
	f.record(clientID, eventID)
	f.lastReg = form
	return f.outcome, f.view, f.err
}

func (f *fakeInterest) Back(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f.record(clientID, eventID)
	return f.view, f.err
}

func (f *fakeInterest) Close(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f.record(clientID, eventID)
	return f.view, f.err
}

func (f *fakeInterest) ResetClient(clientID string) int {
	f.resets = append(f.resets, clientID)
	return 1
}

func (f *fakeInterest) PruneIdle(maxIdle time.Duration) int { return 0 }

func (f *fakeInterest) ActiveSessions() int { return f.activeSession }

type fakeMembership struct {
	service.MembershipService

	applied  *service.MembershipInput
	current  *identity.Identity
	forgot   string
	members  []*repository.Membership
	query    string
	applyErr error
}

func (f *fakeMembership) Apply(ctx context.Context, clientID string, input service.MembershipInput) (*repository.Membership, error) {
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	f.applied = &input
	return &repository.Membership{
		ID:                 "m-1",
		Name:               input.Name,
		Email:              input.Email,
		Course:             input.Course,
		RegistrationNumber: input.RegistrationNumber,
		PhoneNumber:        input.PhoneNumber,
		CreatedAt:          time.Now(),
	}, nil
}

func (f *fakeMembership) Current(ctx context.Context, clientID string) (*identity.Identity, error) {
	return f.current, nil
}

func (f *fakeMembership) Forget(ctx context.Context, clientID string) error {
	f.forgot = clientID
	return nil
}

func (f *fakeMembership) Search(ctx context.Context, query string) ([]*repository.Membership, error) {
	f.query = query
	return f.members, nil
}

func (f *fakeMembership) Get(ctx context.Context, id string) (*repository.Membership, error) {
	return nil, service.ErrNotFound
}

type fakeEvents struct {
	service.EventService

	upcoming []*repository.Event
	past     []*repository.Event
	created  *service.EventInput
}

func (f *fakeEvents) ListUpcoming(ctx context.Context) ([]*repository.Event, error) {
	return f.upcoming, nil
}

func (f *fakeEvents) ListPast(ctx context.Context) ([]*repository.Event, error) {
	return f.past, nil
}

func (f *fakeEvents) Create(ctx context.Context, input service.EventInput) (*repository.Event, error) {
	f.created = &input
	return &repository.Event{ID: "e-1", Title: input.Title, EventDate: input.EventDate, EventType: input.EventType}, nil
}

type fakeContacts struct {
	service.ContactService

	submitted *service.ContactInput
}

func (f *fakeContacts) Submit(ctx context.Context, input service.ContactInput) (*repository.Contact, error) {
	f.submitted = &input
	return &repository.Contact{ID: "c-1", Name: input.Name, Email: input.Email, Status: "new"}, nil
}

func (f *fakeContacts) List(ctx context.Context, status string) ([]*repository.Contact, error) {
	if status == "bogus" {
		return nil, service.ErrInvalidInput
	}
	return []*repository.Contact{}, nil
}

type fakeAuth struct {
	service.AuthService
}

func (fakeAuth) Login(ctx context.Context, emailAddr, password string) (*repository.Admin, string, string, error) {
	if password != "password123" {
		return nil, "", "", service.ErrInvalidCredentials
	}
	return &repository.Admin{ID: "admin-1", Email: emailAddr, Name: "Admin"}, "access", "refresh", nil
}

func (fakeAuth) ValidateToken(token string) (*jwt.Token, error) {
	if token != "access" {
		return nil, service.ErrInvalidToken
	}
	return &jwt.Token{Valid: true}, nil
}

func (fakeAuth) GetAdminIDFromToken(*jwt.Token) (string, error) {
	return "admin-1", nil
}

type fakeDashboard struct{}

func (fakeDashboard) Stats(ctx context.Context) (*service.DashboardStats, error) {
	return &service.DashboardStats{Members: 3, Events: 2}, nil
}

func (fakeDashboard) SendDigest(ctx context.Context, since time.Time) (*email.DigestData, error) {
	return &email.DigestData{Date: since.Format(dateLayout)}, nil
}
