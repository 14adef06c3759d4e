package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/workflow"
)

// ============================================
// Interest Workflow Service
// ============================================

// InterestWorkflowService hosts one workflow.Flow per (client, event). Every
// method returns the flow's view after the operation, also on workflow errors.
type InterestWorkflowService interface {
	View(ctx context.Context, clientID, eventID string) (workflow.View, error)
	Open(ctx context.Context, clientID, eventID string) (workflow.View, error)
	SetCheckForm(ctx context.Context, clientID, eventID string, form workflow.CheckForm) (workflow.View, error)
	SubmitCheck(ctx context.Context, clientID, eventID string, form *workflow.CheckForm) (*workflow.Outcome, workflow.View, error)
	ChooseNewRegistration(ctx context.Context, clientID, eventID string) (workflow.View, error)
	ApplyForMembership(ctx context.Context, clientID, eventID string) (string, workflow.View, error)
	SetRegistrationForm(ctx context.Context, clientID, eventID string, form workflow.RegistrationForm) (workflow.View, error)
	SubmitRegistration(ctx context.Context, clientID, eventID string, form *workflow.RegistrationForm) (*workflow.Outcome, workflow.View, error)
	Back(ctx context.Context, clientID, eventID string) (workflow.View, error)
	Close(ctx context.Context, clientID, eventID string) (workflow.View, error)

	// ResetClient drops every flow of a client so the next open reloads its identity.
	ResetClient(clientID string) int
	PruneIdle(maxIdle time.Duration) int
	ActiveSessions() int
}

type session struct {
	flow     *workflow.Flow
	lastUsed time.Time
}

type sessionKey struct {
	clientID string
	eventID  string
}

type interestWorkflowService struct {
	cfg         *config.Config
	eventRepo   repository.EventRepository
	lookup      memberLookup
	interests   interestStore
	regs        registrationStore
	identities  identity.Store
	broadcaster Broadcaster
	mailer      Mailer

	mu       sync.Mutex
	sessions map[sessionKey]*session
	now      func() time.Time
}

func NewInterestWorkflowService(
	cfg *config.Config,
	eventRepo repository.EventRepository,
	memberRepo repository.MembershipRepository,
	interestRepo repository.EventInterestRepository,
	registrationRepo repository.EventRegistrationRepository,
	identities identity.Store,
	broadcaster Broadcaster,
	mailer Mailer,
) InterestWorkflowService {
	return &interestWorkflowService{
		cfg:         cfg,
		eventRepo:   eventRepo,
		lookup:      memberLookup{repo: memberRepo},
		interests:   interestStore{repo: interestRepo},
		regs:        registrationStore{repo: registrationRepo},
		identities:  identities,
		broadcaster: broadcaster,
		mailer:      mailer,
		sessions:    make(map[sessionKey]*session),
		now:         time.Now,
	}
}

// flow returns the client's flow for an event, creating it on first use.
func (s *interestWorkflowService) flow(ctx context.Context, clientID, eventID string) (*workflow.Flow, error) {
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	key := sessionKey{clientID: clientID, eventID: eventID}

	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		sess.lastUsed = s.now()
		s.mu.Unlock()
		return sess.flow, nil
	}
	s.mu.Unlock()

	if !validID(eventID) {
		return nil, ErrNotFound
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, ErrNotFound
	}

	f := workflow.New(workflow.Event{ID: event.ID, Title: event.Title}, workflow.Deps{
		Members:        s.lookup,
		Interests:      s.interests,
		Registrations:  s.regs,
		Cache:          s.identities.For(clientID),
		ApplicationURL: s.cfg.MembershipApplicationURL,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	// Another request may have created it meanwhile.
	if sess, ok := s.sessions[key]; ok {
		sess.lastUsed = s.now()
		return sess.flow, nil
	}
	s.sessions[key] = &session{flow: f, lastUsed: s.now()}
	return f, nil
}

// ensureOpen loads the cached identity for flows that were never opened or
// were closed by a previous outcome.
func ensureOpen(ctx context.Context, f *workflow.Flow) {
	if !f.View().Open {
		f.Open(ctx)
	}
}

func (s *interestWorkflowService) View(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	return f.View(), nil
}

func (s *interestWorkflowService) Open(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	return f.Open(ctx), nil
}

func (s *interestWorkflowService) SetCheckForm(ctx context.Context, clientID, eventID string, form workflow.CheckForm) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	err = f.SetCheckForm(form)
	return f.View(), err
}

func (s *interestWorkflowService) SubmitCheck(ctx context.Context, clientID, eventID string, form *workflow.CheckForm) (*workflow.Outcome, workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return nil, workflow.View{}, err
	}
	ensureOpen(ctx, f)
	if form != nil {
		if err := f.SetCheckForm(*form); err != nil {
			return nil, f.View(), err
		}
	}

	outcome, err := f.SubmitCheck(ctx)
	if err != nil {
		log.Printf("[Workflow] Check failed for event %s: %v", eventID, err)
		return nil, f.View(), err
	}

	log.Printf("[Workflow] Check outcome for event %s: %s", eventID, outcome.Kind)
	if outcome.Kind == workflow.OutcomeInterestRecorded {
		s.announceInterest(f.Event(), outcome.Member)
	}
	return outcome, f.View(), nil
}

func (s *interestWorkflowService) ChooseNewRegistration(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	err = f.ChooseNewRegistration()
	return f.View(), err
}

func (s *interestWorkflowService) ApplyForMembership(ctx context.Context, clientID, eventID string) (string, workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return "", workflow.View{}, err
	}
	url, err := f.ApplyForMembership()
	return url, f.View(), err
}

func (s *interestWorkflowService) SetRegistrationForm(ctx context.Context, clientID, eventID string, form workflow.RegistrationForm) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	err = f.SetRegistrationForm(form)
	return f.View(), err
}

func (s *interestWorkflowService) SubmitRegistration(ctx context.Context, clientID, eventID string, form *workflow.RegistrationForm) (*workflow.Outcome, workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return nil, workflow.View{}, err
	}
	if form != nil {
		if err := f.SetRegistrationForm(*form); err != nil {
			return nil, f.View(), err
		}
	}

	outcome, err := f.SubmitRegistration(ctx)
	if err != nil {
		log.Printf("[Workflow] Registration failed for event %s: %v", eventID, err)
		return nil, f.View(), err
	}

	log.Printf("[Workflow] ✅ Registration %s created for event %s", outcome.Registration.ID, eventID)
	s.announceRegistration(f.Event(), outcome.Registration)
	return outcome, f.View(), nil
}

func (s *interestWorkflowService) Back(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	err = f.Back()
	return f.View(), err
}

func (s *interestWorkflowService) Close(ctx context.Context, clientID, eventID string) (workflow.View, error) {
	f, err := s.flow(ctx, clientID, eventID)
	if err != nil {
		return workflow.View{}, err
	}
	f.Close()
	return f.View(), nil
}

func (s *interestWorkflowService) ResetClient(clientID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, sess := range s.sessions {
		if key.clientID == clientID {
			sess.flow.Close()
			delete(s.sessions, key)
			dropped++
		}
	}
	return dropped
}

func (s *interestWorkflowService) PruneIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for key, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) && !sess.flow.View().Busy {
			delete(s.sessions, key)
			pruned++
		}
	}
	return pruned
}

func (s *interestWorkflowService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ============ Notifications ============

func (s *interestWorkflowService) announceInterest(event workflow.Event, member *workflow.Member) {
	if s.broadcaster == nil || member == nil {
		return
	}
	s.broadcaster.BroadcastInterestRecorded(event.ID, map[string]interface{}{
		"eventId":    event.ID,
		"eventTitle": event.Title,
		"memberId":   member.ID,
		"memberName": member.Name,
	})
}

func (s *interestWorkflowService) announceRegistration(event workflow.Event, reg *workflow.Registration) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastRegistrationCreated(event.ID, map[string]interface{}{
			"id":                 reg.ID,
			"eventId":            event.ID,
			"eventTitle":         event.Title,
			"name":               reg.Name,
			"course":             reg.Course,
			"registrationNumber": reg.RegistrationNumber,
		})
	}

	if s.mailer != nil && s.cfg.AdminEmail != "" {
		s.mailer.Enqueue(
			[]string{s.cfg.AdminEmail},
			fmt.Sprintf("[EKUSA] New registration for %s", event.Title),
			email.TemplateRegistrationNotice,
			email.RegistrationNoticeData{
				EventTitle:         event.Title,
				Name:               reg.Name,
				Course:             reg.Course,
				RegistrationNumber: reg.RegistrationNumber,
				PhoneNumber:        reg.PhoneNumber,
				DashboardURL:       s.cfg.FrontendURL + "/admin",
			},
		)
	}
}
