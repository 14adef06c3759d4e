package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/types"
)

// ============================================
// Membership Service
// ============================================

// MembershipInput is a membership application as submitted by a visitor.
type MembershipInput struct {
	Name               string
	Email              string
	Course             string
	RegistrationNumber string
	PhoneNumber        string
	YearOfStudy        string
	ReasonForJoining   string
}

type MembershipService interface {
	Apply(ctx context.Context, clientID string, input MembershipInput) (*repository.Membership, error)
	Current(ctx context.Context, clientID string) (*identity.Identity, error)
	Forget(ctx context.Context, clientID string) error

	List(ctx context.Context) ([]*repository.Membership, error)
	Search(ctx context.Context, query string) ([]*repository.Membership, error)
	Get(ctx context.Context, id string) (*repository.Membership, error)
	Delete(ctx context.Context, id string) error

	ListInterests(ctx context.Context, query, eventID string) ([]*repository.EventInterest, error)
	DeleteInterest(ctx context.Context, id string) error
	ListRegistrations(ctx context.Context, eventID string) ([]*repository.EventRegistration, error)
	DeleteRegistration(ctx context.Context, id string) error
}

type membershipService struct {
	cfg              *config.Config
	memberRepo       repository.MembershipRepository
	interestRepo     repository.EventInterestRepository
	registrationRepo repository.EventRegistrationRepository
	identities       identity.Store
	broadcaster      Broadcaster
	mailer           Mailer
}

func NewMembershipService(
	cfg *config.Config,
	memberRepo repository.MembershipRepository,
	interestRepo repository.EventInterestRepository,
	registrationRepo repository.EventRegistrationRepository,
	identities identity.Store,
	broadcaster Broadcaster,
	mailer Mailer,
) MembershipService {
	return &membershipService{
		cfg:              cfg,
		memberRepo:       memberRepo,
		interestRepo:     interestRepo,
		registrationRepo: registrationRepo,
		identities:       identities,
		broadcaster:      broadcaster,
		mailer:           mailer,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *membershipService) Apply(ctx context.Context, clientID string, input MembershipInput) (*repository.Membership, error) {
	m := &repository.Membership{
		Name:               strings.TrimSpace(input.Name),
		Email:              strings.TrimSpace(input.Email),
		Course:             strings.TrimSpace(input.Course),
		RegistrationNumber: strings.TrimSpace(input.RegistrationNumber),
		PhoneNumber:        strings.TrimSpace(input.PhoneNumber),
		YearOfStudy:        optional(input.YearOfStudy),
		ReasonForJoining:   optional(input.ReasonForJoining),
	}
	if m.Name == "" || m.Email == "" || m.Course == "" || m.RegistrationNumber == "" || m.PhoneNumber == "" {
		return nil, ErrInvalidInput
	}
	if m.YearOfStudy != nil && !types.IsValidYearOfStudy(*m.YearOfStudy) {
		return nil, ErrInvalidInput
	}

	if err := s.memberRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save membership application: %w", err)
	}
	log.Printf("[Membership] ✅ Application %s received from %s", m.ID, m.RegistrationNumber)

	if clientID != "" {
		cached := &identity.Identity{
			ID:                 m.ID,
			Name:               m.Name,
			Email:              m.Email,
			RegistrationNumber: m.RegistrationNumber,
			RegisteredAt:       m.CreatedAt,
		}
		if err := s.identities.For(clientID).Write(ctx, cached); err != nil {
			log.Printf("[Membership] Failed to cache identity for %s: %v", m.ID, err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMembershipCreated(map[string]interface{}{
			"id":                 m.ID,
			"name":               m.Name,
			"course":             m.Course,
			"registrationNumber": m.RegistrationNumber,
		})
	}

	if s.mailer != nil {
		welcome := &identity.Identity{Name: m.Name}
		s.mailer.Enqueue(
			[]string{m.Email},
			"Welcome to EKUSA",
			email.TemplateMembershipWelcome,
			email.MembershipWelcomeData{
				FirstName:          welcome.FirstName(),
				RegistrationNumber: m.RegistrationNumber,
				EventsURL:          s.cfg.FrontendURL + "/events",
			},
		)
	}

	return m, nil
}

func (s *membershipService) Current(ctx context.Context, clientID string) (*identity.Identity, error) {
	if clientID == "" {
		return nil, nil
	}
	return s.identities.For(clientID).Read(ctx)
}

func (s *membershipService) Forget(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil
	}
	return s.identities.For(clientID).Delete(ctx)
}

func (s *membershipService) List(ctx context.Context) ([]*repository.Membership, error) {
	return s.memberRepo.FindAll(ctx)
}

func (s *membershipService) Search(ctx context.Context, query string) ([]*repository.Membership, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.memberRepo.FindAll(ctx)
	}
	return s.memberRepo.Search(ctx, query)
}

func (s *membershipService) Get(ctx context.Context, id string) (*repository.Membership, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *membershipService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.memberRepo.Delete(ctx, id)
}

func (s *membershipService) ListInterests(ctx context.Context, query, eventID string) ([]*repository.EventInterest, error) {
	var (
		interests []*repository.EventInterest
		err       error
	)
	if eventID != "" {
		if !validID(eventID) {
			return nil, ErrInvalidInput
		}
		interests, err = s.interestRepo.FindByEvent(ctx, eventID)
	} else {
		interests, err = s.interestRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return interests, nil
	}

	filtered := make([]*repository.EventInterest, 0, len(interests))
	for _, ei := range interests {
		if strings.Contains(strings.ToLower(ei.MemberName), query) ||
			strings.Contains(strings.ToLower(ei.MemberEmail), query) ||
			strings.Contains(strings.ToLower(ei.EventTitle), query) {
			filtered = append(filtered, ei)
		}
	}
	return filtered, nil
}

func (s *membershipService) DeleteInterest(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return s.interestRepo.Delete(ctx, id)
}

func (s *membershipService) ListRegistrations(ctx context.Context, eventID string) ([]*repository.EventRegistration, error) {
	if eventID == "" {
		return s.registrationRepo.FindAll(ctx)
	}
	if !validID(eventID) {
		return nil, ErrInvalidInput
	}
	return s.registrationRepo.FindByEvent(ctx, eventID)
}

func (s *membershipService) DeleteRegistration(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	reg, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if reg == nil {
		return ErrNotFound
	}
	return s.registrationRepo.Delete(ctx, id)
}
