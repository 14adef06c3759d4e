package service

import (
	"context"
	"strings"

	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/workflow"
)

// memberLookup answers workflow lookups from membership_registrations.
type memberLookup struct {
	repo repository.MembershipRepository
}

func (l memberLookup) FindMemberByID(ctx context.Context, id string) (*workflow.Member, error) {
	// A malformed cached id cannot match any row.
	if !validID(id) {
		return nil, nil
	}
	m, err := l.repo.FindByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return &workflow.Member{ID: m.ID, Name: m.Name}, nil
}

func (l memberLookup) FindMemberByEmailOrRegistrationNumber(ctx context.Context, email, registrationNumber string) (*workflow.Member, error) {
	m, err := l.repo.FindByEmailOrRegistrationNumber(ctx, strings.TrimSpace(email), strings.TrimSpace(registrationNumber))
	if err != nil || m == nil {
		return nil, err
	}
	return &workflow.Member{ID: m.ID, Name: m.Name}, nil
}

type interestStore struct {
	repo repository.EventInterestRepository
}

func (s interestStore) InterestExists(ctx context.Context, memberID, eventID string) (bool, error) {
	return s.repo.Exists(ctx, memberID, eventID)
}

func (s interestStore) AddInterest(ctx context.Context, memberID, eventID string) (bool, error) {
	return s.repo.AddIfAbsent(ctx, &repository.EventInterest{MemberID: memberID, EventID: eventID})
}

type registrationStore struct {
	repo repository.EventRegistrationRepository
}

func (s registrationStore) CreateRegistration(ctx context.Context, reg *workflow.Registration) error {
	row := &repository.EventRegistration{
		EventID:            reg.EventID,
		Name:               reg.Name,
		Course:             reg.Course,
		RegistrationNumber: reg.RegistrationNumber,
		PhoneNumber:        reg.PhoneNumber,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return err
	}
	reg.ID = row.ID
	reg.CreatedAt = row.CreatedAt
	return nil
}
