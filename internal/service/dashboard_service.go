package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/types"
)

type DashboardStats struct {
	Members        int `json:"members"`
	Interests      int `json:"interests"`
	Registrations  int `json:"registrations"`
	Events         int `json:"events"`
	UnreadContacts int `json:"unread_contacts"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	// SendDigest mails the activity since the given time to the admin address.
	SendDigest(ctx context.Context, since time.Time) (*email.DigestData, error)
}

type dashboardService struct {
	cfg              *config.Config
	memberRepo       repository.MembershipRepository
	interestRepo     repository.EventInterestRepository
	registrationRepo repository.EventRegistrationRepository
	eventRepo        repository.EventRepository
	contactRepo      repository.ContactRepository
	mailer           Mailer
}

func NewDashboardService(
	cfg *config.Config,
	memberRepo repository.MembershipRepository,
	interestRepo repository.EventInterestRepository,
	registrationRepo repository.EventRegistrationRepository,
	eventRepo repository.EventRepository,
	contactRepo repository.ContactRepository,
	mailer Mailer,
) DashboardService {
	return &dashboardService{
		cfg:              cfg,
		memberRepo:       memberRepo,
		interestRepo:     interestRepo,
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		contactRepo:      contactRepo,
		mailer:           mailer,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.Members, err = s.memberRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	if stats.Interests, err = s.interestRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count interests: %w", err)
	}
	if stats.Registrations, err = s.registrationRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if stats.Events, err = s.eventRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if stats.UnreadContacts, err = s.contactRepo.CountByStatus(ctx, types.ContactNew); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) SendDigest(ctx context.Context, since time.Time) (*email.DigestData, error) {
	digest := &email.DigestData{
		Date:         since.Format("2006-01-02"),
		DashboardURL: s.cfg.FrontendURL + "/admin",
	}
	var err error

	if digest.NewMembers, err = s.memberRepo.CountSince(ctx, since); err != nil {
		return nil, err
	}
	if digest.NewInterests, err = s.interestRepo.CountSince(ctx, since); err != nil {
		return nil, err
	}
	if digest.NewRegistrations, err = s.registrationRepo.CountSince(ctx, since); err != nil {
		return nil, err
	}
	if digest.UnreadContacts, err = s.contactRepo.CountByStatus(ctx, types.ContactNew); err != nil {
		return nil, err
	}

	if s.mailer != nil && s.cfg.AdminEmail != "" {
		s.mailer.Enqueue(
			[]string{s.cfg.AdminEmail},
			fmt.Sprintf("[EKUSA] Daily digest for %s", digest.Date),
			email.TemplateAdminDigest,
			*digest,
		)
	}
	return digest, nil
}
