package service

import (
	"context"
	"errors"
	"time"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/identity"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
)

// Broadcaster pushes live activity to admin dashboards.
type Broadcaster interface {
	BroadcastMembershipCreated(member map[string]interface{})
	BroadcastInterestRecorded(eventID string, interest map[string]interface{})
	BroadcastRegistrationCreated(eventID string, registration map[string]interface{})
	BroadcastContactReceived(contact map[string]interface{})
}

// Mailer queues templated emails.
type Mailer interface {
	Enqueue(to []string, subject, templateName string, data interface{})
}

// Cache stores JSON values; GetCache returns an error on a miss.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	InvalidateCache(ctx context.Context, pattern string) error
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	Interest   InterestWorkflowService
	Membership MembershipService
	Event      EventService
	News       NewsService
	Contact    ContactService
	Dashboard  DashboardService
}

// ServiceDeps contains all dependencies needed to create services. Cache,
// Mailer and Broadcaster may be nil.
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Identities  identity.Store
	Cache       Cache
	Mailer      Mailer
	Broadcaster Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	r := deps.Repos

	return &Services{
		Auth: NewAuthService(deps.Config, r.AdminRepo),
		Interest: NewInterestWorkflowService(
			deps.Config,
			r.EventRepo,
			r.MembershipRepo,
			r.EventInterestRepo,
			r.EventRegistrationRepo,
			deps.Identities,
			deps.Broadcaster,
			deps.Mailer,
		),
		Membership: NewMembershipService(
			deps.Config,
			r.MembershipRepo,
			r.EventInterestRepo,
			r.EventRegistrationRepo,
			deps.Identities,
			deps.Broadcaster,
			deps.Mailer,
		),
		Event:   NewEventService(r.EventRepo, deps.Cache),
		News:    NewNewsService(r.NewsRepo),
		Contact: NewContactService(deps.Config, r.ContactRepo, deps.Broadcaster, deps.Mailer),
		Dashboard: NewDashboardService(
			deps.Config,
			r.MembershipRepo,
			r.EventInterestRepo,
			r.EventRegistrationRepo,
			r.EventRepo,
			r.ContactRepo,
			deps.Mailer,
		),
	}
}

// validID filters out ids postgres would reject as malformed uuids.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
