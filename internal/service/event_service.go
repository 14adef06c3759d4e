package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/types"
)

const (
	cacheKeyUpcomingEvents = "events:upcoming"
	cacheKeyPastEvents     = "events:past"
	eventListTTL           = 5 * time.Minute
)

type EventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	EventTime   string
	Location    string
	EventType   string
	ImageURL    string
	Highlight   string
}

type EventService interface {
	ListUpcoming(ctx context.Context) ([]*repository.Event, error)
	ListPast(ctx context.Context) ([]*repository.Event, error)
	ListAll(ctx context.Context) ([]*repository.Event, error)
	Get(ctx context.Context, id string) (*repository.Event, error)
	Create(ctx context.Context, input EventInput) (*repository.Event, error)
	Update(ctx context.Context, id string, input EventInput) (*repository.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	eventRepo repository.EventRepository
	cache     Cache
}

// NewEventService creates the event service; cache may be nil.
func NewEventService(eventRepo repository.EventRepository, cache Cache) EventService {
	return &eventService{eventRepo: eventRepo, cache: cache}
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]*repository.Event, error) {
	return s.cachedList(ctx, cacheKeyUpcomingEvents, s.eventRepo.FindUpcoming)
}

func (s *eventService) ListPast(ctx context.Context) ([]*repository.Event, error) {
	return s.cachedList(ctx, cacheKeyPastEvents, s.eventRepo.FindPast)
}

func (s *eventService) cachedList(
	ctx context.Context,
	key string,
	load func(context.Context) ([]*repository.Event, error),
) ([]*repository.Event, error) {
	if s.cache != nil {
		var events []*repository.Event
		if err := s.cache.GetCache(ctx, key, &events); err == nil {
			return events, nil
		}
	}

	events, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, key, events, eventListTTL); err != nil {
			log.Printf("[Events] Failed to cache %s: %v", key, err)
		}
	}
	return events, nil
}

func (s *eventService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, "events:*"); err != nil {
		log.Printf("[Events] Failed to invalidate cache: %v", err)
	}
}

func (s *eventService) ListAll(ctx context.Context) ([]*repository.Event, error) {
	return s.eventRepo.FindAll(ctx)
}

func (s *eventService) Get(ctx context.Context, id string) (*repository.Event, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	e, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

func applyEventInput(e *repository.Event, input EventInput) error {
	e.Title = strings.TrimSpace(input.Title)
	e.Description = strings.TrimSpace(input.Description)
	e.EventDate = input.EventDate
	e.EventTime = strings.TrimSpace(input.EventTime)
	e.Location = strings.TrimSpace(input.Location)
	e.EventType = input.EventType
	e.ImageURL = optional(input.ImageURL)
	e.Highlight = optional(input.Highlight)

	if e.EventType == "" {
		e.EventType = types.EventOther
	}
	if e.Title == "" || e.EventDate.IsZero() || !types.IsValidEventType(e.EventType) {
		return ErrInvalidInput
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, input EventInput) (*repository.Event, error) {
	e := &repository.Event{}
	if err := applyEventInput(e, input); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return e, nil
}

func (s *eventService) Update(ctx context.Context, id string, input EventInput) (*repository.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyEventInput(e, input); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
