package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ekusa/ekusa-backend/internal/config"
	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/types"
)

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type ContactService interface {
	Submit(ctx context.Context, input ContactInput) (*repository.Contact, error)
	// List returns every message when status is empty.
	List(ctx context.Context, status string) ([]*repository.Contact, error)
	UpdateStatus(ctx context.Context, id, status string) (*repository.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	cfg         *config.Config
	contactRepo repository.ContactRepository
	broadcaster Broadcaster
	mailer      Mailer
}

func NewContactService(cfg *config.Config, contactRepo repository.ContactRepository, broadcaster Broadcaster, mailer Mailer) ContactService {
	return &contactService{
		cfg:         cfg,
		contactRepo: contactRepo,
		broadcaster: broadcaster,
		mailer:      mailer,
	}
}

func (s *contactService) Submit(ctx context.Context, input ContactInput) (*repository.Contact, error) {
	c := &repository.Contact{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  types.ContactNew,
	}
	if c.Name == "" || c.Email == "" || c.Message == "" {
		return nil, ErrInvalidInput
	}

	if err := s.contactRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	log.Printf("[Contact] 📨 Message %s from %s", c.ID, c.Email)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastContactReceived(map[string]interface{}{
			"id":      c.ID,
			"name":    c.Name,
			"subject": c.Subject,
		})
	}

	if s.mailer != nil && s.cfg.AdminEmail != "" {
		s.mailer.Enqueue(
			[]string{s.cfg.AdminEmail},
			fmt.Sprintf("[EKUSA] Contact message from %s", c.Name),
			email.TemplateContactNotice,
			email.ContactNoticeData{
				Name:         c.Name,
				Email:        c.Email,
				Subject:      c.Subject,
				Message:      c.Message,
				DashboardURL: s.cfg.FrontendURL + "/admin",
			},
		)
	}

	return c, nil
}

func (s *contactService) List(ctx context.Context, status string) ([]*repository.Contact, error) {
	if status == "" {
		return s.contactRepo.FindAll(ctx, nil)
	}
	if !types.IsValidContactStatus(status) {
		return nil, ErrInvalidInput
	}
	return s.contactRepo.FindAll(ctx, &status)
}

func (s *contactService) get(ctx context.Context, id string) (*repository.Contact, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	c, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, id, status string) (*repository.Contact, error) {
	if !types.IsValidContactStatus(status) {
		return nil, ErrInvalidInput
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, id)
}
