package service

import (
	"context"
	"strings"
	"time"

	"github.com/ekusa/ekusa-backend/internal/repository"
)

type NewsInput struct {
	Title       string
	Excerpt     string
	Content     string
	Author      string
	Category    string
	ImageURL    string
	Featured    bool
	PublishedAt *time.Time
}

type NewsService interface {
	List(ctx context.Context) ([]*repository.NewsArticle, error)
	Get(ctx context.Context, id string) (*repository.NewsArticle, error)
	Create(ctx context.Context, input NewsInput) (*repository.NewsArticle, error)
	Update(ctx context.Context, id string, input NewsInput) (*repository.NewsArticle, error)
	Delete(ctx context.Context, id string) error
}

type newsService struct {
	newsRepo repository.NewsRepository
}

func NewNewsService(newsRepo repository.NewsRepository) NewsService {
	return &newsService{newsRepo: newsRepo}
}

func (s *newsService) List(ctx context.Context) ([]*repository.NewsArticle, error) {
	return s.newsRepo.FindAll(ctx)
}

func (s *newsService) Get(ctx context.Context, id string) (*repository.NewsArticle, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	n, err := s.newsRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNotFound
	}
	return n, nil
}

func applyNewsInput(n *repository.NewsArticle, input NewsInput) error {
	n.Title = strings.TrimSpace(input.Title)
	n.Excerpt = strings.TrimSpace(input.Excerpt)
	n.Content = strings.TrimSpace(input.Content)
	n.Author = strings.TrimSpace(input.Author)
	n.Category = strings.TrimSpace(input.Category)
	n.ImageURL = optional(input.ImageURL)
	n.Featured = input.Featured
	if input.PublishedAt != nil {
		n.PublishedAt = *input.PublishedAt
	}

	if n.Category == "" {
		n.Category = "General"
	}
	if n.Title == "" || n.Content == "" {
		return ErrInvalidInput
	}
	return nil
}

func (s *newsService) Create(ctx context.Context, input NewsInput) (*repository.NewsArticle, error) {
	n := &repository.NewsArticle{}
	if err := applyNewsInput(n, input); err != nil {
		return nil, err
	}
	if err := s.newsRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *newsService) Update(ctx context.Context, id string, input NewsInput) (*repository.NewsArticle, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyNewsInput(n, input); err != nil {
		return nil, err
	}
	if err := s.newsRepo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *newsService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.newsRepo.Delete(ctx, id)
}
