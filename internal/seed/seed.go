// internal/seed/seed.go
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ekusa/ekusa-backend/internal/repository"
	"github.com/ekusa/ekusa-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the dashboard account if it does not exist yet. An
// existing account keeps its password.
func EnsureAdmin(ctx context.Context, repos *repository.Repositories, email, password string) (*repository.Admin, error) {
	existing, err := repos.AdminRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &repository.Admin{
		Email:    email,
		Password: string(hash),
		Name:     "EKUSA Admin",
	}
	if err := repos.AdminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("[Seed] ✅ Admin account %s created", email)
	return admin, nil
}

// SeedData fills an empty database with a few events and articles for
// development.
func SeedData(ctx context.Context, repos *repository.Repositories) {
	count, err := repos.EventRepo.Count(ctx)
	if err != nil {
		log.Printf("[Seed] Failed to count events: %v", err)
		return
	}
	if count > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating sample events and news...")

	today := time.Now().UTC().Truncate(24 * time.Hour)

	// ============================================
	// EVENTS (two upcoming, one past)
	// ============================================
	events := []*repository.Event{
		{
			Title:       "Freshers' Welcome Night",
			Description: "Meet the committee and fellow students over food and music.",
			EventDate:   today.AddDate(0, 0, 10),
			EventTime:   "6:00 PM",
			Location:    "Student Centre Hall",
			EventType:   types.EventSocial,
			Highlight:   stringPtr("Free dinner for members"),
		},
		{
			Title:       "CV & Career Workshop",
			Description: "Hands-on session on CVs, cover letters and interviews.",
			EventDate:   today.AddDate(0, 0, 21),
			EventTime:   "2:00 PM",
			Location:    "Lecture Theatre 3",
			EventType:   types.EventWorkshop,
		},
		{
			Title:       "Children's Home Visit",
			Description: "Annual charity visit with donations collected during the semester.",
			EventDate:   today.AddDate(0, -1, 0),
			EventTime:   "9:00 AM",
			Location:    "Nairobi",
			EventType:   types.EventCharity,
		},
	}
	for _, e := range events {
		if err := repos.EventRepo.Create(ctx, e); err != nil {
			log.Printf("[Seed] Failed to create event %q: %v", e.Title, err)
		}
	}

	// ============================================
	// NEWS
	// ============================================
	articles := []*repository.NewsArticle{
		{
			Title:       "New Committee Elected",
			Excerpt:     "Results of this year's elections are in.",
			Content:     "Members voted in a new committee for the coming academic year. Thank you to everyone who took part.",
			Author:      "EKUSA Secretariat",
			Category:    "Announcements",
			Featured:    true,
			PublishedAt: today.AddDate(0, 0, -3),
		},
		{
			Title:       "Membership Drive Opens",
			Excerpt:     "Join EKUSA and get first access to events.",
			Content:     "Applications are open to all students. Sign up on the website to register.",
			Author:      "EKUSA Secretariat",
			Category:    "General",
			PublishedAt: today.AddDate(0, 0, -7),
		},
	}
	for _, n := range articles {
		if err := repos.NewsRepo.Create(ctx, n); err != nil {
			log.Printf("[Seed] Failed to create article %q: %v", n.Title, err)
		}
	}

	log.Printf("✅ Seeded %d events and %d articles", len(events), len(articles))
}

func stringPtr(s string) *string {
	return &s
}
