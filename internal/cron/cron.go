package cron

import (
	"context"
	"log"
	"time"

	"github.com/ekusa/ekusa-backend/internal/email"
	"github.com/robfig/cron/v3"
)

type SessionPruner interface {
	PruneIdle(maxIdle time.Duration) int
	ActiveSessions() int
}

type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type DigestSender interface {
	SendDigest(ctx context.Context, since time.Time) (*email.DigestData, error)
}

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	sessions SessionPruner
	tokens   TokenPurger
	digest   DigestSender
	maxIdle  time.Duration
	now      func() time.Time
}

// NewScheduler creates a new scheduler. Any job whose dependency is nil is
// not scheduled.
func NewScheduler(sessions SessionPruner, tokens TokenPurger, digest DigestSender, maxIdle time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		sessions: sessions,
		tokens:   tokens,
		digest:   digest,
		maxIdle:  maxIdle,
		now:      time.Now,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Every 5 minutes - Drop abandoned interest dialogs
	if s.sessions != nil {
		s.addFunc("*/5 * * * *", s.pruneIdleSessions)
	}

	// Every hour - Remove expired refresh tokens
	if s.tokens != nil {
		s.addFunc("0 * * * *", s.purgeExpiredTokens)
	}

	// Every day at 7 AM - Activity digest to the admin
	if s.digest != nil {
		s.addFunc("0 7 * * *", s.sendDailyDigest)
	}

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

func (s *Scheduler) addFunc(spec string, job func()) {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		log.Printf("[Cron] Failed to schedule %q: %v", spec, err)
	}
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) pruneIdleSessions() {
	removed := s.sessions.PruneIdle(s.maxIdle)
	if removed > 0 {
		log.Printf("[Cron] Pruned %d idle interest dialogs (%d still active)", removed, s.sessions.ActiveSessions())
	}
}

func (s *Scheduler) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.tokens.PurgeExpiredTokens(ctx)
	if err != nil {
		log.Printf("[Cron] Error purging expired refresh tokens: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Cron] Purged %d expired refresh tokens", n)
	}
}

func (s *Scheduler) sendDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("[Cron] Sending daily digest...")
	digest, err := s.digest.SendDigest(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("[Cron] Error sending daily digest: %v", err)
		return
	}
	log.Printf("[Cron] Digest queued: %d members, %d interests, %d registrations",
		digest.NewMembers, digest.NewInterests, digest.NewRegistrations)
}
