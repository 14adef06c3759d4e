package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventInterest is a member's one-click interest in an event, joined with the
// event and member details used by the admin listing.
type EventInterest struct {
	ID          string
	MemberID    string
	EventID     string
	CreatedAt   time.Time
	EventTitle  string
	EventDate   time.Time
	MemberName  string
	MemberEmail string
}

type EventInterestRepository interface {
	Exists(ctx context.Context, memberID, eventID string) (bool, error)
	// AddIfAbsent relies on UNIQUE (member_id, event_id) and reports whether a
	// row was inserted.
	AddIfAbsent(ctx context.Context, interest *EventInterest) (bool, error)
	FindAll(ctx context.Context) ([]*EventInterest, error)
	FindByEvent(ctx context.Context, eventID string) ([]*EventInterest, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type pgEventInterestRepository struct {
	pool pgxQuerier
}

func NewEventInterestRepository(pool *pgxpool.Pool) EventInterestRepository {
	return &pgEventInterestRepository{pool: pool}
}

func (r *pgEventInterestRepository) Exists(ctx context.Context, memberID, eventID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM event_interests WHERE member_id = $1 AND event_id = $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, memberID, eventID).Scan(&exists)
	return exists, err
}

func (r *pgEventInterestRepository) AddIfAbsent(ctx context.Context, interest *EventInterest) (bool, error) {
	query := `
		INSERT INTO event_interests (member_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (member_id, event_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, interest.MemberID, interest.EventID).
		Scan(&interest.ID, &interest.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const interestSelect = `
	SELECT ei.id, ei.member_id, ei.event_id, ei.created_at,
	       e.title, e.event_date, m.name, m.email
	FROM event_interests ei
	JOIN events e ON e.id = ei.event_id
	JOIN membership_registrations m ON m.id = ei.member_id
`

func (r *pgEventInterestRepository) FindAll(ctx context.Context) ([]*EventInterest, error) {
	return r.queryMany(ctx, interestSelect+` ORDER BY ei.created_at DESC`)
}

func (r *pgEventInterestRepository) FindByEvent(ctx context.Context, eventID string) ([]*EventInterest, error) {
	return r.queryMany(ctx, interestSelect+` WHERE ei.event_id = $1 ORDER BY ei.created_at DESC`, eventID)
}

func (r *pgEventInterestRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*EventInterest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interests []*EventInterest
	for rows.Next() {
		ei := &EventInterest{}
		if err := rows.Scan(
			&ei.ID, &ei.MemberID, &ei.EventID, &ei.CreatedAt,
			&ei.EventTitle, &ei.EventDate, &ei.MemberName, &ei.MemberEmail,
		); err != nil {
			return nil, err
		}
		interests = append(interests, ei)
	}
	return interests, rows.Err()
}

func (r *pgEventInterestRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM event_interests WHERE id = $1`, id)
	return err
}

func (r *pgEventInterestRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_interests`).Scan(&count)
	return count, err
}

func (r *pgEventInterestRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM event_interests WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}
