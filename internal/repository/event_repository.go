package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID          string
	Title       string
	Description string
	EventDate   time.Time
	EventTime   string
	Location    string
	EventType   string
	ImageURL    *string
	Highlight   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	FindAll(ctx context.Context) ([]*Event, error)
	// FindUpcoming returns events dated today or later, soonest first.
	FindUpcoming(ctx context.Context) ([]*Event, error)
	// FindPast returns events dated before today, most recent first.
	FindPast(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type pgEventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &pgEventRepository{pool: pool}
}

const eventColumns = `id, title, description, event_date, event_time, location, event_type, image_url, highlight, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	e := &Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventTime, &e.Location,
		&e.EventType, &e.ImageURL, &e.Highlight, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *pgEventRepository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (title, description, event_date, event_time, location, event_type, image_url, highlight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		e.Title, e.Description, e.EventDate, e.EventTime, e.Location, e.EventType, e.ImageURL, e.Highlight,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *pgEventRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *pgEventRepository) FindAll(ctx context.Context) ([]*Event, error) {
	return r.queryMany(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date DESC`)
}

func (r *pgEventRepository) FindUpcoming(ctx context.Context) ([]*Event, error) {
	return r.queryMany(ctx, `SELECT `+eventColumns+` FROM events WHERE event_date >= CURRENT_DATE ORDER BY event_date ASC`)
}

func (r *pgEventRepository) FindPast(ctx context.Context) ([]*Event, error) {
	return r.queryMany(ctx, `SELECT `+eventColumns+` FROM events WHERE event_date < CURRENT_DATE ORDER BY event_date DESC`)
}

func (r *pgEventRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *pgEventRepository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, event_date = $4, event_time = $5,
		    location = $6, event_type = $7, image_url = $8, highlight = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		e.ID, e.Title, e.Description, e.EventDate, e.EventTime, e.Location, e.EventType, e.ImageURL, e.Highlight,
	).Scan(&e.UpdatedAt)
}

func (r *pgEventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func (r *pgEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}
