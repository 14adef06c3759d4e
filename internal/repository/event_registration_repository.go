package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type EventRegistration struct {
	ID                 string    `db:"id"`
	EventID            string    `db:"event_id"`
	Name               string    `db:"name"`
	Course             string    `db:"course"`
	RegistrationNumber string    `db:"registration_number"`
	PhoneNumber        string    `db:"phone_number"`
	CreatedAt          time.Time `db:"created_at"`
}

type EventRegistrationRepository interface {
	Create(ctx context.Context, reg *EventRegistration) error
	FindByID(ctx context.Context, id string) (*EventRegistration, error)
	FindAll(ctx context.Context) ([]*EventRegistration, error)
	FindByEvent(ctx context.Context, eventID string) ([]*EventRegistration, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type sqlEventRegistrationRepository struct {
	db *sqlx.DB
}

func NewEventRegistrationRepository(db *sqlx.DB) EventRegistrationRepository {
	return &sqlEventRegistrationRepository{db: db}
}

const registrationColumns = `id, event_id, name, course, registration_number, phone_number, created_at`

func (r *sqlEventRegistrationRepository) Create(ctx context.Context, reg *EventRegistration) error {
	query := `
		INSERT INTO event_registrations (event_id, name, course, registration_number, phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		reg.EventID, reg.Name, reg.Course, reg.RegistrationNumber, reg.PhoneNumber,
	).Scan(&reg.ID, &reg.CreatedAt)
}

func (r *sqlEventRegistrationRepository) FindByID(ctx context.Context, id string) (*EventRegistration, error) {
	reg := &EventRegistration{}
	err := r.db.GetContext(ctx, reg, `SELECT `+registrationColumns+` FROM event_registrations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *sqlEventRegistrationRepository) FindAll(ctx context.Context) ([]*EventRegistration, error) {
	var regs []*EventRegistration
	err := r.db.SelectContext(ctx, &regs, `SELECT `+registrationColumns+` FROM event_registrations ORDER BY created_at DESC`)
	return regs, err
}

func (r *sqlEventRegistrationRepository) FindByEvent(ctx context.Context, eventID string) ([]*EventRegistration, error) {
	var regs []*EventRegistration
	err := r.db.SelectContext(ctx, &regs,
		`SELECT `+registrationColumns+` FROM event_registrations WHERE event_id = $1 ORDER BY created_at DESC`, eventID)
	return regs, err
}

func (r *sqlEventRegistrationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM event_registrations WHERE id = $1`, id)
	return err
}

func (r *sqlEventRegistrationRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM event_registrations`)
	return count, err
}

func (r *sqlEventRegistrationRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM event_registrations WHERE created_at >= $1`, since)
	return count, err
}
