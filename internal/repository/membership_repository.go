package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Membership is a row of membership_registrations.
type Membership struct {
	ID                 string
	Name               string
	Email              string
	Course             string
	RegistrationNumber string
	PhoneNumber        string
	YearOfStudy        *string
	ReasonForJoining   *string
	CreatedAt          time.Time
}

type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	FindByID(ctx context.Context, id string) (*Membership, error)
	// FindByEmailOrRegistrationNumber matches on either field and returns the
	// oldest matching application.
	FindByEmailOrRegistrationNumber(ctx context.Context, email, registrationNumber string) (*Membership, error)
	FindAll(ctx context.Context) ([]*Membership, error)
	Search(ctx context.Context, query string) ([]*Membership, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}

type pgMembershipRepository struct {
	pool pgxQuerier
}

func NewMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &pgMembershipRepository{pool: pool}
}

const membershipColumns = `id, name, email, course, registration_number, phone_number, year_of_study, reason_for_joining, created_at`

func scanMembership(row pgx.Row) (*Membership, error) {
	m := &Membership{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Course, &m.RegistrationNumber,
		&m.PhoneNumber, &m.YearOfStudy, &m.ReasonForJoining, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMembershipRepository) Create(ctx context.Context, m *Membership) error {
	query := `
		INSERT INTO membership_registrations
			(name, email, course, registration_number, phone_number, year_of_study, reason_for_joining)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		m.Name, m.Email, m.Course, m.RegistrationNumber, m.PhoneNumber, m.YearOfStudy, m.ReasonForJoining,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *pgMembershipRepository) FindByID(ctx context.Context, id string) (*Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM membership_registrations WHERE id = $1`
	m, err := scanMembership(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *pgMembershipRepository) FindByEmailOrRegistrationNumber(ctx context.Context, email, registrationNumber string) (*Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM membership_registrations
		WHERE LOWER(email) = LOWER($1) OR registration_number = $2
		ORDER BY created_at ASC
		LIMIT 1
	`
	m, err := scanMembership(r.pool.QueryRow(ctx, query, email, registrationNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (r *pgMembershipRepository) FindAll(ctx context.Context) ([]*Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM membership_registrations ORDER BY created_at DESC`
	return r.queryMany(ctx, query)
}

func (r *pgMembershipRepository) Search(ctx context.Context, q string) ([]*Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM membership_registrations
		WHERE name ILIKE '%' || $1 || '%'
		   OR email ILIKE '%' || $1 || '%'
		   OR course ILIKE '%' || $1 || '%'
		   OR registration_number ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, q)
}

func (r *pgMembershipRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*Membership, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgMembershipRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM membership_registrations WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgMembershipRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM membership_registrations`).Scan(&count)
	return count, err
}

func (r *pgMembershipRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM membership_registrations WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}
