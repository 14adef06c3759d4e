package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// pgxQuerier is the subset of *pgxpool.Pool used by the membership and
// interest repositories.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Repositories struct {
	// pgxpool repositories
	AdminRepo         AdminRepository
	MembershipRepo    MembershipRepository
	EventInterestRepo EventInterestRepository
	EventRepo         EventRepository
	NewsRepo          NewsRepository
	ContactRepo       ContactRepository

	// sqlx
	EventRegistrationRepo EventRegistrationRepository
}

func NewRepositories(pool *pgxpool.Pool, db *sqlx.DB) *Repositories {
	return &Repositories{
		AdminRepo:         NewAdminRepository(pool),
		MembershipRepo:    NewMembershipRepository(pool),
		EventInterestRepo: NewEventInterestRepository(pool),
		EventRepo:         NewEventRepository(pool),
		NewsRepo:          NewNewsRepository(pool),
		ContactRepo:       NewContactRepository(pool),

		EventRegistrationRepo: NewEventRegistrationRepository(db),
	}
}
