package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Admin struct {
	ID          string
	Email       string
	Password    string
	Name        string
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	AdminID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type AdminRepository interface {
	Create(ctx context.Context, admin *Admin) error
	FindByID(ctx context.Context, id string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	UpdateLastLogin(ctx context.Context, id string) error
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}

type pgAdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &pgAdminRepository{pool: pool}
}

func (r *pgAdminRepository) Create(ctx context.Context, admin *Admin) error {
	query := `
		INSERT INTO admins (email, password, name)
		VALUES (LOWER($1), $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = admins.updated_at
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, admin.Email, admin.Password, admin.Name).
		Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *pgAdminRepository) FindByID(ctx context.Context, id string) (*Admin, error) {
	query := `
		SELECT id, email, password, name, last_login_at, created_at, updated_at
		FROM admins WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *pgAdminRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	query := `
		SELECT id, email, password, name, last_login_at, created_at, updated_at
		FROM admins WHERE email = LOWER($1)
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *pgAdminRepository) scanOne(row pgx.Row) (*Admin, error) {
	a := &Admin{}
	err := row.Scan(&a.ID, &a.Email, &a.Password, &a.Name, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *pgAdminRepository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `UPDATE admins SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *pgAdminRepository) SaveRefreshToken(ctx context.Context, token *RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, admin_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query, token.Token, token.AdminID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
}

func (r *pgAdminRepository) FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	query := `SELECT id, token, admin_id, expires_at, created_at FROM refresh_tokens WHERE token = $1`
	rt := &RefreshToken{}
	err := r.pool.QueryRow(ctx, query, token).Scan(&rt.ID, &rt.Token, &rt.AdminID, &rt.ExpiresAt, &rt.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *pgAdminRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}

func (r *pgAdminRepository) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
