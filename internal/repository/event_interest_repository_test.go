package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addInterestQuery = regexp.QuoteMeta(`INSERT INTO event_interests (member_id, event_id)`) + `\s+` +
	regexp.QuoteMeta(`VALUES ($1, $2)`) + `\s+` +
	regexp.QuoteMeta(`ON CONFLICT (member_id, event_id) DO NOTHING`) + `\s+` +
	regexp.QuoteMeta(`RETURNING id, created_at`)

func TestEventInterestRepository_AddIfAbsentInserts(t *testing.T) {
	mock := newMockPool(t)
	repo := &pgEventInterestRepository{pool: mock}
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(addInterestQuery).
		WithArgs("M1", "E1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("I1", created))

	interest := &EventInterest{MemberID: "M1", EventID: "E1"}
	inserted, err := repo.AddIfAbsent(context.Background(), interest)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "I1", interest.ID)
	assert.Equal(t, created, interest.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventInterestRepository_AddIfAbsentDuplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := &pgEventInterestRepository{pool: mock}

	mock.ExpectQuery(addInterestQuery).
		WithArgs("M1", "E1").
		WillReturnError(pgx.ErrNoRows)

	interest := &EventInterest{MemberID: "M1", EventID: "E1"}
	inserted, err := repo.AddIfAbsent(context.Background(), interest)
	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.Empty(t, interest.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventInterestRepository_AddIfAbsentError(t *testing.T) {
	mock := newMockPool(t)
	repo := &pgEventInterestRepository{pool: mock}

	mock.ExpectQuery(addInterestQuery).
		WithArgs("M1", "E1").
		WillReturnError(errors.New("connection reset"))

	inserted, err := repo.AddIfAbsent(context.Background(), &EventInterest{MemberID: "M1", EventID: "E1"})
	assert.EqualError(t, err, "connection reset")
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
