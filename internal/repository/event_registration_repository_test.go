package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRegistrationRepo(t *testing.T) (EventRegistrationRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewEventRegistrationRepository(sqlx.NewDb(mockDB, "sqlmock")), mock
}

var registrationRowColumns = []string{
	"id", "event_id", "name", "course", "registration_number", "phone_number", "created_at",
}

func TestEventRegistrationRepository_Create(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO event_registrations`)).
		WithArgs("E1", "Jane Doe", "CS", "R123", "0700000000").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("reg-1", created))

	reg := &EventRegistration{
		EventID:            "E1",
		Name:               "Jane Doe",
		Course:             "CS",
		RegistrationNumber: "R123",
		PhoneNumber:        "0700000000",
	}
	require.NoError(t, repo.Create(context.Background(), reg))
	assert.Equal(t, "reg-1", reg.ID)
	assert.Equal(t, created, reg.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRegistrationRepository_CreateError(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO event_registrations`)).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &EventRegistration{EventID: "E1"})
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRegistrationRepository_FindByID(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM event_registrations WHERE id = $1`)).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows(registrationRowColumns).
			AddRow("reg-1", "E1", "Jane Doe", "CS", "R123", "0700000000", now))

	reg, err := repo.FindByID(context.Background(), "reg-1")
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, "Jane Doe", reg.Name)
	assert.Equal(t, "E1", reg.EventID)
}

func TestEventRegistrationRepository_FindByIDMissing(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM event_registrations WHERE id = $1`)).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(registrationRowColumns))

	reg, err := repo.FindByID(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, reg)
}

func TestEventRegistrationRepository_FindByEvent(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE event_id = $1 ORDER BY created_at DESC`)).
		WithArgs("E1").
		WillReturnRows(sqlmock.NewRows(registrationRowColumns).
			AddRow("reg-2", "E1", "John Roe", "Law", "R456", "0711111111", now).
			AddRow("reg-1", "E1", "Jane Doe", "CS", "R123", "0700000000", now.Add(-time.Hour)))

	regs, err := repo.FindByEvent(context.Background(), "E1")
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, "reg-2", regs[0].ID)
	assert.Equal(t, "R123", regs[1].RegistrationNumber)
}

func TestEventRegistrationRepository_Counts(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)
	since := time.Now().Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM event_registrations`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM event_registrations WHERE created_at >= $1`)).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	recent, err := repo.CountSince(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, 2, recent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRegistrationRepository_Delete(t *testing.T) {
	repo, mock := newMockRegistrationRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM event_registrations WHERE id = $1`)).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "reg-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
