package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

func newRentalMock(t *testing.T) (*RentalRequestRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRentalRequestRepo(db), mock
}

func TestRentalCreateIfNonePending(t *testing.T) {
	repo, mock := newRentalMock(t)

	mock.ExpectExec("INSERT INTO rental_requests").
		WithArgs(uint64(4), uint64(20), "is it still free?", nil, model.RentalPending,
			uint64(4), uint64(20), model.RentalPending).
		WillReturnResult(sqlmock.NewResult(31, 1))
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT created_at, updated_at FROM rental_requests").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	req, err := repo.CreateIfNonePending(context.Background(), 4, 20, "is it still free?", nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(31), req.ID)
	assert.Equal(t, model.RentalPending, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentalCreateDuplicatePending(t *testing.T) {
	repo, mock := newRentalMock(t)

	mock.ExpectExec("INSERT INTO rental_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.CreateIfNonePending(context.Background(), 4, 20, "", nil)
	assert.ErrorIs(t, err, ErrDuplicatePending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRefusesNonOwner(t *testing.T) {
	repo, mock := newRentalMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.status, l.owner_id FROM rental_requests").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "owner_id"}).
			AddRow(model.RentalPending, uint64(99)))
	mock.ExpectRollback()

	_, err := repo.Reply(context.Background(), 31, 5, model.RentalAccepted, "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRefusesAnsweredRequest(t *testing.T) {
	repo, mock := newRentalMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT r.status, l.owner_id FROM rental_requests").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "owner_id"}).
			AddRow(model.RentalRejected, uint64(5)))
	mock.ExpectRollback()

	_, err := repo.Reply(context.Background(), 31, 5, model.RentalAccepted, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRefusesOtherTenant(t *testing.T) {
	repo, mock := newRentalMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, tenant_id FROM rental_requests").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "tenant_id"}).
			AddRow(model.RentalPending, uint64(4)))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 31, 8)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRefusesDecidedRequest(t *testing.T) {
	repo, mock := newRentalMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, tenant_id FROM rental_requests").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "tenant_id"}).
			AddRow(model.RentalAccepted, uint64(4)))
	mock.ExpectRollback()

	_, err := repo.Cancel(context.Background(), 31, 4)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
