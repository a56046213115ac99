package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

func newListingDocMock(t *testing.T) (*ListingDocRequestRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewListingDocRequestRepo(db), mock
}

func TestCreateIfNoneOpenConflict(t *testing.T) {
	repo, mock := newListingDocMock(t)

	// Pending OR approved submissions block further uploads for the
	// listing.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO listing_doc_requests").
		WithArgs(uint64(5), uint64(20), model.SubmissionPending,
			uint64(20), model.SubmissionPending, model.SubmissionApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CreateIfNoneOpen(context.Background(), 5, 20, sampleDocs())
	assert.ErrorIs(t, err, ErrDuplicatePending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingDocReviewRejectsIllegalTransition(t *testing.T) {
	repo, mock := newListingDocMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT listing_id, status FROM listing_doc_requests").
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id", "status"}).
			AddRow(uint64(20), model.SubmissionApproved))
	mock.ExpectRollback()

	_, err := repo.Review(context.Background(), 8, 1, model.SubmissionApproved, "")
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingDocReviewReopenAfterRejection(t *testing.T) {
	repo, mock := newListingDocMock(t)

	// rejected -> pending is the one legal re-open; no listing side
	// effect fires because the new status is not approved.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT listing_id, status FROM listing_doc_requests").
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id", "status"}).
			AddRow(uint64(20), model.SubmissionRejected))
	mock.ExpectExec("UPDATE listing_doc_requests SET status").
		WithArgs(model.SubmissionPending, "second look", sqlmock.AnyArg(), uint64(1), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Reload after commit.
	mock.ExpectQuery("SELECT r.id, r.status").
		WithArgs(uint64(8)).
		WillReturnError(assert.AnError)

	_, err := repo.Review(context.Background(), 8, 1, model.SubmissionPending, "second look")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
