package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLikeMock(t *testing.T) (*LikeRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLikeRepo(db), mock
}

func TestToggleAddsWhenAbsent(t *testing.T) {
	repo, mock := newLikeMock(t)

	mock.ExpectExec("DELETE FROM listing_likes").
		WithArgs(uint64(4), uint64(20)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT IGNORE INTO listing_likes").
		WithArgs(uint64(4), uint64(20)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	liked, err := repo.Toggle(context.Background(), 4, 20)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleRemovesWhenPresent(t *testing.T) {
	repo, mock := newLikeMock(t)

	// Delete-first: an existing row is removed and no insert runs.
	mock.ExpectExec("DELETE FROM listing_likes").
		WithArgs(uint64(4), uint64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.Toggle(context.Background(), 4, 20)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsLiked(t *testing.T) {
	repo, mock := newLikeMock(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM listing_likes").
		WithArgs(uint64(4), uint64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	liked, err := repo.IsLiked(context.Background(), 4, 20)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
