package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateTranslatesDuplicateEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'uq_users_email'"))

	_, err := repo.Create(context.Background(), "A", "a@b.c", "secret123", "", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSearchPaginates(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WithArgs("%admin%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id,name,email,role").
		WithArgs("%admin%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "role", "profile_image",
			"email_verified", "verification_status", "verified", "created_at",
		}).AddRow(uint64(12), "Root", "root@example.com", "admin", "", true, "verified", true, now))

	rows, total, err := repo.Search(context.Background(), UserSearchQuery{
		Role:     "admin",
		Page:     2,
		PageSize: 10,
		SortBy:   "created_at",
		SortDesc: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "root@example.com", rows[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
