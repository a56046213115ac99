package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/config"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/utils"
)

func newAuthTest(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	return NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), mock
}

func doJSON(h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h(c)
	return rec
}

func userRow(emailVerified bool, passwordHash string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "profile_image",
		"email_verified", "email_code", "email_code_expires",
		"verification_status", "verified", "created_at", "updated_at",
	}).AddRow(uint64(7), "Priya", "priya@example.com", passwordHash, "user", "",
		emailVerified, "", nil, "unverified", false, now, now)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	h, mock := newAuthTest(t)

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register",
		`{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	h, mock := newAuthTest(t)

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register",
		`{"name":"Priya","email":"priya@example.com","password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterConflictsOnVerifiedEmail(t *testing.T) {
	h, mock := newAuthTest(t)

	mock.ExpectQuery("SELECT id,name,email").
		WithArgs("priya@example.com").
		WillReturnRows(userRow(true, "x"))

	rec := doJSON(h.Register, http.MethodPost, "/v1/auth/register",
		`{"name":"Priya","email":"priya@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h, mock := newAuthTest(t)

	hash, err := utils.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id,name,email").
		WithArgs("priya@example.com").
		WillReturnRows(userRow(true, hash))

	rec := doJSON(h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"priya@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRefusesUnverifiedEmail(t *testing.T) {
	h, mock := newAuthTest(t)

	hash, err := utils.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id,name,email").
		WithArgs("priya@example.com").
		WillReturnRows(userRow(false, hash))

	rec := doJSON(h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"priya@example.com","password":"correct-horse"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "email not verified")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h, mock := newAuthTest(t)

	hash, err := utils.HashPassword("correct-horse", 4)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT id,name,email").
		WithArgs("priya@example.com").
		WillReturnRows(userRow(true, hash))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := doJSON(h.Login, http.MethodPost, "/v1/auth/login",
		`{"email":"priya@example.com","password":"correct-horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == "token" && ck.Value != "" && ck.HttpOnly {
			found = true
		}
	}
	assert.True(t, found, "session cookie should be set")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEmailRejectsWrongCode(t *testing.T) {
	h, mock := newAuthTest(t)

	now := time.Now().UTC()
	exp := now.Add(5 * time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "role", "profile_image",
		"email_verified", "email_code", "email_code_expires",
		"verification_status", "verified", "created_at", "updated_at",
	}).AddRow(uint64(7), "Priya", "priya@example.com", "x", "user", "",
		false, "123456", exp, "unverified", false, now, now)
	mock.ExpectQuery("SELECT id,name,email").
		WithArgs("priya@example.com").
		WillReturnRows(rows)

	rec := doJSON(h.VerifyEmail, http.MethodPost, "/v1/auth/verify-email",
		`{"email":"priya@example.com","code":"654321"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired")
	assert.NoError(t, mock.ExpectationsWereMet())
}
