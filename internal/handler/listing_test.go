package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
)

func doListingCreate(body string) *httptest.ResponseRecorder {
	// Validation runs before any repository access, so nil repos are
	// fine for the rejection paths.
	h := NewListingHandler(nil, nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/listings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(5))
	c.Set("role", "user")
	_ = h.Create(c)
	return rec
}

func TestCreateListingRequiresRent(t *testing.T) {
	rec := doListingCreate(`{
		"title": "Sunny 2BHK",
		"category": "flat",
		"subcategory": "2bhk",
		"location": {"city": "Pune"},
		"guest_count": 2, "room_count": 2, "bathroom_count": 1
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "rent is required")
}

func TestCreateListingAcceptsZeroRent(t *testing.T) {
	// Zero is a legal rent; only a missing field is an error. The
	// failing transaction proves validation passed.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin().WillReturnError(assert.AnError)

	h := NewListingHandler(repository.NewListingRepo(db), nil, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/listings", strings.NewReader(`{
		"title": "Free room for caretaker",
		"category": "room",
		"subcategory": "single",
		"location": {"city": "Pune"},
		"guest_count": 1, "room_count": 1, "bathroom_count": 1,
		"rent": 0
	}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(5))
	_ = h.Create(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateListingRejectsBadCategory(t *testing.T) {
	rec := doListingCreate(`{
		"title": "Castle",
		"category": "castle",
		"subcategory": "single",
		"location": {"city": "Pune"},
		"guest_count": 1, "room_count": 1, "bathroom_count": 1,
		"rent": 9000
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "category must be one of")
}

func TestCreateListingRejectsBadImageLabel(t *testing.T) {
	rec := doListingCreate(`{
		"title": "Sunny 2BHK",
		"category": "flat",
		"subcategory": "2bhk",
		"location": {"city": "Pune"},
		"guest_count": 2, "room_count": 2, "bathroom_count": 1,
		"rent": 18000,
		"images": [{"url": "https://img.example.com/1.jpg", "label": "garage"}]
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid image label")
}

func TestCreateListingRejectsZeroCounts(t *testing.T) {
	rec := doListingCreate(`{
		"title": "Sunny 2BHK",
		"category": "flat",
		"subcategory": "2bhk",
		"location": {"city": "Pune"},
		"guest_count": 0, "room_count": 2, "bathroom_count": 1,
		"rent": 18000
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
