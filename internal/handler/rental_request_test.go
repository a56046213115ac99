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

	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
)

func listingRow(ownerID uint64, verified, available bool) *sqlmock.Rows {
	now := time.Now().UTC()
	status := "unverified"
	if verified {
		status = "verified"
	}
	return sqlmock.NewRows([]string{
		"id", "owner_id", "title", "description", "category", "subcategory",
		"location_value", "location_label", "location_lat", "location_lng",
		"location_region", "location_city", "location_state", "location_country",
		"guest_count", "room_count", "bathroom_count", "rent", "amenities",
		"is_verified", "verification_status", "is_available", "created_at", "updated_at",
	}).AddRow(uint64(3), ownerID, "Sunny 2BHK", `["bright corner flat"]`, "flat", "2bhk",
		"", "", 0.0, 0.0, "", "Pune", "", "",
		2, 2, 1, uint64(18000), `["wifi"]`,
		verified, status, available, now, now)
}

func newRentalCreate(t *testing.T) (*RentalRequestHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRentalRequestHandler(repository.NewListingRepo(db), repository.NewRentalRequestRepo(db)), mock
}

func postRentalCreate(h *RentalRequestHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/rental-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(5))
	c.Set("role", "user")
	_ = h.Create(c)
	return rec
}

func TestCreateRentalRequestDuplicatePendingIsBadRequest(t *testing.T) {
	h, mock := newRentalCreate(t)

	mock.ExpectQuery("FROM listings").WillReturnRows(listingRow(9, true, true))
	mock.ExpectQuery("FROM listing_images").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "url", "label"}))
	// Conditional insert finds an existing pending row and writes nothing.
	mock.ExpectExec("INSERT INTO rental_requests").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := postRentalCreate(h, `{"listing_id":3,"message":"is this still free?"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "pending request")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRentalRequestUnverifiedListingIsNotFound(t *testing.T) {
	h, mock := newRentalCreate(t)

	mock.ExpectQuery("FROM listings").WillReturnRows(listingRow(9, false, false))
	mock.ExpectQuery("FROM listing_images").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "url", "label"}))

	rec := postRentalCreate(h, `{"listing_id":3}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "listing not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRentalRequestUnavailableListingIsBadRequest(t *testing.T) {
	h, mock := newRentalCreate(t)

	mock.ExpectQuery("FROM listings").WillReturnRows(listingRow(9, true, false))
	mock.ExpectQuery("FROM listing_images").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "url", "label"}))

	rec := postRentalCreate(h, `{"listing_id":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not available")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRentalRequestOwnListingIsForbidden(t *testing.T) {
	h, mock := newRentalCreate(t)

	// Owner matches the session user set by postRentalCreate.
	mock.ExpectQuery("FROM listings").WillReturnRows(listingRow(5, true, true))
	mock.ExpectQuery("FROM listing_images").
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "url", "label"}))

	rec := postRentalCreate(h, `{"listing_id":3}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
