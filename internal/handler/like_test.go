package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
)

func getLikeState(h *LikeHandler, id string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/listings/"+id+"/like", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set("user_id", uint64(5))
	c.Set("role", "user")
	_ = h.State(c)
	return rec
}

func TestLikeStateReportsSavedListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewLikeHandler(nil, repository.NewLikeRepo(db))

	mock.ExpectQuery("FROM listing_likes").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	rec := getLikeState(h, "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"liked":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeStateReportsUnsavedListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewLikeHandler(nil, repository.NewLikeRepo(db))

	mock.ExpectQuery("FROM listing_likes").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	rec := getLikeState(h, "3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"liked":false`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeStateRejectsBadID(t *testing.T) {
	h := NewLikeHandler(nil, nil)
	rec := getLikeState(h, "not-a-number")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
