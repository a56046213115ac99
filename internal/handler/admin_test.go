package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func doReview(h echo.HandlerFunc, id, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/admin/identity-requests/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set("user_id", uint64(1))
	c.Set("role", "admin")
	_ = h(c)
	return rec
}

func TestReviewRejectsUnknownStatus(t *testing.T) {
	// Status validation runs before any repository access.
	h := NewAdminHandler(nil, nil, nil, nil)

	rec := doReview(h.ReviewIdentity, "3", `{"status":"verified"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status must be")

	rec = doReview(h.ReviewListingDoc, "3", `{"status":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewRejectsBadID(t *testing.T) {
	h := NewAdminHandler(nil, nil, nil, nil)

	rec := doReview(h.ReviewIdentity, "not-a-number", `{"status":"approved"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request id")
}
