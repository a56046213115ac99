package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
)

// RentalRequestHandler serves both sides of the rental negotiation:
// tenants open and cancel requests, landlords answer them.
type RentalRequestHandler struct {
	Listings *repository.ListingRepo
	Rentals  *repository.RentalRequestRepo
}

func NewRentalRequestHandler(l *repository.ListingRepo, r *repository.RentalRequestRepo) *RentalRequestHandler {
	return &RentalRequestHandler{Listings: l, Rentals: r}
}

type rentalCreateReq struct {
	ListingID      uint64     `json:"listing_id"`
	Message        string     `json:"message"`
	ScheduledVisit *time.Time `json:"scheduled_visit"`
}

type rentalReplyReq struct {
	Status          string `json:"status"` // accepted | rejected
	ResponseMessage string `json:"response_message"`
}

// Create opens a pending rental request against a listing. The listing
// must be verified and currently available, and landlords cannot request
// their own listings. A tenant holds at most one pending request per
// listing.
func (h *RentalRequestHandler) Create(c echo.Context) error {
	var req rentalCreateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if req.ListingID == 0 {
		return fail(c, http.StatusBadRequest, "listing_id is required")
	}
	if req.ScheduledVisit != nil && req.ScheduledVisit.Before(time.Now()) {
		return fail(c, http.StatusBadRequest, "scheduled visit must be in the future")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "listing not found")
		}
		return fail(c, http.StatusInternalServerError, "could not create rental request")
	}
	uid := currentUserID(c)
	if l.OwnerID == uid {
		return fail(c, http.StatusForbidden, "you cannot request your own listing")
	}
	// Unverified listings are invisible to non-owners everywhere else,
	// so they stay invisible here too.
	if !l.IsVerified {
		return fail(c, http.StatusNotFound, "listing not found")
	}
	if !l.IsAvailable {
		return fail(c, http.StatusBadRequest, "listing is not available for rent")
	}

	created, err := h.Rentals.CreateIfNonePending(ctx, uid, req.ListingID,
		strings.TrimSpace(req.Message), req.ScheduledVisit)
	if err != nil {
		if err == repository.ErrDuplicatePending {
			return fail(c, http.StatusBadRequest, "you already have a pending request for this listing")
		}
		return fail(c, http.StatusInternalServerError, "could not create rental request")
	}
	return respond(c, http.StatusCreated, "rental request sent", echo.Map{
		"request_id": created.ID,
		"status":     created.Status,
		"created_at": created.CreatedAt,
	})
}

// Reply lets the landlord accept or reject a pending request on one of
// their listings.
func (h *RentalRequestHandler) Reply(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}
	var req rentalReplyReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if req.Status != model.RentalAccepted && req.Status != model.RentalRejected {
		return fail(c, http.StatusBadRequest, "status must be accepted or rejected")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Rentals.Reply(ctx, id, currentUserID(c), req.Status, strings.TrimSpace(req.ResponseMessage))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "rental request not found")
		case repository.ErrForbidden:
			return fail(c, http.StatusForbidden, "only the listing owner can answer this request")
		case repository.ErrIllegalTransition:
			return fail(c, http.StatusConflict, "this request has already been answered or withdrawn")
		default:
			return fail(c, http.StatusInternalServerError, "could not answer rental request")
		}
	}
	return respond(c, http.StatusOK, "rental request "+req.Status, det)
}

// Cancel lets the tenant withdraw their own pending request.
func (h *RentalRequestHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Rentals.Cancel(ctx, id, currentUserID(c))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "rental request not found")
		case repository.ErrForbidden:
			return fail(c, http.StatusForbidden, "you can only cancel your own requests")
		case repository.ErrIllegalTransition:
			return fail(c, http.StatusConflict, "this request has already been answered or withdrawn")
		default:
			return fail(c, http.StatusInternalServerError, "could not cancel rental request")
		}
	}
	return respond(c, http.StatusOK, "rental request cancelled", det)
}

// Mine lists the caller's outgoing requests (tenant view).
func (h *RentalRequestHandler) Mine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, err := h.Rentals.ListForTenant(ctx, currentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load rental requests")
	}
	return respond(c, http.StatusOK, "rental requests loaded", echo.Map{"requests": reqs})
}

// Received lists requests against the caller's listings (landlord view).
func (h *RentalRequestHandler) Received(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, err := h.Rentals.ListForLandlord(ctx, currentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load rental requests")
	}
	return respond(c, http.StatusOK, "rental requests loaded", echo.Map{"requests": reqs})
}
