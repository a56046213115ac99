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

// AdminHandler serves the admin console: the two review queues, their
// transition endpoints and the user/listing search consoles.
type AdminHandler struct {
	Users       *repository.UserRepo
	Listings    *repository.ListingRepo
	Identity    *repository.IdentityRequestRepo
	ListingDocs *repository.ListingDocRequestRepo
}

func NewAdminHandler(u *repository.UserRepo, l *repository.ListingRepo,
	i *repository.IdentityRequestRepo, d *repository.ListingDocRequestRepo) *AdminHandler {
	return &AdminHandler{Users: u, Listings: l, Identity: i, ListingDocs: d}
}

type reviewReq struct {
	Status     string `json:"status"` // pending | approved | rejected
	AdminNotes string `json:"admin_notes"`
}

func (r *reviewReq) validate() string {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if !model.ValidSubmissionStatus(r.Status) {
		return "status must be pending, approved or rejected"
	}
	return ""
}

func reviewQuery(c echo.Context) repository.ReviewSearchQuery {
	page, pageSize := parsePage(c)
	sortBy, desc := parseSort(c)
	return repository.ReviewSearchQuery{
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
		SortDesc: desc,
	}
}

// IdentityQueue lists identity submissions for review.
func (h *AdminHandler) IdentityQueue(c echo.Context) error {
	q := reviewQuery(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, total, err := h.Identity.Search(ctx, q)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load identity requests")
	}
	return respond(c, http.StatusOK, "identity requests loaded", echo.Map{
		"requests":   reqs,
		"pagination": newPageBlock(q.Page, q.PageSize, total),
	})
}

// IdentityDetail returns one identity submission.
func (h *AdminHandler) IdentityDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Identity.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "identity request not found")
		}
		return fail(c, http.StatusInternalServerError, "could not load identity request")
	}
	return respond(c, http.StatusOK, "identity request loaded", det)
}

// ReviewIdentity moves an identity submission through the review state
// machine. Approval marks the user verified; illegal moves are refused.
func (h *AdminHandler) ReviewIdentity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.Identity.Review(ctx, id, currentUserID(c), req.Status, strings.TrimSpace(req.AdminNotes))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "identity request not found")
		case repository.ErrIllegalTransition:
			return fail(c, http.StatusConflict, "request cannot move to "+req.Status+" from its current status")
		default:
			return fail(c, http.StatusInternalServerError, "could not update identity request")
		}
	}
	return respond(c, http.StatusOK, "identity request "+req.Status, det)
}

// ListingDocQueue lists property document submissions for review.
func (h *AdminHandler) ListingDocQueue(c echo.Context) error {
	q := reviewQuery(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, total, err := h.ListingDocs.Search(ctx, q)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load document requests")
	}
	return respond(c, http.StatusOK, "document requests loaded", echo.Map{
		"requests":   reqs,
		"pagination": newPageBlock(q.Page, q.PageSize, total),
	})
}

// ListingDocDetail returns one property document submission.
func (h *AdminHandler) ListingDocDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.ListingDocs.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "document request not found")
		}
		return fail(c, http.StatusInternalServerError, "could not load document request")
	}
	return respond(c, http.StatusOK, "document request loaded", det)
}

// ReviewListingDoc moves a property submission through the review state
// machine. Approval marks the listing verified.
func (h *AdminHandler) ReviewListingDoc(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid request id")
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	det, err := h.ListingDocs.Review(ctx, id, currentUserID(c), req.Status, strings.TrimSpace(req.AdminNotes))
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "document request not found")
		case repository.ErrIllegalTransition:
			return fail(c, http.StatusConflict, "request cannot move to "+req.Status+" from its current status")
		default:
			return fail(c, http.StatusInternalServerError, "could not update document request")
		}
	}
	return respond(c, http.StatusOK, "document request "+req.Status, det)
}

// UserConsole searches all users with role and free-text filters.
func (h *AdminHandler) UserConsole(c echo.Context) error {
	page, pageSize := parsePage(c)
	sortBy, desc := parseSort(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, total, err := h.Users.Search(ctx, repository.UserSearchQuery{
		Role:     c.QueryParam("role"),
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
		SortDesc: desc,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load users")
	}
	return respond(c, http.StatusOK, "users loaded", echo.Map{
		"users":      users,
		"pagination": newPageBlock(page, pageSize, total),
	})
}

// ListingConsole searches all listings, verified or not.
func (h *AdminHandler) ListingConsole(c echo.Context) error {
	page, pageSize := parsePage(c)
	sortBy, desc := parseSort(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.Listings.Search(ctx, repository.ListingSearchQuery{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
		SortDesc: desc,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listings")
	}
	views := make([]listingView, 0, len(result.Listings))
	for _, l := range result.Listings {
		views = append(views, toListingView(l))
	}
	return respond(c, http.StatusOK, "listings loaded", echo.Map{
		"listings":   views,
		"pagination": newPageBlock(page, pageSize, result.Total),
	})
}
