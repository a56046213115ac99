package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
)

// LikeHandler serves the saved-listings feature.
type LikeHandler struct {
	Listings *repository.ListingRepo
	Likes    *repository.LikeRepo
}

func NewLikeHandler(l *repository.ListingRepo, lk *repository.LikeRepo) *LikeHandler {
	return &LikeHandler{Listings: l, Likes: lk}
}

// Toggle flips the like state of a listing for the caller and reports
// the resulting state.
func (h *LikeHandler) Toggle(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "listing not found")
		}
		return fail(c, http.StatusInternalServerError, "could not update like")
	}
	if !l.IsVerified {
		return fail(c, http.StatusNotFound, "listing not found")
	}

	liked, err := h.Likes.Toggle(ctx, currentUserID(c), id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not update like")
	}
	msg := "listing removed from saved"
	if liked {
		msg = "listing saved"
	}
	return respond(c, http.StatusOK, msg, echo.Map{"liked": liked})
}

// State reports whether the caller has saved the listing, without
// changing anything.
func (h *LikeHandler) State(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	liked, err := h.Likes.IsLiked(ctx, currentUserID(c), id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load like state")
	}
	return respond(c, http.StatusOK, "like state loaded", echo.Map{"liked": liked})
}

// Liked lists the caller's saved listings that are still visible.
func (h *LikeHandler) Liked(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listings, err := h.Likes.ListLiked(ctx, currentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load saved listings")
	}
	return respond(c, http.StatusOK, "saved listings loaded", echo.Map{"listings": listings})
}
