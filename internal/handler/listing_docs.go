package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/storage"
)

// ListingDocHandler serves the landlord side of property ownership
// verification for a listing.
type ListingDocHandler struct {
	Listings *repository.ListingRepo
	Requests *repository.ListingDocRequestRepo
	Store    *storage.DocumentStore
}

func NewListingDocHandler(l *repository.ListingRepo, r *repository.ListingDocRequestRepo, s *storage.DocumentStore) *ListingDocHandler {
	return &ListingDocHandler{Listings: l, Requests: r, Store: s}
}

// Submit accepts a multipart upload of ownership documents for an owned
// listing. Unlike identity uploads the landlord declares what each file
// is through the document_types form field, one value per file in order.
func (h *ListingDocHandler) Submit(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	uid := currentUserID(c)
	if _, err := h.Listings.GetByIDForOwner(ctx, listingID, uid); err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "listing not found")
		case repository.ErrForbidden:
			return fail(c, http.StatusForbidden, "you do not own this listing")
		default:
			return fail(c, http.StatusInternalServerError, "could not submit documents")
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "multipart form with documents is required")
	}
	files := form.File["documents"]
	docTypes := form.Value["document_types"]
	if len(docTypes) != len(files) {
		return fail(c, http.StatusBadRequest, "document_types must list one type per uploaded file")
	}
	for _, t := range docTypes {
		if !model.ValidPropertyDocumentType(t) {
			return fail(c, http.StatusBadRequest, "invalid document type: "+t)
		}
	}

	docs, err := storeDocumentFiles(h.Store, files, docTypes)
	if err != nil {
		if errors.Is(err, errBadUpload) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return fail(c, http.StatusInternalServerError, "could not store documents")
	}

	req, err := h.Requests.CreateIfNoneOpen(ctx, uid, listingID, docs)
	if err != nil {
		cleanupDocuments(h.Store, docs)
		if err == repository.ErrDuplicatePending {
			return fail(c, http.StatusBadRequest, "this listing already has a pending or approved document submission")
		}
		return fail(c, http.StatusInternalServerError, "could not submit documents")
	}

	return respond(c, http.StatusCreated,
		"ownership documents submitted, verification usually completes within 24-48 hours", echo.Map{
			"request_id":   req.ID,
			"listing_id":   req.ListingID,
			"status":       req.Status,
			"submitted_at": req.SubmittedAt,
			"documents":    len(req.Documents),
		})
}

// ListForListing shows the submission history of an owned listing.
func (h *ListingDocHandler) ListForListing(c echo.Context) error {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Listings.GetByIDForOwner(ctx, listingID, currentUserID(c)); err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "listing not found")
		case repository.ErrForbidden:
			return fail(c, http.StatusForbidden, "you do not own this listing")
		default:
			return fail(c, http.StatusInternalServerError, "could not load document submissions")
		}
	}

	reqs, err := h.Requests.ListByListing(ctx, listingID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load document submissions")
	}
	return respond(c, http.StatusOK, "document submissions loaded", echo.Map{"requests": reqs})
}
