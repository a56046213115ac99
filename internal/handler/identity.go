package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/storage"
)

// IdentityHandler serves the tenant/landlord side of identity
// verification: submitting documents and checking on past submissions.
type IdentityHandler struct {
	Requests *repository.IdentityRequestRepo
	Store    *storage.DocumentStore
}

func NewIdentityHandler(r *repository.IdentityRequestRepo, s *storage.DocumentStore) *IdentityHandler {
	return &IdentityHandler{Requests: r, Store: s}
}

// Submit accepts a multipart upload of up to five identity documents and
// opens a pending review. The document type of each file is inferred
// from its filename. If the review record cannot be created the stored
// files are deleted again.
func (h *IdentityHandler) Submit(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "multipart form with documents is required")
	}
	files := form.File["documents"]

	docTypes := make([]string, len(files))
	for i, fh := range files {
		docTypes[i] = inferIdentityDocType(fh.Filename)
	}

	docs, err := storeDocumentFiles(h.Store, files, docTypes)
	if err != nil {
		if errors.Is(err, errBadUpload) {
			return fail(c, http.StatusBadRequest, err.Error())
		}
		return fail(c, http.StatusInternalServerError, "could not store documents")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	req, err := h.Requests.CreateIfNonePending(ctx, currentUserID(c), docs)
	if err != nil {
		cleanupDocuments(h.Store, docs)
		if err == repository.ErrDuplicatePending {
			return fail(c, http.StatusBadRequest, "you already have a pending identity verification request")
		}
		return fail(c, http.StatusInternalServerError, "could not submit verification request")
	}

	return respond(c, http.StatusCreated,
		"identity documents submitted, verification usually completes within 24-48 hours", echo.Map{
			"request_id":   req.ID,
			"status":       req.Status,
			"submitted_at": req.SubmittedAt,
			"documents":    len(req.Documents),
		})
}

// MyRequests lists the caller's identity submissions, newest first.
func (h *IdentityHandler) MyRequests(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, err := h.Requests.ListByUser(ctx, currentUserID(c))
	if err != nil && err != sql.ErrNoRows {
		return fail(c, http.StatusInternalServerError, "could not load verification requests")
	}
	return respond(c, http.StatusOK, "verification requests loaded", echo.Map{
		"requests": reqs,
	})
}
