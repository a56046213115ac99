package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/storage"
)

// DocumentHandler streams stored evidence files back to authenticated
// clients. Document URLs written to review records all point here.
type DocumentHandler struct {
	Store *storage.DocumentStore
}

func NewDocumentHandler(s *storage.DocumentStore) *DocumentHandler {
	return &DocumentHandler{Store: s}
}

// Serve fetches a stored file by its key and streams it inline.
func (h *DocumentHandler) Serve(c echo.Context) error {
	key := c.Param("key")
	data, name, contentType, err := h.Store.Open(key)
	if err != nil {
		return fail(c, http.StatusNotFound, "document not found")
	}
	c.Response().Header().Set("Content-Disposition", `inline; filename="`+name+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}
