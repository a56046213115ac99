package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/handler"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/middleware"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

// RegisterAdmin registers the review queues and consoles under
// /v1/admin. All routes require a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// Identity review queue.
	g.GET("/identity-requests", h.IdentityQueue)
	g.GET("/identity-requests/:id", h.IdentityDetail)
	g.PATCH("/identity-requests/:id", h.ReviewIdentity)

	// Property document review queue.
	g.GET("/listing-doc-requests", h.ListingDocQueue)
	g.GET("/listing-doc-requests/:id", h.ListingDocDetail)
	g.PATCH("/listing-doc-requests/:id", h.ReviewListingDoc)

	// Consoles.
	g.GET("/users", h.UserConsole)
	g.GET("/listings", h.ListingConsole)
}
