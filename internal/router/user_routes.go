package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/handler"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/middleware"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

// RegisterUser registers every endpoint an authenticated user can reach:
// profile, identity verification, listing management, document
// submission, rental negotiation, saved listings and stored document
// access. All routes require a valid JWT; both regular users and admins
// may call them.
func RegisterUser(e *echo.Echo,
	a *handler.AuthHandler,
	id *handler.IdentityHandler,
	l *handler.ListingHandler,
	ld *handler.ListingDocHandler,
	rr *handler.RentalRequestHandler,
	lk *handler.LikeHandler,
	doc *handler.DocumentHandler,
	jwtSecret string) {

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	)

	// Profile.
	g.GET("/me", a.Me)

	// Identity verification.
	g.POST("/identity/requests", id.Submit)
	g.GET("/identity/requests", id.MyRequests)

	// Listings. Browse is public; everything here is owner- or
	// viewer-scoped and needs a session.
	g.POST("/listings", l.Create)
	g.GET("/listings/mine", l.Mine)
	g.GET("/listings/:id", l.Detail)
	g.PUT("/listings/:id", l.Update)
	g.PATCH("/listings/:id/availability", l.SetAvailability)

	// Property ownership documents.
	g.POST("/listings/:id/documents", ld.Submit)
	g.GET("/listings/:id/documents", ld.ListForListing)

	// Rental negotiation.
	g.POST("/rental-requests", rr.Create)
	g.GET("/rental-requests/mine", rr.Mine)
	g.GET("/rental-requests/received", rr.Received)
	g.PATCH("/rental-requests/:id", rr.Reply)
	g.POST("/rental-requests/:id/cancel", rr.Cancel)

	// Saved listings.
	g.POST("/listings/:id/like", lk.Toggle)
	g.GET("/listings/:id/like", lk.State)
	g.GET("/likes", lk.Liked)

	// Stored evidence files.
	g.GET("/documents/:key", doc.Serve)
}
