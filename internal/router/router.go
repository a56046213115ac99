package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the public listing
// catalogue.
func RegisterRoutes(e *echo.Echo, l *handler.ListingHandler) {
	// Load balancers and monitoring probe this endpoint.
	e.GET("/healthz", handler.Health)

	// Public browse: verified listings only, no session required.
	e.GET("/v1/listings", l.Browse)
}

// RegisterAuth registers the authentication endpoints. Register, login,
// email verification and token exchange live under /v1/auth and require
// no session; /v1/me requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/send-code", a.SendCode)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body and needs no JWT, so a
	// client with an expired access token can still end its session.
	g.POST("/logout", a.Logout)
}
