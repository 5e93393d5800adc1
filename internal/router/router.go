// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/handler"
	"github.com/clubreserva/field-booking-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT middleware: the handler accepts either a
	// bearer token (revoke all sessions) or a refresh_token body (revoke one).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "PLAYER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints. The provided
// PublicHandler returns sanitized data for clubs, fields and schedules, so
// guests can explore availability before creating an account. The cacheMW
// middleware, when non-nil, caches these read-only responses in Redis.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	g := e.Group("/v1", mws...)
	g.GET("/clubs", p.ListClubs)
	g.GET("/clubs/:id", p.GetClub)
	g.GET("/clubs/:id/fields", p.ListFields)
	g.GET("/schedules", p.SearchSchedules)
	g.GET("/availability", p.AvailableHours)
}

// RegisterNotifications registers the per-user notification inbox. Both
// roles receive notifications, so only JWT auth is enforced.
func RegisterNotifications(e *echo.Echo, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group(
		"/v1/notifications",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "PLAYER"),
	)
	g.GET("", n.List)
	g.PATCH("/:id/read", n.MarkRead)
	g.POST("/:id/respond", n.Respond)
}
