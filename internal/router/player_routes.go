package router

import (
	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/handler"
	"github.com/clubreserva/field-booking-api/internal/middleware"
)

// RegisterPlayer registers player-scoped endpoints under /v1. All routes
// require a valid JWT and the PLAYER role. Players book slots, list their
// reservations and cancel within the allowed lead time. The optional
// rateMW limits booking attempts per user.
func RegisterPlayer(e *echo.Echo, h *handler.PlayerHandler, m *handler.MemberHandler, jwtSecret string, rateMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("PLAYER"),
	}
	if rateMW != nil {
		mws = append(mws, rateMW)
	}
	g := e.Group("/v1", mws...)

	g.POST("/schedules/:id/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListMyReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.POST("/reservations/:id/cancel", h.CancelReservation)

	g.POST("/reservations/:id/members", m.InviteMember)
	g.GET("/reservations/:id/members", m.ListMembers)
}
