package router

import (
	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/handler"
	"github.com/clubreserva/field-booking-api/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner. All
// routes require a valid JWT and the OWNER role. The group prefix keeps the
// owner surface apart from the public browse routes, which also serve
// /v1/clubs.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Clubs ----
	g.POST("/clubs", o.CreateClub)
	g.GET("/clubs", o.ListMyClubs)
	g.PUT("/clubs/:id", o.UpdateClub)
	g.PATCH("/clubs/:id", o.UpdateClub)
	g.DELETE("/clubs/:id", o.DeleteClub)

	// ---- Fields ----
	g.POST("/clubs/:id/fields", o.CreateField)
	g.GET("/clubs/:id/fields", o.ListClubFields)
	g.PUT("/fields/:id", o.UpdateField)
	g.PATCH("/fields/:id", o.UpdateField)
	g.DELETE("/fields/:id", o.DeleteField)

	// ---- Schedules ----
	g.POST("/clubs/:id/schedules", o.GenerateSchedules)
	g.GET("/clubs/:id/schedules", o.ListClubSchedules)
	g.PATCH("/schedules/:id", o.UpdateSchedulePrice)
	g.DELETE("/schedules/:id", o.DeleteSchedule)

	// ---- Reservations on own clubs ----
	g.GET("/reservations", o.ListOwnerReservations)
	g.POST("/reservations/:id/cancel", o.CancelOwnerReservation)
}
