package handler // handler defines http handlers

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

// OwnerHandler bundles repositories for club owners to manage their clubs,
// fields, schedules and incoming reservations.
type OwnerHandler struct {
	ClubRepo         *repository.ClubRepo
	FieldRepo        *repository.FieldRepo
	ScheduleRepo     *repository.ScheduleRepo
	ReservationRepo  *repository.ReservationRepo
	NotificationRepo *repository.NotificationRepo
}

// NewOwnerHandler constructs an OwnerHandler and panics if any dependency is nil.
func NewOwnerHandler(clubRepo *repository.ClubRepo, fieldRepo *repository.FieldRepo, scheduleRepo *repository.ScheduleRepo, reservationRepo *repository.ReservationRepo, notificationRepo *repository.NotificationRepo) *OwnerHandler {
	if clubRepo == nil || fieldRepo == nil || scheduleRepo == nil || reservationRepo == nil || notificationRepo == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		ClubRepo:         clubRepo,
		FieldRepo:        fieldRepo,
		ScheduleRepo:     scheduleRepo,
		ReservationRepo:  reservationRepo,
		NotificationRepo: notificationRepo,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores whatever type the claims decoder produced, so
// every plausible representation is handled.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID parses a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// nullStr converts an optional request string into the NULL-when-empty form
// used by the repositories.
func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
