package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

// ListOwnerReservations handles GET /v1/owner/reservations. It returns the
// reservations placed on any schedule belonging to the owner's clubs.
func (h *OwnerHandler) ListOwnerReservations(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// CancelOwnerReservation handles POST /v1/owner/reservations/:id/cancel.
// Owners may cancel at any time, with no lead-time restriction; the booked
// slot is released and the player gets a notification. The state flip and
// the availability restore run in one transaction.
func (h *OwnerHandler) CancelOwnerReservation(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	tx, err := h.ScheduleRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	scheduleID, playerID, state, date, startHour, err := h.ReservationRepo.GetInfoForOwnerTx(ctx, tx, resID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if state == repository.ReservationCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already cancelled"})
	}

	if err := h.ReservationRepo.SetStateTx(ctx, tx, resID, repository.ReservationCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if err := h.ScheduleRepo.SetAvailabilityTx(ctx, tx, scheduleID, true); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "release slot failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Owner-initiated cancellations notify the player directly; the queue
	// consumer only feeds the owner inbox.
	n := repository.Notification{
		RecipientID: playerID,
		SenderID:    sql.NullInt64{Int64: int64(ownerID), Valid: true},
		Message:     fmt.Sprintf("Your reservation for %s %s was cancelled by the club", date, startHour),
		Kind:        repository.NotificationInfo,
		EventID:     fmt.Sprintf("owner.cancelled:%d", resID),
	}
	if err := h.NotificationRepo.Create(ctx, &n); err != nil {
		c.Logger().Warnf("notify player failed for reservation %d: %v", resID, err)
	}

	return c.NoContent(http.StatusNoContent)
}
