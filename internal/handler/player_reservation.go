package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
	queue_publisher "github.com/clubreserva/field-booking-api/internal/service"
	"github.com/clubreserva/field-booking-api/internal/slot"

	q "github.com/clubreserva/field-booking-api/internal/queue"
)

// PlayerHandler groups the repositories needed to book and cancel slots on
// behalf of players. JWT authentication and role validation are assumed to
// have run in middleware; methods return 401 only when the user id cannot
// be extracted from the context. Booking and cancellation both run inside
// transactions so the schedule's availability flag and the reservation row
// never diverge.
type PlayerHandler struct {
	ScheduleRepo    *repository.ScheduleRepo
	ReservationRepo *repository.ReservationRepo
	ClubRepo        *repository.ClubRepo
}

// NewPlayerHandler constructs a PlayerHandler with the provided
// repositories. All dependencies must be non-nil.
func NewPlayerHandler(scheduleRepo *repository.ScheduleRepo, reservationRepo *repository.ReservationRepo, clubRepo *repository.ClubRepo) *PlayerHandler {
	if scheduleRepo == nil || reservationRepo == nil || clubRepo == nil {
		panic("nil repository passed to NewPlayerHandler")
	}
	return &PlayerHandler{
		ScheduleRepo:    scheduleRepo,
		ReservationRepo: reservationRepo,
		ClubRepo:        clubRepo,
	}
}

// CreateReservation handles POST /v1/schedules/:id/reservations. The slot
// is locked with FOR UPDATE, checked for availability and booking-window
// eligibility, then reserved and flipped unavailable in the same
// transaction. Two players racing for a slot see exactly one winner.
func (h *PlayerHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		PaymentType string `json:"payment_type"`
	}
	_ = c.Bind(&body)
	paymentType := strings.TrimSpace(body.PaymentType)

	ctx := c.Request().Context()
	now := time.Now().UTC()
	window := slot.NewSearchWindow(now)

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

	s, err := h.ScheduleRepo.GetForUpdateTx(ctx, tx, scheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !s.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "schedule already reserved"})
	}
	if !window.Contains(s.Date) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "schedule outside the booking window"})
	}
	if s.Date == window.Today {
		if hn, ok := slot.HourNumber(s.StartHour); !ok || hn < window.CutoffHour {
			return c.JSON(http.StatusConflict, echo.Map{"error": "too late to reserve this slot"})
		}
	}

	rec := repository.ReservationRecord{
		ScheduleID:  s.ID,
		UserID:      userID,
		State:       repository.ReservationConfirmed,
		Date:        s.Date,
		StartHour:   s.StartHour,
		Price:       s.Price,
		PaymentType: nullStr(paymentType),
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	if err := h.ScheduleRepo.SetAvailabilityTx(ctx, tx, s.ID, false); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update schedule failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.publishEvent(ctx, q.EventReservationConfirmed, &rec, s)

	return c.JSON(http.StatusCreated, echo.Map{
		"id":         rec.ID,
		"schedule":   s,
		"state":      rec.State,
		"created_at": rec.CreatedAt,
	})
}

// ListMyReservations handles GET /v1/my-reservations.
func (h *PlayerHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetReservation handles GET /v1/reservations/:id for the booking player.
func (h *PlayerHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.ReservationRepo.GetByIDForUser(c.Request().Context(), resID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch reservation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// CancelReservation handles POST /v1/reservations/:id/cancel. Players may
// cancel only while the slot starts more than two hours from now; past that
// point the booking is binding and the request returns 409.
func (h *PlayerHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
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

	scheduleID, state, date, startHour, err := h.ReservationRepo.GetInfoForUserTx(ctx, tx, resID, userID)
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

	start, okStart := slot.ScheduleStart(date, startHour, time.UTC)
	if !okStart {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "corrupt schedule timestamp"})
	}
	if !slot.CanCancel(start, time.Now().UTC()) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation window closed"})
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

	if s, err := h.ScheduleRepo.GetByID(ctx, scheduleID); err == nil {
		rec := repository.ReservationRecord{ID: resID, ScheduleID: scheduleID, UserID: userID, Date: date, StartHour: startHour, Price: s.Price}
		h.publishEvent(ctx, q.EventReservationCancelled, &rec, s)
	}

	return c.NoContent(http.StatusNoContent)
}

// publishEvent resolves the club owner and hands the event to the broker in
// a goroutine. Publishing is best effort: the reservation is already
// committed and a broker outage must not fail the request.
func (h *PlayerHandler) publishEvent(ctx context.Context, eventType string, rec *repository.ReservationRecord, s *slot.Schedule) {
	club, err := h.ClubRepo.GetByID(ctx, s.ClubID)
	if err != nil {
		return
	}
	hour := uint8(0)
	if hn, ok := slot.HourNumber(s.StartHour); ok {
		hour = uint8(hn)
	}
	ev := q.ReservationEvent{
		Type:          eventType,
		ReservationID: rec.ID,
		UserID:        rec.UserID,
		ScheduleID:    s.ID,
		FieldID:       s.FieldID,
		FieldName:     s.FieldName,
		ClubID:        s.ClubID,
		ClubName:      s.ClubName,
		OwnerID:       club.OwnerID,
		Date:          s.Date,
		StartHour:     hour,
		Price:         rec.Price,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(pubCtx, ev)
	}()
}
