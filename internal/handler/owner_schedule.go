package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
	"github.com/clubreserva/field-booking-api/internal/slot"
)

// generateReq is the slot generation request. Windows come in as HH:00
// labels per day type; the price applies flat to every generated slot.
type generateReq struct {
	FieldIDs []uint64     `json:"field_ids"`
	Price    uint32       `json:"price"`
	Period   string       `json:"period"` // weekly | monthly
	Windows  slot.Windows `json:"windows"`
}

// GenerateSchedules handles POST /v1/owner/clubs/:id/schedules. It expands
// the request into one slot per (field, date, hour) over the chosen horizon
// and bulk-inserts the result. Validation is all-or-nothing: a bad window
// or an empty field selection inserts no rows at all. Field IDs that do not
// belong to the club are skipped silently, matching the lookup-map
// semantics of the expander.
func (h *OwnerHandler) GenerateSchedules(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	period, err := slot.ParsePeriod(req.Period)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sreq := slot.SlotRequest{
		FieldIDs: req.FieldIDs,
		Price:    req.Price,
		Period:   period,
		Windows:  req.Windows,
	}
	if err := sreq.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	club, err := h.ClubRepo.GetByIDAndOwner(ctx, clubID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	fields, err := h.FieldRepo.ListByClub(ctx, clubID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list fields failed"})
	}
	refs := make([]slot.FieldRef, 0, len(fields))
	for _, f := range fields {
		refs = append(refs, slot.FieldRef{ID: f.ID, Name: f.Name})
	}

	slots := slot.Expand(sreq, time.Now().UTC(), slot.ClubRef{ID: club.ID, Name: club.Name}, refs)
	if err := h.ScheduleRepo.CreateBulk(ctx, slots); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedules failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(slots)})
}

// ListClubSchedules handles GET /v1/owner/clubs/:id/schedules.
func (h *OwnerHandler) ListClubSchedules(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	schedules, err := h.ScheduleRepo.ListByClubAndOwner(c.Request().Context(), clubID, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list schedules failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": schedules})
}

// UpdateSchedulePrice handles PATCH /v1/owner/schedules/:id.
func (h *OwnerHandler) UpdateSchedulePrice(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var req struct {
		Price *uint32 `json:"price"`
	}
	if err := c.Bind(&req); err != nil || req.Price == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price is required"})
	}
	if err := h.ScheduleRepo.UpdatePrice(c.Request().Context(), scheduleID, ownerID, *req.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update schedule failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": scheduleID, "price": *req.Price})
}

// DeleteSchedule handles DELETE /v1/owner/schedules/:id. A schedule with an
// active reservation cannot be deleted; the owner has to cancel it first.
func (h *OwnerHandler) DeleteSchedule(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	scheduleID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	if err := h.ScheduleRepo.DeleteByIDAndOwner(c.Request().Context(), scheduleID, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "schedule has an active reservation"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete schedule failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
