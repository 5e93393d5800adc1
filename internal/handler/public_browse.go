package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
	"github.com/clubreserva/field-booking-api/internal/slot"
)

// PublicHandler serves the unauthenticated browse surface: clubs, their
// fields and the reservable-schedule search. Responses expose only
// presentation-safe columns; owner ids and timestamps stay internal.
type PublicHandler struct {
	ClubRepo     *repository.ClubRepo
	FieldRepo    *repository.FieldRepo
	ScheduleRepo *repository.ScheduleRepo
}

func NewPublicHandler(clubRepo *repository.ClubRepo, fieldRepo *repository.FieldRepo, scheduleRepo *repository.ScheduleRepo) *PublicHandler {
	if clubRepo == nil || fieldRepo == nil || scheduleRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{ClubRepo: clubRepo, FieldRepo: fieldRepo, ScheduleRepo: scheduleRepo}
}

// ListClubs handles GET /v1/clubs.
func (h *PublicHandler) ListClubs(c echo.Context) error {
	clubs, err := h.ClubRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list clubs failed"})
	}
	items := make([]echo.Map, 0, len(clubs))
	for _, cl := range clubs {
		items = append(items, clubResp(cl))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetClub handles GET /v1/clubs/:id and embeds the club's available fields.
func (h *PublicHandler) GetClub(c echo.Context) error {
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	ctx := c.Request().Context()
	cl, err := h.ClubRepo.GetByID(ctx, clubID)
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
	fieldItems := make([]echo.Map, 0, len(fields))
	for _, f := range fields {
		fieldItems = append(fieldItems, fieldResp(f))
	}
	resp := clubResp(cl)
	resp["fields"] = fieldItems
	return c.JSON(http.StatusOK, resp)
}

// ListFields handles GET /v1/clubs/:id/fields. Only available fields show.
func (h *PublicHandler) ListFields(c echo.Context) error {
	clubID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ClubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	fields, err := h.FieldRepo.ListByClub(ctx, clubID, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list fields failed"})
	}
	items := make([]echo.Map, 0, len(fields))
	for _, f := range fields {
		items = append(items, fieldResp(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SearchSchedules handles GET /v1/schedules?date=YYYY-MM-DD&hour=HH:00.
// Both filters are optional; without them every reservable slot inside the
// two-week window is returned. Results are ordered by date, then start
// hour, then field name. Slots earlier than today's booking cutoff are
// dropped even when still flagged available.
func (h *PublicHandler) SearchSchedules(c echo.Context) error {
	now := time.Now().UTC()
	window := slot.NewSearchWindow(now)

	date := strings.TrimSpace(c.QueryParam("date"))
	if date != "" {
		if _, err := time.Parse(slot.DateLayout, date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		if !window.Contains(date) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date outside the booking window"})
		}
	}
	hour := strings.TrimSpace(c.QueryParam("hour"))
	if hour != "" {
		if _, ok := slot.HourNumber(hour); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hour must be HH:00"})
		}
	}

	schedules, err := h.ScheduleRepo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load schedules failed"})
	}

	eligible := slot.FilterReservable(schedules, slot.Criteria{Date: date, Hour: hour})
	out := eligible[:0]
	for _, s := range eligible {
		if !window.Contains(s.Date) {
			continue
		}
		if s.Date == window.Today {
			if hn, ok := slot.HourNumber(s.StartHour); !ok || hn < window.CutoffHour {
				continue
			}
		}
		out = append(out, s)
	}
	slot.SortSchedules(out)

	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// AvailableHours handles GET /v1/availability?date=YYYY-MM-DD. It returns
// the canonical hour labels still bookable on that date, applying the
// same-day cutoff when the date is today.
func (h *PublicHandler) AvailableHours(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}
	if _, err := time.Parse(slot.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	hours := slot.AvailableHours(date, time.Now().UTC())
	return c.JSON(http.StatusOK, echo.Map{"date": date, "hours": hours})
}
