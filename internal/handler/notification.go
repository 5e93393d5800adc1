package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

// NotificationHandler serves the per-user notification inbox. Notifications
// arrive through the reservation event consumer, the owner cancellation
// flow and the match invitation flow; this handler lists them, updates
// their status, and records invitation answers on the match list.
type NotificationHandler struct {
	Repo    *repository.NotificationRepo
	Members *repository.MemberRepo
}

func NewNotificationHandler(repo *repository.NotificationRepo, members *repository.MemberRepo) *NotificationHandler {
	if repo == nil || members == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{Repo: repo, Members: members}
}

// List handles GET /v1/notifications. Newest first.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Repo.ListByRecipient(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list notifications failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MarkRead handles PATCH /v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	if err := h.Repo.UpdateStatus(c.Request().Context(), id, userID, repository.NotificationRead); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update notification failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Respond handles POST /v1/notifications/:id/respond with {"accept": bool}.
// Only QUERY notifications take a response; INFO ones are read-only.
func (h *NotificationHandler) Respond(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}
	var body struct {
		Accept *bool `json:"accept"`
	}
	if err := c.Bind(&body); err != nil || body.Accept == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "accept is required"})
	}

	ctx := c.Request().Context()
	n, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load notification failed"})
	}
	if n.RecipientID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if n.Kind != repository.NotificationQuery {
		return c.JSON(http.StatusConflict, echo.Map{"error": "notification does not expect a response"})
	}

	if n.Status == repository.NotificationAccepted || n.Status == repository.NotificationRejected {
		return c.JSON(http.StatusConflict, echo.Map{"error": "notification already answered"})
	}

	status := repository.NotificationRejected
	if *body.Accept {
		status = repository.NotificationAccepted
	}
	if err := h.Repo.UpdateStatus(ctx, id, userID, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update notification failed"})
	}

	// Invitation answers also land on the reservation's match list.
	if memberID, ok := parseInviteEvent(n.EventID); ok {
		if err := h.Members.SetStatus(ctx, memberID, userID, memberStatusFor(*body.Accept)); err != nil {
			c.Logger().Errorf("record answer for member %d failed: %v", memberID, err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
