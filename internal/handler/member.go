package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

// MemberHandler manages the match list of a reservation. The reservation
// holder invites other players; each invitation lands as a QUERY
// notification in the invitee's inbox, and their answer moves the member
// row to CONFIRMED or REJECTED.
type MemberHandler struct {
	ReservationRepo *repository.ReservationRepo
	MemberRepo      *repository.MemberRepo
	UserRepo        *repository.UserRepo
	Notifications   *repository.NotificationRepo
}

func NewMemberHandler(reservations *repository.ReservationRepo, members *repository.MemberRepo, users *repository.UserRepo, notifications *repository.NotificationRepo) *MemberHandler {
	if reservations == nil || members == nil || users == nil || notifications == nil {
		panic("nil repository passed to NewMemberHandler")
	}
	return &MemberHandler{
		ReservationRepo: reservations,
		MemberRepo:      members,
		UserRepo:        users,
		Notifications:   notifications,
	}
}

// inviteEventID links an invitation notification back to its member row.
func inviteEventID(memberID uint64) string {
	return fmt.Sprintf("invite:%d", memberID)
}

// parseInviteEvent extracts the member id from an invitation event id.
// Event ids of other shapes (reservation events, owner cancellations)
// return false.
func parseInviteEvent(eventID string) (uint64, bool) {
	raw, found := strings.CutPrefix(eventID, "invite:")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// memberStatusFor maps the invitee's answer to a member status.
func memberStatusFor(accept bool) string {
	if accept {
		return repository.MemberConfirmed
	}
	return repository.MemberRejected
}

// buildInviteNotification composes the QUERY notification delivered to an
// invited player. EventID carries the member row, so the respond endpoint
// can record the answer on the match list.
func buildInviteNotification(res *repository.ReservationDetail, inviterName string, m *repository.ReservationMember) repository.Notification {
	return repository.Notification{
		RecipientID: m.UserID,
		SenderID:    sql.NullInt64{Int64: int64(res.UserID), Valid: true},
		Message: fmt.Sprintf("%s invited you to a match at %s (%s) on %s %s",
			inviterName, res.FieldName, res.ClubName, res.Date, res.StartHour),
		Status:  repository.NotificationSent,
		Kind:    repository.NotificationQuery,
		EventID: inviteEventID(m.ID),
	}
}

// InviteMember handles POST /v1/reservations/:id/members with
// {"user_id": N}. Only the reservation holder may invite, the reservation
// must still be active, and the list caps at 14 players.
func (h *MemberHandler) InviteMember(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		UserID uint64 `json:"user_id"`
	}
	if err := c.Bind(&body); err != nil || body.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	if body.UserID == userID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot invite yourself"})
	}

	ctx := c.Request().Context()
	res, err := h.ReservationRepo.GetByIDForUser(ctx, resID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	if res.State == repository.ReservationCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
	}

	invitee, err := h.UserRepo.GetByID(ctx, body.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	member := repository.ReservationMember{
		ReservationID: resID,
		UserID:        invitee.ID,
		UserName:      invitee.Name,
	}
	if err := h.MemberRepo.Create(ctx, &member); err != nil {
		switch {
		case errors.Is(err, repository.ErrMembersFull):
			return c.JSON(http.StatusConflict, echo.Map{"error": "member list is full"})
		case errors.Is(err, repository.ErrMemberExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already invited"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	inviter, err := h.UserRepo.GetByID(ctx, userID)
	if err != nil {
		c.Logger().Warnf("load inviter %d failed: %v", userID, err)
	}
	n := buildInviteNotification(res, inviter.Name, &member)
	if err := h.Notifications.Create(ctx, &n); err != nil {
		c.Logger().Errorf("invite notification for member %d failed: %v", member.ID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invite failed"})
	}

	return c.JSON(http.StatusCreated, member)
}

// ListMembers handles GET /v1/reservations/:id/members for the
// reservation holder.
func (h *MemberHandler) ListMembers(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	if _, err := h.ReservationRepo.GetByIDForUser(ctx, resID, userID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}

	items, err := h.MemberRepo.ListByReservation(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list members failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
