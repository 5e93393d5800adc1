package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubreserva/field-booking-api/internal/repository"
)

func TestInviteNotificationAnswersThroughRespond(t *testing.T) {
	res := &repository.ReservationDetail{
		ID:        7,
		UserID:    42,
		State:     repository.ReservationConfirmed,
		Date:      "2026-09-05",
		StartHour: "18:00",
		FieldName: "Court 1",
		ClubName:  "Riverside",
	}
	member := &repository.ReservationMember{
		ID:            31,
		ReservationID: res.ID,
		UserID:        99,
		UserName:      "Dana",
	}

	n := buildInviteNotification(res, "Alex", member)

	// The respond endpoint only acts on QUERY notifications, so the
	// invitation must carry that kind or it could never be answered.
	assert.Equal(t, repository.NotificationQuery, n.Kind)
	assert.Equal(t, repository.NotificationSent, n.Status)
	assert.Equal(t, member.UserID, n.RecipientID)
	require.True(t, n.SenderID.Valid)
	assert.Equal(t, int64(res.UserID), n.SenderID.Int64)
	assert.Contains(t, n.Message, "Alex")
	assert.Contains(t, n.Message, "Court 1")

	// The event id must round-trip back to the member row the answer
	// lands on.
	gotMember, ok := parseInviteEvent(n.EventID)
	require.True(t, ok)
	assert.Equal(t, member.ID, gotMember)
}

func TestParseInviteEventRejectsOtherEvents(t *testing.T) {
	for _, eventID := range []string{
		"",
		"reservation.confirmed:7",
		"owner.cancelled:7",
		"invite:",
		"invite:abc",
		"invite:0",
	} {
		t.Run(eventID, func(t *testing.T) {
			_, ok := parseInviteEvent(eventID)
			assert.False(t, ok)
		})
	}
}

func TestMemberStatusFor(t *testing.T) {
	assert.Equal(t, repository.MemberConfirmed, memberStatusFor(true))
	assert.Equal(t, repository.MemberRejected, memberStatusFor(false))
}
