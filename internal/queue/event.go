// Package queue defines message payloads exchanged over the message broker.
package queue

// Reservation event types carried in ReservationEvent.Type.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation is confirmed or
// cancelled. It carries enough information for downstream consumers to log
// and notify the club owner without querying the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ScheduleID    uint64 `json:"schedule_id"`
	FieldID       uint64 `json:"field_id"`
	FieldName     string `json:"field_name"`
	ClubID        uint64 `json:"club_id"`
	ClubName      string `json:"club_name"`
	OwnerID       uint64 `json:"owner_id"`
	Date          string `json:"date"`
	StartHour     uint8  `json:"start_hour"`
	Price         uint32 `json:"price"`
	OccurredAt    string `json:"occurred_at"`
}
