package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ReservationMember is one invited player on a reservation's match list.
// The reservation holder invites other players; each invitee answers the
// invitation through their notification inbox, moving the row from
// PENDING to CONFIRMED or REJECTED.
type ReservationMember struct {
	ID            uint64 `json:"id"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	UserName      string `json:"user_name"`
	Status        string `json:"status"` // PENDING | CONFIRMED | REJECTED
	CreatedAt     string `json:"created_at"`
}

// Member status enumeration values.
const (
	MemberPending   = "PENDING"
	MemberConfirmed = "CONFIRMED"
	MemberRejected  = "REJECTED"
)

// MaxReservationMembers caps the match list of one reservation.
const MaxReservationMembers = 14

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("user already invited")
	ErrMembersFull    = errors.New("member list is full")
)

// MemberRepo persists reservation match lists.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo constructs a MemberRepo with the given DB handle.
func NewMemberRepo(db *sql.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

// Create adds a PENDING member to a reservation and populates its ID and
// timestamp. ErrMembersFull is returned when the list already holds
// MaxReservationMembers entries, ErrMemberExists when the user is already
// on it.
func (r *MemberRepo) Create(ctx context.Context, m *ReservationMember) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var count int
	const cnt = `SELECT COUNT(*) FROM reservation_members WHERE reservation_id = ? FOR UPDATE`
	if err := tx.QueryRowContext(ctx, cnt, m.ReservationID).Scan(&count); err != nil {
		return err
	}
	if count >= MaxReservationMembers {
		return ErrMembersFull
	}

	m.Status = MemberPending
	const ins = `INSERT INTO reservation_members (reservation_id, user_id, status)
	             VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, m.ReservationID, m.UserID, m.Status)
	if err != nil {
		// 1062 is MySQL's duplicate key error; the unique index is on
		// (reservation_id, user_id).
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrMemberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const sel = `SELECT created_at FROM reservation_members WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, m.ID).Scan(&m.CreatedAt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByReservation returns the match list of a reservation with each
// member's display name, oldest invitation first.
func (r *MemberRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]ReservationMember, error) {
	const q = `SELECT m.id, m.reservation_id, m.user_id, u.name, m.status, m.created_at
	           FROM reservation_members m
	           JOIN users u ON u.id = m.user_id
	           WHERE m.reservation_id = ?
	           ORDER BY m.id ASC`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReservationMember{}
	for rows.Next() {
		var m ReservationMember
		if err := rows.Scan(&m.ID, &m.ReservationID, &m.UserID, &m.UserName, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus records the invitee's answer, enforcing that the member row
// belongs to the answering user. ErrMemberNotFound is returned when no
// row matched.
func (r *MemberRepo) SetStatus(ctx context.Context, memberID, userID uint64, status string) error {
	const q = `UPDATE reservation_members SET status = ? WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, q, status, memberID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMemberNotFound
	}
	return nil
}
