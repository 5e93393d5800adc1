package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ReservationRepo provides CRUD operations for reservations. A reservation
// books exactly one schedule for one player; the schedule's date, start
// hour and price are copied onto the reservation at creation time so the
// booking survives later schedule edits. All timestamp fields are assumed
// to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Reservation state enumeration values as stored in reservations.state.
// A booking is CONFIRMED the moment it is created; pending answers only
// exist on the reservation's match list, not on the reservation itself.
const (
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// ReservationRecord mirrors the schema of the reservations table. It is
// used internally by the repository when constructing or scanning rows.
type ReservationRecord struct {
	ID          uint64
	ScheduleID  uint64
	UserID      uint64
	State       string // CONFIRMED | CANCELLED
	Date        string // copy of schedules.date at booking time
	StartHour   string // copy of schedules.start_hour at booking time
	Price       uint32
	PaymentType sql.NullString // "Efectivo", "Tarjeta", optional
	CreatedAt   string
	UpdatedAt   string
}

// ErrReservationNotFound is returned when a reservation lookup fails.
var ErrReservationNotFound = errors.New("reservation not found")

// CreateTx inserts a new reservation within the scope of an existing
// transaction. It populates the generated ID on the provided record. The
// caller must commit or rollback the transaction; the matching schedule
// availability flip happens in the same transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *ReservationRecord) error {
	const q = `INSERT INTO reservations (schedule_id, user_id, state, date, start_hour, price, payment_type)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.ScheduleID, res.UserID, res.State, res.Date, res.StartHour, res.Price, res.PaymentType)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	const sel = `SELECT id, schedule_id, user_id, state, date, start_hour, price, payment_type, created_at, updated_at
	             FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.ID, &res.ScheduleID, &res.UserID, &res.State, &res.Date, &res.StartHour,
		&res.Price, &res.PaymentType, &res.CreatedAt, &res.UpdatedAt,
	)
}

// ReservationDetail encapsulates a reservation along with the field and
// club names of the booked schedule. It is returned by the listing and
// detail queries for display.
type ReservationDetail struct {
	ID          uint64  `json:"id"`
	ScheduleID  uint64  `json:"schedule_id"`
	UserID      uint64  `json:"user_id"`
	State       string  `json:"state"`
	Date        string  `json:"date"`
	StartHour   string  `json:"start_hour"`
	Price       uint32  `json:"price"`
	PaymentType *string `json:"payment_type,omitempty"`
	FieldName   string  `json:"field_name"`
	ClubName    string  `json:"club_name"`
	ClubID      uint64  `json:"club_id"`
}

const reservationDetailQuery = `SELECT res.id, res.schedule_id, res.user_id, res.state, res.date, res.start_hour,
	       res.price, res.payment_type, s.field_name, s.club_name, s.club_id
	FROM reservations res
	JOIN schedules s ON s.id = res.schedule_id`

func scanReservationDetail(row interface{ Scan(...any) error }, d *ReservationDetail) error {
	var paymentType sql.NullString
	if err := row.Scan(&d.ID, &d.ScheduleID, &d.UserID, &d.State, &d.Date, &d.StartHour,
		&d.Price, &paymentType, &d.FieldName, &d.ClubName, &d.ClubID); err != nil {
		return err
	}
	if paymentType.Valid {
		pt := paymentType.String
		d.PaymentType = &pt
	}
	return nil
}

// GetByIDForUser returns a reservation's detail when it belongs to the
// given user. sql.ErrNoRows signals absence; ErrForbidden signals that the
// reservation exists but belongs to another user.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	const q = reservationDetailQuery + ` WHERE res.id = ?`
	var d ReservationDetail
	if err := scanReservationDetail(r.db.QueryRowContext(ctx, q, reservationID), &d); err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	return &d, nil
}

// ListByUser returns all reservations created by the user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = reservationDetailQuery + ` WHERE res.user_id = ? ORDER BY res.date DESC, res.start_hour DESC, res.id DESC`
	return r.queryDetails(ctx, q, userID)
}

// ListByOwner returns all reservations on schedules of clubs owned by the
// given user, for the owner dashboard.
func (r *ReservationRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]ReservationDetail, error) {
	const q = reservationDetailQuery + `
	JOIN clubs c ON c.id = s.club_id
	WHERE c.owner_id = ? ORDER BY res.date DESC, res.start_hour DESC, res.id DESC`
	return r.queryDetails(ctx, q, ownerID)
}

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...any) ([]ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReservationDetail{}
	for rows.Next() {
		var d ReservationDetail
		if err := scanReservationDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInfoForUserTx loads, inside tx, the pieces the cancellation flow needs:
// the booked schedule id, the reservation state and the slot's date and
// start hour. sql.ErrNoRows signals absence; ErrForbidden signals a
// reservation owned by another user.
func (r *ReservationRepo) GetInfoForUserTx(ctx context.Context, tx *sql.Tx, reservationID, userID uint64) (scheduleID uint64, state, date, startHour string, err error) {
	const q = `SELECT schedule_id, user_id, state, date, start_hour FROM reservations WHERE id = ? FOR UPDATE`
	var dbUserID uint64
	if err = tx.QueryRowContext(ctx, q, reservationID).Scan(&scheduleID, &dbUserID, &state, &date, &startHour); err != nil {
		return 0, "", "", "", err
	}
	if dbUserID != userID {
		return 0, "", "", "", ErrForbidden
	}
	return scheduleID, state, date, startHour, nil
}

// GetInfoForOwnerTx is the owner-side variant of GetInfoForUserTx: the
// reservation qualifies when the booked schedule's club belongs to ownerID.
// The booking player's id is returned too so the owner flow can notify them.
func (r *ReservationRepo) GetInfoForOwnerTx(ctx context.Context, tx *sql.Tx, reservationID, ownerID uint64) (scheduleID, playerID uint64, state, date, startHour string, err error) {
	const q = `SELECT res.schedule_id, res.user_id, c.owner_id, res.state, res.date, res.start_hour
	           FROM reservations res
	           JOIN schedules s ON s.id = res.schedule_id
	           JOIN clubs c ON c.id = s.club_id
	           WHERE res.id = ? FOR UPDATE`
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, q, reservationID).Scan(&scheduleID, &playerID, &dbOwnerID, &state, &date, &startHour); err != nil {
		return 0, 0, "", "", "", err
	}
	if dbOwnerID != ownerID {
		return 0, 0, "", "", "", ErrForbidden
	}
	return scheduleID, playerID, state, date, startHour, nil
}

// SetStateTx updates the reservation state inside an existing transaction.
func (r *ReservationRepo) SetStateTx(ctx context.Context, tx *sql.Tx, reservationID uint64, state string) error {
	const q = `UPDATE reservations SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, state, reservationID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
