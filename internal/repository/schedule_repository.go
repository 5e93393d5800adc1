package repository // repository for schedule persistence

import (
	"context"      // context for managing deadlines
	"database/sql" // sql provides DB interfaces
	"errors"       // sentinel error definitions

	"github.com/clubreserva/field-booking-api/internal/slot" // canonical schedule record and expander output
)

// ErrScheduleNotFound is returned when a schedule lookup fails.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo encapsulates database operations for schedules. Rows are
// scanned straight into slot.Schedule so the eligibility filter, the sorter
// and the HTTP layer all work on the same record. The availability flag is
// only ever flipped inside the reservation transaction helpers below.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo given a DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions that
// span schedules and reservations.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleColumns = `id, field_id, club_id, field_name, club_name, date, start_hour, price, is_available`

func scanSchedule(row interface{ Scan(...any) error }, s *slot.Schedule) error {
	return row.Scan(&s.ID, &s.FieldID, &s.ClubID, &s.FieldName, &s.ClubName, &s.Date, &s.StartHour, &s.Price, &s.IsAvailable)
}

// CreateBulk inserts the expander's candidate slots in one statement. Each
// row carries the denormalized field and club names so listings never need
// a join. Timestamps default in the DB; the IDs of the passed candidates
// are not populated.
func (r *ScheduleRepo) CreateBulk(ctx context.Context, slots []slot.CandidateSlot) error {
	if len(slots) == 0 {
		return nil
	}
	query := `INSERT INTO schedules (field_id, club_id, field_name, club_name, date, start_hour, price, is_available) VALUES `
	args := make([]interface{}, 0, len(slots)*8)
	for i, cs := range slots {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, cs.FieldID, cs.ClubID, cs.FieldName, cs.ClubName, cs.Date, cs.StartHour, cs.Price, cs.IsAvailable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches a single schedule. ErrScheduleNotFound is returned when
// no row matches.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*slot.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
	var s slot.Schedule
	if err := scanSchedule(r.db.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns every schedule ordered by id. The search endpoint loads
// the full set and applies the in-memory eligibility filter; the dataset is
// the two-week generation horizon per club, so this stays small.
func (r *ScheduleRepo) ListAll(ctx context.Context) ([]slot.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY id`
	return r.queryMany(ctx, q)
}

// ListByClubAndOwner returns all schedules of a club after verifying the
// club belongs to the owner via the clubs table.
func (r *ScheduleRepo) ListByClubAndOwner(ctx context.Context, clubID, ownerID uint64) ([]slot.Schedule, error) {
	const q = `SELECT s.id, s.field_id, s.club_id, s.field_name, s.club_name, s.date, s.start_hour, s.price, s.is_available
	           FROM schedules s
	           JOIN clubs c ON c.id = s.club_id
	           WHERE s.club_id = ? AND c.owner_id = ?
	           ORDER BY s.date, s.start_hour, s.field_name`
	return r.queryMany(ctx, q, clubID, ownerID)
}

func (r *ScheduleRepo) queryMany(ctx context.Context, q string, args ...any) ([]slot.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []slot.Schedule
	for rows.Next() {
		var s slot.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePrice changes the price of a schedule owned by the given owner.
// sql.ErrNoRows is returned when nothing matched.
func (r *ScheduleRepo) UpdatePrice(ctx context.Context, id, ownerID uint64, price uint32) error {
	const q = `UPDATE schedules s
	           JOIN clubs c ON c.id = s.club_id
	           SET s.price = ?, s.updated_at = CURRENT_TIMESTAMP
	           WHERE s.id = ? AND c.owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, price, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a schedule after checking ownership and that
// no reservation references it. A schedule that has been reserved returns
// ErrConflict; the owner must cancel the reservation first.
func (r *ScheduleRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx,
		`SELECT c.owner_id FROM schedules s JOIN clubs c ON c.id = s.club_id WHERE s.id = ?`,
		id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	var reservations int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE schedule_id = ? AND state <> 'CANCELLED'`,
		id).Scan(&reservations); err != nil {
		return err
	}
	if reservations > 0 {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	return err
}

// GetForUpdateTx loads a schedule inside tx with a row lock, for the
// reserve flow: availability must be checked and flipped atomically.
func (r *ScheduleRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*slot.Schedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ? FOR UPDATE`
	var s slot.Schedule
	if err := scanSchedule(tx.QueryRowContext(ctx, q, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SetAvailabilityTx flips the is_available flag inside an existing
// transaction. Reservation creation clears it, cancellation restores it.
func (r *ScheduleRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, available bool) error {
	const q = `UPDATE schedules SET is_available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, available, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
