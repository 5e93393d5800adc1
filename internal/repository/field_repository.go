package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
)

// Field represents a playing field inside a club. Each field belongs to a
// club and, denormalized for ownership checks, to the club's owner.
// SportType labels what is played there ("Fútbol 5", "Básquet"). A field
// that is not available is excluded from slot generation and public listings.
type Field struct {
	ID          uint64         // fields.id
	ClubID      uint64         // fields.club_id, references clubs.id
	OwnerID     uint64         // fields.owner_id, references users.id
	Name        string         // fields.name, e.g. "Cancha 1"
	SportType   string         // fields.sport_type
	Description sql.NullString // fields.description (nullable)
	ImageURL    sql.NullString // fields.image_url (nullable)
	IsAvailable bool           // fields.is_available
	CreatedAt   string         // fields.created_at
	UpdatedAt   string         // fields.updated_at
}

// ErrFieldNotFound is returned when a field lookup fails.
var ErrFieldNotFound = errors.New("field not found")

// FieldRepo provides methods to create and retrieve fields. It embeds a
// database handle to perform queries and commands.
type FieldRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewFieldRepo constructs a FieldRepo with the given DB handle.
func NewFieldRepo(db *sql.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

const fieldColumns = `id, club_id, owner_id, name, sport_type, description, image_url, is_available, created_at, updated_at`

func scanField(row interface{ Scan(...any) error }, f *Field) error {
	return row.Scan(&f.ID, &f.ClubID, &f.OwnerID, &f.Name, &f.SportType, &f.Description, &f.ImageURL, &f.IsAvailable, &f.CreatedAt, &f.UpdatedAt)
}

// Create inserts a new field. ClubID, OwnerID, Name and SportType must be
// set. After insert the record is re-read so timestamps and the
// availability default are populated.
func (r *FieldRepo) Create(ctx context.Context, f *Field) error {
	const qInsert = `INSERT INTO fields (club_id, owner_id, name, sport_type, description, image_url)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, f.ClubID, f.OwnerID, f.Name, f.SportType, f.Description, f.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)

	const qSelect = `SELECT ` + fieldColumns + ` FROM fields WHERE id = ?`
	return scanField(r.db.QueryRowContext(ctx, qSelect, f.ID), f)
}

// GetByID retrieves a field by its ID regardless of owner. It returns
// ErrFieldNotFound when no row is found.
func (r *FieldRepo) GetByID(ctx context.Context, id uint64) (*Field, error) {
	const q = `SELECT ` + fieldColumns + ` FROM fields WHERE id = ?`
	var f Field
	if err := scanField(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByIDAndOwner retrieves a field but only if it belongs to the given
// owner. This helper is used to enforce resource ownership. If no matching
// field is found, ErrFieldNotFound is returned.
func (r *FieldRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Field, error) {
	const q = `SELECT ` + fieldColumns + ` FROM fields WHERE id = ? AND owner_id = ?`
	var f Field
	if err := scanField(r.db.QueryRowContext(ctx, q, id, ownerID), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ListByClub returns all fields of a club ordered by id. Pass onlyAvailable
// to restrict the listing to fields whose is_available flag is set; slot
// generation and public browsing both want that restriction.
func (r *FieldRepo) ListByClub(ctx context.Context, clubID uint64, onlyAvailable bool) ([]*Field, error) {
	q := `SELECT ` + fieldColumns + ` FROM fields WHERE club_id = ?`
	if onlyAvailable {
		q += ` AND is_available = 1`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Field
	for rows.Next() {
		f := new(Field)
		if err := scanField(rows, f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies a field's editable attributes if it belongs to the owner.
// It returns sql.ErrNoRows when no row is affected.
func (r *FieldRepo) Update(ctx context.Context, f *Field, ownerID uint64) error {
	const q = `UPDATE fields
	           SET name = ?, sport_type = ?, description = ?, image_url = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, f.Name, f.SportType, f.Description, f.ImageURL, f.IsAvailable, f.ID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a field together with its schedules and their
// reservations, enforcing ownership first. sql.ErrNoRows is returned when
// the field does not exist and ErrForbidden when it is owned by another user.
func (r *FieldRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM fields WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE res FROM reservations res
		 JOIN schedules s ON s.id = res.schedule_id
		 WHERE s.field_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE field_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM fields WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
