// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Club model and repository methods for CRUD and lookup
// operations. A Club represents a venue that groups several playing fields.
// Only presentation-safe fields should be exposed in public API responses.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
)

// Club represents a sports club persisted in the database. Each club belongs
// to a single owner and may contain multiple fields. ID is the primary key
// and is auto-incremented by the DB. OwnerID, CreatedAt and UpdatedAt should
// not be exposed via public API responses.
type Club struct {
	ID          uint64         // clubs.id
	OwnerID     uint64         // clubs.owner_id, references users.id
	Name        string         // clubs.name
	Address     string         // clubs.address
	Phone       string         // clubs.phone
	Description sql.NullString // clubs.description (nullable)
	ImageURL    sql.NullString // clubs.image_url (nullable)
	CreatedAt   string         // clubs.created_at
	UpdatedAt   string         // clubs.updated_at
}

// ErrClubNotFound is returned when a club cannot be found in the DB.
var ErrClubNotFound = errors.New("club not found")

// ClubRepo encapsulates all database queries related to clubs. It
// depends on a sql.DB connection which should be configured elsewhere.
type ClubRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewClubRepo constructs a ClubRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewClubRepo(db *sql.DB) *ClubRepo {
	return &ClubRepo{db: db}
}

// Create inserts a new club into the database. On success the club's ID
// field is populated with the auto-generated value, followed by a SELECT
// to populate the default timestamp fields so callers receive a fully
// populated record.
func (r *ClubRepo) Create(ctx context.Context, c *Club) error {
	const qInsert = `INSERT INTO clubs (owner_id, name, address, phone, description, image_url)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.OwnerID, c.Name, c.Address, c.Phone, c.Description, c.ImageURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = `SELECT owner_id, name, address, phone, description, image_url, created_at, updated_at
	                 FROM clubs WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.OwnerID, &c.Name, &c.Address, &c.Phone, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a club by its ID regardless of owner. It returns
// ErrClubNotFound if no row is found. Callers use this method when they
// don't need to enforce ownership in the repository layer.
func (r *ClubRepo) GetByID(ctx context.Context, id uint64) (*Club, error) {
	const q = `SELECT id, owner_id, name, address, phone, description, image_url, created_at, updated_at
	           FROM clubs WHERE id = ?`
	var c Club
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &c.Phone, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDAndOwner fetches a club by id but only if it belongs to the
// specified owner. If the club doesn't exist or is owned by someone
// else, ErrClubNotFound is returned.
func (r *ClubRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*Club, error) {
	const q = `SELECT id, owner_id, name, address, phone, description, image_url, created_at, updated_at
	           FROM clubs WHERE id = ? AND owner_id = ?`
	var c Club
	if err := r.db.QueryRowContext(ctx, q, id, ownerID).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &c.Phone, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner returns all clubs for a specific owner ordered by id.
func (r *ClubRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*Club, error) {
	const q = `SELECT id, owner_id, name, address, phone, description, image_url, created_at, updated_at
	           FROM clubs WHERE owner_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Club
	for rows.Next() {
		c := new(Club)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Address, &c.Phone, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns all clubs regardless of owner. It is used for public
// browsing endpoints to present available clubs to unauthenticated users.
// Owner and timestamp fields are not selected to avoid exposing them.
func (r *ClubRepo) ListAll(ctx context.Context) ([]*Club, error) {
	const q = `SELECT id, name, address, phone, description, image_url FROM clubs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Club
	for rows.Next() {
		c := &Club{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Description, &c.ImageURL); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies the club's editable fields if it belongs to the provided
// owner. It returns sql.ErrNoRows when no row is affected (not found /
// not owned).
func (r *ClubRepo) Update(ctx context.Context, c *Club, ownerID uint64) error {
	const q = `UPDATE clubs
	           SET name = ?, address = ?, phone = ?, description = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address, c.Phone, c.Description, c.ImageURL, c.ID, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a club and all dependent records (fields,
// schedules and reservations) provided it belongs to the specified owner.
// If the club does not exist, sql.ErrNoRows is returned. If the club exists
// but is owned by a different user, ErrForbidden is returned. The deletion
// occurs within a transaction to maintain integrity.
func (r *ClubRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
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
	// Verify club exists and ownership
	var dbOwnerID uint64
	if err = tx.QueryRowContext(ctx, `SELECT owner_id FROM clubs WHERE id = ?`, id).Scan(&dbOwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	// Cascade delete: reservations on schedules of this club's fields
	if _, err = tx.ExecContext(ctx,
		`DELETE res FROM reservations res
		 JOIN schedules s ON s.id = res.schedule_id
		 WHERE s.club_id = ?`, id); err != nil {
		return err
	}
	// Delete schedules for this club
	if _, err = tx.ExecContext(ctx, `DELETE FROM schedules WHERE club_id = ?`, id); err != nil {
		return err
	}
	// Delete fields for this club
	if _, err = tx.ExecContext(ctx, `DELETE FROM fields WHERE club_id = ?`, id); err != nil {
		return err
	}
	// Finally delete the club
	if _, err = tx.ExecContext(ctx, `DELETE FROM clubs WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}
