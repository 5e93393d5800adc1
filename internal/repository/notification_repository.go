package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Notification represents one in-app alert delivered to a user: a status
// change on a reservation, or a match invitation a recipient can accept or
// reject. Notifications are written by the queue consumer and by handlers,
// and read by the notification bell in the frontend.
//
// Fields:
//
//	ID          – primary key identifier.
//	RecipientID – user the notification is addressed to.
//	SenderID    – user that caused the notification (nullable for system events).
//	Message     – human readable text.
//	Status      – SENT, READ, ACCEPTED or REJECTED.
//	Kind        – INFO for plain notices, QUERY for invitations awaiting an answer.
//	EventID     – identifier of the originating event (reservation id as text).
//	CreatedAt   – creation timestamp.
type Notification struct {
	ID          uint64        `json:"id"`
	RecipientID uint64        `json:"recipient_id"`
	SenderID    sql.NullInt64 `json:"-"`
	Message     string        `json:"message"`
	Status      string        `json:"status"`
	Kind        string        `json:"kind"`
	EventID     string        `json:"event_id"`
	CreatedAt   string        `json:"created_at"`
}

// Notification status and kind enumeration values.
const (
	NotificationSent     = "SENT"
	NotificationRead     = "READ"
	NotificationAccepted = "ACCEPTED"
	NotificationRejected = "REJECTED"

	NotificationInfo  = "INFO"
	NotificationQuery = "QUERY"
)

// ErrNotificationNotFound is returned when a notification lookup fails.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepo persists notifications.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo constructs a NotificationRepo with the given DB handle.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create inserts a notification with status SENT and populates its ID.
func (r *NotificationRepo) Create(ctx context.Context, n *Notification) error {
	if n.Status == "" {
		n.Status = NotificationSent
	}
	if n.Kind == "" {
		n.Kind = NotificationInfo
	}
	const q = `INSERT INTO notifications (recipient_id, sender_id, message, status, kind, event_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, n.RecipientID, n.SenderID, n.Message, n.Status, n.Kind, n.EventID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)

	const sel = `SELECT created_at FROM notifications WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, n.ID).Scan(&n.CreatedAt)
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uint64) ([]Notification, error) {
	const q = `SELECT id, recipient_id, sender_id, message, status, kind, event_id, created_at
	           FROM notifications WHERE recipient_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Message, &n.Status, &n.Kind, &n.EventID, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a single notification. ErrNotificationNotFound is
// returned when no row matches.
func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (*Notification, error) {
	const q = `SELECT id, recipient_id, sender_id, message, status, kind, event_id, created_at
	           FROM notifications WHERE id = ?`
	var n Notification
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Message, &n.Status, &n.Kind, &n.EventID, &n.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// UpdateStatus moves a notification to a new status, enforcing that it
// belongs to the recipient. sql.ErrNoRows is returned when nothing matched.
func (r *NotificationRepo) UpdateStatus(ctx context.Context, id, recipientID uint64, status string) error {
	const q = `UPDATE notifications SET status = ? WHERE id = ? AND recipient_id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id, recipientID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
