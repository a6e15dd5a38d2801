package storage

import (
	"context"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
)

// Notification is one message delivered (or attempted) to a user, kept so
// the app can show an in-app notification feed.
type Notification struct {
	ID            string
	UserID        string
	AppointmentID string
	Channel       string
	Recipient     string
	Subject       string
	Body          string
	Status        string
	ReadAt        *time.Time
	CreatedAt     time.Time
}

type NotificationsRepository struct {
	pool *db.Pool
}

func NewNotificationsRepository(pool *db.Pool) *NotificationsRepository {
	return &NotificationsRepository{pool: pool}
}

func (r *NotificationsRepository) Insert(ctx context.Context, n Notification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (user_id, appointment_id, channel, recipient, subject, body, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.UserID, n.AppointmentID, n.Channel, n.Recipient, n.Subject, n.Body, n.Status)
	return err
}

func (r *NotificationsRepository) ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, COALESCE(appointment_id::text, ''), channel, recipient, subject, body, status, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.AppointmentID, &n.Channel, &n.Recipient, &n.Subject, &n.Body, &n.Status, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

// MarkRead flags one notification; the user must own it.
func (r *NotificationsRepository) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET read_at = now()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, notificationID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
