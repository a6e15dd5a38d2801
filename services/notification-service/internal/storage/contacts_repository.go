package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
)

// Contact mirrors user identities from auth-service so notifications can be
// addressed without a cross-service call.
type Contact struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type ContactsRepository struct {
	pool *db.Pool
}

func NewContactsRepository(pool *db.Pool) *ContactsRepository {
	return &ContactsRepository{pool: pool}
}

func (r *ContactsRepository) Upsert(ctx context.Context, c Contact) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO contacts (user_id, email, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
			name = EXCLUDED.name,
			role = EXCLUDED.role
	`, c.UserID, c.Email, c.Name, c.Role)
	return err
}

func (r *ContactsRepository) Get(ctx context.Context, userID string) (Contact, error) {
	var c Contact
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, email, name, role
		FROM contacts
		WHERE user_id = $1
	`, userID).Scan(&c.UserID, &c.Email, &c.Name, &c.Role)
	if err != nil {
		return Contact{}, err
	}
	return c, nil
}

func IsNotFound(err error) bool {
	return err == pgx.ErrNoRows
}
