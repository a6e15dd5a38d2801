package storage

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
)

type User struct {
	ID             string
	Email          string
	PasswordHash   string
	Role           string
	FirstName      string
	LastName       string
	Specialization string
}

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user User) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, first_name, last_name, specialization)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
	`, user.ID, user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName, user.Specialization)
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, first_name, last_name, COALESCE(specialization, '')
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.FirstName, &user.LastName, &user.Specialization)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, first_name, last_name, COALESCE(specialization, '')
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.FirstName, &user.LastName, &user.Specialization)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func IsNotFound(err error) bool {
	return err == pgx.ErrNoRows
}
