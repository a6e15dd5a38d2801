package storage

import (
	"context"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
)

// SpecializationRepository reads the seeded list of medical specializations
// shown to patients when choosing a doctor.
type SpecializationRepository struct {
	pool *db.Pool
}

func NewSpecializationRepository(pool *db.Pool) *SpecializationRepository {
	return &SpecializationRepository{pool: pool}
}

func (r *SpecializationRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name
		FROM specializations
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return names, nil
}

func (r *SpecializationRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM specializations WHERE name = $1)
	`, name).Scan(&exists)
	return exists, err
}
