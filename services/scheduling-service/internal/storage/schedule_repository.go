package storage

import (
	"context"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/model"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/schedule"
)

// ScheduleRepository persists doctor availability windows and the local
// doctor directory. Windows store times of day as minutes since midnight.
type ScheduleRepository struct {
	pool *db.Pool
}

func NewScheduleRepository(pool *db.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

func (r *ScheduleRepository) InsertWindow(ctx context.Context, w schedule.Window) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO schedule_windows (doctor_id, day_of_week, start_minute, end_minute, slot_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, w.DoctorID, int(w.Day), int(w.Start), int(w.End), w.SlotMinutes).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ScheduleRepository) ListWindows(ctx context.Context, doctorID string) ([]schedule.Window, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, day_of_week, start_minute, end_minute, slot_minutes, created_at
		FROM schedule_windows
		WHERE doctor_id = $1
		ORDER BY day_of_week, start_minute
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []schedule.Window
	for rows.Next() {
		var w schedule.Window
		var day, start, end int
		if err := rows.Scan(&w.ID, &w.DoctorID, &day, &start, &end, &w.SlotMinutes, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.Day = schedule.Weekday(day)
		w.Start = schedule.TimeOfDay(start)
		w.End = schedule.TimeOfDay(end)
		windows = append(windows, w)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return windows, nil
}

// GetWindow returns one window owned by doctorID.
func (r *ScheduleRepository) GetWindow(ctx context.Context, doctorID, windowID string) (schedule.Window, error) {
	var w schedule.Window
	var day, start, end int
	err := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, day_of_week, start_minute, end_minute, slot_minutes, created_at
		FROM schedule_windows
		WHERE id = $1 AND doctor_id = $2
	`, windowID, doctorID).Scan(&w.ID, &w.DoctorID, &day, &start, &end, &w.SlotMinutes, &w.CreatedAt)
	if err != nil {
		return schedule.Window{}, err
	}
	w.Day = schedule.Weekday(day)
	w.Start = schedule.TimeOfDay(start)
	w.End = schedule.TimeOfDay(end)
	return w, nil
}

func (r *ScheduleRepository) DeleteWindow(ctx context.Context, doctorID, windowID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM schedule_windows
		WHERE id = $1 AND doctor_id = $2
	`, windowID, doctorID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountBlockingInWindow counts pending and confirmed future appointments
// whose start time falls inside the given window. Used to refuse deleting a
// window that still has live bookings behind it.
func (r *ScheduleRepository) CountBlockingInWindow(ctx context.Context, doctorID string, day schedule.Weekday, start, end schedule.TimeOfDay, now time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments
		WHERE doctor_id = $1
			AND status IN ('pending', 'confirmed')
			AND start_time > $5
			AND (EXTRACT(ISODOW FROM start_time AT TIME ZONE 'UTC')::int - 1) = $2
			AND (EXTRACT(HOUR FROM start_time AT TIME ZONE 'UTC')::int * 60
				+ EXTRACT(MINUTE FROM start_time AT TIME ZONE 'UTC')::int) >= $3
			AND (EXTRACT(HOUR FROM start_time AT TIME ZONE 'UTC')::int * 60
				+ EXTRACT(MINUTE FROM start_time AT TIME ZONE 'UTC')::int) < $4
	`, doctorID, int(day), int(start), int(end), now).Scan(&n)
	return n, err
}

func (r *ScheduleRepository) UpsertDoctor(ctx context.Context, d model.Doctor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (id, first_name, last_name, specialization)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			specialization = EXCLUDED.specialization
	`, d.ID, d.FirstName, d.LastName, d.Specialization)
	return err
}

func (r *ScheduleRepository) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, specialization, created_at
		FROM doctors
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []model.Doctor
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialization, &d.CreatedAt); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return doctors, nil
}

func (r *ScheduleRepository) DoctorExists(ctx context.Context, doctorID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)
	`, doctorID).Scan(&exists)
	return exists, err
}
