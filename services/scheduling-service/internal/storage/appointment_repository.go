package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/booking"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/model"
)

type AppointmentRepository struct {
	pool *db.Pool
}

func NewAppointmentRepository(pool *db.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// Create inserts a new appointment row. A partial unique index on
// (doctor_id, start_time) over pending and confirmed rows closes the race
// between validation and commit; a unique violation surfaces as
// booking.ErrSlotTaken.
func (r *AppointmentRepository) Create(ctx context.Context, tx pgx.Tx, appt *model.Appointment) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO appointments (doctor_id, patient_id, start_time, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, appt.DoctorID, appt.PatientID, appt.StartTime, appt.Status, appt.Notes).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", booking.ErrSlotTaken
		}
		return "", err
	}
	return id, nil
}

func (r *AppointmentRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, appointmentID string) (model.Appointment, error) {
	var appt model.Appointment
	var cancelledAt *time.Time
	err := tx.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, start_time, status, COALESCE(notes, ''), cancelled_at, created_at
		FROM appointments
		WHERE id = $1
		FOR UPDATE
	`, appointmentID).Scan(
		&appt.ID,
		&appt.DoctorID,
		&appt.PatientID,
		&appt.StartTime,
		&appt.Status,
		&appt.Notes,
		&cancelledAt,
		&appt.CreatedAt,
	)
	if err != nil {
		return model.Appointment{}, err
	}
	appt.CancelledAt = cancelledAt
	return appt, nil
}

func (r *AppointmentRepository) Confirm(ctx context.Context, tx pgx.Tx, appointmentID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE appointments
		SET status = 'confirmed'
		WHERE id = $1
	`, appointmentID)
	return err
}

func (r *AppointmentRepository) Cancel(ctx context.Context, tx pgx.Tx, appointmentID string) (time.Time, error) {
	var cancelledAt time.Time
	err := tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
			cancelled_at = now()
		WHERE id = $1
		RETURNING cancelled_at
	`, appointmentID).Scan(&cancelledAt)
	return cancelledAt, err
}

// ListBlockingStarts returns start times of pending and confirmed
// appointments for the doctor in [from, to). Feeds slot resolution and
// pre-commit conflict checks.
func (r *AppointmentRepository) ListBlockingStarts(ctx context.Context, doctorID string, from, to time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT start_time
		FROM appointments
		WHERE doctor_id = $1
			AND status IN ('pending', 'confirmed')
			AND start_time >= $2
			AND start_time < $3
		ORDER BY start_time ASC
	`, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		starts = append(starts, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return starts, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID string, limit int) ([]model.Appointment, error) {
	return r.list(ctx, `doctor_id`, doctorID, limit)
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]model.Appointment, error) {
	return r.list(ctx, `patient_id`, patientID, limit)
}

func (r *AppointmentRepository) list(ctx context.Context, column, id string, limit int) ([]model.Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, start_time, status, COALESCE(notes, ''), cancelled_at, created_at
		FROM appointments
		WHERE `+column+` = $1
		ORDER BY start_time DESC
		LIMIT $2
	`, id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListRecent returns the newest appointments for the admin dashboard.
func (r *AppointmentRepository) ListRecent(ctx context.Context, limit int) ([]model.Appointment, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, start_time, status, COALESCE(notes, ''), cancelled_at, created_at
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]model.Appointment, error) {
	var appts []model.Appointment
	for rows.Next() {
		var appt model.Appointment
		var cancelledAt *time.Time
		if err := rows.Scan(
			&appt.ID,
			&appt.DoctorID,
			&appt.PatientID,
			&appt.StartTime,
			&appt.Status,
			&appt.Notes,
			&cancelledAt,
			&appt.CreatedAt,
		); err != nil {
			return nil, err
		}
		appt.CancelledAt = cancelledAt
		appts = append(appts, appt)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appts, nil
}

// Stats aggregates counters for the admin dashboard.
type Stats struct {
	Doctors      int `json:"doctors"`
	Patients     int `json:"patients"`
	Appointments int `json:"appointments"`
	Pending      int `json:"pending"`
	Confirmed    int `json:"confirmed"`
	Cancelled    int `json:"cancelled"`
	Upcoming     int `json:"upcoming"`
}

func (r *AppointmentRepository) CollectStats(ctx context.Context, now time.Time) (Stats, error) {
	var s Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM doctors),
			(SELECT count(DISTINCT patient_id) FROM appointments),
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'confirmed'),
			count(*) FILTER (WHERE status = 'cancelled'),
			count(*) FILTER (WHERE status IN ('pending', 'confirmed') AND start_time > $1)
		FROM appointments
	`, now).Scan(&s.Doctors, &s.Patients, &s.Appointments, &s.Pending, &s.Confirmed, &s.Cancelled, &s.Upcoming)
	return s, err
}

func IsConflict(err error) bool {
	return errors.Is(err, booking.ErrSlotTaken)
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
