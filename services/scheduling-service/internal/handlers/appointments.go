package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/model"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/outbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
)

type AppointmentsHandler struct {
	repo       *storage.AppointmentRepository
	outboxRepo *outbox.Repository
	logger     *slog.Logger
	now        func() time.Time
}

func NewAppointmentsHandler(repo *storage.AppointmentRepository, outboxRepo *outbox.Repository, logger *slog.Logger, now func() time.Time) *AppointmentsHandler {
	if now == nil {
		now = time.Now
	}
	return &AppointmentsHandler{repo: repo, outboxRepo: outboxRepo, logger: logger, now: now}
}

type appointmentActionRequest struct {
	AppointmentID string `json:"appointment_id"`
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	DoctorID      string `json:"doctor_id"`
	PatientID     string `json:"patient_id"`
	StartTime     string `json:"start_time"`
	Status        string `json:"status"`
	Notes         string `json:"notes,omitempty"`
	CancelledAt   string `json:"cancelled_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// Confirm moves a pending appointment to confirmed. Only the appointment's
// doctor or an admin may confirm; confirming twice is a no-op.
func (h *AppointmentsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req appointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	if !canManage(id, appt) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	switch appt.Status {
	case model.StatusConfirmed:
		writeStatusResponse(w, appt.ID, model.StatusConfirmed)
		return
	case model.StatusCancelled:
		http.Error(w, "appointment is cancelled", http.StatusConflict)
		return
	}

	if err := h.repo.Confirm(ctx, tx, appt.ID); err != nil {
		http.Error(w, "failed to confirm appointment", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"doctor_id":      appt.DoctorID,
		"patient_id":     appt.PatientID,
		"start_time":     appt.StartTime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentConfirmed,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeStatusResponse(w, appt.ID, model.StatusConfirmed)
}

// Cancel releases the slot. The patient who booked, the doctor, or an admin
// may cancel; cancelling twice is a no-op.
func (h *AppointmentsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req appointmentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	appt, err := h.repo.GetForUpdate(ctx, tx, req.AppointmentID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load appointment", http.StatusInternalServerError)
		return
	}
	patientOwner := id.Role == auth.RolePatient && id.UserID == appt.PatientID
	if !canManage(id, appt) && !patientOwner {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if appt.Status == model.StatusCancelled {
		writeStatusResponse(w, appt.ID, model.StatusCancelled)
		return
	}

	// Patients may only cancel appointments that have not started yet.
	if patientOwner && !canManage(id, appt) && !appt.StartTime.After(h.now().UTC()) {
		http.Error(w, "appointment already started", http.StatusConflict)
		return
	}

	cancelledAt, err := h.repo.Cancel(ctx, tx, appt.ID)
	if err != nil {
		http.Error(w, "failed to cancel appointment", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": appt.ID,
		"doctor_id":      appt.DoctorID,
		"patient_id":     appt.PatientID,
		"start_time":     appt.StartTime.UTC().Format(time.RFC3339),
		"cancelled_at":   cancelledAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   appt.ID,
		EventType:     outbox.EventAppointmentCancelled,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	writeStatusResponse(w, appt.ID, model.StatusCancelled)
}

func (h *AppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var appts []model.Appointment
	var err error
	switch id.Role {
	case auth.RolePatient:
		appts, err = h.repo.ListByPatient(r.Context(), id.UserID, limit)
	case auth.RoleDoctor:
		appts, err = h.repo.ListByDoctor(r.Context(), id.UserID, limit)
	case auth.RoleAdmin:
		if doctorID := strings.TrimSpace(r.URL.Query().Get("doctor_id")); doctorID != "" {
			appts, err = h.repo.ListByDoctor(r.Context(), doctorID, limit)
		} else if patientID := strings.TrimSpace(r.URL.Query().Get("patient_id")); patientID != "" {
			appts, err = h.repo.ListByPatient(r.Context(), patientID, limit)
		} else {
			http.Error(w, "doctor_id or patient_id required", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if err != nil {
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentItem, 0, len(appts))
	for _, appt := range appts {
		items = append(items, toAppointmentItem(appt))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

func toAppointmentItem(appt model.Appointment) appointmentItem {
	item := appointmentItem{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		StartTime:     appt.StartTime.UTC().Format(time.RFC3339),
		Status:        string(appt.Status),
		Notes:         appt.Notes,
		CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339),
	}
	if appt.CancelledAt != nil {
		item.CancelledAt = appt.CancelledAt.UTC().Format(time.RFC3339)
	}
	return item
}

func canManage(id Identity, appt model.Appointment) bool {
	if id.Role == auth.RoleAdmin {
		return true
	}
	return id.Role == auth.RoleDoctor && id.UserID == appt.DoctorID
}

func writeStatusResponse(w http.ResponseWriter, appointmentID string, status model.Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"appointment_id": appointmentID,
		"status":         string(status),
	})
}
