package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/availability"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/booking"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/outbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
)

type BookingHandler struct {
	scheduleRepo *storage.ScheduleRepository
	apptRepo     *storage.AppointmentRepository
	outboxRepo   *outbox.Repository
	logger       *slog.Logger
	cfg          booking.Config
	now          func() time.Time
}

func NewBookingHandler(scheduleRepo *storage.ScheduleRepository, apptRepo *storage.AppointmentRepository, outboxRepo *outbox.Repository, logger *slog.Logger, cfg booking.Config, now func() time.Time) *BookingHandler {
	if now == nil {
		now = time.Now
	}
	return &BookingHandler{
		scheduleRepo: scheduleRepo,
		apptRepo:     apptRepo,
		outboxRepo:   outboxRepo,
		logger:       logger,
		cfg:          cfg,
		now:          now,
	}
}

type doctorItem struct {
	DoctorID       string `json:"doctor_id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type slotsResponse struct {
	DoctorID string   `json:"doctor_id"`
	Slots    []string `json:"slots"`
}

type bookRequest struct {
	DoctorID  string `json:"doctor_id"`
	StartTime string `json:"start_time"`
	Notes     string `json:"notes"`
}

type bookResponse struct {
	AppointmentID string `json:"appointment_id"`
	Status        string `json:"status"`
	StartTime     string `json:"start_time"`
}

func (h *BookingHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doctors, err := h.scheduleRepo.ListDoctors(r.Context())
	if err != nil {
		http.Error(w, "failed to list doctors", http.StatusInternalServerError)
		return
	}

	items := make([]doctorItem, 0, len(doctors))
	for _, d := range doctors {
		items = append(items, doctorItem{
			DoctorID:       d.ID,
			Name:           d.DisplayName(),
			Specialization: d.Specialization,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

// Slots resolves bookable start times for one doctor over a date range.
// The range defaults to the booking horizon starting today and is clamped
// to it, so a patient can never see slots they cannot book.
func (h *BookingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doctorID := strings.TrimSpace(r.URL.Query().Get("doctor_id"))
	if doctorID == "" {
		http.Error(w, "doctor_id required", http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	from := now
	to := now.AddDate(0, 0, h.cfg.HorizonDays)
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		if day.After(from) {
			from = day
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		if day.Before(to) {
			to = day
		}
	}

	exists, err := h.scheduleRepo.DoctorExists(r.Context(), doctorID)
	if err != nil {
		http.Error(w, "failed to load doctor", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "doctor not found", http.StatusNotFound)
		return
	}

	windows, err := h.scheduleRepo.ListWindows(r.Context(), doctorID)
	if err != nil {
		http.Error(w, "failed to load windows", http.StatusInternalServerError)
		return
	}
	booked, err := h.apptRepo.ListBlockingStarts(r.Context(), doctorID, from, to.AddDate(0, 0, 1))
	if err != nil {
		http.Error(w, "failed to load booked slots", http.StatusInternalServerError)
		return
	}

	slots := availability.Resolve(windows, booked, from, to, now)
	resp := slotsResponse{DoctorID: doctorID, Slots: make([]string, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, s.UTC().Format(time.RFC3339))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	if id.Role != auth.RolePatient {
		http.Error(w, "patient role required", http.StatusForbidden)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	if req.DoctorID == "" {
		http.Error(w, "doctor_id required", http.StatusBadRequest)
		return
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartTime))
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	start = start.UTC()

	ctx := r.Context()
	exists, err := h.scheduleRepo.DoctorExists(ctx, req.DoctorID)
	if err != nil {
		http.Error(w, "failed to load doctor", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "doctor not found", http.StatusNotFound)
		return
	}

	windows, err := h.scheduleRepo.ListWindows(ctx, req.DoctorID)
	if err != nil {
		http.Error(w, "failed to load windows", http.StatusInternalServerError)
		return
	}
	now := h.now().UTC()
	booked, err := h.apptRepo.ListBlockingStarts(ctx, req.DoctorID, now, now.AddDate(0, 0, h.cfg.HorizonDays+1))
	if err != nil {
		http.Error(w, "failed to load booked slots", http.StatusInternalServerError)
		return
	}

	decision := booking.Validate(h.cfg, booking.Request{
		DoctorID:  req.DoctorID,
		PatientID: id.UserID,
		Start:     start,
		Notes:     strings.TrimSpace(req.Notes),
	}, windows, booked, now)

	switch decision.Outcome {
	case booking.OutcomeAccepted:
	case booking.OutcomeOutOfHorizon:
		http.Error(w, "start time outside the booking horizon", http.StatusUnprocessableEntity)
		return
	case booking.OutcomeInvalidWindow:
		http.Error(w, "doctor is not available at that time", http.StatusUnprocessableEntity)
		return
	case booking.OutcomeSlotUnavailable:
		http.Error(w, "start time does not align with a slot", http.StatusUnprocessableEntity)
		return
	case booking.OutcomeConflict:
		http.Error(w, "time slot already booked", http.StatusConflict)
		return
	default:
		http.Error(w, "booking rejected", http.StatusUnprocessableEntity)
		return
	}

	appt := decision.Appointment
	tx, err := h.apptRepo.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	apptID, err := h.apptRepo.Create(ctx, tx, &appt)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "time slot already booked", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": apptID,
		"doctor_id":      appt.DoctorID,
		"patient_id":     appt.PatientID,
		"start_time":     appt.StartTime.Format(time.RFC3339),
		"status":         string(appt.Status),
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   apptID,
		EventType:     outbox.EventAppointmentRequested,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(bookResponse{
		AppointmentID: apptID,
		Status:        string(appt.Status),
		StartTime:     appt.StartTime.Format(time.RFC3339),
	})
}
