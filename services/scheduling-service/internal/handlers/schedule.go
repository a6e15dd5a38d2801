package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/schedule"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
)

type ScheduleHandler struct {
	repo   *storage.ScheduleRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduleHandler(repo *storage.ScheduleRepository, logger *slog.Logger, now func() time.Time) *ScheduleHandler {
	if now == nil {
		now = time.Now
	}
	return &ScheduleHandler{repo: repo, logger: logger, now: now}
}

type createWindowRequest struct {
	DoctorID    string `json:"doctor_id,omitempty"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SlotMinutes int    `json:"slot_minutes"`
}

type windowItem struct {
	WindowID    string `json:"window_id"`
	DoctorID    string `json:"doctor_id"`
	DayOfWeek   int    `json:"day_of_week"`
	DayName     string `json:"day_name"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SlotMinutes int    `json:"slot_minutes"`
}

type deleteWindowRequest struct {
	DoctorID string `json:"doctor_id,omitempty"`
	WindowID string `json:"window_id"`
}

// windowDoctorID resolves which doctor a schedule call operates on. Doctors
// manage their own windows; admins may act for any doctor via doctor_id.
func windowDoctorID(id Identity, requested string) (string, bool) {
	switch id.Role {
	case auth.RoleDoctor:
		return id.UserID, true
	case auth.RoleAdmin:
		if requested != "" {
			return requested, true
		}
		return "", false
	default:
		return "", false
	}
}

func (h *ScheduleHandler) CreateWindow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req createWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	doctorID, ok := windowDoctorID(id, strings.TrimSpace(req.DoctorID))
	if !ok {
		http.Error(w, "doctor role required", http.StatusForbidden)
		return
	}

	start, err := schedule.ParseTimeOfDay(strings.TrimSpace(req.StartTime))
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}
	end, err := schedule.ParseTimeOfDay(strings.TrimSpace(req.EndTime))
	if err != nil {
		http.Error(w, "invalid end_time", http.StatusBadRequest)
		return
	}
	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = 30
	}

	win := schedule.Window{
		DoctorID:    doctorID,
		Day:         schedule.Weekday(req.DayOfWeek),
		Start:       start,
		End:         end,
		SlotMinutes: slotMinutes,
	}
	if err := win.Validate(); err != nil {
		if errors.Is(err, schedule.ErrInvalidWindow) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "invalid window", http.StatusBadRequest)
		return
	}

	existing, err := h.repo.ListWindows(r.Context(), doctorID)
	if err != nil {
		http.Error(w, "failed to load windows", http.StatusInternalServerError)
		return
	}
	for _, other := range existing {
		if schedule.Overlaps(win, other) {
			http.Error(w, "window overlaps an existing window", http.StatusConflict)
			return
		}
	}

	windowID, err := h.repo.InsertWindow(r.Context(), win)
	if err != nil {
		http.Error(w, "failed to create window", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"window_id": windowID})
}

func (h *ScheduleHandler) ListWindows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	doctorID, ok := windowDoctorID(id, strings.TrimSpace(r.URL.Query().Get("doctor_id")))
	if !ok {
		http.Error(w, "doctor role required", http.StatusForbidden)
		return
	}

	windows, err := h.repo.ListWindows(r.Context(), doctorID)
	if err != nil {
		http.Error(w, "failed to list windows", http.StatusInternalServerError)
		return
	}

	items := make([]windowItem, 0, len(windows))
	for _, win := range windows {
		items = append(items, windowItem{
			WindowID:    win.ID,
			DoctorID:    win.DoctorID,
			DayOfWeek:   int(win.Day),
			DayName:     win.Day.String(),
			StartTime:   win.Start.String(),
			EndTime:     win.End.String(),
			SlotMinutes: win.SlotMinutes,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

// DeleteWindow refuses to remove a window while future pending or confirmed
// appointments still sit inside it. Patients keep their slots; the doctor
// cancels those appointments first.
func (h *ScheduleHandler) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req deleteWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.WindowID = strings.TrimSpace(req.WindowID)
	if req.WindowID == "" {
		http.Error(w, "window_id required", http.StatusBadRequest)
		return
	}
	doctorID, ok := windowDoctorID(id, strings.TrimSpace(req.DoctorID))
	if !ok {
		http.Error(w, "doctor role required", http.StatusForbidden)
		return
	}

	win, err := h.repo.GetWindow(r.Context(), doctorID, req.WindowID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "window not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load window", http.StatusInternalServerError)
		return
	}

	blocking, err := h.repo.CountBlockingInWindow(r.Context(), doctorID, win.Day, win.Start, win.End, h.now().UTC())
	if err != nil {
		http.Error(w, "failed to check appointments", http.StatusInternalServerError)
		return
	}
	if blocking > 0 {
		http.Error(w, "window has upcoming appointments", http.StatusConflict)
		return
	}

	deleted, err := h.repo.DeleteWindow(r.Context(), doctorID, req.WindowID)
	if err != nil {
		http.Error(w, "failed to delete window", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "window not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
