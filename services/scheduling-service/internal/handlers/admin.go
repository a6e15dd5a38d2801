package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/scheduling-service/internal/storage"
)

type AdminHandler struct {
	repo   *storage.AppointmentRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewAdminHandler(repo *storage.AppointmentRepository, logger *slog.Logger, now func() time.Time) *AdminHandler {
	if now == nil {
		now = time.Now
	}
	return &AdminHandler{repo: repo, logger: logger, now: now}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := identityFrom(r)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	if id.Role != auth.RoleAdmin {
		http.Error(w, "admin role required", http.StatusForbidden)
		return
	}

	stats, err := h.repo.CollectStats(r.Context(), h.now().UTC())
	if err != nil {
		http.Error(w, "failed to collect stats", http.StatusInternalServerError)
		return
	}
	recent, err := h.repo.ListRecent(r.Context(), 20)
	if err != nil {
		http.Error(w, "failed to collect stats", http.StatusInternalServerError)
		return
	}

	items := make([]appointmentItem, 0, len(recent))
	for _, appt := range recent {
		items = append(items, toAppointmentItem(appt))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(statsResponse{Stats: stats, Recent: items})
}

type statsResponse struct {
	Stats  storage.Stats     `json:"stats"`
	Recent []appointmentItem `json:"recent"`
}
