package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/storage"
)

type NotificationsHandler struct {
	repo   *storage.NotificationsRepository
	logger *slog.Logger
}

func NewNotificationsHandler(repo *storage.NotificationsRepository, logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{repo: repo, logger: logger}
}

type notificationItem struct {
	NotificationID string `json:"notification_id"`
	AppointmentID  string `json:"appointment_id,omitempty"`
	Channel        string `json:"channel"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Status         string `json:"status"`
	ReadAt         string `json:"read_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type markReadRequest struct {
	NotificationID string `json:"notification_id"`
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	notifications, err := h.repo.ListForUser(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}

	items := make([]notificationItem, 0, len(notifications))
	for _, n := range notifications {
		item := notificationItem{
			NotificationID: n.ID,
			AppointmentID:  n.AppointmentID,
			Channel:        n.Channel,
			Subject:        n.Subject,
			Body:           n.Body,
			Status:         n.Status,
			CreatedAt:      n.CreatedAt.UTC().Format(time.RFC3339),
		}
		if n.ReadAt != nil {
			item.ReadAt = n.ReadAt.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(items)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.NotificationID = strings.TrimSpace(req.NotificationID)
	if req.NotificationID == "" {
		http.Error(w, "notification_id required", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.MarkRead(r.Context(), userID, req.NotificationID)
	if err != nil {
		http.Error(w, "failed to mark notification read", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "notification not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
