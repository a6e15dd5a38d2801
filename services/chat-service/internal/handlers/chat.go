package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/session"
)

type ChatHandler struct {
	store  *session.Store
	env    flow.Env
	logger *slog.Logger
}

func NewChatHandler(store *session.Store, env flow.Env, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{store: store, env: env, logger: logger}
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type messageResponse struct {
	SessionID   string   `json:"session_id"`
	Message     string   `json:"message"`
	Options     []string `json:"options,omitempty"`
	ExpectInput bool     `json:"expect_input,omitempty"`
	Password    bool     `json:"password,omitempty"`
}

func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	state, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("session load failed", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	next, reply := flow.Transition(r.Context(), state, req.Message, h.env)

	if err := h.store.Save(r.Context(), sessionID, next); err != nil {
		h.logger.Error("session save failed", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(messageResponse{
		SessionID:   sessionID,
		Message:     reply.Message,
		Options:     reply.Options,
		ExpectInput: reply.ExpectInput,
		Password:    reply.Password,
	})
}
