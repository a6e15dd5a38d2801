package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
)

func TestSchedulingClientBookForwardsIdentity(t *testing.T) {
	var gotUserID, gotRole string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/public/book" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		gotUserID = r.Header.Get("X-User-Id")
		gotRole = r.Header.Get("X-Role")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewSchedulingClient(srv.URL)
	user := flow.User{ID: "u1", Role: "patient", Name: "Jane Doe"}
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if err := client.Book(context.Background(), user, "d1", start, "knee pain"); err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if gotUserID != "u1" || gotRole != "patient" {
		t.Fatalf("identity headers not forwarded: %q %q", gotUserID, gotRole)
	}
	if gotBody["doctor_id"] != "d1" || gotBody["start_time"] != "2026-03-02T09:00:00Z" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestSchedulingClientBookConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "time slot already booked", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewSchedulingClient(srv.URL)
	err := client.Book(context.Background(), flow.User{ID: "u1", Role: "patient"}, "d1", time.Now(), "")
	if !errors.Is(err, flow.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestSchedulingClientSlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("doctor_id") != "d1" {
			t.Fatalf("missing doctor_id query: %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"doctor_id": "d1",
			"slots":     []string{"2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"},
		})
	}))
	defer srv.Close()

	client := NewSchedulingClient(srv.URL)
	slots, err := client.Slots(context.Background(), "d1")
	if err != nil {
		t.Fatalf("Slots failed: %v", err)
	}
	if len(slots) != 2 || !slots[0].Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected slots: %v", slots)
	}
}

func TestEnvAppointmentsUsesDirectoryName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/public/doctors":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"doctor_id": "d1", "name": "Dr. Greg House", "specialization": "Diagnostics"},
			})
		case "/api/v1/appointments":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"appointment_id": "a1", "doctor_id": "d1", "patient_id": "u1",
					"start_time": "2026-03-02T09:00:00Z", "status": "pending"},
			})
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	env := &Env{Scheduling: NewSchedulingClient(srv.URL)}
	appts, err := env.Appointments(context.Background(), flow.User{ID: "u1", Role: "patient"})
	if err != nil {
		t.Fatalf("Appointments failed: %v", err)
	}
	if len(appts) != 1 || appts[0].Doctor != "Dr. Greg House" {
		t.Fatalf("counterpart name wrong: %+v", appts)
	}
}

func TestAuthClientRegisterEmailTaken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "email already registered", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewAuthClient(srv.URL)
	err := client.Register(context.Background(), flow.Registration{
		Email:    "jane@example.com",
		Password: "secret123",
		Role:     "patient",
	})
	if !errors.Is(err, flow.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
