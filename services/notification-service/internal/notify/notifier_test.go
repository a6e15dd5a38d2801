package notify

import (
	"strings"
	"testing"
	"time"
)

func TestMessage(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	subject, body := Message(TopicAppointmentConfirmed, "Dr. Jane Roe", start)
	if subject != "Appointment confirmed" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Dr. Jane Roe") {
		t.Fatalf("body should name the doctor: %q", body)
	}
	if !strings.Contains(body, "Monday, 02 Mar 2026 at 09:00") {
		t.Fatalf("body should include the start time: %q", body)
	}

	subject, body = Message(TopicAppointmentRequested, "", start)
	if subject != "New appointment request" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "A patient requested") {
		t.Fatalf("anonymous request body wrong: %q", body)
	}

	subject, _ = Message(TopicAppointmentCancelled, "", start)
	if subject != "Appointment cancelled" {
		t.Fatalf("unexpected subject %q", subject)
	}

	if subject, _ := Message("some.other.topic.v1", "", start); subject != "" {
		t.Fatalf("unknown topic must yield empty subject, got %q", subject)
	}
}
