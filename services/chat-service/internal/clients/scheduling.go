package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
)

type SchedulingClient struct {
	base   string
	client *http.Client
}

func NewSchedulingClient(base string) *SchedulingClient {
	return &SchedulingClient{base: strings.TrimRight(base, "/"), client: newHTTPClient()}
}

func (c *SchedulingClient) Doctors(ctx context.Context) ([]flow.Doctor, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/public/doctors", nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list doctors: unexpected status %d", resp.StatusCode)
	}

	var items []struct {
		DoctorID       string `json:"doctor_id"`
		Name           string `json:"name"`
		Specialization string `json:"specialization"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("list doctors: decode response: %w", err)
	}

	doctors := make([]flow.Doctor, 0, len(items))
	for _, it := range items {
		doctors = append(doctors, flow.Doctor{
			ID:             it.DoctorID,
			Name:           it.Name,
			Specialization: it.Specialization,
		})
	}
	return doctors, nil
}

func (c *SchedulingClient) Slots(ctx context.Context, doctorID string) ([]time.Time, error) {
	path := "/api/v1/public/slots?doctor_id=" + url.QueryEscape(doctorID)
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list slots: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Slots []string `json:"slots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list slots: decode response: %w", err)
	}

	slots := make([]time.Time, 0, len(out.Slots))
	for _, raw := range out.Slots {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("list slots: bad timestamp %q: %w", raw, err)
		}
		slots = append(slots, t)
	}
	return slots, nil
}

func (c *SchedulingClient) Book(ctx context.Context, user flow.User, doctorID string, start time.Time, notes string) error {
	body := map[string]string{
		"doctor_id":  doctorID,
		"start_time": start.Format(time.RFC3339),
		"notes":      notes,
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/public/book", &user, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// The slot list is a snapshot; either someone beat us to the slot
		// or it aged out of the booking horizon.
		return flow.ErrSlotTaken
	default:
		return fmt.Errorf("book: unexpected status %d", resp.StatusCode)
	}
}

func (c *SchedulingClient) AddWindow(ctx context.Context, user flow.User, w flow.Window) error {
	body := map[string]any{
		"day_of_week":  w.Day,
		"start_time":   w.StartTime,
		"end_time":     w.EndTime,
		"slot_minutes": w.SlotMinutes,
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/schedule/windows", &user, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return flow.ErrWindowOverlap
	default:
		return fmt.Errorf("add window: unexpected status %d", resp.StatusCode)
	}
}

type appointmentItem struct {
	AppointmentID string `json:"appointment_id"`
	DoctorID      string `json:"doctor_id"`
	PatientID     string `json:"patient_id"`
	StartTime     string `json:"start_time"`
	Status        string `json:"status"`
}

func (c *SchedulingClient) Appointments(ctx context.Context, user flow.User) ([]appointmentItem, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/appointments", &user, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list appointments: unexpected status %d", resp.StatusCode)
	}

	var items []appointmentItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("list appointments: decode response: %w", err)
	}
	return items, nil
}

func (c *SchedulingClient) CancelAppointment(ctx context.Context, user flow.User, appointmentID string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/appointments/cancel", &user, map[string]string{
		"appointment_id": appointmentID,
	})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cancel appointment: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *SchedulingClient) do(ctx context.Context, method, path string, user *flow.User, body any) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("X-User-Id", user.ID)
		req.Header.Set("X-Role", user.Role)
	}
	return c.client.Do(req)
}
