package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
)

// DirectoryProvider lists the bookable doctors. The default is the
// scheduling service's HTTP endpoint; a gRPC provider can be swapped in.
type DirectoryProvider interface {
	ListDoctors(ctx context.Context) ([]flow.Doctor, error)
}

// Env wires the HTTP clients into the flow state machine.
type Env struct {
	Auth       *AuthClient
	Scheduling *SchedulingClient
	Directory  DirectoryProvider
}

var _ flow.Env = (*Env)(nil)

func (e *Env) ListDoctors(ctx context.Context) ([]flow.Doctor, error) {
	if e.Directory != nil {
		return e.Directory.ListDoctors(ctx)
	}
	return e.Scheduling.Doctors(ctx)
}

func (e *Env) ListSpecializations(ctx context.Context) ([]string, error) {
	return e.Auth.Specializations(ctx)
}

func (e *Env) ListSlots(ctx context.Context, doctorID string) ([]time.Time, error) {
	return e.Scheduling.Slots(ctx, doctorID)
}

func (e *Env) Register(ctx context.Context, in flow.Registration) error {
	return e.Auth.Register(ctx, in)
}

func (e *Env) Login(ctx context.Context, email, password string) (flow.User, error) {
	return e.Auth.Login(ctx, email, password)
}

func (e *Env) Book(ctx context.Context, user flow.User, doctorID string, start time.Time, notes string) error {
	return e.Scheduling.Book(ctx, user, doctorID, start, notes)
}

func (e *Env) AddWindow(ctx context.Context, user flow.User, w flow.Window) error {
	return e.Scheduling.AddWindow(ctx, user, w)
}

func (e *Env) Appointments(ctx context.Context, user flow.User) ([]flow.Appointment, error) {
	items, err := e.Scheduling.Appointments(ctx, user)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	if user.Role == "patient" && len(items) > 0 {
		doctors, err := e.ListDoctors(ctx)
		if err == nil {
			for _, d := range doctors {
				names[d.ID] = d.Name
			}
		}
	}

	appts := make([]flow.Appointment, 0, len(items))
	for _, it := range items {
		start, err := time.Parse(time.RFC3339, it.StartTime)
		if err != nil {
			return nil, fmt.Errorf("bad appointment timestamp %q: %w", it.StartTime, err)
		}
		counterpart := names[it.DoctorID]
		if counterpart == "" {
			if user.Role == "doctor" {
				counterpart = "patient " + shortID(it.PatientID)
			} else {
				counterpart = "doctor " + shortID(it.DoctorID)
			}
		}
		appts = append(appts, flow.Appointment{
			ID:     it.AppointmentID,
			Doctor: counterpart,
			Start:  start,
			Status: it.Status,
		})
	}
	return appts, nil
}

func (e *Env) CancelAppointment(ctx context.Context, user flow.User, appointmentID string) error {
	return e.Scheduling.CancelAppointment(ctx, user, appointmentID)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
