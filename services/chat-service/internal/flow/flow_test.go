package flow

import (
	"context"
	"strings"
	"testing"
	"time"
)

type fakeEnv struct {
	doctors []Doctor
	specs   []string
	slots   []time.Time
	appts   []Appointment

	registerErr error
	loginErr    error
	bookErr     error
	windowErr   error

	registered  *Registration
	loginUser   User
	booked      *struct {
		doctorID string
		start    time.Time
		notes    string
	}
	addedWindow *Window
	cancelledID string
}

func (f *fakeEnv) ListDoctors(_ context.Context) ([]Doctor, error) { return f.doctors, nil }

func (f *fakeEnv) ListSpecializations(_ context.Context) ([]string, error) { return f.specs, nil }

func (f *fakeEnv) ListSlots(_ context.Context, _ string) ([]time.Time, error) {
	return f.slots, nil
}

func (f *fakeEnv) Register(_ context.Context, in Registration) error {
	f.registered = &in
	return f.registerErr
}

func (f *fakeEnv) Login(_ context.Context, _, _ string) (User, error) {
	return f.loginUser, f.loginErr
}

func (f *fakeEnv) Book(_ context.Context, _ User, doctorID string, start time.Time, notes string) error {
	f.booked = &struct {
		doctorID string
		start    time.Time
		notes    string
	}{doctorID, start, notes}
	return f.bookErr
}

func (f *fakeEnv) AddWindow(_ context.Context, _ User, w Window) error {
	f.addedWindow = &w
	return f.windowErr
}

func (f *fakeEnv) Appointments(_ context.Context, _ User) ([]Appointment, error) {
	return f.appts, nil
}

func (f *fakeEnv) CancelAppointment(_ context.Context, _ User, id string) error {
	f.cancelledID = id
	return nil
}

func patientState() State {
	return State{Kind: KindIdle, User: &User{ID: "u1", Role: "patient", Name: "Jane Doe"}}
}

func doctorState() State {
	return State{Kind: KindIdle, User: &User{ID: "d1", Role: "doctor", Name: "Greg House"}}
}

func TestHelpByRole(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{}

	_, anon := Transition(ctx, State{Kind: KindIdle}, "help", env)
	if !strings.Contains(anon.Message, "register") || !strings.Contains(anon.Message, "login") {
		t.Fatalf("anonymous help missing commands: %q", anon.Message)
	}

	_, patient := Transition(ctx, patientState(), "help", env)
	if !strings.Contains(patient.Message, "Hello Jane") || !strings.Contains(patient.Message, "book") {
		t.Fatalf("patient help wrong: %q", patient.Message)
	}

	_, doctor := Transition(ctx, doctorState(), "help", env)
	if !strings.Contains(doctor.Message, "Dr. Greg") || !strings.Contains(doctor.Message, "schedule") {
		t.Fatalf("doctor help wrong: %q", doctor.Message)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, reply := Transition(context.Background(), State{Kind: KindIdle}, "bogus", &fakeEnv{})
	if !strings.Contains(reply.Message, "didn't understand") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestRegisterDoctorWalk(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{specs: []string{"Cardiology", "Diagnostics"}}
	state := State{Kind: KindIdle}

	steps := []string{"register", "greg@example.com", "Greg", "House", "2", "2", "secret123"}
	var reply Reply
	for _, input := range steps {
		state, reply = Transition(ctx, state, input, env)
	}

	if env.registered == nil {
		t.Fatal("Register was not called")
	}
	got := *env.registered
	if got.Email != "greg@example.com" || got.FirstName != "Greg" || got.LastName != "House" {
		t.Fatalf("unexpected registration: %+v", got)
	}
	if got.Role != "doctor" || got.Specialization != "Diagnostics" || got.Password != "secret123" {
		t.Fatalf("unexpected registration: %+v", got)
	}
	if state.Kind != KindIdle {
		t.Fatalf("expected idle after registration, got %q", state.Kind)
	}
	if !strings.Contains(reply.Message, "successful") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestRegisterSpecializationByName(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{specs: []string{"Cardiology", "Diagnostics"}}
	state := State{Kind: KindIdle}

	var reply Reply
	for _, input := range []string{"register", "greg@example.com", "Greg", "House", "2"} {
		state, reply = Transition(ctx, state, input, env)
	}
	if !strings.Contains(reply.Message, "1. Cardiology") {
		t.Fatalf("specialization menu missing: %q", reply.Message)
	}

	state, reply = Transition(ctx, state, "diagnostics", env)
	if state.Register.Specialization != "Diagnostics" {
		t.Fatalf("name match failed: %+v", state.Register)
	}
	if !reply.Password {
		t.Fatalf("expected password prompt, got %q", reply.Message)
	}
}

func TestRegisterRejectsBadEmail(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{}
	state, _ := Transition(ctx, State{Kind: KindIdle}, "register", env)

	state, reply := Transition(ctx, state, "not-an-email", env)
	if !strings.Contains(reply.Message, "valid email") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	if state.Kind != KindRegister || state.Register.Email != "" {
		t.Fatalf("email should not have been accepted: %+v", state.Register)
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{registerErr: ErrEmailTaken}
	state := State{Kind: KindIdle}

	for _, input := range []string{"register", "jane@example.com", "Jane", "Doe", "1", "secret123"} {
		var reply Reply
		state, reply = Transition(ctx, state, input, env)
		if state.Kind == KindIdle && strings.Contains(reply.Message, "already registered") {
			return
		}
	}
	t.Fatal("expected already-registered reply")
}

func TestLoginSuccessAndFailure(t *testing.T) {
	ctx := context.Background()

	env := &fakeEnv{loginUser: User{ID: "u1", Role: "patient", Name: "Jane Doe"}}
	state, _ := Transition(ctx, State{Kind: KindIdle}, "login", env)
	state, _ = Transition(ctx, state, "jane@example.com", env)
	state, reply := Transition(ctx, state, "secret123", env)

	if state.User == nil || state.User.ID != "u1" {
		t.Fatalf("expected logged-in user, got %+v", state.User)
	}
	if !strings.Contains(reply.Message, "Welcome back Jane") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}

	envBad := &fakeEnv{loginErr: ErrInvalidCredentials}
	state, _ = Transition(ctx, State{Kind: KindIdle}, "login", envBad)
	state, _ = Transition(ctx, state, "jane@example.com", envBad)
	state, reply = Transition(ctx, state, "wrong", envBad)
	if state.User != nil {
		t.Fatal("failed login must not set a user")
	}
	if !strings.Contains(reply.Message, "Invalid email or password") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestBookRequiresPatient(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{}

	_, anon := Transition(ctx, State{Kind: KindIdle}, "book", env)
	if !strings.Contains(anon.Message, "login first") {
		t.Fatalf("unexpected reply: %q", anon.Message)
	}

	_, doc := Transition(ctx, doctorState(), "book", env)
	if !strings.Contains(doc.Message, "Only patients") {
		t.Fatalf("unexpected reply: %q", doc.Message)
	}
}

func TestBookWalk(t *testing.T) {
	ctx := context.Background()
	slot1 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	slot2 := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	env := &fakeEnv{
		doctors: []Doctor{
			{ID: "d1", Name: "Dr. Greg House", Specialization: "Diagnostics"},
			{ID: "d2", Name: "Dr. James Wilson", Specialization: "Oncology"},
		},
		slots: []time.Time{slot1, slot2},
	}

	state, reply := Transition(ctx, patientState(), "book", env)
	if !strings.Contains(reply.Message, "1. Dr. Greg House (Diagnostics)") {
		t.Fatalf("doctor menu wrong: %q", reply.Message)
	}
	if strings.Contains(reply.Message, "Dr. Dr.") {
		t.Fatalf("directory name double-prefixed: %q", reply.Message)
	}

	state, reply = Transition(ctx, state, "2", env)
	if !strings.Contains(reply.Message, "Monday, March 2 at 9:00 AM") {
		t.Fatalf("slot menu wrong: %q", reply.Message)
	}

	state, _ = Transition(ctx, state, "2", env)
	state, reply = Transition(ctx, state, "no", env)

	if env.booked == nil {
		t.Fatal("Book was not called")
	}
	if env.booked.doctorID != "d2" || !env.booked.start.Equal(slot2) || env.booked.notes != "" {
		t.Fatalf("unexpected booking: %+v", env.booked)
	}
	if state.Kind != KindIdle || !strings.Contains(reply.Message, "Appointment requested") {
		t.Fatalf("unexpected final state/reply: %q %q", state.Kind, reply.Message)
	}
}

func TestBookSlotTaken(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{
		doctors: []Doctor{{ID: "d1", Name: "Dr. Greg House"}},
		slots:   []time.Time{time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		bookErr: ErrSlotTaken,
	}

	state, _ := Transition(ctx, patientState(), "book", env)
	state, _ = Transition(ctx, state, "1", env)
	state, _ = Transition(ctx, state, "1", env)
	state, reply := Transition(ctx, state, "no", env)

	if state.Kind != KindIdle {
		t.Fatalf("expected idle, got %q", state.Kind)
	}
	if !strings.Contains(reply.Message, "just booked that slot") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestBookInvalidSelectionReprompts(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{doctors: []Doctor{{ID: "d1", Name: "Dr. Greg House"}}}

	state, _ := Transition(ctx, patientState(), "book", env)
	state, reply := Transition(ctx, state, "9", env)
	if state.Kind != KindBook || state.Book.DoctorID != "" {
		t.Fatalf("invalid index must not advance: %+v", state.Book)
	}
	if !strings.Contains(reply.Message, "Invalid selection") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestScheduleWalk(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{}

	state, _ := Transition(ctx, doctorState(), "schedule", env)
	state, _ = Transition(ctx, state, "1", env)

	state, reply := Transition(ctx, state, "morning", env)
	if !strings.Contains(reply.Message, "Invalid time format") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
	state, reply = Transition(ctx, state, "25:00", env)
	if !strings.Contains(reply.Message, "Invalid time format") {
		t.Fatalf("out-of-range hour accepted: %q", reply.Message)
	}

	state, _ = Transition(ctx, state, "09:00", env)
	state, reply = Transition(ctx, state, "08:00", env)
	if !strings.Contains(reply.Message, "after the start") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}

	state, _ = Transition(ctx, state, "17:00", env)
	state, reply = Transition(ctx, state, "2", env)

	if env.addedWindow == nil {
		t.Fatal("AddWindow was not called")
	}
	got := *env.addedWindow
	if got.Day != 0 || got.StartTime != "09:00" || got.EndTime != "17:00" || got.SlotMinutes != 30 {
		t.Fatalf("unexpected window: %+v", got)
	}
	if state.Kind != KindIdle || !strings.Contains(reply.Message, "added successfully") {
		t.Fatalf("unexpected final state/reply: %q %q", state.Kind, reply.Message)
	}
}

func TestScheduleRequiresDoctor(t *testing.T) {
	_, reply := Transition(context.Background(), patientState(), "schedule", &fakeEnv{})
	if !strings.Contains(reply.Message, "Only doctors") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}
}

func TestScheduleOverlap(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{windowErr: ErrWindowOverlap}

	state, _ := Transition(ctx, doctorState(), "schedule", env)
	for _, input := range []string{"3", "09:00", "12:00", "1"} {
		var reply Reply
		state, reply = Transition(ctx, state, input, env)
		if state.Kind == KindIdle && strings.Contains(reply.Message, "overlaps") {
			return
		}
	}
	t.Fatal("expected overlap reply")
}

func TestViewAndCancel(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	env := &fakeEnv{appts: []Appointment{
		{ID: "a1", Doctor: "Dr. Greg House", Start: start, Status: "cancelled"},
		{ID: "a2", Doctor: "Dr. Greg House", Start: start.Add(30 * time.Minute), Status: "pending"},
	}}

	_, reply := Transition(ctx, patientState(), "view", env)
	if !strings.Contains(reply.Message, "Your appointments") || !strings.Contains(reply.Message, "pending") {
		t.Fatalf("unexpected reply: %q", reply.Message)
	}

	state, reply := Transition(ctx, patientState(), "cancel", env)
	if len(state.Cancel.AppointmentIDs) != 1 {
		t.Fatalf("cancelled appointments must be excluded: %+v", state.Cancel)
	}
	if strings.Contains(reply.Message, "cancelled)") {
		t.Fatalf("cancelled appointment listed: %q", reply.Message)
	}

	state, reply = Transition(ctx, state, "1", env)
	if env.cancelledID != "a2" {
		t.Fatalf("expected a2 cancelled, got %q", env.cancelledID)
	}
	if state.Kind != KindIdle || !strings.Contains(reply.Message, "cancelled") {
		t.Fatalf("unexpected final state/reply: %q %q", state.Kind, reply.Message)
	}
}

func TestTransitionDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	env := &fakeEnv{}

	state, _ := Transition(ctx, State{Kind: KindIdle}, "register", env)
	before := *state.Register
	next, _ := Transition(ctx, state, "jane@example.com", env)

	if state.Register.Email != before.Email {
		t.Fatal("input state was mutated")
	}
	if next.Register.Email != "jane@example.com" {
		t.Fatalf("next state missing email: %+v", next.Register)
	}
}
