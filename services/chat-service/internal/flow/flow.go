// Package flow implements the conversational booking assistant as a pure
// state machine. Each turn is Transition(state, input) -> (state, reply);
// the only side effects happen through the Env collaborator, so flows are
// testable with fakes and the session store can persist State as JSON.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSlotTaken          = errors.New("slot already booked")
	ErrWindowOverlap      = errors.New("window overlaps existing schedule")
)

type Doctor struct {
	ID             string
	Name           string
	Specialization string
}

type Appointment struct {
	ID     string
	Doctor string
	Start  time.Time
	Status string
}

// User is the identity carried in the chat session after a login.
type User struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Name string `json:"name"`
}

type Registration struct {
	Email          string
	FirstName      string
	LastName       string
	Role           string
	Specialization string
	Password       string
}

type Window struct {
	Day         int
	StartTime   string
	EndTime     string
	SlotMinutes int
}

// Env is everything a transition may ask the outside world to do.
type Env interface {
	ListDoctors(ctx context.Context) ([]Doctor, error)
	ListSpecializations(ctx context.Context) ([]string, error)
	ListSlots(ctx context.Context, doctorID string) ([]time.Time, error)
	Register(ctx context.Context, in Registration) error
	Login(ctx context.Context, email, password string) (User, error)
	Book(ctx context.Context, user User, doctorID string, start time.Time, notes string) error
	AddWindow(ctx context.Context, user User, w Window) error
	Appointments(ctx context.Context, user User) ([]Appointment, error)
	CancelAppointment(ctx context.Context, user User, appointmentID string) error
}

type Kind string

const (
	KindIdle     Kind = "idle"
	KindRegister Kind = "register"
	KindLogin    Kind = "login"
	KindBook     Kind = "book"
	KindSchedule Kind = "schedule"
	KindCancel   Kind = "cancel"
)

type RegisterData struct {
	Email           string   `json:"email,omitempty"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	Role            string   `json:"role,omitempty"`
	Specialization  string   `json:"specialization,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
}

type LoginData struct {
	Email string `json:"email,omitempty"`
}

type BookData struct {
	DoctorIDs []string    `json:"doctor_ids,omitempty"`
	DoctorID  string      `json:"doctor_id,omitempty"`
	Slots     []time.Time `json:"slots,omitempty"`
	Start     *time.Time  `json:"start,omitempty"`
}

type ScheduleData struct {
	Day       *int   `json:"day,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

type CancelData struct {
	AppointmentIDs []string `json:"appointment_ids,omitempty"`
}

// State is the full conversation state, one flow active at a time. The
// Kind tag says which data field is live; User survives across flows.
type State struct {
	Kind     Kind          `json:"kind"`
	User     *User         `json:"user,omitempty"`
	Register *RegisterData `json:"register,omitempty"`
	Login    *LoginData    `json:"login,omitempty"`
	Book     *BookData     `json:"book,omitempty"`
	Schedule *ScheduleData `json:"schedule,omitempty"`
	Cancel   *CancelData   `json:"cancel,omitempty"`
}

type Reply struct {
	Message     string   `json:"message"`
	Options     []string `json:"options,omitempty"`
	ExpectInput bool     `json:"expect_input,omitempty"`
	Password    bool     `json:"password,omitempty"`
}

const slotTimeFormat = "Monday, January 2 at 3:04 PM"

// Transition consumes one message and produces the next state and reply.
// It never mutates its argument.
func Transition(ctx context.Context, state State, input string, env Env) (State, Reply) {
	input = strings.TrimSpace(input)

	switch state.Kind {
	case KindRegister:
		return continueRegister(ctx, state, input, env)
	case KindLogin:
		return continueLogin(ctx, state, input, env)
	case KindBook:
		return continueBook(ctx, state, input, env)
	case KindSchedule:
		return continueSchedule(ctx, state, input, env)
	case KindCancel:
		return continueCancel(ctx, state, input, env)
	}

	command := "help"
	if input != "" {
		command = strings.ToLower(strings.Fields(input)[0])
	}

	switch command {
	case "help":
		return idle(state), help(state.User)
	case "register":
		return startRegister(state)
	case "login":
		return startLogin(state)
	case "book":
		return startBook(ctx, state, env)
	case "schedule":
		return startSchedule(state)
	case "view":
		return idle(state), view(ctx, state.User, env)
	case "cancel":
		return startCancel(ctx, state, env)
	case "logout":
		next := State{Kind: KindIdle}
		return next, Reply{Message: "You've been logged out. See you next time!", Options: []string{"login", "help"}}
	}

	return idle(state), Reply{
		Message: "I didn't understand that. Type 'help' to see what I can do!",
		Options: []string{"help"},
	}
}

// idle drops any in-progress flow but keeps the logged-in user.
func idle(state State) State {
	return State{Kind: KindIdle, User: state.User}
}

func help(user *User) Reply {
	if user == nil {
		return Reply{
			Message: "Welcome! Here's what I can help you with:\n" +
				"- register - Create a new account\n" +
				"- login - Log into your account\n" +
				"- help - Show this help message",
			Options: []string{"register", "login", "help"},
		}
	}

	if user.Role == "doctor" {
		return Reply{
			Message: fmt.Sprintf("Hello Dr. %s! Here's what I can help you with:\n", firstName(user.Name)) +
				"- schedule - Manage your availability\n" +
				"- view - View your appointments\n" +
				"- help - Show this help message",
			Options: []string{"schedule", "view", "help"},
		}
	}

	return Reply{
		Message: fmt.Sprintf("Hello %s! Here's what I can help you with:\n", firstName(user.Name)) +
			"- book - Book a new appointment\n" +
			"- view - View your appointments\n" +
			"- cancel - Cancel an appointment\n" +
			"- help - Show this help message",
		Options: []string{"book", "view", "cancel", "help"},
	}
}

func firstName(full string) string {
	if fields := strings.Fields(full); len(fields) > 0 {
		return fields[0]
	}
	return full
}

func numberedList(items []string) string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	return strings.Join(lines, "\n")
}

func numberOptions(n int) []string {
	options := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		options = append(options, strconv.Itoa(i))
	}
	return options
}

func pickSpecialization(input string, specs []string) (string, bool) {
	if idx, err := strconv.Atoi(input); err == nil {
		if idx >= 1 && idx <= len(specs) {
			return specs[idx-1], true
		}
		return "", false
	}
	for _, s := range specs {
		if strings.EqualFold(s, input) {
			return s, true
		}
	}
	return "", false
}

// parseClock parses a 24-hour HH:MM string into minutes since midnight.
// The scheduling service does the authoritative validation; this only
// catches typos before the window is submitted.
func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func failure(state State) (State, Reply) {
	return idle(state), Reply{Message: "Sorry, something went wrong. Please try again later."}
}

func startRegister(state State) (State, Reply) {
	if state.User != nil {
		return idle(state), Reply{Message: "You're already logged in!"}
	}
	next := idle(state)
	next.Kind = KindRegister
	next.Register = &RegisterData{}
	return next, Reply{Message: "Let's get you registered! What's your email address?", ExpectInput: true}
}

func continueRegister(ctx context.Context, state State, input string, env Env) (State, Reply) {
	data := *state.Register
	next := idle(state)
	next.Kind = KindRegister
	next.Register = &data

	switch {
	case data.Email == "":
		email := strings.ToLower(input)
		if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
			return next, Reply{Message: "That doesn't look like a valid email. Please try again:", ExpectInput: true}
		}
		data.Email = email
		return next, Reply{Message: "Great! Now enter your first name:", ExpectInput: true}

	case data.FirstName == "":
		if input == "" {
			return next, Reply{Message: "Please enter your first name:", ExpectInput: true}
		}
		data.FirstName = input
		return next, Reply{Message: "And your last name:", ExpectInput: true}

	case data.LastName == "":
		if input == "" {
			return next, Reply{Message: "Please enter your last name:", ExpectInput: true}
		}
		data.LastName = input
		return next, Reply{
			Message:     "Are you a patient or a doctor? (Type 1 or 2)\n1. Patient\n2. Doctor",
			ExpectInput: true,
			Options:     []string{"1", "2"},
		}

	case data.Role == "":
		switch input {
		case "1":
			data.Role = "patient"
		case "2":
			specs, err := env.ListSpecializations(ctx)
			if err != nil {
				return failure(state)
			}
			if len(specs) == 0 {
				return idle(state), Reply{Message: "Doctor registration isn't available right now. Please contact the clinic."}
			}
			data.Role = "doctor"
			data.Specializations = specs
			return next, Reply{
				Message:     "What's your specialization?\n" + numberedList(specs),
				ExpectInput: true,
				Options:     numberOptions(len(specs)),
			}
		default:
			return next, Reply{
				Message:     "Please type 1 for patient or 2 for doctor:",
				ExpectInput: true,
				Options:     []string{"1", "2"},
			}
		}
		return next, Reply{Message: "Finally, choose a password:", ExpectInput: true, Password: true}

	case data.Role == "doctor" && data.Specialization == "":
		spec, ok := pickSpecialization(input, data.Specializations)
		if !ok {
			return next, Reply{
				Message:     "Please pick a specialization by number or name:\n" + numberedList(data.Specializations),
				ExpectInput: true,
				Options:     numberOptions(len(data.Specializations)),
			}
		}
		data.Specialization = spec
		return next, Reply{Message: "Finally, choose a password:", ExpectInput: true, Password: true}
	}

	if len(input) < 6 {
		return next, Reply{Message: "Passwords need at least 6 characters. Try another:", ExpectInput: true, Password: true}
	}

	err := env.Register(ctx, Registration{
		Email:          data.Email,
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		Role:           data.Role,
		Specialization: data.Specialization,
		Password:       input,
	})
	if errors.Is(err, ErrEmailTaken) {
		return idle(state), Reply{Message: "This email is already registered. Please login instead:", Options: []string{"login"}}
	}
	if err != nil {
		return failure(state)
	}
	return idle(state), Reply{Message: "Registration successful! Please login:", Options: []string{"login"}}
}

func startLogin(state State) (State, Reply) {
	if state.User != nil {
		return idle(state), Reply{Message: "You're already logged in!"}
	}
	next := idle(state)
	next.Kind = KindLogin
	next.Login = &LoginData{}
	return next, Reply{Message: "Please enter your email address:", ExpectInput: true}
}

func continueLogin(ctx context.Context, state State, input string, env Env) (State, Reply) {
	data := *state.Login
	next := idle(state)
	next.Kind = KindLogin
	next.Login = &data

	if data.Email == "" {
		if input == "" {
			return next, Reply{Message: "Please enter your email address:", ExpectInput: true}
		}
		data.Email = strings.ToLower(input)
		return next, Reply{Message: "Please enter your password:", ExpectInput: true, Password: true}
	}

	user, err := env.Login(ctx, data.Email, input)
	if errors.Is(err, ErrInvalidCredentials) {
		return idle(state), Reply{Message: "Invalid email or password. Please try again:", Options: []string{"login"}}
	}
	if err != nil {
		return failure(state)
	}

	loggedIn := State{Kind: KindIdle, User: &user}
	return loggedIn, Reply{
		Message: fmt.Sprintf("Welcome back %s!", firstName(user.Name)),
		Options: helpOptions(&user),
	}
}

func helpOptions(user *User) []string {
	return help(user).Options
}

func startBook(ctx context.Context, state State, env Env) (State, Reply) {
	if state.User == nil {
		return idle(state), Reply{
			Message: "Please login first to book an appointment",
			Options: []string{"login", "register"},
		}
	}
	if state.User.Role != "patient" {
		return idle(state), Reply{Message: "Only patients can book appointments"}
	}

	doctors, err := env.ListDoctors(ctx)
	if err != nil {
		return failure(state)
	}
	if len(doctors) == 0 {
		return idle(state), Reply{Message: "Sorry, no doctors are available at the moment"}
	}

	data := &BookData{DoctorIDs: make([]string, 0, len(doctors))}
	lines := make([]string, 0, len(doctors))
	options := make([]string, 0, len(doctors))
	for i, d := range doctors {
		data.DoctorIDs = append(data.DoctorIDs, d.ID)
		// Directory names already carry the honorific ("Dr. First Last").
		line := fmt.Sprintf("%d. %s", i+1, d.Name)
		if d.Specialization != "" {
			line += " (" + d.Specialization + ")"
		}
		lines = append(lines, line)
		options = append(options, strconv.Itoa(i+1))
	}

	next := idle(state)
	next.Kind = KindBook
	next.Book = data
	return next, Reply{
		Message:     "Please select a doctor by entering their number:\n" + strings.Join(lines, "\n"),
		ExpectInput: true,
		Options:     options,
	}
}

func continueBook(ctx context.Context, state State, input string, env Env) (State, Reply) {
	data := *state.Book
	next := idle(state)
	next.Kind = KindBook
	next.Book = &data

	if data.DoctorID == "" {
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(data.DoctorIDs) {
			return next, Reply{Message: "Invalid selection. Please try again:", ExpectInput: true}
		}
		data.DoctorID = data.DoctorIDs[idx-1]

		slots, err := env.ListSlots(ctx, data.DoctorID)
		if err != nil {
			return failure(state)
		}
		if len(slots) == 0 {
			return idle(state), Reply{
				Message: "Sorry, that doctor has no available slots in the next 7 days",
				Options: []string{"book"},
			}
		}
		data.Slots = slots

		lines := make([]string, 0, len(slots))
		options := make([]string, 0, len(slots))
		for i, slot := range slots {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, slot.Format(slotTimeFormat)))
			options = append(options, strconv.Itoa(i+1))
		}
		return next, Reply{
			Message:     "Please select an available time slot by entering its number:\n" + strings.Join(lines, "\n"),
			ExpectInput: true,
			Options:     options,
		}
	}

	if data.Start == nil {
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(data.Slots) {
			return next, Reply{Message: "Invalid selection. Please try again:", ExpectInput: true}
		}
		start := data.Slots[idx-1]
		data.Start = &start
		return next, Reply{Message: "Any notes for the doctor? (Type 'no' if none)", ExpectInput: true}
	}

	notes := input
	if strings.EqualFold(notes, "no") {
		notes = ""
	}

	err := env.Book(ctx, *state.User, data.DoctorID, *data.Start, notes)
	if errors.Is(err, ErrSlotTaken) {
		return idle(state), Reply{
			Message: "Someone just booked that slot. Please pick another time:",
			Options: []string{"book"},
		}
	}
	if err != nil {
		return failure(state)
	}
	return idle(state), Reply{
		Message: "Appointment requested! You'll be notified once the doctor confirms.",
		Options: []string{"view"},
	}
}

func startSchedule(state State) (State, Reply) {
	if state.User == nil || state.User.Role != "doctor" {
		return idle(state), Reply{Message: "Only doctors can manage schedules"}
	}

	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	lines := make([]string, 0, len(days))
	options := make([]string, 0, len(days))
	for i, day := range days {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, day))
		options = append(options, strconv.Itoa(i+1))
	}

	next := idle(state)
	next.Kind = KindSchedule
	next.Schedule = &ScheduleData{}
	return next, Reply{
		Message:     "Which day would you like to manage? (1-7):\n" + strings.Join(lines, "\n"),
		ExpectInput: true,
		Options:     options,
	}
}

func continueSchedule(ctx context.Context, state State, input string, env Env) (State, Reply) {
	data := *state.Schedule
	next := idle(state)
	next.Kind = KindSchedule
	next.Schedule = &data

	if data.Day == nil {
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 || n > 7 {
			return next, Reply{Message: "Invalid day. Please enter a number from 1 to 7:", ExpectInput: true}
		}
		day := n - 1
		data.Day = &day
		return next, Reply{Message: "Enter start time (HH:MM, 24-hour format):", ExpectInput: true}
	}

	if data.StartTime == "" {
		if _, ok := parseClock(input); !ok {
			return next, Reply{Message: "Invalid time format. Please use HH:MM (e.g., 09:00):", ExpectInput: true}
		}
		data.StartTime = input
		return next, Reply{Message: "Enter end time (HH:MM, 24-hour format):", ExpectInput: true}
	}

	if data.EndTime == "" {
		end, ok := parseClock(input)
		if !ok {
			return next, Reply{Message: "Invalid time format. Please use HH:MM (e.g., 17:00):", ExpectInput: true}
		}
		start, _ := parseClock(data.StartTime)
		if end <= start {
			return next, Reply{Message: "End time must be after the start time. Try again:", ExpectInput: true}
		}
		data.EndTime = input
		return next, Reply{
			Message:     "Select appointment duration:\n1. 15 minutes\n2. 30 minutes\n3. 45 minutes\n4. 60 minutes",
			ExpectInput: true,
			Options:     []string{"1", "2", "3", "4"},
		}
	}

	durations := map[string]int{"1": 15, "2": 30, "3": 45, "4": 60}
	minutes, ok := durations[input]
	if !ok {
		return next, Reply{
			Message:     "Please pick a duration from 1 to 4:",
			ExpectInput: true,
			Options:     []string{"1", "2", "3", "4"},
		}
	}

	err := env.AddWindow(ctx, *state.User, Window{
		Day:         *data.Day,
		StartTime:   data.StartTime,
		EndTime:     data.EndTime,
		SlotMinutes: minutes,
	})
	if errors.Is(err, ErrWindowOverlap) {
		return idle(state), Reply{
			Message: "This schedule overlaps with an existing one. Please try different times:",
			Options: []string{"schedule"},
		}
	}
	if err != nil {
		return failure(state)
	}
	return idle(state), Reply{Message: "Schedule added successfully!", Options: []string{"schedule", "view"}}
}

func view(ctx context.Context, user *User, env Env) Reply {
	if user == nil {
		return Reply{Message: "Please login first to view your appointments", Options: []string{"login", "register"}}
	}

	appts, err := env.Appointments(ctx, *user)
	if err != nil {
		return Reply{Message: "Sorry, something went wrong. Please try again later."}
	}
	if len(appts) == 0 {
		return Reply{Message: "You have no appointments yet.", Options: helpOptions(user)}
	}

	lines := make([]string, 0, len(appts))
	for i, a := range appts {
		lines = append(lines, fmt.Sprintf("%d. %s with %s (%s)", i+1, a.Start.Format(slotTimeFormat), a.Doctor, a.Status))
	}
	return Reply{Message: "Your appointments:\n" + strings.Join(lines, "\n")}
}

func startCancel(ctx context.Context, state State, env Env) (State, Reply) {
	if state.User == nil {
		return idle(state), Reply{Message: "Please login first to cancel an appointment", Options: []string{"login"}}
	}

	appts, err := env.Appointments(ctx, *state.User)
	if err != nil {
		return failure(state)
	}

	data := &CancelData{}
	lines := make([]string, 0, len(appts))
	options := make([]string, 0, len(appts))
	for _, a := range appts {
		if a.Status == "cancelled" {
			continue
		}
		data.AppointmentIDs = append(data.AppointmentIDs, a.ID)
		n := len(data.AppointmentIDs)
		lines = append(lines, fmt.Sprintf("%d. %s with %s (%s)", n, a.Start.Format(slotTimeFormat), a.Doctor, a.Status))
		options = append(options, strconv.Itoa(n))
	}
	if len(data.AppointmentIDs) == 0 {
		return idle(state), Reply{Message: "You have no appointments to cancel.", Options: helpOptions(state.User)}
	}

	next := idle(state)
	next.Kind = KindCancel
	next.Cancel = data
	return next, Reply{
		Message:     "Which appointment would you like to cancel?\n" + strings.Join(lines, "\n"),
		ExpectInput: true,
		Options:     options,
	}
}

func continueCancel(ctx context.Context, state State, input string, env Env) (State, Reply) {
	data := *state.Cancel
	next := idle(state)
	next.Kind = KindCancel
	next.Cancel = &data

	idx, err := strconv.Atoi(input)
	if err != nil || idx < 1 || idx > len(data.AppointmentIDs) {
		return next, Reply{Message: "Invalid selection. Please try again:", ExpectInput: true}
	}

	if err := env.CancelAppointment(ctx, *state.User, data.AppointmentIDs[idx-1]); err != nil {
		return failure(state)
	}
	return idle(state), Reply{Message: "Appointment cancelled.", Options: helpOptions(state.User)}
}
