package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/db"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/email"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/outbox"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/sms"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/notification-service/internal/storage"
)

// Topics this service consumes.
const (
	TopicAppointmentRequested = "scheduling.appointment.requested.v1"
	TopicAppointmentConfirmed = "scheduling.appointment.confirmed.v1"
	TopicAppointmentCancelled = "scheduling.appointment.cancelled.v1"
	TopicUserCreated          = "auth.user.created.v1"
)

type Notifier struct {
	pool          *db.Pool
	contacts      *storage.ContactsRepository
	notifications *storage.NotificationsRepository
	outboxRepo    *outbox.Repository
	email         email.Sender
	sms           sms.Sender
	logger        *slog.Logger
}

func New(
	pool *db.Pool,
	contacts *storage.ContactsRepository,
	notifications *storage.NotificationsRepository,
	outboxRepo *outbox.Repository,
	emailSender email.Sender,
	smsSender sms.Sender,
	logger *slog.Logger,
) *Notifier {
	return &Notifier{
		pool:          pool,
		contacts:      contacts,
		notifications: notifications,
		outboxRepo:    outboxRepo,
		email:         emailSender,
		sms:           smsSender,
		logger:        logger,
	}
}

type userCreatedPayload struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HandleUserCreated keeps the contacts mirror current.
func (n *Notifier) HandleUserCreated(ctx context.Context, raw []byte) error {
	var payload userCreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		n.logger.Error("invalid user created payload", "err", err)
		return nil
	}
	if payload.UserID == "" || payload.Email == "" {
		n.logger.Error("missing user created fields")
		return nil
	}
	return n.contacts.Upsert(ctx, storage.Contact{
		UserID: payload.UserID,
		Email:  payload.Email,
		Name:   payload.FirstName + " " + payload.LastName,
		Role:   payload.Role,
	})
}

type appointmentPayload struct {
	AppointmentID string `json:"appointment_id"`
	DoctorID      string `json:"doctor_id"`
	PatientID     string `json:"patient_id"`
	StartTime     string `json:"start_time"`
}

// HandleAppointmentEvent emails the affected party and records the
// notification for the in-app feed. A booking request notifies the doctor;
// confirmations and cancellations notify the patient. Missing contacts are
// skipped, not retried: the contact mirror lags at worst a consumer cycle.
func (n *Notifier) HandleAppointmentEvent(ctx context.Context, topic string, raw []byte) error {
	var payload appointmentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		n.logger.Error("invalid appointment payload", "err", err, "topic", topic)
		return nil
	}
	if payload.AppointmentID == "" || payload.DoctorID == "" || payload.PatientID == "" {
		n.logger.Error("missing appointment fields", "topic", topic)
		return nil
	}
	startTime, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		n.logger.Error("invalid start_time", "err", err, "topic", topic)
		return nil
	}

	recipientID := payload.PatientID
	counterpartID := payload.DoctorID
	if topic == TopicAppointmentRequested {
		recipientID = payload.DoctorID
		counterpartID = payload.PatientID
	}

	recipient, err := n.contacts.Get(ctx, recipientID)
	if err != nil {
		if storage.IsNotFound(err) {
			n.logger.Warn("recipient contact unknown", "user_id", recipientID, "topic", topic)
			return nil
		}
		return err
	}
	counterpartName := ""
	if counterpart, err := n.contacts.Get(ctx, counterpartID); err == nil {
		counterpartName = counterpart.Name
	}

	subject, body := Message(topic, counterpartName, startTime)
	if subject == "" {
		n.logger.Error("unsupported topic", "topic", topic)
		return nil
	}

	status := "sent"
	failureReason := ""
	if err := n.email.Send(recipient.Email, subject, body); err != nil {
		status = "failed"
		failureReason = err.Error()
		n.logger.Error("email send failed", "err", err, "recipient", recipient.Email)
	}

	if err := n.notifications.Insert(ctx, storage.Notification{
		UserID:        recipient.UserID,
		AppointmentID: payload.AppointmentID,
		Channel:       "email",
		Recipient:     recipient.Email,
		Subject:       subject,
		Body:          body,
		Status:        status,
	}); err != nil {
		n.logger.Error("failed to persist notification", "err", err)
		return err
	}

	if err := n.writeDeliveryEvent(ctx, payload.AppointmentID, status, failureReason); err != nil {
		n.logger.Error("failed to enqueue delivery event", "err", err)
		return err
	}

	n.logger.Info("appointment event processed",
		"appointment_id", payload.AppointmentID, "topic", topic, "status", status)
	return nil
}

func (n *Notifier) writeDeliveryEvent(ctx context.Context, appointmentID, status, reason string) error {
	tx, err := n.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	eventType := outbox.EventNotificationSent
	fields := map[string]any{
		"appointment_id": appointmentID,
		"channel":        "email",
		"sent_at":        time.Now().UTC().Format(time.RFC3339),
	}
	if status == "failed" {
		eventType = outbox.EventNotificationFailed
		delete(fields, "sent_at")
		fields["error_reason"] = reason
		fields["failed_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := n.outboxRepo.Insert(ctx, tx, outbox.Event{
		AggregateType: "notification",
		AggregateID:   appointmentID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Message builds the subject and body for one appointment event.
func Message(topic string, counterpartName string, startTime time.Time) (subject string, body string) {
	when := startTime.UTC().Format("Monday, 02 Jan 2006 at 15:04 MST")
	switch topic {
	case TopicAppointmentRequested:
		subject = "New appointment request"
		body = fmt.Sprintf("A patient requested an appointment on %s.", when)
		if counterpartName != "" {
			body = fmt.Sprintf("%s requested an appointment on %s.", counterpartName, when)
		}
	case TopicAppointmentConfirmed:
		subject = "Appointment confirmed"
		body = fmt.Sprintf("Your appointment on %s has been confirmed.", when)
		if counterpartName != "" {
			body = fmt.Sprintf("Your appointment with %s on %s has been confirmed.", counterpartName, when)
		}
	case TopicAppointmentCancelled:
		subject = "Appointment cancelled"
		body = fmt.Sprintf("Your appointment on %s has been cancelled.", when)
		if counterpartName != "" {
			body = fmt.Sprintf("Your appointment with %s on %s has been cancelled.", counterpartName, when)
		}
	}
	return subject, body
}
