package outbox

// Event is the domain event envelope written to the outbox table.
// The Kafka topic name equals EventType (production-style: event per topic).
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Event types emitted by this service. Versioned so consumers can migrate
// one topic at a time.
const (
	EventAppointmentRequested = "scheduling.appointment.requested.v1"
	EventAppointmentConfirmed = "scheduling.appointment.confirmed.v1"
	EventAppointmentCancelled = "scheduling.appointment.cancelled.v1"
)
