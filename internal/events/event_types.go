package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDonorRegistered      EventType = "donor_registered"
	EventAppointmentBooked    EventType = "appointment_booked"
	EventAppointmentCancelled EventType = "appointment_cancelled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with an id and time.
func NewEvent(eventType EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// DonorRegisteredPayload payload.
type DonorRegisteredPayload struct {
	DonorID   int64  `json:"donor_id"`
	FullName  string `json:"full_name"`
	BloodType string `json:"blood_type"`
}

// AppointmentBookedPayload payload.
type AppointmentBookedPayload struct {
	DonorID     int64     `json:"donor_id"`
	DonorName   string    `json:"donor_name"`
	HospitalID  int64     `json:"hospital_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// AppointmentCancelledPayload payload.
type AppointmentCancelledPayload struct {
	DonorID     int64     `json:"donor_id"`
	DonorName   string    `json:"donor_name"`
	HospitalID  int64     `json:"hospital_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
