package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicCRMEvents     = "crm.events"
)

// Event types on booking.events.
const (
	BookingSubmitted = "booking.submitted"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	BookingCompleted = "booking.completed"
)

// Event types on crm.events (published by the CRM side).
const (
	CRMBookingConfirmed = "crm.booking.confirmed"
	CRMBookingCancelled = "crm.booking.cancelled"
)

// BookingSubmittedEvent is published when a wizard draft becomes a booking.
type BookingSubmittedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ZoneName      string    `json:"zone_name"`
	ServiceType   string    `json:"service_type"`
	Frequency     string    `json:"frequency"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	TotalCents    int64     `json:"total_cents"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusEvent is published on confirm, cancel, and complete.
type BookingStatusEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	Status        string    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// CRMStatusEvent is the payload the CRM publishes about a booking it manages.
type CRMStatusEvent struct {
	BookingNumber string    `json:"booking_number"`
	Reference     string    `json:"reference"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
