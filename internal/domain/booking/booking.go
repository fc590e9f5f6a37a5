package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Contact is the customer contact block captured from the wizard.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PropertySpec describes the home being cleaned.
type PropertySpec struct {
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms"`
	SquareFeet int     `json:"square_feet"`
	PostalCode string  `json:"postal_code,omitempty"`
}

// ServiceDetails describes what was booked.
type ServiceDetails struct {
	ServiceType pricing.ServiceType `json:"service_type"`
	Frequency   pricing.Frequency   `json:"frequency"`
	AddOnIDs    []string            `json:"add_on_ids,omitempty"`
}

// Schedule is the confirmed visit window.
type Schedule struct {
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
}

// Booking is the aggregate root for a submitted booking.
type Booking struct {
	id             uuid.UUID
	bookingNumber  string
	idempotencyKey uuid.UUID
	status         Status

	contact  Contact
	property PropertySpec
	service  ServiceDetails
	schedule Schedule

	zoneName       string
	zoneMultiplier float64
	quote          pricing.PriceQuote

	crmReference        string
	specialInstructions string
	cancelNote          string

	confirmedAt *time.Time
	startedAt   *time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// NewBooking creates a Booking aggregate with status=submitted from a
// fully-validated wizard draft and its final quote.
func NewBooking(
	idempotencyKey uuid.UUID,
	contact Contact,
	property PropertySpec,
	service ServiceDetails,
	schedule Schedule,
	zoneName string,
	zoneMultiplier float64,
	quote pricing.PriceQuote,
	crmReference string,
	specialInstructions string,
) (*Booking, error) {
	if idempotencyKey == uuid.Nil {
		return nil, domain.NewValidationError("idempotency key is required")
	}
	if contact.Name == "" || contact.Email == "" || contact.Phone == "" {
		return nil, domain.NewValidationError("customer contact is incomplete")
	}
	if property.SquareFeet <= 0 {
		return nil, domain.NewValidationError("property square footage must be positive")
	}
	if !service.ServiceType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid service type: %s", service.ServiceType))
	}
	if !service.Frequency.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid frequency: %s", service.Frequency))
	}
	if schedule.Date == "" || schedule.TimeSlot == "" {
		return nil, domain.NewValidationError("schedule is incomplete")
	}
	if zoneMultiplier <= 0 {
		return nil, domain.NewValidationError("zone multiplier must be positive")
	}
	if quote.TotalCents <= 0 {
		return nil, domain.NewValidationError("quote total must be positive")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:                  uuid.New(),
		bookingNumber:       bookingNumber,
		idempotencyKey:      idempotencyKey,
		status:              StatusSubmitted,
		contact:             contact,
		property:            property,
		service:             service,
		schedule:            schedule,
		zoneName:            zoneName,
		zoneMultiplier:      zoneMultiplier,
		quote:               quote,
		crmReference:        crmReference,
		specialInstructions: specialInstructions,
		version:             1,
		createdAt:           now,
		updatedAt:           now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	idempotencyKey uuid.UUID,
	status Status,
	contact Contact,
	property PropertySpec,
	service ServiceDetails,
	schedule Schedule,
	zoneName string,
	zoneMultiplier float64,
	quote pricing.PriceQuote,
	crmReference string,
	specialInstructions string,
	cancelNote string,
	confirmedAt *time.Time,
	startedAt *time.Time,
	completedAt *time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                  id,
		bookingNumber:       bookingNumber,
		idempotencyKey:      idempotencyKey,
		status:              status,
		contact:             contact,
		property:            property,
		service:             service,
		schedule:            schedule,
		zoneName:            zoneName,
		zoneMultiplier:      zoneMultiplier,
		quote:               quote,
		crmReference:        crmReference,
		specialInstructions: specialInstructions,
		cancelNote:          cancelNote,
		confirmedAt:         confirmedAt,
		startedAt:           startedAt,
		completedAt:         completedAt,
		cancelledAt:         cancelledAt,
		version:             version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// IdempotencyKey returns the client-generated submission key.
func (b *Booking) IdempotencyKey() uuid.UUID { return b.idempotencyKey }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// Contact returns the customer contact block.
func (b *Booking) Contact() Contact { return b.contact }

// Property returns the property specification.
func (b *Booking) Property() PropertySpec { return b.property }

// Service returns the booked service details.
func (b *Booking) Service() ServiceDetails { return b.service }

// Schedule returns the confirmed visit window.
func (b *Booking) Schedule() Schedule { return b.schedule }

// ZoneName returns the resolved service zone name.
func (b *Booking) ZoneName() string { return b.zoneName }

// ZoneMultiplier returns the zone price multiplier applied to the quote.
func (b *Booking) ZoneMultiplier() float64 { return b.zoneMultiplier }

// Quote returns the price quote snapshot taken at submission.
func (b *Booking) Quote() pricing.PriceQuote { return b.quote }

// CRMReference returns the identifier assigned by the CRM gateway.
func (b *Booking) CRMReference() string { return b.crmReference }

// SpecialInstructions returns the customer's free-text notes.
func (b *Booking) SpecialInstructions() string { return b.specialInstructions }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// ConfirmedAt returns when the CRM confirmed the booking.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// StartedAt returns when the cleaning visit began.
func (b *Booking) StartedAt() *time.Time { return b.startedAt }

// CompletedAt returns when the cleaning visit finished.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns when the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking from submitted to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// StartVisit transitions the booking from confirmed to in_progress.
func (b *Booking) StartVisit() error {
	if !b.status.CanTransitionTo(StatusInProgress) {
		return domain.NewInvalidStateError(string(b.status), string(StatusInProgress))
	}
	now := time.Now().UTC()
	b.status = StatusInProgress
	b.startedAt = &now
	b.updatedAt = now
	return nil
}

// CompleteVisit transitions the booking from in_progress to completed.
func (b *Booking) CompleteVisit() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal state.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// AttachCRMReference records the identifier the CRM assigned at submission.
func (b *Booking) AttachCRMReference(ref string) {
	b.crmReference = ref
	b.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
