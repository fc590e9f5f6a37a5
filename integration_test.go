//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidynest/service-booking/internal/pkg/events"
)

// TestCRMConfirmation_ConfirmsBooking verifies that when the CRM publishes a
// confirmation to crm.events, the booking service picks it up, transitions
// the booking to "confirmed", and emits booking.confirmed.
func TestCRMConfirmation_ConfirmsBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Seed a booking in "submitted" state.
	bookingID := uuid.New()
	bookingNumber := "BK-INTCNF"
	seedSubmittedBooking(t, infra.DB, bookingID, bookingNumber)

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish the CRM confirmation.
	evt := events.CRMStatusEvent{
		BookingNumber: bookingNumber,
		Reference:     "CRM-77421",
		OccurredAt:    time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, events.TopicCRMEvents,
		"crm", events.CRMBookingConfirmed, evt)

	// Assert: booking transitions to "confirmed" with the CRM reference.
	model := waitForBookingStatus(t, infra.DB, bookingID, "confirmed", 15*time.Second)
	assert.Equal(t, "CRM-77421", model.CRMReference)
	assert.NotNil(t, model.ConfirmedAt, "confirmed_at should be set")

	// Assert: booking.confirmed on booking.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingConfirmed, 15*time.Second)

	var confirmed events.BookingStatusEvent
	require.NoError(t, ce.ParseData(&confirmed))
	assert.Equal(t, bookingID, confirmed.BookingID)
	assert.Equal(t, bookingNumber, confirmed.BookingNumber)
	assert.Equal(t, "confirmed", confirmed.Status)
}

// TestCRMCancellation_CancelsBooking verifies the CRM cancel path, including
// that the reason lands on the booking.
func TestCRMCancellation_CancelsBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupBookingStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	bookingID := uuid.New()
	bookingNumber := "BK-INTCXL"
	seedSubmittedBooking(t, infra.DB, bookingID, bookingNumber)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second)

	evt := events.CRMStatusEvent{
		BookingNumber: bookingNumber,
		Reference:     "CRM-77422",
		Reason:        "customer requested cancellation",
		OccurredAt:    time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, events.TopicCRMEvents,
		"crm", events.CRMBookingCancelled, evt)

	model := waitForBookingStatus(t, infra.DB, bookingID, "cancelled", 15*time.Second)
	assert.Equal(t, "customer requested cancellation", model.CancelNote)
	assert.NotNil(t, model.CancelledAt, "cancelled_at should be set")
}
