package events

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/tidynest/service-booking/internal/application"
	"github.com/tidynest/service-booking/internal/pkg/domain"
	"github.com/tidynest/service-booking/internal/pkg/events"
	"github.com/tidynest/service-booking/internal/pkg/kafka"
)

// CRMEventConsumer listens to the CRM's status stream and mirrors confirm and
// cancel decisions onto the local booking.
type CRMEventConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewCRMEventConsumer creates a new CRMEventConsumer.
func NewCRMEventConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *CRMEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicCRMEvents, logger)
	return &CRMEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming CRM events. This blocks until the context is cancelled.
func (c *CRMEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CRMEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CRMEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from CRM topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.CRMBookingConfirmed:
		return c.handleConfirmed(ctx, cloudEvent)
	case events.CRMBookingCancelled:
		return c.handleCancelled(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled CRM event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *CRMEventConsumer) handleConfirmed(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.CRMStatusEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse CRM confirmation data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing CRM confirmation",
		zap.String("booking_number", evt.BookingNumber),
		zap.String("reference", evt.Reference),
	)

	if _, err := c.service.ConfirmBooking(ctx, evt.BookingNumber, evt.Reference); err != nil {
		// Unknown bookings and repeated confirmations are not worth a redelivery.
		if domain.IsCode(err, domain.CodeNotFound) || domain.IsCode(err, domain.CodeInvalidState) {
			c.logger.Warn("skipping CRM confirmation",
				zap.String("booking_number", evt.BookingNumber),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to confirm booking from CRM event",
			zap.String("booking_number", evt.BookingNumber),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *CRMEventConsumer) handleCancelled(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.CRMStatusEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse CRM cancellation data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing CRM cancellation",
		zap.String("booking_number", evt.BookingNumber),
		zap.String("reason", evt.Reason),
	)

	if _, err := c.service.CancelBooking(ctx, evt.BookingNumber, evt.Reason); err != nil {
		if domain.IsCode(err, domain.CodeNotFound) || domain.IsCode(err, domain.CodeInvalidState) {
			c.logger.Warn("skipping CRM cancellation",
				zap.String("booking_number", evt.BookingNumber),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to cancel booking from CRM event",
			zap.String("booking_number", evt.BookingNumber),
			zap.Error(err),
		)
		return err
	}
	return nil
}
