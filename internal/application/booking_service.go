package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/tidynest/service-booking/internal/domain/booking"
	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/pkg/domain"
	"github.com/tidynest/service-booking/internal/pkg/events"
	"github.com/tidynest/service-booking/internal/pkg/kafka"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                  uuid.UUID                    `json:"id"`
	BookingNumber       string                       `json:"booking_number"`
	Status              string                       `json:"status"`
	Contact             bookingDomain.Contact        `json:"contact"`
	Property            bookingDomain.PropertySpec   `json:"property"`
	Service             bookingDomain.ServiceDetails `json:"service"`
	Schedule            bookingDomain.Schedule       `json:"schedule"`
	ZoneName            string                       `json:"zone"`
	ZoneMultiplier      float64                      `json:"zone_multiplier"`
	Quote               pricing.PriceQuote           `json:"quote"`
	CRMReference        string                       `json:"crm_reference,omitempty"`
	SpecialInstructions string                       `json:"special_instructions,omitempty"`
	CancelNote          string                       `json:"cancel_note,omitempty"`
	ConfirmedAt         *time.Time                   `json:"confirmed_at,omitempty"`
	StartedAt           *time.Time                   `json:"started_at,omitempty"`
	CompletedAt         *time.Time                   `json:"completed_at,omitempty"`
	CancelledAt         *time.Time                   `json:"cancelled_at,omitempty"`
	Version             int64                        `json:"version"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
}

// EventPublisher publishes CloudEvents to the event bus. Satisfied by the
// Kafka producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService is the application service orchestrating booking lifecycle
// use cases after submission.
type BookingService struct {
	repo     bookingDomain.Repository
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingByNumber retrieves a single booking by its booking number.
func (s *BookingService) GetBookingByNumber(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ConfirmBooking transitions a submitted booking to confirmed. The CRM
// reference is recorded when the confirmation carries one.
func (s *BookingService) ConfirmBooking(ctx context.Context, number, crmReference string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := bk.Confirm(); err != nil {
		return nil, err
	}
	if crmReference != "" {
		bk.AttachCRMReference(crmReference)
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, events.BookingConfirmed, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// StartVisit marks the cleaning visit as underway.
func (s *BookingService) StartVisit(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := bk.StartVisit(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteVisit marks the cleaning visit as finished.
func (s *BookingService) CompleteVisit(ctx context.Context, number string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := bk.CompleteVisit(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, events.BookingCompleted, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking that is not yet in a terminal state.
func (s *BookingService) CancelBooking(ctx context.Context, number, reason string) (*BookingDTO, error) {
	bk, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusEvent(ctx, events.BookingCancelled, bk, reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingsForDate lists the bookings scheduled on a given ISO date (admin).
func (s *BookingService) GetBookingsForDate(ctx context.Context, isoDate string) ([]BookingDTO, error) {
	if _, err := time.Parse("2006-01-02", isoDate); err != nil {
		return nil, domain.NewFieldValidationError("date", "must be an ISO date (YYYY-MM-DD)")
	}

	bookings, err := s.repo.FindByDate(ctx, isoDate)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                  bk.ID(),
		BookingNumber:       bk.BookingNumber(),
		Status:              string(bk.Status()),
		Contact:             bk.Contact(),
		Property:            bk.Property(),
		Service:             bk.Service(),
		Schedule:            bk.Schedule(),
		ZoneName:            bk.ZoneName(),
		ZoneMultiplier:      bk.ZoneMultiplier(),
		Quote:               bk.Quote(),
		CRMReference:        bk.CRMReference(),
		SpecialInstructions: bk.SpecialInstructions(),
		CancelNote:          bk.CancelNote(),
		ConfirmedAt:         bk.ConfirmedAt(),
		StartedAt:           bk.StartedAt(),
		CompletedAt:         bk.CompletedAt(),
		CancelledAt:         bk.CancelledAt(),
		Version:             bk.Version(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}
}

func (s *BookingService) publishStatusEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, reason string) {
	evt := events.BookingStatusEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		Status:        string(bk.Status()),
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("booking_number", bk.BookingNumber()),
			zap.Error(err),
		)
	}
}
