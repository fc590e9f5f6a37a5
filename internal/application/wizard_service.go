package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/tidynest/service-booking/internal/domain/booking"
	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/domain/wizard"
	"github.com/tidynest/service-booking/internal/gateway"
	"github.com/tidynest/service-booking/internal/pkg/domain"
	"github.com/tidynest/service-booking/internal/pkg/events"
	"github.com/tidynest/service-booking/internal/pkg/kafka"
)

// SessionDTO is the response representation of a wizard session. The quote is
// recomputed from the draft on every read; it is derived display data, not
// session state.
type SessionDTO struct {
	ID            uuid.UUID           `json:"id"`
	Step          wizard.Step         `json:"step"`
	Draft         wizard.BookingDraft `json:"draft"`
	Quote         *pricing.PriceQuote `json:"quote,omitempty"`
	QuoteRequired bool                `json:"quote_required,omitempty"`
}

// ConfirmationDTO is returned after a successful submission.
type ConfirmationDTO struct {
	BookingNumber string `json:"booking_number"`
	CRMReference  string `json:"crm_reference"`
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
	TotalCents    int64  `json:"total_cents"`
	Currency      string `json:"currency"`
}

// WizardService orchestrates the booking wizard: session lifecycle, per-step
// mutations, transitions, and the single terminal submission.
type WizardService struct {
	store    DraftStore
	quotes   *QuoteService
	gateway  gateway.SubmissionGateway
	repo     bookingDomain.Repository
	producer EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewWizardService creates a WizardService.
func NewWizardService(
	store DraftStore,
	quotes *QuoteService,
	gw gateway.SubmissionGateway,
	repo bookingDomain.Repository,
	producer EventPublisher,
	logger *zap.Logger,
	now func() time.Time,
) *WizardService {
	if now == nil {
		now = time.Now
	}
	return &WizardService{
		store:    store,
		quotes:   quotes,
		gateway:  gw,
		repo:     repo,
		producer: producer,
		logger:   logger,
		now:      now,
	}
}

// StartSession creates an empty wizard session.
func (s *WizardService) StartSession(ctx context.Context) (*SessionDTO, error) {
	session := wizard.NewSession()
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save wizard session: %w", err)
	}
	result := s.toSessionDTO(session)
	return &result, nil
}

// GetSession retrieves a session with its current derived quote.
func (s *WizardService) GetSession(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	result := s.toSessionDTO(session)
	return &result, nil
}

// ApplyPropertyLocation records step 1 input, resolving the service zone from
// coordinates when present, the postal code otherwise, and falling back to the
// default zone when neither resolves.
func (s *WizardService) ApplyPropertyLocation(ctx context.Context, id uuid.UUID, in wizard.PropertyLocationInput) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		resolved := s.quotes.resolveLocation(QuoteRequest{
			PostalCode: in.PostalCode,
			Latitude:   in.Latitude,
			Longitude:  in.Longitude,
		})
		return session.ApplyPropertyLocation(in, resolved)
	})
}

// ApplyServiceSchedule records step 2 input.
func (s *WizardService) ApplyServiceSchedule(ctx context.Context, id uuid.UUID, in wizard.ServiceScheduleInput) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		return session.ApplyServiceSchedule(in, s.now())
	})
}

// ApplyAddons records step 3 input.
func (s *WizardService) ApplyAddons(ctx context.Context, id uuid.UUID, in wizard.AddonsInput) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		return session.ApplyAddons(in)
	})
}

// ApplyContact records step 4 input.
func (s *WizardService) ApplyContact(ctx context.Context, id uuid.UUID, in wizard.ContactInput) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		return session.ApplyContact(in)
	})
}

// Next advances the wizard through the current step's validation gate.
func (s *WizardService) Next(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		return session.Advance(s.now())
	})
}

// Back returns to the prior step, preserving later-step data.
func (s *WizardService) Back(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		return session.Back()
	})
}

// Reset empties the draft and returns to the first step.
func (s *WizardService) Reset(ctx context.Context, id uuid.UUID) (*SessionDTO, error) {
	return s.mutate(ctx, id, func(session *wizard.Session) error {
		session.Reset()
		return nil
	})
}

// Submit is the terminal transition: validate the full draft, compute the
// final quote, post to the CRM gateway, persist the booking, and mark the
// session submitted. A gateway failure leaves the session on the final step
// with the draft intact so the user can retry; the idempotency key makes the
// retry single-shot on the booking side.
func (s *WizardService) Submit(ctx context.Context, id uuid.UUID) (*ConfirmationDTO, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := session.ValidateForSubmit(s.now()); err != nil {
		return nil, err
	}

	quote, err := s.quotes.QuoteDraftFactors(session.Draft.PricingFactors())
	if err != nil {
		if errors.Is(err, pricing.ErrQuoteRequired) {
			return nil, domain.NewValidationError("this service type requires a manual quote; please call us")
		}
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	// A retried submit that already went through returns the original booking.
	if existing, err := s.repo.FindByIdempotencyKey(ctx, session.IdempotencyKey); err == nil {
		return s.finishSubmission(ctx, session, existing)
	} else if !domain.IsCode(err, domain.CodeNotFound) {
		return nil, err
	}

	draft := session.Draft
	bk, err := bookingDomain.NewBooking(
		session.IdempotencyKey,
		bookingDomain.Contact{
			Name:    draft.CustomerName,
			Email:   draft.Email,
			Phone:   draft.Phone,
			Address: draft.Address,
		},
		bookingDomain.PropertySpec{
			Bedrooms:   draft.Bedrooms,
			Bathrooms:  draft.Bathrooms,
			SquareFeet: draft.SquareFeet,
			PostalCode: draft.PostalCode,
		},
		bookingDomain.ServiceDetails{
			ServiceType: draft.ServiceType,
			Frequency:   draft.Frequency,
			AddOnIDs:    draft.AddOnIDs,
		},
		bookingDomain.Schedule{Date: draft.Date, TimeSlot: draft.TimeSlot},
		draft.Zone.Name,
		draft.Zone.PriceMultiplier,
		*quote,
		"",
		draft.SpecialInstructions,
	)
	if err != nil {
		return nil, err
	}

	conf, err := s.gateway.Submit(ctx, buildSubmissionPayload(session, bk, quote))
	if err != nil {
		// Draft untouched; the handler surfaces the retry affordance.
		return nil, err
	}
	bk.AttachCRMReference(conf.Reference)

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishSubmitted(ctx, bk)

	return s.finishSubmission(ctx, session, bk)
}

// --- Helpers ---

func (s *WizardService) finishSubmission(ctx context.Context, session *wizard.Session, bk *bookingDomain.Booking) (*ConfirmationDTO, error) {
	if err := session.MarkSubmitted(); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save wizard session: %w", err)
	}
	return &ConfirmationDTO{
		BookingNumber: bk.BookingNumber(),
		CRMReference:  bk.CRMReference(),
		Date:          bk.Schedule().Date,
		TimeSlot:      bk.Schedule().TimeSlot,
		TotalCents:    bk.Quote().TotalCents,
		Currency:      bk.Quote().Currency,
	}, nil
}

func (s *WizardService) mutate(ctx context.Context, id uuid.UUID, fn func(*wizard.Session) error) (*SessionDTO, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save wizard session: %w", err)
	}
	result := s.toSessionDTO(session)
	return &result, nil
}

func (s *WizardService) toSessionDTO(session *wizard.Session) SessionDTO {
	dto := SessionDTO{
		ID:    session.ID,
		Step:  session.Step,
		Draft: session.Draft,
	}
	// The quote becomes computable once the service step has been filled in.
	if session.Draft.ServiceType.IsValid() && session.Draft.Frequency.IsValid() {
		quote, err := s.quotes.QuoteDraftFactors(session.Draft.PricingFactors())
		switch {
		case err == nil:
			dto.Quote = quote
		case errors.Is(err, pricing.ErrQuoteRequired):
			dto.QuoteRequired = true
		}
	}
	return dto
}

func buildSubmissionPayload(session *wizard.Session, bk *bookingDomain.Booking, quote *pricing.PriceQuote) gateway.SubmissionPayload {
	draft := session.Draft
	return gateway.SubmissionPayload{
		IdempotencyKey:      session.IdempotencyKey.String(),
		CustomerName:        draft.CustomerName,
		Email:               draft.Email,
		Phone:               draft.Phone,
		Address:             draft.Address,
		PostalCode:          draft.PostalCode,
		Bedrooms:            draft.Bedrooms,
		Bathrooms:           draft.Bathrooms,
		SquareFeet:          draft.SquareFeet,
		ServiceType:         draft.ServiceType.String(),
		Frequency:           draft.Frequency.String(),
		AddOnIDs:            draft.AddOnIDs,
		ZoneName:            draft.Zone.Name,
		ZoneMultiplier:      draft.Zone.PriceMultiplier,
		Date:                draft.Date,
		TimeSlot:            draft.TimeSlot,
		TotalCents:          quote.TotalCents,
		Currency:            quote.Currency,
		SpecialInstructions: draft.SpecialInstructions,
		BookingNumber:       bk.BookingNumber(),
	}
}

func (s *WizardService) publishSubmitted(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingSubmittedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ZoneName:      bk.ZoneName(),
		ServiceType:   bk.Service().ServiceType.String(),
		Frequency:     bk.Service().Frequency.String(),
		Date:          bk.Schedule().Date,
		TimeSlot:      bk.Schedule().TimeSlot,
		TotalCents:    bk.Quote().TotalCents,
		Currency:      bk.Quote().Currency,
		OccurredAt:    time.Now().UTC(),
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", events.BookingSubmitted, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish booking.submitted",
			zap.String("booking_number", bk.BookingNumber()),
			zap.Error(err),
		)
	}
}
