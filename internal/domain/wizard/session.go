package wizard

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/domain/zone"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Session is one user's wizard instance: the current step plus the accumulated
// draft. A single client owns a session; nothing mutates it concurrently.
type Session struct {
	ID             uuid.UUID    `json:"id"`
	IdempotencyKey uuid.UUID    `json:"idempotency_key"`
	Step           Step         `json:"step"`
	Draft          BookingDraft `json:"draft"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewSession creates an empty session at the first step. The idempotency key is
// minted here, once per draft, so a retried submission reuses the same key.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             uuid.New(),
		IdempotencyKey: uuid.New(),
		Step:           StepPropertyLocation,
		Draft:          BookingDraft{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// --- Step inputs ---

// PropertyLocationInput carries step 1 fields.
type PropertyLocationInput struct {
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  float64  `json:"bathrooms"`
	SquareFeet int      `json:"square_feet"`
	PostalCode string   `json:"postal_code"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// ServiceScheduleInput carries step 2 fields.
type ServiceScheduleInput struct {
	ServiceType string `json:"service_type"`
	Frequency   string `json:"frequency"`
	Date        string `json:"date"`
	TimeSlot    string `json:"time_slot"`
}

// AddonsInput carries step 3 fields.
type AddonsInput struct {
	AddOnIDs []string `json:"add_on_ids"`
}

// ContactInput carries step 4 fields.
type ContactInput struct {
	CustomerName        string `json:"customer_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Address             string `json:"address"`
	SpecialInstructions string `json:"special_instructions"`
}

// --- Field-scoped mutations ---
//
// Each apply method is permitted only while the session sits on the matching
// step, validates before assigning, and touches nothing outside its own
// fields, so a failed apply never leaves the draft partially corrupted.

// ApplyPropertyLocation records step 1 fields and the zone resolved from them.
func (s *Session) ApplyPropertyLocation(in PropertyLocationInput, resolved zone.ServiceZone) error {
	if err := s.requireStep(StepPropertyLocation); err != nil {
		return err
	}
	if in.Bedrooms < 0 {
		return domain.NewFieldValidationError("bedrooms", "bedrooms cannot be negative")
	}
	if in.Bathrooms < 0.5 {
		return domain.NewFieldValidationError("bathrooms", "at least half a bathroom is required")
	}
	if in.SquareFeet <= 0 {
		return domain.NewFieldValidationError("square_feet", "square footage must be positive")
	}
	if in.PostalCode == "" && (in.Latitude == nil || in.Longitude == nil) {
		return domain.NewFieldValidationError("postal_code", "a postal code or coordinates are required")
	}

	s.Draft.Bedrooms = in.Bedrooms
	s.Draft.Bathrooms = in.Bathrooms
	s.Draft.SquareFeet = in.SquareFeet
	s.Draft.PostalCode = in.PostalCode
	s.Draft.Latitude = in.Latitude
	s.Draft.Longitude = in.Longitude
	s.Draft.Zone = resolved
	s.touch()
	return nil
}

// ApplyServiceSchedule records step 2 fields.
func (s *Session) ApplyServiceSchedule(in ServiceScheduleInput, now time.Time) error {
	if err := s.requireStep(StepServiceSchedule); err != nil {
		return err
	}
	serviceType, err := pricing.ParseServiceType(in.ServiceType)
	if err != nil {
		return domain.NewFieldValidationError("service_type", err.Error())
	}
	frequency, err := pricing.ParseFrequency(in.Frequency)
	if err != nil {
		return domain.NewFieldValidationError("frequency", err.Error())
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return domain.NewFieldValidationError("date", "date must be YYYY-MM-DD")
	}
	slots := zone.AvailableSlots(s.Draft.Zone, date, now)
	if len(slots) == 0 {
		return domain.NewUnavailableError("no time slots available for the chosen date")
	}
	if !zone.HasSlot(s.Draft.Zone, date, now, in.TimeSlot) {
		return domain.NewFieldValidationError("time_slot", "time slot is not available for the chosen date")
	}

	s.Draft.ServiceType = serviceType
	s.Draft.Frequency = frequency
	s.Draft.Date = in.Date
	s.Draft.TimeSlot = in.TimeSlot
	s.touch()
	return nil
}

// ApplyAddons records step 3 fields. Add-ons are optional; duplicates collapse
// to set semantics here so downstream consumers see each id once.
func (s *Session) ApplyAddons(in AddonsInput) error {
	if err := s.requireStep(StepAddonsReview); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(in.AddOnIDs))
	var ids []string
	for _, id := range in.AddOnIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	s.Draft.AddOnIDs = ids
	s.touch()
	return nil
}

// ApplyContact records step 4 fields.
func (s *Session) ApplyContact(in ContactInput) error {
	if err := s.requireStep(StepContactConfirm); err != nil {
		return err
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return domain.NewFieldValidationError("customer_name", "name is required")
	}
	if !emailPattern.MatchString(in.Email) {
		return domain.NewFieldValidationError("email", "a valid email is required")
	}
	if countDigits(in.Phone) < 7 {
		return domain.NewFieldValidationError("phone", "a valid phone number is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return domain.NewFieldValidationError("address", "address is required")
	}

	s.Draft.CustomerName = strings.TrimSpace(in.CustomerName)
	s.Draft.Email = strings.TrimSpace(in.Email)
	s.Draft.Phone = strings.TrimSpace(in.Phone)
	s.Draft.Address = strings.TrimSpace(in.Address)
	s.Draft.SpecialInstructions = strings.TrimSpace(in.SpecialInstructions)
	s.touch()
	return nil
}

// --- Transitions ---

// Advance moves forward one step if the current step's gate passes. A failed
// gate leaves the current step unchanged.
func (s *Session) Advance(now time.Time) error {
	if s.Step == StepContactConfirm {
		return domain.NewInvalidStateError(string(s.Step), string(StepSubmitted))
	}
	next, ok := s.Step.Next()
	if !ok {
		return domain.NewInvalidStateError(string(s.Step), "next")
	}
	if err := s.validateGate(s.Step, now); err != nil {
		return err
	}
	s.Step = next
	s.touch()
	return nil
}

// Back moves to the immediately prior step. Data entered on later steps is kept
// so returning forward restores it.
func (s *Session) Back() error {
	prev, ok := s.Step.Prev()
	if !ok {
		return domain.NewInvalidStateError(string(s.Step), "back")
	}
	s.Step = prev
	s.touch()
	return nil
}

// ValidateForSubmit checks the complete draft from the final step. Submission
// itself (gateway call, persistence) is orchestrated by the application layer;
// on success it calls MarkSubmitted.
func (s *Session) ValidateForSubmit(now time.Time) error {
	if s.Step != StepContactConfirm {
		return domain.NewInvalidStateError(string(s.Step), string(StepSubmitted))
	}
	for _, step := range []Step{StepPropertyLocation, StepServiceSchedule, StepAddonsReview, StepContactConfirm} {
		if err := s.validateGate(step, now); err != nil {
			return err
		}
	}
	return nil
}

// MarkSubmitted transitions to the terminal read-only step.
func (s *Session) MarkSubmitted() error {
	if s.Step != StepContactConfirm {
		return domain.NewInvalidStateError(string(s.Step), string(StepSubmitted))
	}
	s.Step = StepSubmitted
	s.touch()
	return nil
}

// Reset returns the session to the first step with an empty draft and a fresh
// idempotency key, for "book another" after submission or an explicit restart.
func (s *Session) Reset() {
	s.Draft = BookingDraft{}
	s.Step = StepPropertyLocation
	s.IdempotencyKey = uuid.New()
	s.touch()
}

// --- Gates ---

func (s *Session) validateGate(step Step, now time.Time) error {
	switch step {
	case StepPropertyLocation:
		if s.Draft.SquareFeet <= 0 || s.Draft.Bathrooms < 0.5 {
			return domain.NewValidationError("property details are incomplete")
		}
		if s.Draft.Zone.Name == "" {
			return domain.NewValidationError("service area has not been resolved")
		}
	case StepServiceSchedule:
		if !s.Draft.ServiceType.IsValid() || !s.Draft.Frequency.IsValid() {
			return domain.NewValidationError("service and frequency are required")
		}
		date, err := time.Parse("2006-01-02", s.Draft.Date)
		if err != nil {
			return domain.NewFieldValidationError("date", "a service date is required")
		}
		if !zone.HasSlot(s.Draft.Zone, date, now, s.Draft.TimeSlot) {
			return domain.NewUnavailableError("the chosen time slot is no longer available")
		}
	case StepAddonsReview:
		// Add-ons are optional; the gate always passes.
	case StepContactConfirm:
		if s.Draft.CustomerName == "" || s.Draft.Phone == "" || s.Draft.Address == "" {
			return domain.NewValidationError("contact details are incomplete")
		}
		if !emailPattern.MatchString(s.Draft.Email) {
			return domain.NewFieldValidationError("email", "a valid email is required")
		}
	}
	return nil
}

func (s *Session) requireStep(step Step) error {
	if s.Step != step {
		return domain.NewInvalidStateError(string(s.Step), string(step))
	}
	return nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

func countDigits(v string) int {
	n := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
