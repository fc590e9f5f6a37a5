package wizard_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidynest/service-booking/internal/domain/wizard"
	"github.com/tidynest/service-booking/internal/domain/zone"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func propertyInput() wizard.PropertyLocationInput {
	return wizard.PropertyLocationInput{
		Bedrooms:   2,
		Bathrooms:  2,
		SquareFeet: 1200,
		PostalCode: "V6B 1A1",
	}
}

func scheduleInput() wizard.ServiceScheduleInput {
	return wizard.ServiceScheduleInput{
		ServiceType: "standard",
		Frequency:   "biweekly",
		Date:        "2026-09-08",
		TimeSlot:    "10:00 AM",
	}
}

func contactInput() wizard.ContactInput {
	return wizard.ContactInput{
		CustomerName: "Dana Reyes",
		Email:        "dana@example.com",
		Phone:        "(604) 555-0134",
		Address:      "300 Seymour St",
	}
}

// sessionAt walks a fresh session forward to the given step with valid data.
func sessionAt(t *testing.T, step wizard.Step) *wizard.Session {
	t.Helper()
	s := wizard.NewSession()
	z := zone.NewDefaultResolver().ResolvePostalCode("V6B 1A1")

	if s.Step == step {
		return s
	}
	require.NoError(t, s.ApplyPropertyLocation(propertyInput(), z))
	require.NoError(t, s.Advance(testNow))
	if s.Step == step {
		return s
	}
	require.NoError(t, s.ApplyServiceSchedule(scheduleInput(), testNow))
	require.NoError(t, s.Advance(testNow))
	if s.Step == step {
		return s
	}
	require.NoError(t, s.ApplyAddons(wizard.AddonsInput{AddOnIDs: []string{"laundry"}}))
	require.NoError(t, s.Advance(testNow))
	if s.Step == step {
		return s
	}
	require.NoError(t, s.ApplyContact(contactInput()))
	require.NoError(t, s.ValidateForSubmit(testNow))
	require.NoError(t, s.MarkSubmitted())
	require.Equal(t, step, s.Step)
	return s
}

func TestNewSession(t *testing.T) {
	s := wizard.NewSession()

	assert.Equal(t, wizard.StepPropertyLocation, s.Step)
	assert.NotEqual(t, s.ID, s.IdempotencyKey)
	assert.NotZero(t, s.IdempotencyKey)
}

func TestAdvance_BlockedUntilStepValid(t *testing.T) {
	s := wizard.NewSession()

	err := s.Advance(testNow)
	require.Error(t, err, "empty property step cannot advance")
	assert.Equal(t, wizard.StepPropertyLocation, s.Step, "failed advance stays put")
}

func TestAdvance_FullWalkthrough(t *testing.T) {
	s := sessionAt(t, wizard.StepSubmitted)

	assert.Equal(t, wizard.StepSubmitted, s.Step)
	assert.True(t, s.Step.IsTerminal())
}

func TestApply_RejectedOnWrongStep(t *testing.T) {
	s := wizard.NewSession()

	err := s.ApplyContact(contactInput())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))

	err = s.ApplyServiceSchedule(scheduleInput(), testNow)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
}

func TestApplyPropertyLocation_Validation(t *testing.T) {
	s := wizard.NewSession()
	z := zone.DefaultZone()

	in := propertyInput()
	in.SquareFeet = 0
	assert.Error(t, s.ApplyPropertyLocation(in, z))

	in = propertyInput()
	in.Bathrooms = 0
	assert.Error(t, s.ApplyPropertyLocation(in, z))

	in = propertyInput()
	in.PostalCode = ""
	assert.Error(t, s.ApplyPropertyLocation(in, z), "needs a postal code or coordinates")

	lat, lng := 49.28, -123.12
	in.Latitude, in.Longitude = &lat, &lng
	assert.NoError(t, s.ApplyPropertyLocation(in, z), "coordinates alone are fine")
}

func TestApplyServiceSchedule_SlotMustBeAvailable(t *testing.T) {
	s := sessionAt(t, wizard.StepServiceSchedule)

	in := scheduleInput()
	in.TimeSlot = "6:00 AM"
	err := s.ApplyServiceSchedule(in, testNow)
	require.Error(t, err)
	assert.Empty(t, s.Draft.TimeSlot, "failed apply leaves the draft untouched")
}

func TestApplyContact_Validation(t *testing.T) {
	s := sessionAt(t, wizard.StepContactConfirm)

	in := contactInput()
	in.Email = "not-an-email"
	assert.Error(t, s.ApplyContact(in))

	in = contactInput()
	in.Phone = "123"
	assert.Error(t, s.ApplyContact(in))

	in = contactInput()
	in.CustomerName = "   "
	assert.Error(t, s.ApplyContact(in))
}

func TestBack_PreservesLaterStepData(t *testing.T) {
	s := sessionAt(t, wizard.StepAddonsReview)
	require.NoError(t, s.ApplyAddons(wizard.AddonsInput{AddOnIDs: []string{"laundry", "garage"}}))

	require.NoError(t, s.Back())
	assert.Equal(t, wizard.StepServiceSchedule, s.Step)

	// Schedule and add-on data both survive the round trip.
	assert.Equal(t, "2026-09-08", s.Draft.Date)
	require.NoError(t, s.Advance(testNow))
	assert.Equal(t, []string{"laundry", "garage"}, s.Draft.AddOnIDs)
}

func TestBack_BlockedAtEnds(t *testing.T) {
	s := wizard.NewSession()
	assert.Error(t, s.Back(), "no step before the first")

	s = sessionAt(t, wizard.StepSubmitted)
	assert.Error(t, s.Back(), "submitted sessions are read-only")
}

func TestApplyAddons_Dedupes(t *testing.T) {
	s := sessionAt(t, wizard.StepAddonsReview)

	require.NoError(t, s.ApplyAddons(wizard.AddonsInput{AddOnIDs: []string{"laundry", "laundry", "garage"}}))
	assert.Equal(t, []string{"laundry", "garage"}, s.Draft.AddOnIDs)
}

func TestValidateForSubmit(t *testing.T) {
	s := sessionAt(t, wizard.StepContactConfirm)
	assert.Error(t, s.ValidateForSubmit(testNow), "contact step not yet filled in")

	require.NoError(t, s.ApplyContact(contactInput()))
	assert.NoError(t, s.ValidateForSubmit(testNow))

	s2 := wizard.NewSession()
	assert.Error(t, s2.ValidateForSubmit(testNow), "only the final step can submit")
}

func TestReset(t *testing.T) {
	s := sessionAt(t, wizard.StepContactConfirm)
	oldKey := s.IdempotencyKey

	s.Reset()

	assert.Equal(t, wizard.StepPropertyLocation, s.Step)
	assert.Zero(t, s.Draft.SquareFeet)
	assert.NotEqual(t, oldKey, s.IdempotencyKey, "a reset draft is a new submission")
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := sessionAt(t, wizard.StepContactConfirm)
	require.NoError(t, s.ApplyContact(contactInput()))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored wizard.Session
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, s.ID, restored.ID)
	assert.Equal(t, s.Step, restored.Step)
	assert.Equal(t, s.Draft, restored.Draft)

	// The restored session still enforces gates.
	assert.NoError(t, restored.ValidateForSubmit(testNow))
}
