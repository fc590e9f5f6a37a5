package wizard

import "fmt"

// Step identifies a wizard stage. Progression is strictly linear: forward one
// step at a time through a validation gate, back one step at a time, never a
// skip.
type Step string

const (
	StepPropertyLocation Step = "property_location"
	StepServiceSchedule  Step = "service_schedule"
	StepAddonsReview     Step = "addons_review"
	StepContactConfirm   Step = "contact_confirm"
	StepSubmitted        Step = "submitted"
)

// stepOrder is the canonical wizard sequence.
var stepOrder = []Step{
	StepPropertyLocation,
	StepServiceSchedule,
	StepAddonsReview,
	StepContactConfirm,
	StepSubmitted,
}

// IsValid returns true if the step is recognized.
func (s Step) IsValid() bool {
	return s.index() >= 0
}

// IsTerminal returns true for the submitted step.
func (s Step) IsTerminal() bool {
	return s == StepSubmitted
}

// Next returns the following step, or false at the end of the sequence.
func (s Step) Next() (Step, bool) {
	i := s.index()
	if i < 0 || i == len(stepOrder)-1 {
		return "", false
	}
	return stepOrder[i+1], true
}

// Prev returns the preceding step, or false at the start of the sequence or
// from the terminal step (submitted sessions are read-only).
func (s Step) Prev() (Step, bool) {
	i := s.index()
	if i <= 0 || s.IsTerminal() {
		return "", false
	}
	return stepOrder[i-1], true
}

// String returns the string representation of the step.
func (s Step) String() string {
	return string(s)
}

// ParseStep converts a string to a Step, returning an error if invalid.
func ParseStep(v string) (Step, error) {
	s := Step(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid wizard step: %s", v)
	}
	return s, nil
}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}
