package zone

import "time"

const (
	// SameDayLeadHours is the minimum gap between "now" and a same-day slot.
	SameDayLeadHours = 2

	// SameDayCutoffHour is the hour after which same-day booking closes even in
	// zones that support it.
	SameDayCutoffHour = 14
)

// isoDate formats a time as the ISO calendar date used in blackout lists.
func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// sameCalendarDay reports whether two times fall on the same calendar date.
func sameCalendarDay(a, b time.Time) bool {
	return isoDate(a) == isoDate(b)
}

// AvailableSlots returns the bookable slots for a zone on a date, given the
// current time. The rules determine real monetary availability, so they live
// here as explicit predicates rather than in any rendering layer:
//
//   - blackout date: nothing
//   - today, zone supports same-day: only slots at least the lead time ahead,
//     and nothing at all once the cutoff hour has passed
//   - today, no same-day support: nothing
//   - any other future date: the full slot grid
func AvailableSlots(z ServiceZone, date, now time.Time) []Slot {
	if z.Availability.IsBlackout(isoDate(date)) {
		return nil
	}

	if !sameCalendarDay(date, now) {
		return z.Availability.TimeSlots
	}

	if !z.Availability.SameDayBooking {
		return nil
	}
	if now.Hour() >= SameDayCutoffHour {
		return nil
	}

	earliest := now.Hour() + SameDayLeadHours
	var slots []Slot
	for _, s := range z.Availability.TimeSlots {
		if s.Hour >= earliest {
			slots = append(slots, s)
		}
	}
	return slots
}

// HasSlot reports whether the given label is bookable for the zone and date.
func HasSlot(z ServiceZone, date, now time.Time, label string) bool {
	for _, s := range AvailableSlots(z, date, now) {
		if s.Label == label {
			return true
		}
	}
	return false
}

// MinBookableDate returns the earliest date with any possibility of slots:
// today while same-day booking is still open, otherwise tomorrow. Blackouts are
// not skipped here; callers check the chosen date through AvailableSlots.
func MinBookableDate(z ServiceZone, now time.Time) time.Time {
	if z.Availability.SameDayBooking && now.Hour() < SameDayCutoffHour {
		return now
	}
	return now.AddDate(0, 0, 1)
}
