package zone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidynest/service-booking/internal/domain/zone"
)

func mustDate(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", iso)
	require.NoError(t, err)
	return d
}

func at(t *testing.T, iso string, hour int) time.Time {
	t.Helper()
	return mustDate(t, iso).Add(time.Duration(hour) * time.Hour)
}

func sameDayZone() zone.ServiceZone {
	z := zone.DefaultZone()
	z.Availability.SameDayBooking = true
	return z
}

func TestAvailableSlots_FutureDate(t *testing.T) {
	z := zone.DefaultZone()
	now := at(t, "2026-09-01", 9)

	slots := zone.AvailableSlots(z, mustDate(t, "2026-09-05"), now)
	assert.Len(t, slots, 5, "future dates get the full grid")
}

func TestAvailableSlots_Blackout(t *testing.T) {
	z := zone.DefaultZone()
	z.Availability.BlackoutDates = []string{"2026-12-25"}
	now := at(t, "2026-09-01", 9)

	assert.Empty(t, zone.AvailableSlots(z, mustDate(t, "2026-12-25"), now))
	assert.NotEmpty(t, zone.AvailableSlots(z, mustDate(t, "2026-12-26"), now))
}

func TestAvailableSlots_SameDayLeadTime(t *testing.T) {
	z := sameDayZone()
	now := at(t, "2026-09-01", 9)

	slots := zone.AvailableSlots(z, mustDate(t, "2026-09-01"), now)

	// At 9:00 only slots from 11:00 on qualify: 12 PM, 2 PM, 4 PM.
	require.Len(t, slots, 3)
	assert.Equal(t, 12, slots[0].Hour)
	assert.Equal(t, 14, slots[1].Hour)
	assert.Equal(t, 16, slots[2].Hour)
}

func TestAvailableSlots_SameDayCutoff(t *testing.T) {
	z := sameDayZone()

	// At the cutoff hour same-day booking is closed entirely.
	now := at(t, "2026-09-01", 15)
	assert.Empty(t, zone.AvailableSlots(z, mustDate(t, "2026-09-01"), now))

	// Tomorrow is unaffected.
	assert.Len(t, zone.AvailableSlots(z, mustDate(t, "2026-09-02"), now), 5)
}

func TestAvailableSlots_NoSameDaySupport(t *testing.T) {
	z := zone.DefaultZone() // same-day disabled
	now := at(t, "2026-09-01", 8)

	assert.Empty(t, zone.AvailableSlots(z, mustDate(t, "2026-09-01"), now))
}

func TestHasSlot(t *testing.T) {
	z := sameDayZone()
	now := at(t, "2026-09-01", 9)
	date := mustDate(t, "2026-09-01")

	assert.True(t, zone.HasSlot(z, date, now, "12:00 PM"))
	assert.False(t, zone.HasSlot(z, date, now, "8:00 AM"), "slot inside the lead window")
	assert.False(t, zone.HasSlot(z, date, now, "7:00 PM"), "slot not on the grid")
}

func TestMinBookableDate(t *testing.T) {
	sameDay := sameDayZone()
	nextDay := zone.DefaultZone()

	morning := at(t, "2026-09-01", 9)
	assert.Equal(t, "2026-09-01", zone.MinBookableDate(sameDay, morning).Format("2006-01-02"))
	assert.Equal(t, "2026-09-02", zone.MinBookableDate(nextDay, morning).Format("2006-01-02"))

	afternoon := at(t, "2026-09-01", 15)
	assert.Equal(t, "2026-09-02", zone.MinBookableDate(sameDay, afternoon).Format("2006-01-02"),
		"past the cutoff even same-day zones start tomorrow")
}
