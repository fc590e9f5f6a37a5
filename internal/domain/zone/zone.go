package zone

// Bounds is a lat/lng rectangle delimiting a service zone.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Contains reports whether the point falls inside the rectangle (inclusive).
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Slot is a bookable time-of-day with its display label.
type Slot struct {
	Label string `json:"label"`
	Hour  int    `json:"hour"`
}

// AvailabilityPolicy holds a zone's scheduling rules.
type AvailabilityPolicy struct {
	SameDayBooking  bool     `json:"same_day_booking"`
	TimeSlots       []Slot   `json:"time_slots"`
	BlackoutDates   []string `json:"blackout_dates"`
	RushHourPremium bool     `json:"rush_hour_premium"`
}

// IsBlackout reports whether the ISO date is blacked out.
func (p AvailabilityPolicy) IsBlackout(isoDate string) bool {
	for _, d := range p.BlackoutDates {
		if d == isoDate {
			return true
		}
	}
	return false
}

// ServiceZone is a named geographic service area with its own price multiplier
// and availability rules.
type ServiceZone struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	PriceMultiplier float64            `json:"price_multiplier"`
	Bounds          Bounds             `json:"bounds"`
	PostalPrefixes  []string           `json:"postal_prefixes"`
	Features        []string           `json:"features"`
	Availability    AvailabilityPolicy `json:"availability"`
}

// standardSlots is the default slot grid shared by every zone.
func standardSlots() []Slot {
	return []Slot{
		{Label: "8:00 AM", Hour: 8},
		{Label: "10:00 AM", Hour: 10},
		{Label: "12:00 PM", Hour: 12},
		{Label: "2:00 PM", Hour: 14},
		{Label: "4:00 PM", Hour: 16},
	}
}

// DefaultZone is the catch-all area used when resolution finds no match:
// multiplier 1.0 and the most conservative availability (no same-day).
func DefaultZone() ServiceZone {
	return ServiceZone{
		ID:              "standard",
		Name:            "Standard Service Area",
		PriceMultiplier: 1.0,
		Features:        []string{"Next-day booking", "All standard services"},
		Availability: AvailabilityPolicy{
			SameDayBooking: false,
			TimeSlots:      standardSlots(),
		},
	}
}

// DefaultZones returns the named service areas in resolution order. Rectangular
// bounds can technically overlap; the first listed zone wins.
func DefaultZones() []ServiceZone {
	return []ServiceZone{
		{
			ID:              "downtown",
			Name:            "Downtown Core",
			PriceMultiplier: 1.25,
			Bounds:          Bounds{MinLat: 49.270, MaxLat: 49.295, MinLng: -123.145, MaxLng: -123.100},
			PostalPrefixes:  []string{"V6B", "V6C", "V6E", "V6Z"},
			Features:        []string{"Same-day booking", "Tower access coordination", "Parking arranged"},
			Availability: AvailabilityPolicy{
				SameDayBooking:  true,
				TimeSlots:       standardSlots(),
				RushHourPremium: true,
			},
		},
		{
			ID:              "westside",
			Name:            "Westside",
			PriceMultiplier: 1.15,
			Bounds:          Bounds{MinLat: 49.220, MaxLat: 49.270, MinLng: -123.225, MaxLng: -123.145},
			PostalPrefixes:  []string{"V6K", "V6L", "V6M", "V6N", "V6R", "V6S"},
			Features:        []string{"Same-day booking", "Eco-friendly supplies"},
			Availability: AvailabilityPolicy{
				SameDayBooking: true,
				TimeSlots:      standardSlots(),
			},
		},
		{
			ID:              "north-shore",
			Name:            "North Shore",
			PriceMultiplier: 1.3,
			Bounds:          Bounds{MinLat: 49.300, MaxLat: 49.360, MinLng: -123.180, MaxLng: -123.020},
			PostalPrefixes:  []string{"V7L", "V7M", "V7N", "V7P", "V7R"},
			Features:        []string{"Bridge crossing included", "Flexible scheduling"},
			Availability: AvailabilityPolicy{
				SameDayBooking:  false,
				TimeSlots:       standardSlots(),
				RushHourPremium: true,
			},
		},
		{
			ID:              "east-side",
			Name:            "East Side",
			PriceMultiplier: 1.1,
			Bounds:          Bounds{MinLat: 49.220, MaxLat: 49.295, MinLng: -123.100, MaxLng: -123.020},
			PostalPrefixes:  []string{"V5K", "V5L", "V5M", "V5N", "V5P", "V5R"},
			Features:        []string{"Same-day booking"},
			Availability: AvailabilityPolicy{
				SameDayBooking: true,
				TimeSlots:      standardSlots(),
			},
		},
	}
}
