package wizard

import (
	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/domain/zone"
)

// BookingDraft is the in-progress booking accumulated across wizard steps.
// Each step mutates only its own fields; the draft is fully populated only when
// the final step is reached. It is session-scoped, JSON-serializable for the
// session store, and discarded on abandon rather than persisted.
type BookingDraft struct {
	// Property and location (step 1).
	Bedrooms   int      `json:"bedrooms"`
	Bathrooms  float64  `json:"bathrooms"`
	SquareFeet int      `json:"square_feet"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// Zone snapshot resolved from the location input.
	Zone zone.ServiceZone `json:"zone"`

	// Service and schedule (step 2).
	ServiceType pricing.ServiceType `json:"service_type,omitempty"`
	Frequency   pricing.Frequency   `json:"frequency,omitempty"`
	Date        string              `json:"date,omitempty"`
	TimeSlot    string              `json:"time_slot,omitempty"`

	// Add-ons (step 3).
	AddOnIDs []string `json:"add_on_ids,omitempty"`

	// Contact (step 4).
	CustomerName        string `json:"customer_name,omitempty"`
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Address             string `json:"address,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}

// PricingFactors derives the pricing engine input from the draft's current
// fields. The quote is a pure function of this, recomputed on every read.
func (d BookingDraft) PricingFactors() pricing.PricingFactors {
	multiplier := d.Zone.PriceMultiplier
	if multiplier == 0 {
		multiplier = 1.0
	}
	return pricing.PricingFactors{
		Bedrooms:       d.Bedrooms,
		Bathrooms:      d.Bathrooms,
		SquareFeet:     d.SquareFeet,
		ServiceType:    d.ServiceType,
		Frequency:      d.Frequency,
		AddOnIDs:       d.AddOnIDs,
		ZoneMultiplier: multiplier,
	}
}
