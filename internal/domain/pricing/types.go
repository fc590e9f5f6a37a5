package pricing

import "fmt"

// ServiceType represents the kind of cleaning being booked.
type ServiceType string

const (
	ServiceStandard         ServiceType = "standard"
	ServiceDeep             ServiceType = "deep"
	ServiceMoveInOut        ServiceType = "move_in_out"
	ServiceAirbnb           ServiceType = "airbnb"
	ServicePostConstruction ServiceType = "post_construction"
)

// IsValid returns true if the service type is recognized.
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceStandard, ServiceDeep, ServiceMoveInOut, ServiceAirbnb, ServicePostConstruction:
		return true
	}
	return false
}

// String returns the string representation of the service type.
func (s ServiceType) String() string {
	return string(s)
}

// ParseServiceType converts a string to a ServiceType, returning an error if invalid.
func ParseServiceType(s string) (ServiceType, error) {
	st := ServiceType(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid service type: %s", s)
	}
	return st, nil
}

// Frequency represents how often the service recurs.
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyWeekly   Frequency = "weekly"
)

// IsValid returns true if the frequency is recognized.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyBiweekly, FrequencyWeekly:
		return true
	}
	return false
}

// String returns the string representation of the frequency.
func (f Frequency) String() string {
	return string(f)
}

// ParseFrequency converts a string to a Frequency, returning an error if invalid.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid frequency: %s", s)
	}
	return f, nil
}

// PricingFactors is the immutable input to a price calculation.
type PricingFactors struct {
	Bedrooms       int         `json:"bedrooms"`
	Bathrooms      float64     `json:"bathrooms"`
	SquareFeet     int         `json:"square_feet"`
	ServiceType    ServiceType `json:"service_type"`
	Frequency      Frequency   `json:"frequency"`
	AddOnIDs       []string    `json:"add_on_ids"`
	ZoneMultiplier float64     `json:"zone_multiplier"`
}

// AddOn is a fixed-price optional extra from the catalog.
type AddOn struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}
