package application

import (
	"time"

	"github.com/tidynest/service-booking/internal/domain/zone"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

// AvailabilityDTO is the response for a zone/date availability lookup.
type AvailabilityDTO struct {
	ZoneID          string      `json:"zone_id"`
	ZoneName        string      `json:"zone_name"`
	Date            string      `json:"date"`
	Slots           []zone.Slot `json:"slots"`
	MinBookableDate string      `json:"min_bookable_date"`
}

// ZoneDTO is the response for a location resolution.
type ZoneDTO struct {
	Zone            zone.ServiceZone `json:"zone"`
	MinBookableDate string           `json:"min_bookable_date"`
}

// AvailabilityService answers slot and zone lookups. The clock is injected so
// same-day rules are testable.
type AvailabilityService struct {
	resolver *zone.Resolver
	now      func() time.Time
}

// NewAvailabilityService creates an AvailabilityService using the given clock.
func NewAvailabilityService(resolver *zone.Resolver, now func() time.Time) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{resolver: resolver, now: now}
}

// Slots returns the bookable slots for a zone on a date.
func (s *AvailabilityService) Slots(zoneID, isoDate string) (*AvailabilityDTO, error) {
	date, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return nil, domain.NewFieldValidationError("date", "date must be YYYY-MM-DD")
	}

	z := s.resolver.ZoneByID(zoneID)
	now := s.now()
	return &AvailabilityDTO{
		ZoneID:          z.ID,
		ZoneName:        z.Name,
		Date:            isoDate,
		Slots:           zone.AvailableSlots(z, date, now),
		MinBookableDate: zone.MinBookableDate(z, now).Format("2006-01-02"),
	}, nil
}

// ResolveZone maps a coordinate pair or postal code to a service zone.
func (s *AvailabilityService) ResolveZone(postalCode string, lat, lng *float64) ZoneDTO {
	var z zone.ServiceZone
	switch {
	case lat != nil && lng != nil:
		z = s.resolver.ResolveCoordinates(*lat, *lng)
	case postalCode != "":
		z = s.resolver.ResolvePostalCode(postalCode)
	default:
		z = s.resolver.DefaultZone()
	}
	return ZoneDTO{
		Zone:            z,
		MinBookableDate: zone.MinBookableDate(z, s.now()).Format("2006-01-02"),
	}
}

// Zones lists every named service area plus the default.
func (s *AvailabilityService) Zones() []zone.ServiceZone {
	zones := append([]zone.ServiceZone{}, s.resolver.Zones()...)
	return append(zones, s.resolver.DefaultZone())
}
