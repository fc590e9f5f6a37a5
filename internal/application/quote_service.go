package application

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tidynest/service-booking/internal/domain/pricing"
	"github.com/tidynest/service-booking/internal/domain/zone"
	"github.com/tidynest/service-booking/internal/pkg/domain"
)

// QuoteRequest holds the inputs for an ad-hoc price quote. Location can come
// in as a postal code, coordinates, or a known zone id; coordinates win when
// more than one is present.
type QuoteRequest struct {
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   float64  `json:"bathrooms"`
	SquareFeet  int      `json:"square_feet"`
	ServiceType string   `json:"service_type" binding:"required"`
	Frequency   string   `json:"frequency" binding:"required"`
	AddOnIDs    []string `json:"add_on_ids"`
	PostalCode  string   `json:"postal_code"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ZoneID      string   `json:"zone_id"`
}

// QuoteDTO is the response representation of a quote. QuoteRequired marks
// service types priced manually; no figures are returned for those.
type QuoteDTO struct {
	Quote         *pricing.PriceQuote `json:"quote,omitempty"`
	QuoteRequired bool                `json:"quote_required,omitempty"`
	ZoneID        string              `json:"zone_id"`
	ZoneName      string              `json:"zone_name"`
}

// CatalogDTO exposes the price book to the rendering layer so pages never
// carry their own copy of the tables.
type CatalogDTO struct {
	BedroomTierCents   []int64              `json:"bedroom_tier_cents"`
	AddOns             []pricing.AddOn      `json:"add_ons"`
	FrequencyDiscounts map[string]string    `json:"frequency_discounts"`
	MinimumChargeCents int64                `json:"minimum_charge_cents"`
	Currency           string               `json:"currency"`
	Zones              []zone.ServiceZone   `json:"zones"`
}

// QuoteService computes prices for the quote endpoint and the wizard.
type QuoteService struct {
	engine   pricing.Engine
	catalog  pricing.Catalog
	resolver *zone.Resolver
	logger   *zap.Logger
}

// NewQuoteService creates a QuoteService.
func NewQuoteService(engine pricing.Engine, catalog pricing.Catalog, resolver *zone.Resolver, logger *zap.Logger) *QuoteService {
	return &QuoteService{engine: engine, catalog: catalog, resolver: resolver, logger: logger}
}

// Quote resolves the zone and computes the itemized price.
func (s *QuoteService) Quote(req QuoteRequest) (*QuoteDTO, error) {
	z := s.resolveLocation(req)

	factors := pricing.PricingFactors{
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		SquareFeet:     req.SquareFeet,
		ServiceType:    pricing.ServiceType(req.ServiceType),
		Frequency:      pricing.Frequency(req.Frequency),
		AddOnIDs:       req.AddOnIDs,
		ZoneMultiplier: z.PriceMultiplier,
	}

	quote, err := s.engine.CalculatePrice(factors)
	if err != nil {
		if errors.Is(err, pricing.ErrQuoteRequired) {
			return &QuoteDTO{QuoteRequired: true, ZoneID: z.ID, ZoneName: z.Name}, nil
		}
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	return &QuoteDTO{Quote: quote, ZoneID: z.ID, ZoneName: z.Name}, nil
}

// QuoteDraftFactors prices a wizard draft's factors directly.
func (s *QuoteService) QuoteDraftFactors(factors pricing.PricingFactors) (*pricing.PriceQuote, error) {
	return s.engine.CalculatePrice(factors)
}

// Catalog returns the canonical price book and zone table.
func (s *QuoteService) Catalog() CatalogDTO {
	discounts := make(map[string]string, len(s.catalog.FrequencyDiscounts))
	for freq, pct := range s.catalog.FrequencyDiscounts {
		discounts[freq.String()] = pct.String()
	}
	return CatalogDTO{
		BedroomTierCents:   s.catalog.BedroomTierCents,
		AddOns:             s.catalog.AddOns,
		FrequencyDiscounts: discounts,
		MinimumChargeCents: s.catalog.MinimumChargeCents,
		Currency:           s.catalog.Currency,
		Zones:              s.resolver.Zones(),
	}
}

func (s *QuoteService) resolveLocation(req QuoteRequest) zone.ServiceZone {
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		return s.resolver.ResolveCoordinates(*req.Latitude, *req.Longitude)
	case req.PostalCode != "":
		return s.resolver.ResolvePostalCode(req.PostalCode)
	case req.ZoneID != "":
		return s.resolver.ZoneByID(req.ZoneID)
	default:
		// Geolocation denied or absent: the default zone, silently.
		return s.resolver.DefaultZone()
	}
}
