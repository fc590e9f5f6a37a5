package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrQuoteRequired is returned for service types that are priced manually.
// Post-construction jobs vary too much for the tier table to be trusted.
var ErrQuoteRequired = errors.New("service requires a manual quote")

// ErrInvalidServiceType indicates a service type outside the closed enum. The
// booking form only submits known values, so hitting this is a caller bug and
// must never silently fall back to standard pricing.
var ErrInvalidServiceType = errors.New("invalid service type")

// ErrInvalidFrequency indicates a frequency outside the closed enum.
var ErrInvalidFrequency = errors.New("invalid frequency")

// PriceQuote is the itemized output of a price calculation. It is derived data,
// recomputed from the draft on every read, and never persisted as source of truth.
type PriceQuote struct {
	BasePriceCents int64   `json:"base_price_cents"`
	AddOnsCents    int64   `json:"add_ons_cents"`
	DiscountCents  int64   `json:"discount_cents"`
	SubtotalCents  int64   `json:"subtotal_cents"`
	ZoneMultiplier float64 `json:"zone_multiplier"`
	TotalCents     int64   `json:"total_cents"`
	MinimumApplied bool    `json:"minimum_applied"`
	Currency       string  `json:"currency"`
}

// Engine computes price quotes from booking factors.
type Engine interface {
	// CalculatePrice returns the itemized quote for the given factors.
	CalculatePrice(factors PricingFactors) (*PriceQuote, error)
}

// CatalogEngine is the catalog-driven Engine implementation. It is pure: same
// factors in, same quote out, no I/O.
type CatalogEngine struct {
	catalog Catalog
}

// NewCatalogEngine creates a CatalogEngine backed by the given catalog.
func NewCatalogEngine(catalog Catalog) *CatalogEngine {
	return &CatalogEngine{catalog: catalog}
}

// Catalog returns the engine's price book.
func (e *CatalogEngine) Catalog() Catalog {
	return e.catalog
}

// CalculatePrice computes the itemized quote.
//
// Chain: bedroom tier (+ square footage and extra bathroom surcharges)
// x service multiplier = base; + add-ons; - frequency discount; x zone
// multiplier; rounded to the nearest dollar and floored at the minimum charge.
func (e *CatalogEngine) CalculatePrice(factors PricingFactors) (*PriceQuote, error) {
	if !factors.ServiceType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidServiceType, factors.ServiceType)
	}
	if !factors.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFrequency, factors.Frequency)
	}
	if factors.Bedrooms < 0 {
		return nil, errors.New("bedrooms cannot be negative")
	}
	if factors.Bathrooms < 0.5 {
		return nil, errors.New("at least half a bathroom is required")
	}
	if factors.SquareFeet <= 0 {
		return nil, errors.New("square footage must be positive")
	}
	if factors.ZoneMultiplier <= 0 {
		return nil, errors.New("zone multiplier must be positive")
	}

	serviceMult, ok := e.catalog.ServiceMultipliers[factors.ServiceType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuoteRequired, factors.ServiceType)
	}

	base := decimal.NewFromInt(e.tierCents(factors.Bedrooms)).
		Add(decimal.NewFromInt(e.squareFeetSurcharge(factors.SquareFeet))).
		Add(e.bathroomSurcharge(factors.Bedrooms, factors.Bathrooms)).
		Mul(serviceMult)

	addOns := decimal.NewFromInt(e.addOnTotal(factors.AddOnIDs))

	discountPct := e.catalog.FrequencyDiscounts[factors.Frequency]
	discount := base.Add(addOns).Mul(discountPct)

	subtotal := base.Add(addOns).Sub(discount)

	zoneMult := decimal.NewFromFloat(factors.ZoneMultiplier)
	// Round the zone-adjusted subtotal to the nearest whole dollar.
	totalDollars := subtotal.Mul(zoneMult).Div(decimal.NewFromInt(100)).Round(0)
	totalCents := totalDollars.Mul(decimal.NewFromInt(100)).IntPart()

	minimumApplied := false
	if totalCents < e.catalog.MinimumChargeCents {
		totalCents = e.catalog.MinimumChargeCents
		minimumApplied = true
	}

	return &PriceQuote{
		BasePriceCents: base.Round(0).IntPart(),
		AddOnsCents:    addOns.IntPart(),
		DiscountCents:  discount.Round(0).IntPart(),
		SubtotalCents:  subtotal.Round(0).IntPart(),
		ZoneMultiplier: factors.ZoneMultiplier,
		TotalCents:     totalCents,
		MinimumApplied: minimumApplied,
		Currency:       e.catalog.Currency,
	}, nil
}

// tierCents returns the base price for the bedroom count. Index 0 is the studio
// tier; counts past the table end reuse the top tier.
func (e *CatalogEngine) tierCents(bedrooms int) int64 {
	tiers := e.catalog.BedroomTierCents
	if bedrooms >= len(tiers) {
		return tiers[len(tiers)-1]
	}
	return tiers[bedrooms]
}

// squareFeetSurcharge charges per started block above the threshold.
func (e *CatalogEngine) squareFeetSurcharge(squareFeet int) int64 {
	over := squareFeet - e.catalog.SquareFeetThreshold
	if over <= 0 {
		return 0
	}
	blocks := (over + e.catalog.SquareFeetBlock - 1) / e.catalog.SquareFeetBlock
	return int64(blocks) * e.catalog.SquareFeetBlockCents
}

// bathroomSurcharge charges for bathrooms beyond the count included in the
// tier: one per bedroom, minimum one. Half baths count as half.
func (e *CatalogEngine) bathroomSurcharge(bedrooms int, bathrooms float64) decimal.Decimal {
	included := bedrooms
	if included < 1 {
		included = 1
	}
	extra := decimal.NewFromFloat(bathrooms).Sub(decimal.NewFromInt(int64(included)))
	if extra.Sign() <= 0 {
		return decimal.Zero
	}
	return extra.Mul(decimal.NewFromInt(e.catalog.ExtraBathroomCents))
}

// addOnTotal sums catalog prices for the selected ids with set semantics:
// duplicates count once, unknown ids are skipped so stale client state never
// breaks a quote.
func (e *CatalogEngine) addOnTotal(ids []string) int64 {
	seen := make(map[string]struct{}, len(ids))
	var total int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if addOn, ok := e.catalog.FindAddOn(id); ok {
			total += addOn.PriceCents
		}
	}
	return total
}
