package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Catalog is the pricing configuration the engine reads. Business price changes
// are catalog changes, never algorithm changes.
type Catalog struct {
	// BedroomTierCents maps bedroom count to base price; index 0 is the studio
	// tier, the last entry covers that count and above.
	BedroomTierCents []int64

	// Square-footage surcharge: above the threshold, each started block adds a
	// fixed amount on top of the bedroom tier.
	SquareFeetThreshold  int
	SquareFeetBlock      int
	SquareFeetBlockCents int64

	// Bathrooms beyond the count included in the tier (one per bedroom, minimum
	// one) each add a surcharge; half baths count as half.
	ExtraBathroomCents int64

	// ServiceMultipliers scales the base price per service type. Service types
	// absent from the map are quote-only.
	ServiceMultipliers map[ServiceType]decimal.Decimal

	// FrequencyDiscounts is the fraction taken off (base + add-ons) per frequency.
	FrequencyDiscounts map[Frequency]decimal.Decimal

	// AddOns is the fixed catalog of optional extras.
	AddOns []AddOn

	// MinimumChargeCents floors every computed total.
	MinimumChargeCents int64

	Currency string
}

// DefaultCatalog returns the canonical TidyNest price book.
func DefaultCatalog() Catalog {
	return Catalog{
		BedroomTierCents:     []int64{8900, 10900, 12500, 14900, 17900},
		SquareFeetThreshold:  1500,
		SquareFeetBlock:      500,
		SquareFeetBlockCents: 1000,
		ExtraBathroomCents:   1000,
		ServiceMultipliers: map[ServiceType]decimal.Decimal{
			ServiceStandard:  decimal.NewFromInt(1),
			ServiceDeep:      decimal.RequireFromString("1.5"),
			ServiceMoveInOut: decimal.RequireFromString("1.67"),
			ServiceAirbnb:    decimal.RequireFromString("0.9"),
		},
		FrequencyDiscounts: map[Frequency]decimal.Decimal{
			FrequencyOneTime:  decimal.Zero,
			FrequencyMonthly:  decimal.RequireFromString("0.05"),
			FrequencyBiweekly: decimal.RequireFromString("0.10"),
			FrequencyWeekly:   decimal.RequireFromString("0.15"),
		},
		AddOns: []AddOn{
			{ID: "inside_fridge", Name: "Inside Fridge", PriceCents: 3500},
			{ID: "inside_oven", Name: "Inside Oven", PriceCents: 3500},
			{ID: "interior_windows", Name: "Interior Windows", PriceCents: 4500},
			{ID: "inside_cabinets", Name: "Inside Cabinets", PriceCents: 3000},
			{ID: "laundry", Name: "Laundry & Folding", PriceCents: 2500},
			{ID: "balcony", Name: "Balcony / Patio", PriceCents: 3000},
			{ID: "garage", Name: "Garage Sweep", PriceCents: 4000},
		},
		MinimumChargeCents: 8900,
		Currency:           "USD",
	}
}

// AddOnOverride is an add-on entry as written in the config file.
type AddOnOverride struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	PriceCents int64  `mapstructure:"price_cents"`
}

// CatalogOverrides are the optional price-book keys accepted from the config
// file. Zero values keep the in-code default; the multiplier and discount maps
// merge per key, and a non-empty add-on list replaces the default catalog.
type CatalogOverrides struct {
	BedroomTierCents     []int64           `mapstructure:"bedroom_tier_cents"`
	SquareFeetThreshold  int               `mapstructure:"square_feet_threshold"`
	SquareFeetBlock      int               `mapstructure:"square_feet_block"`
	SquareFeetBlockCents int64             `mapstructure:"square_feet_block_cents"`
	ExtraBathroomCents   int64             `mapstructure:"extra_bathroom_cents"`
	MinimumChargeCents   int64             `mapstructure:"minimum_charge_cents"`
	ServiceMultipliers   map[string]string `mapstructure:"service_multipliers"`
	FrequencyDiscounts   map[string]string `mapstructure:"frequency_discounts"`
	AddOns               []AddOnOverride   `mapstructure:"add_ons"`
	Currency             string            `mapstructure:"currency"`
}

// WithOverrides returns a copy of the catalog with the file overrides applied.
// Unknown service types or frequencies are an error, not a silent skip, so a
// typo in the config cannot misprice bookings.
func (c Catalog) WithOverrides(o CatalogOverrides) (Catalog, error) {
	if len(o.BedroomTierCents) > 0 {
		c.BedroomTierCents = o.BedroomTierCents
	}
	if o.SquareFeetThreshold > 0 {
		c.SquareFeetThreshold = o.SquareFeetThreshold
	}
	if o.SquareFeetBlock > 0 {
		c.SquareFeetBlock = o.SquareFeetBlock
	}
	if o.SquareFeetBlockCents > 0 {
		c.SquareFeetBlockCents = o.SquareFeetBlockCents
	}
	if o.ExtraBathroomCents > 0 {
		c.ExtraBathroomCents = o.ExtraBathroomCents
	}
	if o.MinimumChargeCents > 0 {
		c.MinimumChargeCents = o.MinimumChargeCents
	}
	if o.Currency != "" {
		c.Currency = o.Currency
	}

	if len(o.ServiceMultipliers) > 0 {
		merged := make(map[ServiceType]decimal.Decimal, len(c.ServiceMultipliers))
		for k, v := range c.ServiceMultipliers {
			merged[k] = v
		}
		for key, raw := range o.ServiceMultipliers {
			st, err := ParseServiceType(key)
			if err != nil {
				return Catalog{}, fmt.Errorf("pricing override: %w", err)
			}
			// Quote-only types are priced manually; an override cannot turn
			// them into a number.
			if _, priced := c.ServiceMultipliers[st]; !priced {
				return Catalog{}, fmt.Errorf("pricing override: %s is quote-only and takes no multiplier", st)
			}
			mult, err := decimal.NewFromString(raw)
			if err != nil {
				return Catalog{}, fmt.Errorf("pricing override: bad multiplier for %s: %w", key, err)
			}
			merged[st] = mult
		}
		c.ServiceMultipliers = merged
	}

	if len(o.FrequencyDiscounts) > 0 {
		merged := make(map[Frequency]decimal.Decimal, len(c.FrequencyDiscounts))
		for k, v := range c.FrequencyDiscounts {
			merged[k] = v
		}
		for key, raw := range o.FrequencyDiscounts {
			f, err := ParseFrequency(key)
			if err != nil {
				return Catalog{}, fmt.Errorf("pricing override: %w", err)
			}
			disc, err := decimal.NewFromString(raw)
			if err != nil {
				return Catalog{}, fmt.Errorf("pricing override: bad discount for %s: %w", key, err)
			}
			merged[f] = disc
		}
		c.FrequencyDiscounts = merged
	}

	if len(o.AddOns) > 0 {
		addOns := make([]AddOn, 0, len(o.AddOns))
		for _, a := range o.AddOns {
			if a.ID == "" || a.PriceCents < 0 {
				return Catalog{}, fmt.Errorf("pricing override: invalid add-on %q", a.ID)
			}
			addOns = append(addOns, AddOn{ID: a.ID, Name: a.Name, PriceCents: a.PriceCents})
		}
		c.AddOns = addOns
	}

	return c, nil
}

// FindAddOn looks up a catalog add-on by id.
func (c Catalog) FindAddOn(id string) (AddOn, bool) {
	for _, a := range c.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}
