package zone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidynest/service-booking/internal/domain/zone"
)

func TestResolveCoordinates(t *testing.T) {
	resolver := zone.NewDefaultResolver()

	tests := []struct {
		name     string
		lat, lng float64
		wantID   string
	}{
		{"downtown core", 49.282, -123.120, "downtown"},
		{"westside", 49.250, -123.180, "westside"},
		{"north shore", 49.320, -123.070, "north-shore"},
		{"east side", 49.260, -123.050, "east-side"},
		{"out of area", 48.400, -123.370, "standard"},
		{"boundary is inclusive", 49.270, -123.100, "downtown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := resolver.ResolveCoordinates(tt.lat, tt.lng)
			assert.Equal(t, tt.wantID, z.ID)
		})
	}
}

func TestResolveCoordinates_Deterministic(t *testing.T) {
	resolver := zone.NewDefaultResolver()

	first := resolver.ResolveCoordinates(49.282, -123.120)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first.ID, resolver.ResolveCoordinates(49.282, -123.120).ID)
	}
}

func TestResolveCoordinates_FirstListedWinsOnOverlap(t *testing.T) {
	overlap := zone.Bounds{MinLat: 0, MaxLat: 10, MinLng: 0, MaxLng: 10}
	zones := []zone.ServiceZone{
		{ID: "alpha", Bounds: overlap},
		{ID: "beta", Bounds: overlap},
	}
	resolver := zone.NewResolver(zones, zone.DefaultZone())

	assert.Equal(t, "alpha", resolver.ResolveCoordinates(5, 5).ID)
}

func TestResolvePostalCode(t *testing.T) {
	resolver := zone.NewDefaultResolver()

	tests := []struct {
		code   string
		wantID string
	}{
		{"V6B 1A1", "downtown"},
		{"v6k 2c4", "westside"}, // case and spacing normalized
		{"V7L3H6", "north-shore"},
		{"V5K 0A1", "east-side"},
		{"T2P 1J9", "standard"}, // out of area
		{"", "standard"},
	}

	for _, tt := range tests {
		z := resolver.ResolvePostalCode(tt.code)
		assert.Equal(t, tt.wantID, z.ID, "code=%q", tt.code)
	}
}

func TestZoneByID(t *testing.T) {
	resolver := zone.NewDefaultResolver()

	assert.Equal(t, "downtown", resolver.ZoneByID("downtown").ID)
	assert.Equal(t, 1.25, resolver.ZoneByID("downtown").PriceMultiplier)
	assert.Equal(t, "standard", resolver.ZoneByID("nowhere").ID, "unknown id falls back to default")
}
