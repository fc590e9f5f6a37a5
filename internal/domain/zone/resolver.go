package zone

import "strings"

// Resolver maps a coordinate or postal code to a service zone. Resolution never
// fails: anything outside the named zones lands in the default zone, which is
// an expected path (geolocation denied, out-of-area postal code), not an error.
type Resolver struct {
	zones       []ServiceZone
	defaultZone ServiceZone
}

// NewResolver creates a Resolver over the given zones in resolution order.
func NewResolver(zones []ServiceZone, defaultZone ServiceZone) *Resolver {
	return &Resolver{zones: zones, defaultZone: defaultZone}
}

// NewDefaultResolver creates a Resolver over the built-in zone table.
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultZones(), DefaultZone())
}

// ResolveCoordinates returns the first zone whose bounds contain the point, or
// the default zone. First listed wins when rectangles overlap.
func (r *Resolver) ResolveCoordinates(lat, lng float64) ServiceZone {
	for _, z := range r.zones {
		if z.Bounds.Contains(lat, lng) {
			return z
		}
	}
	return r.defaultZone
}

// ResolvePostalCode returns the first zone with a matching postal prefix, or
// the default zone.
func (r *Resolver) ResolvePostalCode(code string) ServiceZone {
	normalized := strings.ToUpper(strings.ReplaceAll(code, " ", ""))
	for _, z := range r.zones {
		for _, prefix := range z.PostalPrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return z
			}
		}
	}
	return r.defaultZone
}

// ZoneByID returns the zone with the given id, falling back to the default zone.
func (r *Resolver) ZoneByID(id string) ServiceZone {
	for _, z := range r.zones {
		if z.ID == id {
			return z
		}
	}
	return r.defaultZone
}

// DefaultZone returns the catch-all zone.
func (r *Resolver) DefaultZone() ServiceZone {
	return r.defaultZone
}

// Zones returns the named zones in resolution order.
func (r *Resolver) Zones() []ServiceZone {
	return r.zones
}
