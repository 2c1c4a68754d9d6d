// Package geo models the external geocoding/places provider behind a narrow
// interface so the search controller is testable without a real map dependency.
package geo

import (
	"context"
	"math"
)

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceSummary is one nearby-search hit.
type PlaceSummary struct {
	PlaceID  string
	Name     string
	Address  string
	Location Coordinates
}

// PlaceDetail extends a summary with the enrichment fields fetched per entry.
type PlaceDetail struct {
	PlaceSummary
	Rating         *float64
	BusinessStatus string
	OpeningHours   []string
}

// Provider is the geocoding/places capability consumed by the search controller.
type Provider interface {
	Geocode(ctx context.Context, address string) ([]Coordinates, error)
	NearbySearch(ctx context.Context, center Coordinates, radiusMeters int, category string) ([]PlaceSummary, error)
	GetDetails(ctx context.Context, placeID string) (*PlaceDetail, error)
}

const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance between two coordinates in
// kilometers.
func Haversine(a, b Coordinates) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
