package search

import (
	"strings"

	"github.com/Brupez/EletricNET/services/webapp/internal/geo"
)

// Origin tags which source a charger entry came from. Source ids are unique
// only within an origin, so entries are always keyed by (origin, sourceId).
type Origin string

const (
	OriginExternal Origin = "external"
	OriginInternal Origin = "internal"
)

// EntryKey uniquely addresses one reconciled entry across both origins.
type EntryKey struct {
	Origin   Origin `json:"origin"`
	SourceID string `json:"id"`
}

// OperationalStatus is the unified open/closed state of a charger.
type OperationalStatus string

const (
	StatusOperational OperationalStatus = "operational"
	StatusClosed      OperationalStatus = "closed"
	StatusUnknown     OperationalStatus = "unknown"
)

// ChargerEntry is the unified representation of one charging location,
// regardless of origin.
type ChargerEntry struct {
	Key          EntryKey          `json:"key"`
	DisplayName  string            `json:"displayName"`
	Address      string            `json:"address"`
	Coordinates  geo.Coordinates   `json:"coordinates"`
	Rating       *float64          `json:"rating,omitempty"`
	Status       OperationalStatus `json:"operationalStatus"`
	OpeningHours []string          `json:"openingHoursText,omitempty"`
}

// Marker is the handle for one rendered map marker. Markers are owned by the
// controller and replaced wholesale on every committed search session.
type Marker struct {
	Key      EntryKey        `json:"key"`
	Title    string          `json:"title"`
	Position geo.Coordinates `json:"position"`
	Open     bool            `json:"open"`
}

// NavPayload carries a selected entry's display fields to the details view.
type NavPayload struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	External     bool     `json:"isExternal"`
	Rating       *float64 `json:"rating,omitempty"`
	Status       string   `json:"status"`
	OpeningHours []string `json:"openingHoursText,omitempty"`
}

// statusFromBusiness maps the external provider's business status.
func statusFromBusiness(raw string) OperationalStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "OPERATIONAL":
		return StatusOperational
	case "CLOSED_TEMPORARILY", "CLOSED_PERMANENTLY":
		return StatusClosed
	default:
		return StatusUnknown
	}
}

// statusFromStation maps the internal inventory's station status.
func statusFromStation(raw string) OperationalStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ACTIVE":
		return StatusOperational
	case "INACTIVE", "MAINTENANCE":
		return StatusClosed
	default:
		return StatusUnknown
	}
}
