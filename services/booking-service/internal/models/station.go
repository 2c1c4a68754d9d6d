package models

// StationStatus describes whether a station is usable.
type StationStatus string

const (
	StationActive      StationStatus = "ACTIVE"
	StationInactive    StationStatus = "INACTIVE"
	StationMaintenance StationStatus = "MAINTENANCE"
)

// Station groups charging slots at a physical location.
type Station struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Status    StationStatus `json:"status"`
}
