package models

// ChargingType classifies slot charging speed and price tier.
type ChargingType string

const (
	ChargingNormal    ChargingType = "NORMAL"
	ChargingFast      ChargingType = "FAST"
	ChargingUltraFast ChargingType = "ULTRA_FAST"
)

// PricePerKwh returns the tariff for the charging type.
func (t ChargingType) PricePerKwh() float64 {
	switch t {
	case ChargingFast:
		return 0.30
	case ChargingUltraFast:
		return 0.45
	default:
		return 0.15
	}
}

// Valid reports whether the charging type is a known tier.
func (t ChargingType) Valid() bool {
	switch t {
	case ChargingNormal, ChargingFast, ChargingUltraFast:
		return true
	}
	return false
}

// Slot is a single charging point belonging to a station.
type Slot struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	StationID    int64        `json:"stationId"`
	ChargingType ChargingType `json:"chargingType"`
	Power        string       `json:"power"`
	Reserved     bool         `json:"reserved"`
}

// StationRef is the embedded station summary returned with charger listings.
type StationRef struct {
	Name   string        `json:"name"`
	Status StationStatus `json:"status"`
}

// Charger is a slot joined with its station summary, the shape map clients consume.
type Charger struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	Station      StationRef   `json:"station"`
	ChargingType ChargingType `json:"chargingType"`
	Power        string       `json:"power"`
}
