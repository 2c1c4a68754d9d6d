package models

import "time"

// ReservationStatus is the reservation lifecycle state.
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCanceled  ReservationStatus = "CANCELED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Reservation books one slot for one user.
type Reservation struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"userId"`
	SlotID          string            `json:"slotId"`
	Status          ReservationStatus `json:"state"`
	StartTime       time.Time         `json:"startTime"`
	DurationMinutes int               `json:"durationMinutes"`
	ConsumptionKWh  float64           `json:"consumptionKWh"`
	TotalCost       float64           `json:"totalCost"`
	Paid            bool              `json:"paid"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// UserStats summarizes a client's reservation history.
type UserStats struct {
	TotalEnergy      float64 `json:"totalEnergy"`
	TotalCost        float64 `json:"totalCost"`
	ReservationCount int     `json:"reservationCount"`
	AverageDuration  float64 `json:"averageDuration"`
}

// SlotStats summarizes charger availability.
type SlotStats struct {
	TotalChargers  int64 `json:"totalChargers"`
	ActiveChargers int64 `json:"activeChargers"`
}

// AdminStats is the platform-wide usage and revenue summary for the admin
// dashboard.
type AdminStats struct {
	TotalReservations   int64   `json:"totalReservations"`
	ActiveReservations  int64   `json:"activeReservations"`
	TotalRevenue        float64 `json:"totalRevenue"`
	CurrentMonthRevenue float64 `json:"currentMonthRevenue"`
}
