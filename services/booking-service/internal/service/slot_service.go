package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
)

var (
	// ErrInvalidSlot is returned when a slot payload fails validation.
	ErrInvalidSlot = errors.New("booking: invalid slot")
)

// SlotRepository is the slot storage contract used by the service.
type SlotRepository interface {
	List(ctx context.Context) ([]models.Slot, error)
	ListByStation(ctx context.Context, stationID int64) ([]models.Slot, error)
	ListChargers(ctx context.Context) ([]models.Charger, error)
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	Upsert(ctx context.Context, slot *models.Slot) error
	SetReserved(ctx context.Context, id string, reserved bool) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.SlotStats, error)
}

// StationRepository is the station storage contract used by the service.
type StationRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	EnsureByName(ctx context.Context, name string) (*models.Station, error)
}

// SlotService exposes charger inventory operations.
type SlotService struct {
	slots    SlotRepository
	stations StationRepository
	logger   *zap.Logger
}

// NewSlotService builds the service.
func NewSlotService(slots SlotRepository, stations StationRepository, logger *zap.Logger) *SlotService {
	return &SlotService{slots: slots, stations: stations, logger: logger}
}

// List returns every slot.
func (s *SlotService) List(ctx context.Context) ([]models.Slot, error) {
	return s.slots.List(ctx)
}

// ListByStation returns the slots at one station.
func (s *SlotService) ListByStation(ctx context.Context, stationID int64) ([]models.Slot, error) {
	return s.slots.ListByStation(ctx, stationID)
}

// ListChargers returns all slots with their station summary embedded.
func (s *SlotService) ListChargers(ctx context.Context) ([]models.Charger, error) {
	return s.slots.ListChargers(ctx)
}

// Get returns a slot by id.
func (s *SlotService) Get(ctx context.Context, id string) (*models.Slot, error) {
	return s.slots.GetByID(ctx, id)
}

// SaveInput is the admin slot create/update payload.
type SaveInput struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	StationName  string              `json:"stationName"`
	ChargingType models.ChargingType `json:"chargingType"`
	Power        string              `json:"power"`
	Reserved     bool                `json:"reserved"`
}

// Save creates or updates a slot, creating its station by name when needed.
func (s *SlotService) Save(ctx context.Context, input SaveInput) (*models.Slot, error) {
	if strings.TrimSpace(input.ID) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidSlot
	}
	if strings.TrimSpace(input.StationName) == "" {
		return nil, ErrInvalidSlot
	}
	if !input.ChargingType.Valid() {
		return nil, ErrInvalidSlot
	}

	station, err := s.stations.EnsureByName(ctx, input.StationName)
	if err != nil {
		return nil, err
	}

	slot := &models.Slot{
		ID:           input.ID,
		Name:         input.Name,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		StationID:    station.ID,
		ChargingType: input.ChargingType,
		Power:        input.Power,
		Reserved:     input.Reserved,
	}
	if err := s.slots.Upsert(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("slot saved",
		zap.String("slot_id", slot.ID),
		zap.String("station", station.Name),
	)
	return slot, nil
}

// Delete removes a slot.
func (s *SlotService) Delete(ctx context.Context, id string) error {
	return s.slots.Delete(ctx, id)
}

// Stats returns charger availability counters.
func (s *SlotService) Stats(ctx context.Context) (*models.SlotStats, error) {
	return s.slots.Stats(ctx)
}
