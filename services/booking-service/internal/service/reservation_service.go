package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/booking-service/internal/metrics"
	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
	"github.com/Brupez/EletricNET/services/booking-service/internal/repository"
)

var (
	// ErrSlotUnavailable is returned when the requested slot is missing or taken.
	ErrSlotUnavailable = errors.New("booking: slot unavailable")
	// ErrNotCancelable is returned when the reservation is missing or not active.
	ErrNotCancelable = errors.New("booking: reservation not found or already cancelled")
	// ErrInvalidReservation is returned when the booking payload fails validation.
	ErrInvalidReservation = errors.New("booking: invalid reservation")
)

// ReservationRepository is the reservation storage contract used by the service.
type ReservationRepository interface {
	Create(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error)
	ListAll(ctx context.Context) ([]models.Reservation, error)
	ActiveBySlot(ctx context.Context, slotID string) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error
	UserStats(ctx context.Context, userID int64) (*models.UserStats, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

// ReservationService holds the booking lifecycle logic.
type ReservationService struct {
	reservations ReservationRepository
	slots        SlotRepository
	collector    *metrics.Collector
	logger       *zap.Logger
	now          func() time.Time
}

// NewReservationService builds the service.
func NewReservationService(
	reservations ReservationRepository,
	slots SlotRepository,
	collector *metrics.Collector,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		slots:        slots,
		collector:    collector,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateInput is the booking request payload.
type CreateInput struct {
	SlotID          string    `json:"slotId"`
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
	ConsumptionKWh  float64   `json:"consumptionKWh"`
}

// Create books a slot for the user. The slot must exist and be free, and the
// total cost follows the slot's charging type tariff.
func (s *ReservationService) Create(ctx context.Context, userID int64, input CreateInput) (*models.Reservation, error) {
	started := s.now()
	res, err := s.create(ctx, userID, input)
	s.collector.ObserveCreation(s.now().Sub(started))
	if err != nil {
		s.collector.ReservationError()
		return nil, err
	}
	s.collector.ReservationCreated()
	return res, nil
}

func (s *ReservationService) create(ctx context.Context, userID int64, input CreateInput) (*models.Reservation, error) {
	if input.SlotID == "" || input.DurationMinutes <= 0 || input.ConsumptionKWh <= 0 {
		return nil, ErrInvalidReservation
	}

	slot, err := s.slots.GetByID(ctx, input.SlotID)
	if errors.Is(err, repository.ErrSlotNotFound) {
		return nil, ErrSlotUnavailable
	}
	if err != nil {
		return nil, err
	}
	if slot.Reserved {
		return nil, ErrSlotUnavailable
	}

	if err := s.slots.SetReserved(ctx, slot.ID, true); err != nil {
		return nil, err
	}

	res := &models.Reservation{
		UserID:          userID,
		SlotID:          slot.ID,
		Status:          models.ReservationActive,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		ConsumptionKWh:  input.ConsumptionKWh,
		TotalCost:       slot.ChargingType.PricePerKwh() * input.ConsumptionKWh,
		Paid:            false,
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		// free the slot again so a failed insert does not strand it
		if rollbackErr := s.slots.SetReserved(ctx, slot.ID, false); rollbackErr != nil {
			s.logger.Error("failed to release slot after booking error",
				zap.String("slot_id", slot.ID),
				zap.Error(rollbackErr),
			)
		}
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.Int64("reservation_id", res.ID),
		zap.Int64("user_id", userID),
		zap.String("slot_id", slot.ID),
	)
	return res, nil
}

// Cancel transitions an active reservation to CANCELED and frees its slot.
// Only the owning user may cancel.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID int64) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if errors.Is(err, repository.ErrReservationNotFound) {
		return ErrNotCancelable
	}
	if err != nil {
		return err
	}
	if res.UserID != userID || res.Status != models.ReservationActive {
		return ErrNotCancelable
	}

	if err := s.reservations.UpdateStatus(ctx, res.ID, models.ReservationCanceled); err != nil {
		return err
	}
	if err := s.slots.SetReserved(ctx, res.SlotID, false); err != nil && !errors.Is(err, repository.ErrSlotNotFound) {
		s.logger.Warn("failed to release canceled slot",
			zap.String("slot_id", res.SlotID),
			zap.Error(err),
		)
	}

	s.collector.ReservationCanceled()
	return nil
}

// ListMine returns the user's reservations.
func (s *ReservationService) ListMine(ctx context.Context, userID int64) ([]models.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// ActiveBySlot returns a slot's active reservations.
func (s *ReservationService) ActiveBySlot(ctx context.Context, slotID string) ([]models.Reservation, error) {
	return s.reservations.ActiveBySlot(ctx, slotID)
}

// MyStats aggregates the user's booking history.
func (s *ReservationService) MyStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return s.reservations.UserStats(ctx, userID)
}

// ListAll returns every reservation on the platform.
func (s *ReservationService) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return s.reservations.ListAll(ctx)
}

// AdminStats aggregates platform-wide usage and revenue for the dashboard.
func (s *ReservationService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	return s.reservations.AdminStats(ctx)
}
