package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/booking-service/internal/metrics"
	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
	"github.com/Brupez/EletricNET/services/booking-service/internal/repository"
)

type fakeSlotRepo struct {
	slots map[string]*models.Slot
}

func newFakeSlotRepo(slots ...*models.Slot) *fakeSlotRepo {
	f := &fakeSlotRepo{slots: make(map[string]*models.Slot)}
	for _, s := range slots {
		f.slots[s.ID] = s
	}
	return f
}

func (f *fakeSlotRepo) List(context.Context) ([]models.Slot, error)                 { return nil, nil }
func (f *fakeSlotRepo) ListByStation(context.Context, int64) ([]models.Slot, error) { return nil, nil }
func (f *fakeSlotRepo) ListChargers(context.Context) ([]models.Charger, error)      { return nil, nil }
func (f *fakeSlotRepo) Stats(context.Context) (*models.SlotStats, error)            { return nil, nil }
func (f *fakeSlotRepo) Delete(context.Context, string) error                        { return nil }

func (f *fakeSlotRepo) GetByID(_ context.Context, id string) (*models.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotRepo) Upsert(_ context.Context, slot *models.Slot) error {
	copied := *slot
	f.slots[slot.ID] = &copied
	return nil
}

func (f *fakeSlotRepo) SetReserved(_ context.Context, id string, reserved bool) error {
	slot, ok := f.slots[id]
	if !ok {
		return repository.ErrSlotNotFound
	}
	slot.Reserved = reserved
	return nil
}

type fakeReservationRepo struct {
	byID   map[int64]*models.Reservation
	nextID int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{byID: make(map[int64]*models.Reservation), nextID: 1}
}

func (f *fakeReservationRepo) Create(_ context.Context, res *models.Reservation) error {
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	f.nextID++
	copied := *res
	f.byID[res.ID] = &copied
	return nil
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*models.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) ListByUser(_ context.Context, userID int64) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.byID {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) ActiveBySlot(_ context.Context, slotID string) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.byID {
		if res.SlotID == slotID && res.Status == models.ReservationActive {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateStatus(_ context.Context, id int64, status models.ReservationStatus) error {
	res, ok := f.byID[id]
	if !ok {
		return repository.ErrReservationNotFound
	}
	res.Status = status
	return nil
}

func (f *fakeReservationRepo) UserStats(context.Context, int64) (*models.UserStats, error) {
	return &models.UserStats{}, nil
}

func (f *fakeReservationRepo) ListAll(context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, res := range f.byID {
		out = append(out, *res)
	}
	return out, nil
}

func (f *fakeReservationRepo) AdminStats(context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	thisMonth := time.Now().Format("2006-01")
	for _, res := range f.byID {
		stats.TotalReservations++
		if res.Status == models.ReservationActive {
			stats.ActiveReservations++
		}
		if res.Status == models.ReservationCanceled {
			continue
		}
		stats.TotalRevenue += res.TotalCost
		if res.CreatedAt.Format("2006-01") == thisMonth {
			stats.CurrentMonthRevenue += res.TotalCost
		}
	}
	return stats, nil
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func newTestReservationService(slots *fakeSlotRepo) (*ReservationService, *fakeReservationRepo, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reservations := newFakeReservationRepo()
	svc := NewReservationService(reservations, slots, metrics.NewCollector(reg), zap.NewNop())
	return svc, reservations, reg
}

func fastSlot() *models.Slot {
	return &models.Slot{
		ID:           "slot-1",
		Name:         "Fast One",
		StationID:    1,
		ChargingType: models.ChargingFast,
		Power:        "50kW",
	}
}

func TestCreateReservationPricesByChargingType(t *testing.T) {
	slots := newFakeSlotRepo(fastSlot())
	svc, _, reg := newTestReservationService(slots)

	res, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "slot-1",
		StartTime:       time.Now().Add(time.Hour),
		DurationMinutes: 60,
		ConsumptionKWh:  20,
	})
	require.NoError(t, err)

	// FAST tariff is 0.30 per kWh.
	assert.InDelta(t, 6.0, res.TotalCost, 1e-9)
	assert.Equal(t, models.ReservationActive, res.Status)
	assert.False(t, res.Paid)
	assert.True(t, slots.slots["slot-1"].Reserved)
	assert.Equal(t, 1.0, counterValue(t, reg, "reservations_total"))
}

func TestCreateReservationRejectsTakenSlot(t *testing.T) {
	slot := fastSlot()
	slot.Reserved = true
	svc, _, reg := newTestReservationService(newFakeSlotRepo(slot))

	_, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "slot-1",
		DurationMinutes: 60,
		ConsumptionKWh:  20,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Equal(t, 1.0, counterValue(t, reg, "reservation_errors_total"))
	assert.Equal(t, 0.0, counterValue(t, reg, "reservations_total"))
}

func TestCreateReservationRejectsUnknownSlot(t *testing.T) {
	svc, _, _ := newTestReservationService(newFakeSlotRepo())

	_, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "ghost",
		DurationMinutes: 60,
		ConsumptionKWh:  20,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateReservationValidatesInput(t *testing.T) {
	svc, _, _ := newTestReservationService(newFakeSlotRepo(fastSlot()))

	_, err := svc.Create(context.Background(), 7, CreateInput{SlotID: "slot-1"})
	assert.ErrorIs(t, err, ErrInvalidReservation)
}

func TestCancelFreesSlotAndCounts(t *testing.T) {
	slots := newFakeSlotRepo(fastSlot())
	svc, _, reg := newTestReservationService(slots)

	res, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "slot-1",
		DurationMinutes: 30,
		ConsumptionKWh:  10,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), 7, res.ID))
	assert.False(t, slots.slots["slot-1"].Reserved)
	assert.Equal(t, 1.0, counterValue(t, reg, "reservations_canceled_total"))

	// Already canceled.
	assert.ErrorIs(t, svc.Cancel(context.Background(), 7, res.ID), ErrNotCancelable)
}

func TestCancelRejectsOtherUsersReservation(t *testing.T) {
	slots := newFakeSlotRepo(fastSlot())
	svc, _, _ := newTestReservationService(slots)

	res, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "slot-1",
		DurationMinutes: 30,
		ConsumptionKWh:  10,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(context.Background(), 8, res.ID), ErrNotCancelable)
	assert.True(t, slots.slots["slot-1"].Reserved)
}

func TestCancelUnknownReservation(t *testing.T) {
	svc, _, _ := newTestReservationService(newFakeSlotRepo())
	assert.ErrorIs(t, svc.Cancel(context.Background(), 7, 99), ErrNotCancelable)
}

func TestAdminStatsExcludesCanceledRevenue(t *testing.T) {
	second := fastSlot()
	second.ID = "slot-2"
	slots := newFakeSlotRepo(fastSlot(), second)
	svc, _, _ := newTestReservationService(slots)

	kept, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "slot-1",
		DurationMinutes: 60,
		ConsumptionKWh:  20,
	})
	require.NoError(t, err)
	canceled, err := svc.Create(context.Background(), 8, CreateInput{
		SlotID:          "slot-2",
		DurationMinutes: 30,
		ConsumptionKWh:  10,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), 8, canceled.ID))

	stats, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalReservations)
	assert.Equal(t, int64(1), stats.ActiveReservations)
	assert.InDelta(t, kept.TotalCost, stats.TotalRevenue, 1e-9)
	assert.InDelta(t, kept.TotalCost, stats.CurrentMonthRevenue, 1e-9)
}

func TestListAllReturnsEveryUsersReservations(t *testing.T) {
	second := fastSlot()
	second.ID = "slot-2"
	svc, _, _ := newTestReservationService(newFakeSlotRepo(fastSlot(), second))

	_, err := svc.Create(context.Background(), 7, CreateInput{
		SlotID:          "slot-1",
		DurationMinutes: 60,
		ConsumptionKWh:  20,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 8, CreateInput{
		SlotID:          "slot-2",
		DurationMinutes: 30,
		ConsumptionKWh:  10,
	})
	require.NoError(t, err)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
