package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
)

// ErrSlotNotFound indicates a missing slot row.
var ErrSlotNotFound = errors.New("slot not found")

// SlotRepository handles persistence of charging slots.
type SlotRepository struct {
	db *sql.DB
}

// NewSlotRepository returns repository.
func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// List returns all slots.
func (r *SlotRepository) List(ctx context.Context) ([]models.Slot, error) {
	const query = `
		SELECT id, name, latitude, longitude, station_id, charging_type, power, reserved
		FROM slots
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

// ListByStation returns the slots belonging to one station.
func (r *SlotRepository) ListByStation(ctx context.Context, stationID int64) ([]models.Slot, error) {
	const query = `
		SELECT id, name, latitude, longitude, station_id, charging_type, power, reserved
		FROM slots
		WHERE station_id = $1
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSlots(rows)
}

// ListChargers returns all slots joined with their station summary.
func (r *SlotRepository) ListChargers(ctx context.Context) ([]models.Charger, error) {
	const query = `
		SELECT s.id, s.name, s.latitude, s.longitude, s.charging_type, s.power, st.name, st.status
		FROM slots s
		JOIN stations st ON st.id = s.station_id
		ORDER BY s.name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.Charger
	for rows.Next() {
		var c models.Charger
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Latitude,
			&c.Longitude,
			&c.ChargingType,
			&c.Power,
			&c.Station.Name,
			&c.Station.Status,
		); err != nil {
			return nil, err
		}
		chargers = append(chargers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chargers, nil
}

// GetByID returns a slot by its identifier.
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	const query = `
		SELECT id, name, latitude, longitude, station_id, charging_type, power, reserved
		FROM slots
		WHERE id = $1
	`
	var s models.Slot
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Latitude,
		&s.Longitude,
		&s.StationID,
		&s.ChargingType,
		&s.Power,
		&s.Reserved,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Upsert creates or updates a slot.
func (r *SlotRepository) Upsert(ctx context.Context, slot *models.Slot) error {
	const query = `
		INSERT INTO slots (id, name, latitude, longitude, station_id, charging_type, power, reserved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			station_id = EXCLUDED.station_id,
			charging_type = EXCLUDED.charging_type,
			power = EXCLUDED.power,
			reserved = EXCLUDED.reserved
	`
	_, err := r.db.ExecContext(ctx, query,
		slot.ID,
		slot.Name,
		slot.Latitude,
		slot.Longitude,
		slot.StationID,
		slot.ChargingType,
		slot.Power,
		slot.Reserved,
	)
	return err
}

// SetReserved flips the reserved flag on a slot.
func (r *SlotRepository) SetReserved(ctx context.Context, id string, reserved bool) error {
	const query = `UPDATE slots SET reserved = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, reserved)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Delete removes a slot by id.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM slots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Stats returns total and unreserved charger counts.
func (r *SlotRepository) Stats(ctx context.Context) (*models.SlotStats, error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT reserved)
		FROM slots
	`
	var stats models.SlotStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalChargers, &stats.ActiveChargers); err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanSlots(rows *sql.Rows) ([]models.Slot, error) {
	var slots []models.Slot
	for rows.Next() {
		var s models.Slot
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Latitude,
			&s.Longitude,
			&s.StationID,
			&s.ChargingType,
			&s.Power,
			&s.Reserved,
		); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}
