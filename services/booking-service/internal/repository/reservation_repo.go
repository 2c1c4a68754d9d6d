package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
)

// ErrReservationNotFound indicates a missing reservation row.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepository handles persistence of reservations.
type ReservationRepository struct {
	db *sql.DB
}

// NewReservationRepository returns repository.
func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a reservation and fills its id and creation time.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	const query = `
		INSERT INTO reservations (user_id, slot_id, status, start_time, duration_minutes, consumption_kwh, total_cost, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		res.UserID,
		res.SlotID,
		res.Status,
		res.StartTime,
		res.DurationMinutes,
		res.ConsumptionKWh,
		res.TotalCost,
		res.Paid,
	).Scan(&res.ID, &res.CreatedAt)
}

// GetByID returns a reservation by primary key.
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	const query = `
		SELECT id, user_id, slot_id, status, start_time, duration_minutes, consumption_kwh, total_cost, paid, created_at
		FROM reservations
		WHERE id = $1
	`
	var res models.Reservation
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID,
		&res.UserID,
		&res.SlotID,
		&res.Status,
		&res.StartTime,
		&res.DurationMinutes,
		&res.ConsumptionKWh,
		&res.TotalCost,
		&res.Paid,
		&res.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByUser returns a user's reservations, newest first.
func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error) {
	const query = `
		SELECT id, user_id, slot_id, status, start_time, duration_minutes, consumption_kwh, total_cost, paid, created_at
		FROM reservations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// ActiveBySlot returns a slot's active reservations.
func (r *ReservationRepository) ActiveBySlot(ctx context.Context, slotID string) ([]models.Reservation, error) {
	const query = `
		SELECT id, user_id, slot_id, status, start_time, duration_minutes, consumption_kwh, total_cost, paid, created_at
		FROM reservations
		WHERE slot_id = $1 AND status = 'ACTIVE'
		ORDER BY start_time
	`
	rows, err := r.db.QueryContext(ctx, query, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepository) ListAll(ctx context.Context) ([]models.Reservation, error) {
	const query = `
		SELECT id, user_id, slot_id, status, start_time, duration_minutes, consumption_kwh, total_cost, paid, created_at
		FROM reservations
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReservations(rows)
}

// UpdateStatus transitions a reservation to a new lifecycle state.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET status = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// UserStats aggregates a user's reservation history.
func (r *ReservationRepository) UserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	const query = `
		SELECT COALESCE(SUM(consumption_kwh), 0),
		       COALESCE(SUM(total_cost), 0),
		       COUNT(*),
		       COALESCE(AVG(duration_minutes), 0)
		FROM reservations
		WHERE user_id = $1 AND status <> 'CANCELED'
	`
	var stats models.UserStats
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalEnergy,
		&stats.TotalCost,
		&stats.ReservationCount,
		&stats.AverageDuration,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminStats aggregates platform-wide reservation counts and revenue.
// Canceled reservations never count towards revenue.
func (r *ReservationRepository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'ACTIVE'),
		       COALESCE(SUM(total_cost) FILTER (WHERE status <> 'CANCELED'), 0),
		       COALESCE(SUM(total_cost) FILTER (WHERE status <> 'CANCELED'
		           AND date_trunc('month', created_at) = date_trunc('month', NOW())), 0)
		FROM reservations
	`
	var stats models.AdminStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalReservations,
		&stats.ActiveReservations,
		&stats.TotalRevenue,
		&stats.CurrentMonthRevenue,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.SlotID,
			&res.Status,
			&res.StartTime,
			&res.DurationMinutes,
			&res.ConsumptionKWh,
			&res.TotalCost,
			&res.Paid,
			&res.CreatedAt,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}
