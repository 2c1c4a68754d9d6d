package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Brupez/EletricNET/services/booking-service/internal/models"
)

// ErrStationNotFound indicates a missing station row.
var ErrStationNotFound = errors.New("station not found")

// StationRepository handles persistence of stations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns repository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// GetByID returns a station by primary key.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	const query = `
		SELECT id, name, latitude, longitude, status
		FROM stations
		WHERE id = $1
	`
	var st models.Station
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&st.ID,
		&st.Name,
		&st.Latitude,
		&st.Longitude,
		&st.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// EnsureByName returns the station with the given name, creating it when absent.
func (r *StationRepository) EnsureByName(ctx context.Context, name string) (*models.Station, error) {
	const query = `
		INSERT INTO stations (name, latitude, longitude, status)
		VALUES ($1, 0, 0, 'ACTIVE')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, latitude, longitude, status
	`
	var st models.Station
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&st.ID,
		&st.Name,
		&st.Latitude,
		&st.Longitude,
		&st.Status,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// List returns all stations.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	const query = `
		SELECT id, name, latitude, longitude, status
		FROM stations
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.Status); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stations, nil
}
