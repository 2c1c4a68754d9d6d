package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Brupez/EletricNET/services/webapp/internal/geo"
	"github.com/Brupez/EletricNET/services/webapp/internal/search"
)

// InventoryClient fetches the operator charger inventory from the booking
// service.
type InventoryClient struct {
	base *BaseClient
}

// NewInventoryClient returns a client for the booking service base URL.
func NewInventoryClient(baseURL string, httpClient HTTPDoer) *InventoryClient {
	return &InventoryClient{base: NewBaseClient(baseURL, httpClient)}
}

var _ search.Inventory = (*InventoryClient)(nil)

type chargerRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Station   struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	} `json:"station"`
	ChargingType string `json:"chargingType"`
	Power        string `json:"power"`
}

// ListChargers returns the full inventory. Radius filtering is the caller's
// concern.
func (c *InventoryClient) ListChargers(ctx context.Context) ([]search.InventoryCharger, error) {
	status, body, err := c.base.Do(ctx, http.MethodGet, "/api/slots/chargers", nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("inventory service returned %d", status)
	}

	var records []chargerRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode charger records: %w", err)
	}

	chargers := make([]search.InventoryCharger, 0, len(records))
	for _, rec := range records {
		chargers = append(chargers, search.InventoryCharger{
			ID:            rec.ID,
			Name:          rec.Name,
			Location:      geo.Coordinates{Lat: rec.Latitude, Lng: rec.Longitude},
			StationName:   rec.Station.Name,
			StationStatus: rec.Station.Status,
			ChargingType:  rec.ChargingType,
			Power:         rec.Power,
		})
	}
	return chargers, nil
}
