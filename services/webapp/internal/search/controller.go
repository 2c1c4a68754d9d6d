package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/geo"
)

const (
	// Search radius around the resolved location.
	defaultRadiusKM = 5.0
	placeCategory   = "charging_station"
)

// InventoryCharger is one operator-owned charger as reported by the inventory
// service.
type InventoryCharger struct {
	ID            string
	Name          string
	Location      geo.Coordinates
	StationName   string
	StationStatus string
	ChargingType  string
	Power         string
}

// Inventory supplies the full internal charger inventory. Radius filtering
// happens in the controller.
type Inventory interface {
	ListChargers(ctx context.Context) ([]InventoryCharger, error)
}

// MarkerSink receives the full marker set of a committed search session.
// Production wires the websocket marker feed; tests record.
type MarkerSink interface {
	Replace(markers []Marker)
}

// Controller turns a location string into a reconciled, filterable set of
// charger entries and markers. It exclusively owns the current reconciled list
// and marker set; other components read the derived view-model or submit new
// queries. Exactly one search session is current at a time: a newer SubmitQuery
// marks any in-flight session stale, and stale results are discarded at commit.
type Controller struct {
	geo       geo.Provider
	inventory Inventory
	markers   MarkerSink
	logger    *zap.Logger
	radiusKM  float64

	mu         sync.Mutex
	seq        uint64
	reconciled []ChargerEntry
	visible    []ChargerEntry
	openNow    bool
}

// NewController wires a controller with the default 5 km radius.
func NewController(provider geo.Provider, inventory Inventory, markers MarkerSink, logger *zap.Logger) *Controller {
	return &Controller{
		geo:       provider,
		inventory: inventory,
		markers:   markers,
		logger:    logger,
		radiusKM:  defaultRadiusKM,
	}
}

// SubmitQuery runs one search session for the given location text and returns
// the visible view-model after the session settles. Empty input is a no-op.
// Provider, inventory and enrichment failures all degrade to fewer (possibly
// zero) entries; SubmitQuery never fails.
func (c *Controller) SubmitQuery(ctx context.Context, text string) []ChargerEntry {
	query := strings.TrimSpace(text)
	if query == "" {
		return c.Entries()
	}

	c.mu.Lock()
	c.seq++
	session := c.seq
	c.mu.Unlock()

	entries := c.resolveAndSearch(ctx, query)
	c.commit(session, entries)
	return c.Entries()
}

// resolveAndSearch performs geocode, the two-source fan-out, per-entry
// enrichment and the merge. It holds no locks.
func (c *Controller) resolveAndSearch(ctx context.Context, query string) []ChargerEntry {
	candidates, err := c.geo.Geocode(ctx, query)
	if err != nil {
		c.logger.Warn("geocode failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	if len(candidates) != 1 {
		c.logger.Info("location unresolved",
			zap.String("query", query), zap.Int("candidates", len(candidates)))
		return nil
	}
	center := candidates[0]

	var (
		wg       sync.WaitGroup
		external []ChargerEntry
		internal []ChargerEntry
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		external = c.fetchExternal(ctx, center)
	}()
	go func() {
		defer wg.Done()
		internal = c.fetchInternal(ctx, center)
	}()
	wg.Wait()

	// External entries first, then internal; both in fetch order. Keys carry
	// the origin so a shared raw id never collapses two entries.
	merged := make([]ChargerEntry, 0, len(external)+len(internal))
	merged = append(merged, external...)
	merged = append(merged, internal...)
	return merged
}

// fetchExternal queries the places provider and enriches each hit with detail
// fields. A failed enrichment degrades that single entry to its base fields.
func (c *Controller) fetchExternal(ctx context.Context, center geo.Coordinates) []ChargerEntry {
	summaries, err := c.geo.NearbySearch(ctx, center, int(c.radiusKM*1000), placeCategory)
	if err != nil {
		c.logger.Warn("places search failed", zap.Error(err))
		return nil
	}

	entries := make([]ChargerEntry, len(summaries))
	var wg sync.WaitGroup
	for i, summary := range summaries {
		entries[i] = ChargerEntry{
			Key:         EntryKey{Origin: OriginExternal, SourceID: summary.PlaceID},
			DisplayName: summary.Name,
			Address:     summary.Address,
			Coordinates: summary.Location,
			Status:      StatusUnknown,
		}

		wg.Add(1)
		go func(i int, placeID string) {
			defer wg.Done()
			detail, err := c.geo.GetDetails(ctx, placeID)
			if err != nil {
				c.logger.Warn("place enrichment failed",
					zap.String("place_id", placeID), zap.Error(err))
				return
			}
			entries[i].Rating = detail.Rating
			entries[i].Status = statusFromBusiness(detail.BusinessStatus)
			entries[i].OpeningHours = detail.OpeningHours
			if detail.Address != "" {
				entries[i].Address = detail.Address
			}
		}(i, summary.PlaceID)
	}
	wg.Wait()
	return entries
}

// fetchInternal lists the operator inventory and keeps chargers within the
// search radius by great-circle distance, boundary inclusive.
func (c *Controller) fetchInternal(ctx context.Context, center geo.Coordinates) []ChargerEntry {
	chargers, err := c.inventory.ListChargers(ctx)
	if err != nil {
		c.logger.Warn("inventory fetch failed", zap.Error(err))
		return nil
	}

	var entries []ChargerEntry
	for _, charger := range chargers {
		if geo.Haversine(center, charger.Location) > c.radiusKM {
			continue
		}
		name := charger.Name
		if name == "" {
			name = charger.StationName
		}
		entries = append(entries, ChargerEntry{
			Key:         EntryKey{Origin: OriginInternal, SourceID: charger.ID},
			DisplayName: name,
			Address:     charger.StationName,
			Coordinates: charger.Location,
			Status:      statusFromStation(charger.StationStatus),
		})
	}
	return entries
}

// commit atomically replaces the reconciled list, unless a newer session has
// been issued since this one started. Markers are replaced wholesale on every
// committed session; a stale session's results are dropped without rendering.
func (c *Controller) commit(session uint64, entries []ChargerEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if session != c.seq {
		c.logger.Debug("discarding stale search session",
			zap.Uint64("session", session), zap.Uint64("current", c.seq))
		return
	}

	c.reconciled = entries
	c.visible = projectOpenNow(entries, c.openNow)
	c.markers.Replace(buildMarkers(entries))
}

// ApplyOpenNowFilter recomputes the visible view-model as a pure projection of
// the last reconciled list. The underlying list is never mutated, so toggling
// the filter off restores the exact original sequence.
func (c *Controller) ApplyOpenNowFilter(enabled bool) []ChargerEntry {
	c.mu.Lock()
	c.openNow = enabled
	c.visible = projectOpenNow(c.reconciled, enabled)
	c.mu.Unlock()
	return c.Entries()
}

// Entries returns a copy of the current visible view-model.
func (c *Controller) Entries() []ChargerEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChargerEntry, len(c.visible))
	copy(out, c.visible)
	return out
}

// Select packages the addressed entry's display fields and coordinates into a
// navigation payload for the details view. Controller state is not touched.
func (c *Controller) Select(key EntryKey) (*NavPayload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.reconciled {
		if entry.Key != key {
			continue
		}
		return &NavPayload{
			ID:           entry.Key.SourceID,
			Name:         entry.DisplayName,
			Location:     entry.Address,
			Latitude:     entry.Coordinates.Lat,
			Longitude:    entry.Coordinates.Lng,
			External:     entry.Key.Origin == OriginExternal,
			Rating:       entry.Rating,
			Status:       string(entry.Status),
			OpeningHours: entry.OpeningHours,
		}, true
	}
	return nil, false
}

func projectOpenNow(entries []ChargerEntry, openNow bool) []ChargerEntry {
	if !openNow {
		out := make([]ChargerEntry, len(entries))
		copy(out, entries)
		return out
	}
	var out []ChargerEntry
	for _, entry := range entries {
		if entry.Status == StatusOperational {
			out = append(out, entry)
		}
	}
	return out
}

func buildMarkers(entries []ChargerEntry) []Marker {
	markers := make([]Marker, 0, len(entries))
	for _, entry := range entries {
		markers = append(markers, Marker{
			Key:      entry.Key,
			Title:    entry.DisplayName,
			Position: entry.Coordinates,
			Open:     entry.Status == StatusOperational,
		})
	}
	return markers
}
