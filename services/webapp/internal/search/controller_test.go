package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/webapp/internal/geo"
)

type fakeProvider struct {
	mu        sync.Mutex
	geocode   map[string][]geo.Coordinates
	geocodeCh map[string]chan struct{}
	started   map[string]chan struct{}
	places    []geo.PlaceSummary
	placesErr error
	details   map[string]*geo.PlaceDetail
}

func (f *fakeProvider) Geocode(_ context.Context, address string) ([]geo.Coordinates, error) {
	f.mu.Lock()
	gate := f.geocodeCh[address]
	started := f.started[address]
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	return f.geocode[address], nil
}

func (f *fakeProvider) NearbySearch(context.Context, geo.Coordinates, int, string) ([]geo.PlaceSummary, error) {
	if f.placesErr != nil {
		return nil, f.placesErr
	}
	return f.places, nil
}

func (f *fakeProvider) GetDetails(_ context.Context, placeID string) (*geo.PlaceDetail, error) {
	detail, ok := f.details[placeID]
	if !ok {
		return nil, errors.New("no such place")
	}
	return detail, nil
}

type fakeInventory struct {
	chargers []InventoryCharger
	err      error
}

func (f *fakeInventory) ListChargers(context.Context) ([]InventoryCharger, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chargers, nil
}

type recordingSink struct {
	mu       sync.Mutex
	replaces [][]Marker
}

func (r *recordingSink) Replace(markers []Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces = append(r.replaces, markers)
}

func (r *recordingSink) last() []Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replaces) == 0 {
		return nil
	}
	return r.replaces[len(r.replaces)-1]
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.replaces)
}

var aveiro = geo.Coordinates{Lat: 40.64, Lng: -8.65}

func rating(v float64) *float64 { return &v }

func TestSubmitQuerySharedRawIDStaysDistinctPerOrigin(t *testing.T) {
	provider := &fakeProvider{
		geocode: map[string][]geo.Coordinates{"Aveiro": {aveiro}},
		places: []geo.PlaceSummary{
			{PlaceID: "ch-1", Name: "Plaza Charger", Location: aveiro},
		},
		details: map[string]*geo.PlaceDetail{},
	}
	inventory := &fakeInventory{chargers: []InventoryCharger{
		{ID: "ch-1", Name: "Operator Charger", Location: aveiro, StationStatus: "ACTIVE"},
	}}
	sink := &recordingSink{}

	ctrl := NewController(provider, inventory, sink, zap.NewNop())
	entries := ctrl.SubmitQuery(context.Background(), "Aveiro")

	require.Len(t, entries, 2)
	assert.Equal(t, EntryKey{Origin: OriginExternal, SourceID: "ch-1"}, entries[0].Key)
	assert.Equal(t, EntryKey{Origin: OriginInternal, SourceID: "ch-1"}, entries[1].Key)
	assert.Len(t, sink.last(), 2)
}

func TestSubmitQueryBlankInputLeavesStateAlone(t *testing.T) {
	sink := &recordingSink{}
	ctrl := NewController(&fakeProvider{}, &fakeInventory{}, sink, zap.NewNop())

	entries := ctrl.SubmitQuery(context.Background(), "   ")
	assert.Empty(t, entries)
	assert.Zero(t, sink.count())
}

func TestSubmitQueryAmbiguousLocationCommitsEmpty(t *testing.T) {
	provider := &fakeProvider{
		geocode: map[string][]geo.Coordinates{
			"Springfield": {{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}},
		},
	}
	sink := &recordingSink{}
	ctrl := NewController(provider, &fakeInventory{}, sink, zap.NewNop())

	entries := ctrl.SubmitQuery(context.Background(), "Springfield")
	assert.Empty(t, entries)
	assert.Equal(t, 1, sink.count())
	assert.Empty(t, sink.last())
}

func TestStaleSessionResultsAreDiscarded(t *testing.T) {
	gate := make(chan struct{})
	slowStarted := make(chan struct{})
	provider := &fakeProvider{
		geocode: map[string][]geo.Coordinates{
			"Slow": {{Lat: 10, Lng: 10}},
			"Fast": {aveiro},
		},
		geocodeCh: map[string]chan struct{}{"Slow": gate},
		started:   map[string]chan struct{}{"Slow": slowStarted},
		places: []geo.PlaceSummary{
			{PlaceID: "p-1", Name: "Fast Hit", Location: aveiro},
		},
		details: map[string]*geo.PlaceDetail{},
	}
	sink := &recordingSink{}
	ctrl := NewController(provider, &fakeInventory{}, sink, zap.NewNop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.SubmitQuery(context.Background(), "Slow")
	}()
	<-slowStarted

	// The newer session supersedes the blocked one.
	entries := ctrl.SubmitQuery(context.Background(), "Fast")
	require.Len(t, entries, 1)
	committed := sink.count()

	close(gate)
	wg.Wait()

	// The stale session neither changed the entries nor re-rendered markers.
	after := ctrl.Entries()
	require.Len(t, after, 1)
	assert.Equal(t, "Fast Hit", after[0].DisplayName)
	assert.Equal(t, committed, sink.count())
}

func TestOpenNowFilterIsPureProjection(t *testing.T) {
	provider := &fakeProvider{
		geocode: map[string][]geo.Coordinates{"Aveiro": {aveiro}},
		places: []geo.PlaceSummary{
			{PlaceID: "p-open", Name: "Open", Location: aveiro},
			{PlaceID: "p-closed", Name: "Closed", Location: aveiro},
			{PlaceID: "p-unknown", Name: "Unknown", Location: aveiro},
		},
		details: map[string]*geo.PlaceDetail{
			"p-open":   {BusinessStatus: "OPERATIONAL"},
			"p-closed": {BusinessStatus: "CLOSED_TEMPORARILY"},
		},
	}
	ctrl := NewController(provider, &fakeInventory{}, &recordingSink{}, zap.NewNop())

	original := ctrl.SubmitQuery(context.Background(), "Aveiro")
	require.Len(t, original, 3)

	filtered := ctrl.ApplyOpenNowFilter(true)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Open", filtered[0].DisplayName)

	restored := ctrl.ApplyOpenNowFilter(false)
	assert.Equal(t, original, restored)
}

func TestPartialSourceFailuresDegrade(t *testing.T) {
	t.Run("places down keeps inventory", func(t *testing.T) {
		provider := &fakeProvider{
			geocode:   map[string][]geo.Coordinates{"Aveiro": {aveiro}},
			placesErr: errors.New("quota exceeded"),
		}
		inventory := &fakeInventory{chargers: []InventoryCharger{
			{ID: "in-1", Name: "Ours", Location: aveiro, StationStatus: "ACTIVE"},
		}}
		ctrl := NewController(provider, inventory, &recordingSink{}, zap.NewNop())

		entries := ctrl.SubmitQuery(context.Background(), "Aveiro")
		require.Len(t, entries, 1)
		assert.Equal(t, OriginInternal, entries[0].Key.Origin)
	})

	t.Run("inventory down keeps places", func(t *testing.T) {
		provider := &fakeProvider{
			geocode: map[string][]geo.Coordinates{"Aveiro": {aveiro}},
			places: []geo.PlaceSummary{
				{PlaceID: "p-1", Name: "Theirs", Location: aveiro},
			},
			details: map[string]*geo.PlaceDetail{},
		}
		inventory := &fakeInventory{err: errors.New("connection refused")}
		ctrl := NewController(provider, inventory, &recordingSink{}, zap.NewNop())

		entries := ctrl.SubmitQuery(context.Background(), "Aveiro")
		require.Len(t, entries, 1)
		assert.Equal(t, OriginExternal, entries[0].Key.Origin)
	})

	t.Run("both down commits empty", func(t *testing.T) {
		provider := &fakeProvider{
			geocode:   map[string][]geo.Coordinates{"Aveiro": {aveiro}},
			placesErr: errors.New("quota exceeded"),
		}
		sink := &recordingSink{}
		ctrl := NewController(provider, &fakeInventory{err: errors.New("down")}, sink, zap.NewNop())

		entries := ctrl.SubmitQuery(context.Background(), "Aveiro")
		assert.Empty(t, entries)
		assert.Equal(t, 1, sink.count())
	})
}

func TestEnrichmentFailureKeepsBaseFields(t *testing.T) {
	provider := &fakeProvider{
		geocode: map[string][]geo.Coordinates{"Aveiro": {aveiro}},
		places: []geo.PlaceSummary{
			{PlaceID: "p-rich", Name: "Rich", Address: "Main St", Location: aveiro},
			{PlaceID: "p-poor", Name: "Poor", Address: "Side St", Location: aveiro},
		},
		details: map[string]*geo.PlaceDetail{
			"p-rich": {Rating: rating(4.5), BusinessStatus: "OPERATIONAL", OpeningHours: []string{"Mon: 24h"}},
		},
	}
	ctrl := NewController(provider, &fakeInventory{}, &recordingSink{}, zap.NewNop())

	entries := ctrl.SubmitQuery(context.Background(), "Aveiro")
	require.Len(t, entries, 2)

	rich, poor := entries[0], entries[1]
	require.NotNil(t, rich.Rating)
	assert.Equal(t, 4.5, *rich.Rating)
	assert.Equal(t, StatusOperational, rich.Status)
	assert.Equal(t, []string{"Mon: 24h"}, rich.OpeningHours)

	assert.Nil(t, poor.Rating)
	assert.Equal(t, StatusUnknown, poor.Status)
	assert.Equal(t, "Side St", poor.Address)
}

func TestRadiusBoundaryIsInclusive(t *testing.T) {
	center := geo.Coordinates{Lat: 40.64, Lng: -8.65}
	// Roughly 5 km due north of the center.
	edge := geo.Coordinates{Lat: 40.684966, Lng: -8.65}
	beyond := geo.Coordinates{Lat: 40.70, Lng: -8.65}

	provider := &fakeProvider{geocode: map[string][]geo.Coordinates{"Aveiro": {center}}}
	inventory := &fakeInventory{chargers: []InventoryCharger{
		{ID: "at-edge", Name: "Edge", Location: edge, StationStatus: "ACTIVE"},
		{ID: "beyond", Name: "Beyond", Location: beyond, StationStatus: "ACTIVE"},
	}}

	ctrl := NewController(provider, inventory, &recordingSink{}, zap.NewNop())
	// Pin the radius to the edge charger's exact distance so the test probes
	// the comparison itself rather than floating point luck.
	ctrl.radiusKM = geo.Haversine(center, edge)

	entries := ctrl.SubmitQuery(context.Background(), "Aveiro")
	require.Len(t, entries, 1)
	assert.Equal(t, "at-edge", entries[0].Key.SourceID)
}

func TestAveiroSearchMergesBothSourcesInOrder(t *testing.T) {
	provider := &fakeProvider{
		geocode: map[string][]geo.Coordinates{"Aveiro": {aveiro}},
		places: []geo.PlaceSummary{
			{PlaceID: "g-1", Name: "Forum Charger", Address: "Forum Aveiro", Location: geo.Coordinates{Lat: 40.641, Lng: -8.653}},
			{PlaceID: "g-2", Name: "Station Charger", Address: "Train Station", Location: geo.Coordinates{Lat: 40.644, Lng: -8.641}},
		},
		details: map[string]*geo.PlaceDetail{
			"g-1": {Rating: rating(4.2), BusinessStatus: "OPERATIONAL"},
			"g-2": {BusinessStatus: "CLOSED_TEMPORARILY"},
		},
	}
	inventory := &fakeInventory{chargers: []InventoryCharger{
		{ID: "s-1", Name: "Campus Charger", Location: geo.Coordinates{Lat: 40.63, Lng: -8.657}, StationName: "Campus", StationStatus: "ACTIVE"},
		{ID: "s-2", Name: "Porto Charger", Location: geo.Coordinates{Lat: 41.15, Lng: -8.61}, StationName: "Porto", StationStatus: "ACTIVE"},
	}}
	sink := &recordingSink{}

	ctrl := NewController(provider, inventory, sink, zap.NewNop())
	entries := ctrl.SubmitQuery(context.Background(), "Aveiro")

	require.Len(t, entries, 3)
	assert.Equal(t, EntryKey{Origin: OriginExternal, SourceID: "g-1"}, entries[0].Key)
	assert.Equal(t, EntryKey{Origin: OriginExternal, SourceID: "g-2"}, entries[1].Key)
	assert.Equal(t, EntryKey{Origin: OriginInternal, SourceID: "s-1"}, entries[2].Key)

	assert.Equal(t, StatusOperational, entries[0].Status)
	assert.Equal(t, StatusClosed, entries[1].Status)
	assert.Equal(t, StatusOperational, entries[2].Status)

	markers := sink.last()
	require.Len(t, markers, 3)
	assert.True(t, markers[0].Open)
	assert.False(t, markers[1].Open)

	payload, ok := ctrl.Select(entries[2].Key)
	require.True(t, ok)
	assert.Equal(t, "s-1", payload.ID)
	assert.False(t, payload.External)
	assert.Equal(t, "Campus", payload.Location)

	_, ok = ctrl.Select(EntryKey{Origin: OriginInternal, SourceID: "missing"})
	assert.False(t, ok)
}
