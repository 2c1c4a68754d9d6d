package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	aveiro := Coordinates{Lat: 40.64, Lng: -8.65}
	porto := Coordinates{Lat: 41.1579, Lng: -8.6291}

	assert.Zero(t, Haversine(aveiro, aveiro))
	// Aveiro to Porto is about 57.6 km.
	assert.InDelta(t, 57.6, Haversine(aveiro, porto), 0.5)
	// Symmetric.
	assert.Equal(t, Haversine(aveiro, porto), Haversine(porto, aveiro))
}

func TestHaversineShortDistance(t *testing.T) {
	a := Coordinates{Lat: 40.64, Lng: -8.65}
	// One hundredth of a degree of latitude is about 1.11 km.
	b := Coordinates{Lat: 40.65, Lng: -8.65}
	assert.InDelta(t, 1.112, Haversine(a, b), 0.01)
}
