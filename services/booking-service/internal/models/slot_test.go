package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricePerKwhByChargingType(t *testing.T) {
	assert.Equal(t, 0.15, ChargingNormal.PricePerKwh())
	assert.Equal(t, 0.30, ChargingFast.PricePerKwh())
	assert.Equal(t, 0.45, ChargingUltraFast.PricePerKwh())
}

func TestChargingTypeValid(t *testing.T) {
	assert.True(t, ChargingNormal.Valid())
	assert.True(t, ChargingFast.Valid())
	assert.True(t, ChargingUltraFast.Valid())
	assert.False(t, ChargingType("TURBO").Valid())
	assert.False(t, ChargingType("").Valid())
}
