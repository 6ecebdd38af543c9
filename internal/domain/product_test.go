package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int {
	return &i
}

func TestProduct_CanFulfil(t *testing.T) {
	unlimited := Product{Stock: nil}
	assert.False(t, unlimited.TracksStock())
	assert.True(t, unlimited.CanFulfil(1000))

	limited := Product{Stock: intPtr(3)}
	assert.True(t, limited.TracksStock())
	assert.True(t, limited.CanFulfil(3))
	assert.False(t, limited.CanFulfil(4))
}

func TestShippingRates_Quote(t *testing.T) {
	rates := ShippingRates{
		FlatRate:              decimal.NewFromInt(20),
		FreeShippingThreshold: decimal.NewFromInt(300),
	}

	assert.Equal(t, "20", rates.Quote(decimal.NewFromInt(250)).String())
	assert.True(t, rates.Quote(decimal.NewFromInt(300)).IsZero())

	noThreshold := ShippingRates{FlatRate: decimal.NewFromInt(20)}
	assert.Equal(t, "20", noThreshold.Quote(decimal.NewFromInt(10000)).String())
}
