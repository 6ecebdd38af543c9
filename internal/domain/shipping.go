package domain

import "github.com/shopspring/decimal"

type ShippingRates struct {
	FlatRate              decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// Quote returns the shipping cost for an order subtotal. A zero threshold
// disables free shipping.
func (r ShippingRates) Quote(subtotal decimal.Decimal) decimal.Decimal {
	if r.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(r.FreeShippingThreshold) {
		return decimal.Zero
	}
	return r.FlatRate
}
