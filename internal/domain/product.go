package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uuid.UUID
	Name      string
	Brand     *string
	Price     decimal.Decimal
	Stock     *int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TracksStock reports whether the catalog keeps a stock count for the product.
// A NULL stock means unlimited availability.
func (p Product) TracksStock() bool {
	return p.Stock != nil
}

func (p Product) CanFulfil(quantity int) bool {
	if !p.TracksStock() {
		return true
	}
	return *p.Stock >= quantity
}
