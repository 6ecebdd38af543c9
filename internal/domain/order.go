package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// Column limits: unit prices and shipping are DECIMAL(10,2), line and order
// amounts DECIMAL(12,2).
var (
	MaxUnitAmount  = decimal.RequireFromString("99999999.99")
	MaxOrderAmount = decimal.RequireFromString("9999999999.99")
)

type ShippingDetails struct {
	Address       string
	City          string
	PostalCode    string
	Country       string
	Phone         string
	WhatsappPhone *string
}

// Order is the aggregate root: an order and its line items are written,
// read and deleted together.
type Order struct {
	ID             uuid.UUID
	OrderNumber    string
	UserID         *uuid.UUID
	Status         Status
	CustomerName   string
	Shipping       ShippingDetails
	BillingAddress *string
	Notes          *string
	Subtotal       decimal.Decimal
	ShippingCost   decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Items          []OrderItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is the product as it was sold. Name and price are copied at
// checkout and never follow later catalog changes.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    *uuid.UUID
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	Subtotal     decimal.Decimal
	Position     int
	CreatedAt    time.Time
}

func NewOrderItem(productID *uuid.UUID, name string, price decimal.Decimal, quantity int) (OrderItem, error) {
	if quantity < 1 {
		return OrderItem{}, ErrInvalidQuantity
	}
	if price.IsNegative() {
		return OrderItem{}, ErrNegativePrice
	}

	price = price.Round(2)
	return OrderItem{
		ID:           uuid.New(),
		ProductID:    productID,
		ProductName:  name,
		ProductPrice: price,
		Quantity:     quantity,
		Subtotal:     price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}, nil
}

// ApplyTotals recomputes the subtotal from the items and derives the total.
func (o *Order) ApplyTotals(shippingCost, tax decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	o.Subtotal = subtotal.Round(2)
	o.ShippingCost = shippingCost.Round(2)
	o.Tax = tax.Round(2)
	o.Total = o.Subtotal.Add(o.ShippingCost).Add(o.Tax)
}

// AttachItems binds items to the order and fixes their display order.
func (o *Order) AttachItems(items []OrderItem) {
	o.Items = make([]OrderItem, len(items))
	for i, item := range items {
		item.OrderID = o.ID
		item.Position = i
		item.CreatedAt = o.CreatedAt
		o.Items[i] = item
	}
}

func (o Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}

func (o Order) IsGuest() bool {
	return o.UserID == nil
}
