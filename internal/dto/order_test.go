package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rayon/internal/domain"
)

func sampleOrder(t *testing.T) domain.Order {
	t.Helper()

	userID := uuid.New()
	productID := uuid.New()
	whatsapp := "+34600111222"
	item, err := domain.NewOrderItem(&productID, "Oud Royal", decimal.NewFromInt(100), 2)
	require.NoError(t, err)

	o := domain.Order{
		ID:           uuid.New(),
		OrderNumber:  "RAY-20261018-0123456789",
		UserID:       &userID,
		Status:       domain.StatusShipped,
		CustomerName: "Ana Ruiz",
		Shipping: domain.ShippingDetails{
			Address:       "Calle Mayor 1",
			City:          "Madrid",
			PostalCode:    "28013",
			Country:       "ES",
			Phone:         "+34600000000",
			WhatsappPhone: &whatsapp,
		},
		CreatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}
	o.AttachItems([]domain.OrderItem{item})
	o.ApplyTotals(decimal.NewFromInt(20), decimal.Zero)
	return o
}

func TestNewTrackingResponse_OmitsPersonalData(t *testing.T) {
	body, err := json.Marshal(NewTrackingResponse(sampleOrder(t)))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))

	for _, forbidden := range []string{"shipping_address", "shipping_phone", "user_id", "whatsapp_phone", "customer_name", "id"} {
		assert.NotContains(t, fields, forbidden)
	}
	assert.Equal(t, "RAY-20261018-0123456789", fields["order_number"])
	assert.Equal(t, "220.00", fields["total"])

	items, ok := fields["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.NotContains(t, item, "product_id")
	assert.Equal(t, "200.00", item["subtotal"])
}

func TestNewOrderResponse_MoneyAsFixedStrings(t *testing.T) {
	resp := NewOrderResponse(sampleOrder(t))

	assert.Equal(t, "200.00", resp.Subtotal)
	assert.Equal(t, "20.00", resp.ShippingCost)
	assert.Equal(t, "0.00", resp.Tax)
	assert.Equal(t, "220.00", resp.Total)
	require.NotNil(t, resp.UserID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "100.00", resp.Items[0].ProductPrice)
}

func TestNewListOrdersResponse_Meta(t *testing.T) {
	resp := NewListOrdersResponse(domain.OrderPage{
		Orders:  []domain.Order{sampleOrder(t)},
		Total:   31,
		Page:    2,
		PerPage: 15,
	})

	assert.Len(t, resp.Data, 1)
	assert.Equal(t, PaginationMeta{Page: 2, PerPage: 15, Total: 31, LastPage: 3}, resp.Meta)
}

func TestNewOrderStatsResponse_KeepsEveryStatus(t *testing.T) {
	resp := NewOrderStatsResponse(domain.NewOrderStats(domain.PeriodDay))

	assert.Len(t, resp.ByStatus, len(domain.AllStatuses()))
	assert.Equal(t, "0.00", resp.DeliveredRevenue)
	assert.Nil(t, resp.From)
}
