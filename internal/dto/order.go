package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"rayon/internal/domain"
)

type CreateOrderRequest struct {
	CustomerName       string                   `json:"customer_name" validate:"required,notblank,max=255"`
	ShippingAddress    string                   `json:"shipping_address" validate:"required,notblank,max=500"`
	ShippingCity       string                   `json:"shipping_city" validate:"required,notblank,max=100"`
	ShippingPostalCode string                   `json:"shipping_postal_code" validate:"required,notblank,max=20"`
	ShippingCountry    string                   `json:"shipping_country" validate:"required,notblank,max=100"`
	ShippingPhone      string                   `json:"shipping_phone" validate:"required,phone"`
	WhatsappPhone      *string                  `json:"whatsapp_phone" validate:"omitempty,phone"`
	BillingAddress     *string                  `json:"billing_address" validate:"omitempty,max=500"`
	Notes              *string                  `json:"notes" validate:"omitempty,max=1000"`
	ShippingCost       *decimal.Decimal         `json:"shipping_cost"`
	Total              *decimal.Decimal         `json:"total"`
	Items              []CreateOrderItemRequest `json:"items" validate:"required,min=1,max=100,dive"`
}

type CreateOrderItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required,uuid_string"`
	ProductName string           `json:"product_name" validate:"required,notblank,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Quantity    int              `json:"quantity" validate:"gte=1,lte=10000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type TrackOrderRequest struct {
	OrderNumber string `json:"order_number"`
}

type OrderItemResponse struct {
	ID           string  `json:"id"`
	ProductID    *string `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice string  `json:"product_price"`
	Quantity     int     `json:"quantity"`
	Subtotal     string  `json:"subtotal"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	UserID             *string             `json:"user_id"`
	Status             string              `json:"status"`
	CustomerName       string              `json:"customer_name"`
	ShippingAddress    string              `json:"shipping_address"`
	ShippingCity       string              `json:"shipping_city"`
	ShippingPostalCode string              `json:"shipping_postal_code"`
	ShippingCountry    string              `json:"shipping_country"`
	ShippingPhone      string              `json:"shipping_phone"`
	WhatsappPhone      *string             `json:"whatsapp_phone"`
	BillingAddress     *string             `json:"billing_address"`
	Notes              *string             `json:"notes"`
	Subtotal           string              `json:"subtotal"`
	ShippingCost       string              `json:"shipping_cost"`
	Tax                string              `json:"tax"`
	Total              string              `json:"total"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// TrackingItemResponse and TrackingResponse are the public projection of an
// order. They carry no address, phone or account data.
type TrackingItemResponse struct {
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}

type TrackingResponse struct {
	OrderNumber  string                 `json:"order_number"`
	Status       string                 `json:"status"`
	Subtotal     string                 `json:"subtotal"`
	ShippingCost string                 `json:"shipping_cost"`
	Tax          string                 `json:"tax"`
	Total        string                 `json:"total"`
	Items        []TrackingItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type PaginationMeta struct {
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

type ListOrdersResponse struct {
	Data []OrderResponse `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}

type OrderStatsResponse struct {
	Period            string           `json:"period"`
	From              *time.Time       `json:"from"`
	TotalOrders       int64            `json:"total_orders"`
	ByStatus          map[string]int64 `json:"by_status"`
	DeliveredRevenue  string           `json:"delivered_revenue"`
	DeliveredShipping string           `json:"delivered_shipping"`
	TodayOrders       int64            `json:"today_orders"`
	MonthOrders       int64            `json:"month_orders"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

type RecentOrderResponse struct {
	ID           string    `json:"id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	Total        string    `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

type DashboardStatsResponse struct {
	Orders         OrderStatsResponse    `json:"orders"`
	TotalProducts  int64                 `json:"total_products"`
	ActiveProducts int64                 `json:"active_products"`
	TotalCustomers int64                 `json:"total_customers"`
	RecentOrders   []RecentOrderResponse `json:"recent_orders"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func NewOrderResponse(o domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID.String(),
		OrderNumber:        o.OrderNumber,
		Status:             o.Status.String(),
		CustomerName:       o.CustomerName,
		ShippingAddress:    o.Shipping.Address,
		ShippingCity:       o.Shipping.City,
		ShippingPostalCode: o.Shipping.PostalCode,
		ShippingCountry:    o.Shipping.Country,
		ShippingPhone:      o.Shipping.Phone,
		WhatsappPhone:      o.Shipping.WhatsappPhone,
		BillingAddress:     o.BillingAddress,
		Notes:              o.Notes,
		Subtotal:           money(o.Subtotal),
		ShippingCost:       money(o.ShippingCost),
		Tax:                money(o.Tax),
		Total:              money(o.Total),
		Items:              make([]OrderItemResponse, len(o.Items)),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.UserID != nil {
		userID := o.UserID.String()
		resp.UserID = &userID
	}

	for i, item := range o.Items {
		resp.Items[i] = OrderItemResponse{
			ID:           item.ID.String(),
			ProductName:  item.ProductName,
			ProductPrice: money(item.ProductPrice),
			Quantity:     item.Quantity,
			Subtotal:     money(item.Subtotal),
		}
		if item.ProductID != nil {
			productID := item.ProductID.String()
			resp.Items[i].ProductID = &productID
		}
	}
	return resp
}

func NewTrackingResponse(o domain.Order) TrackingResponse {
	resp := TrackingResponse{
		OrderNumber:  o.OrderNumber,
		Status:       o.Status.String(),
		Subtotal:     money(o.Subtotal),
		ShippingCost: money(o.ShippingCost),
		Tax:          money(o.Tax),
		Total:        money(o.Total),
		Items:        make([]TrackingItemResponse, len(o.Items)),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for i, item := range o.Items {
		resp.Items[i] = TrackingItemResponse{
			ProductName:  item.ProductName,
			ProductPrice: money(item.ProductPrice),
			Quantity:     item.Quantity,
			Subtotal:     money(item.Subtotal),
		}
	}
	return resp
}

func NewListOrdersResponse(page domain.OrderPage) ListOrdersResponse {
	data := make([]OrderResponse, len(page.Orders))
	for i, o := range page.Orders {
		data[i] = NewOrderResponse(o)
	}
	return ListOrdersResponse{
		Data: data,
		Meta: PaginationMeta{
			Page:     page.Page,
			PerPage:  page.PerPage,
			Total:    page.Total,
			LastPage: page.LastPage(),
		},
	}
}

func NewOrderStatsResponse(s domain.OrderStats) OrderStatsResponse {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for status, count := range s.ByStatus {
		byStatus[status.String()] = count
	}
	return OrderStatsResponse{
		Period:            string(s.Period),
		From:              s.From,
		TotalOrders:       s.TotalOrders,
		ByStatus:          byStatus,
		DeliveredRevenue:  money(s.DeliveredRevenue),
		DeliveredShipping: money(s.DeliveredShipping),
		TodayOrders:       s.TodayOrders,
		MonthOrders:       s.MonthOrders,
		GeneratedAt:       s.GeneratedAt,
	}
}

func NewDashboardStatsResponse(s domain.DashboardStats) DashboardStatsResponse {
	recent := make([]RecentOrderResponse, len(s.RecentOrders))
	for i, o := range s.RecentOrders {
		recent[i] = RecentOrderResponse{
			ID:           o.ID.String(),
			OrderNumber:  o.OrderNumber,
			CustomerName: o.CustomerName,
			Status:       o.Status.String(),
			Total:        money(o.Total),
			CreatedAt:    o.CreatedAt,
		}
	}
	return DashboardStatsResponse{
		Orders:         NewOrderStatsResponse(s.Orders),
		TotalProducts:  s.TotalProducts,
		ActiveProducts: s.ActiveProducts,
		TotalCustomers: s.TotalCustomers,
		RecentOrders:   recent,
		GeneratedAt:    s.GeneratedAt,
	}
}
