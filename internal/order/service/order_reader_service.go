package service

import (
	"context"

	"github.com/google/uuid"

	"rayon/internal/domain"
)

type OrderFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
}

type OrderItemFinder interface {
	FindByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error)
}

// OrderReader loads whole aggregates: every order it returns has its items.
type OrderReader struct {
	orderRepo OrderFinder
	itemRepo  OrderItemFinder
}

func NewOrderReader(orderRepo OrderFinder, itemRepo OrderItemFinder) *OrderReader {
	return &OrderReader{orderRepo: orderRepo, itemRepo: itemRepo}
}

func (r *OrderReader) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := r.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, order)
}

func (r *OrderReader) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	order, err := r.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return r.withItems(ctx, order)
}

func (r *OrderReader) List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	filter = filter.Normalize()

	orders, total, err := r.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := r.itemRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsOrEmpty(items[orders[i].ID])
	}

	return &domain.OrderPage{
		Orders:  orders,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (r *OrderReader) withItems(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	items, err := r.itemRepo.FindByOrderIDs(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsOrEmpty(items[order.ID])
	return order, nil
}

func itemsOrEmpty(items []domain.OrderItem) []domain.OrderItem {
	if items == nil {
		return []domain.OrderItem{}
	}
	return items
}
