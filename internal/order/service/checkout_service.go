package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProductRepository interface {
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}

type OrderWriter interface {
	Insert(ctx context.Context, order *domain.Order) error
}

type OrderItemWriter interface {
	InsertBatch(ctx context.Context, items []domain.OrderItem) error
}

// CheckoutService writes a new order as one unit: product rows are locked,
// tracked stock is taken, and the order and its items are inserted, all in a
// single transaction.
type CheckoutService struct {
	tx          TxManager
	productRepo ProductRepository
	orderRepo   OrderWriter
	itemRepo    OrderItemWriter
	logger      *zap.Logger
}

func NewCheckoutService(
	tx TxManager,
	productRepo ProductRepository,
	orderRepo OrderWriter,
	itemRepo OrderItemWriter,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		tx:          tx,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		itemRepo:    itemRepo,
		logger:      logger,
	}
}

func (s *CheckoutService) Persist(ctx context.Context, order *domain.Order) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reserveStock(ctx, order.Items); err != nil {
			return err
		}

		if err := s.orderRepo.Insert(ctx, order); err != nil {
			return err
		}

		if err := s.itemRepo.InsertBatch(ctx, order.Items); err != nil {
			return err
		}

		s.logger.Debug("order written",
			zap.String("orderId", order.ID.String()),
			zap.String("orderNumber", order.OrderNumber),
			zap.Int("itemCount", len(order.Items)))
		return nil
	})
}

// reserveStock locks every referenced product in id order, so concurrent
// checkouts touching the same products queue instead of deadlocking.
func (s *CheckoutService) reserveStock(ctx context.Context, items []domain.OrderItem) error {
	wanted := make(map[uuid.UUID]int)
	firstIndex := make(map[uuid.UUID]int)
	for i, item := range items {
		if item.ProductID == nil {
			continue
		}
		if _, seen := wanted[*item.ProductID]; !seen {
			firstIndex[*item.ProductID] = i
		}
		wanted[*item.ProductID] += item.Quantity
	}
	if len(wanted) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(wanted))
	for id := range wanted {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	products, err := s.productRepo.FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var details []apperrors.ValidationDetail
	for _, id := range ids {
		field := fmt.Sprintf("items[%d].product_id", firstIndex[id])

		product, ok := byID[id]
		switch {
		case !ok:
			details = append(details, apperrors.ValidationDetail{Field: field, Message: "product does not exist"})
		case !product.IsActive:
			details = append(details, apperrors.ValidationDetail{Field: field, Message: "product is not available"})
		case !product.CanFulfil(wanted[id]):
			details = append(details, apperrors.ValidationDetail{
				Field:   field,
				Message: fmt.Sprintf("only %d units of %s in stock", *product.Stock, product.Name),
			})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("some products cannot be ordered", details...)
	}

	for _, id := range ids {
		if !byID[id].TracksStock() {
			continue
		}
		if err := s.productRepo.DecrementStock(ctx, id, wanted[id]); err != nil {
			return err
		}
	}
	return nil
}
