package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rayon/internal/auth"
	"rayon/internal/domain"
	"rayon/internal/dto"
	apperrors "rayon/internal/errors"
	"rayon/internal/infrastructure/mysql"
)

const orderNumberIndex = "orders_order_number_unique"

type RequestValidator interface {
	Struct(s any) error
}

type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
}

type ShippingRatesProvider interface {
	Rates(ctx context.Context) (domain.ShippingRates, error)
}

type OrderNumberGenerator interface {
	Next() (string, error)
}

type OrderPersister interface {
	Persist(ctx context.Context, order *domain.Order) error
}

type PlaceOrderOptions struct {
	MaxAttempts          int
	AcceptClientShipping bool
}

type PlaceOrderUseCase struct {
	validator RequestValidator
	products  ProductLookup
	rates     ShippingRatesProvider
	numbers   OrderNumberGenerator
	persister OrderPersister
	cache     Cache
	logger    *zap.Logger
	opts      PlaceOrderOptions
	now       func() time.Time
	backoff   func(attempt int) time.Duration
}

func NewPlaceOrderUseCase(
	validator RequestValidator,
	products ProductLookup,
	rates ShippingRatesProvider,
	numbers OrderNumberGenerator,
	persister OrderPersister,
	cache Cache,
	logger *zap.Logger,
	opts PlaceOrderOptions,
) *PlaceOrderUseCase {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &PlaceOrderUseCase{
		validator: validator,
		products:  products,
		rates:     rates,
		numbers:   numbers,
		persister: persister,
		cache:     cache,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
		backoff:   jitteredBackoff,
	}
}

// jitteredBackoff is the pause before attempt: 100ms before the second,
// 200ms before the third and so on, with ±20% jitter.
func jitteredBackoff(attempt int) time.Duration {
	base := time.Duration(attempt-1) * 100 * time.Millisecond
	if base == 0 {
		return 0
	}
	return time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
}

// PlaceOrder validates the request, prices it on the server and writes the
// order with its items. caller is nil for guest checkout.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, caller *auth.Identity, req dto.CreateOrderRequest) (*domain.Order, error) {
	uc.logger.Info("place order started", zap.Int("itemCount", len(req.Items)), zap.Bool("guest", caller == nil))

	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}

	productIDs, err := uc.checkLines(req)
	if err != nil {
		return nil, err
	}

	if err := uc.checkProducts(ctx, productIDs); err != nil {
		return nil, err
	}

	order, err := uc.buildOrder(ctx, caller, req, productIDs)
	if err != nil {
		return nil, err
	}

	if err := uc.persistWithRetry(ctx, order); err != nil {
		return nil, err
	}

	uc.cache.Delete(domain.OrderCacheKeys()...)

	uc.logger.Info("order placed",
		zap.String("orderId", order.ID.String()),
		zap.String("orderNumber", order.OrderNumber),
		zap.Bool("guest", order.IsGuest()),
		zap.String("total", order.Total.StringFixed(2)))

	return order, nil
}

// checkLines applies the rules struct tags cannot express and returns the
// parsed product ids in request order.
func (uc *PlaceOrderUseCase) checkLines(req dto.CreateOrderRequest) ([]uuid.UUID, error) {
	var details []apperrors.ValidationDetail

	if req.ShippingCost != nil {
		switch {
		case req.ShippingCost.IsNegative():
			details = append(details, apperrors.ValidationDetail{Field: "shipping_cost", Message: "shipping_cost must be greater than or equal to 0"})
		case req.ShippingCost.GreaterThan(domain.MaxUnitAmount):
			details = append(details, apperrors.ValidationDetail{Field: "shipping_cost", Message: "shipping_cost must not be greater than " + domain.MaxUnitAmount.StringFixed(2)})
		}
	}

	ids := make([]uuid.UUID, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for i, item := range req.Items {
		priceField := fmt.Sprintf("items[%d].price", i)
		switch {
		case item.Price.IsNegative():
			details = append(details, apperrors.ValidationDetail{
				Field:   priceField,
				Message: priceField + " must be greater than or equal to 0",
			})
		case item.Price.GreaterThan(domain.MaxUnitAmount):
			details = append(details, apperrors.ValidationDetail{
				Field:   priceField,
				Message: priceField + " must not be greater than " + domain.MaxUnitAmount.StringFixed(2),
			})
		case item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).GreaterThan(domain.MaxOrderAmount):
			details = append(details, apperrors.ValidationDetail{
				Field:   priceField,
				Message: fmt.Sprintf("items[%d] subtotal must not be greater than %s", i, domain.MaxOrderAmount.StringFixed(2)),
			})
		}

		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: fmt.Sprintf("items[%d].product_id must be a valid UUID", i),
			})
			continue
		}
		if seen[id] {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].product_id", i),
				Message: "product must not appear more than once",
			})
		}
		seen[id] = true
		ids[i] = id
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}
	return ids, nil
}

// checkProducts rejects unknown and inactive products before any lock is
// taken. Stock is checked again under lock by the persister.
func (uc *PlaceOrderUseCase) checkProducts(ctx context.Context, ids []uuid.UUID) error {
	products, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return apperrors.NewPersistenceError("failed to load products", err)
	}

	byID := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var details []apperrors.ValidationDetail
	for i, id := range ids {
		field := fmt.Sprintf("items[%d].product_id", i)
		product, ok := byID[id]
		switch {
		case !ok:
			details = append(details, apperrors.ValidationDetail{Field: field, Message: "product does not exist"})
		case !product.IsActive:
			details = append(details, apperrors.ValidationDetail{Field: field, Message: "product is not available"})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("some products cannot be ordered", details...)
	}
	return nil
}

func (uc *PlaceOrderUseCase) buildOrder(ctx context.Context, caller *auth.Identity, req dto.CreateOrderRequest, productIDs []uuid.UUID) (*domain.Order, error) {
	items := make([]domain.OrderItem, len(req.Items))
	for i, line := range req.Items {
		item, err := domain.NewOrderItem(&productIDs[i], strings.TrimSpace(line.ProductName), *line.Price, line.Quantity)
		if err != nil {
			return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: err.Error(),
			})
		}
		items[i] = item
	}

	now := uc.now().UTC()
	order := &domain.Order{
		ID:           uuid.New(),
		Status:       domain.StatusPending,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Shipping: domain.ShippingDetails{
			Address:       strings.TrimSpace(req.ShippingAddress),
			City:          strings.TrimSpace(req.ShippingCity),
			PostalCode:    strings.TrimSpace(req.ShippingPostalCode),
			Country:       strings.TrimSpace(req.ShippingCountry),
			Phone:         strings.TrimSpace(req.ShippingPhone),
			WhatsappPhone: req.WhatsappPhone,
		},
		BillingAddress: req.BillingAddress,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if caller != nil {
		userID := caller.UserID
		order.UserID = &userID
	}
	order.AttachItems(items)

	// Tax is not charged.
	order.ApplyTotals(decimal.Zero, decimal.Zero)

	shipping, err := uc.shippingCost(ctx, order.Subtotal, req.ShippingCost)
	if err != nil {
		return nil, err
	}
	order.ApplyTotals(shipping, decimal.Zero)

	if order.Total.GreaterThan(domain.MaxOrderAmount) {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "total",
			Message: "total must not be greater than " + domain.MaxOrderAmount.StringFixed(2),
		})
	}

	if req.Total != nil && !req.Total.Round(2).Equal(order.Total) {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "total",
			Message: fmt.Sprintf("total does not match the order total of %s", order.Total.StringFixed(2)),
		})
	}

	return order, nil
}

func (uc *PlaceOrderUseCase) shippingCost(ctx context.Context, subtotal decimal.Decimal, requested *decimal.Decimal) (decimal.Decimal, error) {
	if uc.opts.AcceptClientShipping && requested != nil {
		return *requested, nil
	}

	rates, err := uc.rates.Rates(ctx)
	if err != nil {
		return decimal.Zero, apperrors.NewPersistenceError("failed to load shipping rates", err)
	}
	return rates.Quote(subtotal), nil
}

// persistWithRetry draws a fresh order number for every attempt. A taken
// number and a lock conflict both consume an attempt.
func (uc *PlaceOrderUseCase) persistWithRetry(ctx context.Context, order *domain.Order) error {
	var lastErr error

	for attempt := 1; attempt <= uc.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := uc.wait(ctx, attempt); err != nil {
				return err
			}
		}

		number, err := uc.numbers.Next()
		if err != nil {
			return apperrors.NewGenerationError(err.Error(), attempt)
		}
		order.OrderNumber = number

		err = uc.persister.Persist(ctx, order)
		if err == nil {
			return nil
		}
		lastErr = err

		switch {
		case mysql.IsDuplicateKey(err, orderNumberIndex):
			uc.logger.Warn("order number taken, regenerating",
				zap.String("orderNumber", number),
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", uc.opts.MaxAttempts))
		case mysql.IsDeadlock(err):
			uc.logger.Warn("deadlock detected, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", uc.opts.MaxAttempts))
		default:
			return classifyWriteError(err)
		}
	}

	if mysql.IsDuplicateKey(lastErr, orderNumberIndex) {
		return apperrors.NewGenerationError("could not allocate a unique order number", uc.opts.MaxAttempts)
	}
	return apperrors.NewConflictError("order could not be placed because of concurrent updates, please retry")
}

func (uc *PlaceOrderUseCase) wait(ctx context.Context, attempt int) error {
	d := uc.backoff(attempt)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// classifyWriteError keeps client-facing errors as they are and hides
// everything else behind a PersistenceError.
func classifyWriteError(err error) error {
	if _, ok := apperrors.IsValidationError(err); ok {
		return err
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return err
	}
	return apperrors.NewPersistenceError("failed to save order", err)
}
