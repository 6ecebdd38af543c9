package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

// Mock implementations

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type mockProductRepository struct {
	FindByIDsForUpdateFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	DecrementStockFunc     func(ctx context.Context, id uuid.UUID, quantity int) error
}

func (m *mockProductRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	return m.FindByIDsForUpdateFunc(ctx, ids)
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.DecrementStockFunc(ctx, id, quantity)
}

type mockOrderWriter struct {
	InsertFunc func(ctx context.Context, order *domain.Order) error
}

func (m *mockOrderWriter) Insert(ctx context.Context, order *domain.Order) error {
	return m.InsertFunc(ctx, order)
}

type mockItemWriter struct {
	InsertBatchFunc func(ctx context.Context, items []domain.OrderItem) error
}

func (m *mockItemWriter) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	return m.InsertBatchFunc(ctx, items)
}

type mockOrderFinder struct {
	FindByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByNumberFunc func(ctx context.Context, number string) (*domain.Order, error)
	ListFunc         func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error)
}

func (m *mockOrderFinder) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockOrderFinder) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return m.FindByNumberFunc(ctx, number)
}

func (m *mockOrderFinder) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	return m.ListFunc(ctx, filter)
}

type mockItemFinder struct {
	FindByOrderIDsFunc func(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error)
}

func (m *mockItemFinder) FindByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	return m.FindByOrderIDsFunc(ctx, orderIDs)
}

// Helpers

func orderWithItems(t *testing.T, lines ...domain.OrderItem) *domain.Order {
	t.Helper()

	o := &domain.Order{ID: uuid.New(), OrderNumber: "RAY-20261018-TESTTESTTE", Status: domain.StatusPending}
	o.AttachItems(lines)
	o.ApplyTotals(decimal.Zero, decimal.Zero)
	return o
}

func line(t *testing.T, productID uuid.UUID, qty int) domain.OrderItem {
	t.Helper()

	item, err := domain.NewOrderItem(&productID, "Vetiver", decimal.NewFromInt(80), qty)
	require.NoError(t, err)
	return item
}

func stock(n int) *int {
	return &n
}

// CheckoutService tests

func TestCheckoutService_Persist_Success(t *testing.T) {
	tracked := uuid.New()
	untracked := uuid.New()
	order := orderWithItems(t, line(t, tracked, 2), line(t, untracked, 1), line(t, tracked, 1))

	var locked []uuid.UUID
	decremented := map[uuid.UUID]int{}
	var insertedItems []domain.OrderItem

	tx := &fakeTx{}
	svc := NewCheckoutService(tx,
		&mockProductRepository{
			FindByIDsForUpdateFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
				locked = ids
				return []domain.Product{
					{ID: tracked, Name: "Vetiver", IsActive: true, Stock: stock(3)},
					{ID: untracked, Name: "Iris", IsActive: true},
				}, nil
			},
			DecrementStockFunc: func(ctx context.Context, id uuid.UUID, quantity int) error {
				decremented[id] += quantity
				return nil
			},
		},
		&mockOrderWriter{InsertFunc: func(ctx context.Context, o *domain.Order) error { return nil }},
		&mockItemWriter{InsertBatchFunc: func(ctx context.Context, items []domain.OrderItem) error {
			insertedItems = items
			return nil
		}},
		zap.NewNop(),
	)

	require.NoError(t, svc.Persist(context.Background(), order))

	assert.Equal(t, 1, tx.calls)
	require.Len(t, locked, 2)
	assert.True(t, locked[0].String() < locked[1].String(), "products must be locked in id order")
	assert.Equal(t, map[uuid.UUID]int{tracked: 3}, decremented)
	assert.Len(t, insertedItems, 3)
}

func TestCheckoutService_Persist_RejectsUnavailableProducts(t *testing.T) {
	missing := uuid.New()
	inactive := uuid.New()
	short := uuid.New()
	order := orderWithItems(t, line(t, missing, 1), line(t, inactive, 1), line(t, short, 5))

	inserted := false
	svc := NewCheckoutService(&fakeTx{},
		&mockProductRepository{
			FindByIDsForUpdateFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
				return []domain.Product{
					{ID: inactive, Name: "Ambre", IsActive: false},
					{ID: short, Name: "Cuir", IsActive: true, Stock: stock(2)},
				}, nil
			},
			DecrementStockFunc: func(ctx context.Context, id uuid.UUID, quantity int) error {
				t.Fatal("stock must not change when validation fails")
				return nil
			},
		},
		&mockOrderWriter{InsertFunc: func(ctx context.Context, o *domain.Order) error {
			inserted = true
			return nil
		}},
		&mockItemWriter{},
		zap.NewNop(),
	)

	err := svc.Persist(context.Background(), order)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.False(t, inserted)

	fields := map[string]string{}
	for _, d := range ve.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "product does not exist", fields["items[0].product_id"])
	assert.Equal(t, "product is not available", fields["items[1].product_id"])
	assert.Equal(t, "only 2 units of Cuir in stock", fields["items[2].product_id"])
}

func TestCheckoutService_Persist_PropagatesInsertError(t *testing.T) {
	productID := uuid.New()
	order := orderWithItems(t, line(t, productID, 1))
	insertErr := errors.New("duplicate entry")

	svc := NewCheckoutService(&fakeTx{},
		&mockProductRepository{
			FindByIDsForUpdateFunc: func(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
				return []domain.Product{{ID: productID, IsActive: true}}, nil
			},
		},
		&mockOrderWriter{InsertFunc: func(ctx context.Context, o *domain.Order) error { return insertErr }},
		&mockItemWriter{InsertBatchFunc: func(ctx context.Context, items []domain.OrderItem) error {
			t.Fatal("items must not be written after a failed order insert")
			return nil
		}},
		zap.NewNop(),
	)

	err := svc.Persist(context.Background(), order)
	assert.ErrorIs(t, err, insertErr)
}

// OrderReader tests

func TestOrderReader_GetByNumber_AttachesItems(t *testing.T) {
	order := &domain.Order{ID: uuid.New(), OrderNumber: "RAY-20261018-ABCDEFGHJK"}
	item := line(t, uuid.New(), 2)

	reader := NewOrderReader(
		&mockOrderFinder{FindByNumberFunc: func(ctx context.Context, number string) (*domain.Order, error) {
			assert.Equal(t, "RAY-20261018-ABCDEFGHJK", number)
			return order, nil
		}},
		&mockItemFinder{FindByOrderIDsFunc: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
			return map[uuid.UUID][]domain.OrderItem{order.ID: {item}}, nil
		}},
	)

	got, err := reader.GetByNumber(context.Background(), "RAY-20261018-ABCDEFGHJK")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestOrderReader_GetByID_NotFound(t *testing.T) {
	reader := NewOrderReader(
		&mockOrderFinder{FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order not found")
		}},
		&mockItemFinder{},
	)

	_, err := reader.GetByID(context.Background(), uuid.New())
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderReader_List_NormalizesFilterAndFillsItems(t *testing.T) {
	first := domain.Order{ID: uuid.New()}
	second := domain.Order{ID: uuid.New()}

	reader := NewOrderReader(
		&mockOrderFinder{ListFunc: func(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
			assert.Equal(t, 1, filter.Page)
			assert.Equal(t, domain.MaxPerPage, filter.PerPage)
			return []domain.Order{first, second}, 2, nil
		}},
		&mockItemFinder{FindByOrderIDsFunc: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
			return map[uuid.UUID][]domain.OrderItem{first.ID: {line(t, uuid.New(), 1)}}, nil
		}},
	)

	page, err := reader.List(context.Background(), domain.OrderFilter{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Orders[0].Items, 1)
	assert.NotNil(t, page.Orders[1].Items)
	assert.Empty(t, page.Orders[1].Items)
}
