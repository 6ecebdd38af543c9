package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rayon/internal/domain"
	"rayon/internal/infrastructure/mysql"
)

type MySQLOrderItemRepository struct {
	db *sqlx.DB
}

func NewMySQLOrderItemRepository(db *sqlx.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

type orderItemRow struct {
	ID           uuid.UUID       `db:"id"`
	OrderID      uuid.UUID       `db:"order_id"`
	ProductID    uuid.NullUUID   `db:"product_id"`
	ProductName  string          `db:"product_name"`
	ProductPrice decimal.Decimal `db:"product_price"`
	Quantity     int             `db:"quantity"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	Position     int             `db:"position"`
	CreatedAt    time.Time       `db:"created_at"`
}

func (r orderItemRow) toDomain() domain.OrderItem {
	item := domain.OrderItem{
		ID:           r.ID,
		OrderID:      r.OrderID,
		ProductName:  r.ProductName,
		ProductPrice: r.ProductPrice,
		Quantity:     r.Quantity,
		Subtotal:     r.Subtotal,
		Position:     r.Position,
		CreatedAt:    r.CreatedAt,
	}
	if r.ProductID.Valid {
		productID := r.ProductID.UUID
		item.ProductID = &productID
	}
	return item
}

// InsertBatch writes all items of one order in a single statement.
func (r *MySQLOrderItemRepository) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]orderItemRow, len(items))
	for i, item := range items {
		rows[i] = orderItemRow{
			ID:           item.ID,
			OrderID:      item.OrderID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
			Position:     item.Position,
			CreatedAt:    item.CreatedAt,
		}
		if item.ProductID != nil {
			rows[i].ProductID = uuid.NullUUID{UUID: *item.ProductID, Valid: true}
		}
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, product_price, quantity, subtotal, position, created_at)
		VALUES (:id, :order_id, :product_id, :product_name, :product_price, :quantity, :subtotal, :position, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, mysql.Executor(ctx, r.db), query, rows); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}
	return nil
}

// FindByOrderIDs groups the items of the given orders by order id, each group
// in checkout order.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	result := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = id.String()
	}

	query, args, err := sqlx.In(`
		SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal, position, created_at
		FROM order_items
		WHERE order_id IN (?)
		ORDER BY order_id, position`, keys)
	if err != nil {
		return nil, fmt.Errorf("building order items query: %w", err)
	}

	exec := mysql.Executor(ctx, r.db)

	var rows []orderItemRow
	if err := sqlx.SelectContext(ctx, exec, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}

	for _, row := range rows {
		result[row.OrderID] = append(result[row.OrderID], row.toDomain())
	}
	return result, nil
}
