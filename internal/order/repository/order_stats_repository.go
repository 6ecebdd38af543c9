package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rayon/internal/domain"
)

type MySQLOrderStatsRepository struct {
	db *sqlx.DB
}

func NewMySQLOrderStatsRepository(db *sqlx.DB) *MySQLOrderStatsRepository {
	return &MySQLOrderStatsRepository{db: db}
}

type statusAggregateRow struct {
	Status       string          `db:"status"`
	Orders       int64           `db:"orders"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	ShippingCost decimal.Decimal `db:"shipping_cost"`
	Today        int64           `db:"today"`
	Month        int64           `db:"month"`
}

// StatusAggregates groups orders created at or after from (all orders when
// from is nil) by status. Today and month count orders created at or after the
// given instants.
func (r *MySQLOrderStatsRepository) StatusAggregates(ctx context.Context, from *time.Time, today, month time.Time) ([]domain.StatusAggregate, error) {
	query := `
		SELECT status,
		       COUNT(*) AS orders,
		       COALESCE(SUM(subtotal), 0) AS subtotal,
		       COALESCE(SUM(shipping_cost), 0) AS shipping_cost,
		       COUNT(CASE WHEN created_at >= ? THEN 1 END) AS today,
		       COUNT(CASE WHEN created_at >= ? THEN 1 END) AS month
		FROM orders`
	args := []any{today, month}

	if from != nil {
		query += ` WHERE created_at >= ?`
		args = append(args, *from)
	}
	query += ` GROUP BY status`

	var rows []statusAggregateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("aggregating orders: %w", err)
	}

	aggregates := make([]domain.StatusAggregate, len(rows))
	for i, row := range rows {
		aggregates[i] = domain.StatusAggregate{
			Status:       domain.Status(row.Status),
			Orders:       row.Orders,
			Subtotal:     row.Subtotal,
			ShippingCost: row.ShippingCost,
			Today:        row.Today,
			Month:        row.Month,
		}
	}
	return aggregates, nil
}
