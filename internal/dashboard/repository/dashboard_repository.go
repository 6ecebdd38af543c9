package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type MySQLDashboardRepository struct {
	db *sqlx.DB
}

func NewMySQLDashboardRepository(db *sqlx.DB) *MySQLDashboardRepository {
	return &MySQLDashboardRepository{db: db}
}

type Counts struct {
	TotalProducts  int64 `db:"total_products"`
	ActiveProducts int64 `db:"active_products"`
	TotalCustomers int64 `db:"total_customers"`
}

func (r *MySQLDashboardRepository) Counts(ctx context.Context) (Counts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products) AS total_products,
			(SELECT COUNT(*) FROM products WHERE is_active = 1) AS active_products,
			(SELECT COUNT(*) FROM users WHERE role = 'customer') AS total_customers`

	var counts Counts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return Counts{}, fmt.Errorf("counting catalog and customers: %w", err)
	}
	return counts, nil
}
