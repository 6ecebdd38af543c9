package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
	"rayon/internal/infrastructure/mysql"
)

type MySQLRepository struct {
	db *sqlx.DB
}

func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type productRow struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	Brand     sql.NullString  `db:"brand"`
	Price     decimal.Decimal `db:"price"`
	Stock     sql.NullInt64   `db:"stock"`
	IsActive  bool            `db:"is_active"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:        r.ID,
		Name:      r.Name,
		Price:     r.Price,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Brand.Valid {
		brand := r.Brand.String
		p.Brand = &brand
	}
	if r.Stock.Valid {
		stock := int(r.Stock.Int64)
		p.Stock = &stock
	}
	return p
}

const selectProducts = `
	SELECT id, name, brand, price, stock, is_active, created_at, updated_at
	FROM products
	WHERE id IN (?)
	ORDER BY id`

func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	return r.find(ctx, selectProducts, ids)
}

// FindByIDsForUpdate locks the rows in primary key order. It must run inside
// a transaction started by mysql.TxManager.
func (r *MySQLRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if !mysql.InTx(ctx) {
		return nil, fmt.Errorf("locking products: no active transaction")
	}
	return r.find(ctx, selectProducts+" FOR UPDATE", ids)
}

func (r *MySQLRepository) find(ctx context.Context, base string, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query, args, err := sqlx.In(base, keys)
	if err != nil {
		return nil, fmt.Errorf("building product query: %w", err)
	}

	exec := mysql.Executor(ctx, r.db)

	var rows []productRow
	if err := sqlx.SelectContext(ctx, exec, &rows, exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}
	return products, nil
}

// DecrementStock lowers the stock of a stock-tracked product. Untracked
// products are left alone.
func (r *MySQLRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - ?
		WHERE id = ? AND stock IS NOT NULL AND stock >= ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, quantity, id.String(), quantity)
	if err != nil {
		return fmt.Errorf("decrementing product stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("insufficient stock for product %s", id))
	}

	return nil
}
