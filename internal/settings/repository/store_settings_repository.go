package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
)

// storeSettingsID is the primary key of the single settings row.
const storeSettingsID = 1

type MySQLStoreSettingsRepository struct {
	db *sqlx.DB
}

func NewMySQLStoreSettingsRepository(db *sqlx.DB) *MySQLStoreSettingsRepository {
	return &MySQLStoreSettingsRepository{db: db}
}

type shippingRow struct {
	ShippingCost          decimal.Decimal `db:"shipping_cost"`
	FreeShippingThreshold decimal.Decimal `db:"free_shipping_threshold"`
}

func (r *MySQLStoreSettingsRepository) FindShippingRates(ctx context.Context) (*domain.ShippingRates, error) {
	query := `
		SELECT shipping_cost, free_shipping_threshold
		FROM store_settings
		WHERE id = ?
	`

	var row shippingRow
	err := r.db.GetContext(ctx, &row, query, storeSettingsID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("store settings not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying store settings: %w", err)
	}

	return &domain.ShippingRates{
		FlatRate:              row.ShippingCost,
		FreeShippingThreshold: row.FreeShippingThreshold,
	}, nil
}
