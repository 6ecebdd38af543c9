package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rayon/internal/domain"
	apperrors "rayon/internal/errors"
	"rayon/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sqlx.DB
}

func NewMySQLOrderRepository(db *sqlx.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

type orderRow struct {
	ID                 uuid.UUID       `db:"id"`
	OrderNumber        string          `db:"order_number"`
	UserID             uuid.NullUUID   `db:"user_id"`
	Status             string          `db:"status"`
	CustomerName       string          `db:"customer_name"`
	ShippingAddress    string          `db:"shipping_address"`
	ShippingCity       string          `db:"shipping_city"`
	ShippingPostalCode string          `db:"shipping_postal_code"`
	ShippingCountry    string          `db:"shipping_country"`
	ShippingPhone      string          `db:"shipping_phone"`
	WhatsappPhone      sql.NullString  `db:"whatsapp_phone"`
	BillingAddress     sql.NullString  `db:"billing_address"`
	Notes              sql.NullString  `db:"notes"`
	Subtotal           decimal.Decimal `db:"subtotal"`
	ShippingCost       decimal.Decimal `db:"shipping_cost"`
	Tax                decimal.Decimal `db:"tax"`
	Total              decimal.Decimal `db:"total"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func newOrderRow(o *domain.Order) orderRow {
	row := orderRow{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		Status:             o.Status.String(),
		CustomerName:       o.CustomerName,
		ShippingAddress:    o.Shipping.Address,
		ShippingCity:       o.Shipping.City,
		ShippingPostalCode: o.Shipping.PostalCode,
		ShippingCountry:    o.Shipping.Country,
		ShippingPhone:      o.Shipping.Phone,
		WhatsappPhone:      nullString(o.Shipping.WhatsappPhone),
		BillingAddress:     nullString(o.BillingAddress),
		Notes:              nullString(o.Notes),
		Subtotal:           o.Subtotal,
		ShippingCost:       o.ShippingCost,
		Tax:                o.Tax,
		Total:              o.Total,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.UserID != nil {
		row.UserID = uuid.NullUUID{UUID: *o.UserID, Valid: true}
	}
	return row
}

func (r orderRow) toDomain() domain.Order {
	o := domain.Order{
		ID:           r.ID,
		OrderNumber:  r.OrderNumber,
		Status:       domain.Status(r.Status),
		CustomerName: r.CustomerName,
		Shipping: domain.ShippingDetails{
			Address:       r.ShippingAddress,
			City:          r.ShippingCity,
			PostalCode:    r.ShippingPostalCode,
			Country:       r.ShippingCountry,
			Phone:         r.ShippingPhone,
			WhatsappPhone: stringPtr(r.WhatsappPhone),
		},
		BillingAddress: stringPtr(r.BillingAddress),
		Notes:          stringPtr(r.Notes),
		Subtotal:       r.Subtotal,
		ShippingCost:   r.ShippingCost,
		Tax:            r.Tax,
		Total:          r.Total,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.UserID.Valid {
		userID := r.UserID.UUID
		o.UserID = &userID
	}
	return o
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

const orderColumns = `
	id, order_number, user_id, status, customer_name,
	shipping_address, shipping_city, shipping_postal_code, shipping_country,
	shipping_phone, whatsapp_phone, billing_address, notes,
	subtotal, shipping_cost, tax, total, created_at, updated_at`

// Insert writes the order row only; items go through MySQLOrderItemRepository
// in the same transaction. A reused order number surfaces as the driver's
// duplicate key error on orders_order_number_unique.
func (r *MySQLOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (
			:id, :order_number, :user_id, :status, :customer_name,
			:shipping_address, :shipping_city, :shipping_postal_code, :shipping_country,
			:shipping_phone, :whatsapp_phone, :billing_address, :notes,
			:subtotal, :shipping_cost, :tax, :total, :created_at, :updated_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, mysql.Executor(ctx, r.db), query, newOrderRow(order)); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id.String())
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
		}
		return nil, err
	}
	return order, nil
}

func (r *MySQLOrderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = ?`, number)
}

func (r *MySQLOrderRepository) findOne(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var row orderRow
	err := sqlx.GetContext(ctx, mysql.Executor(ctx, r.db), &row, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying order: %w", err)
	}

	order := row.toDomain()
	return &order, nil
}

// List returns one page of orders, newest first, and the number of orders
// matching the filter across all pages.
func (r *MySQLOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	where, args := listConditions(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, append(args, filter.PerPage, filter.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}

	orders := make([]domain.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toDomain()
	}
	return orders, total, nil
}

func listConditions(filter domain.OrderFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.UserID != nil {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID.String())
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status.String())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		conds = append(conds, "(order_number LIKE ? OR customer_name LIKE ?)")
		args = append(args, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Recent returns the newest orders without their items.
func (r *MySQLOrderRepository) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC LIMIT ?`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("querying recent orders: %w", err)
	}

	orders := make([]domain.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toDomain()
	}
	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, status.String(), updatedAt, id.String())
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}

// UpdateStatusFrom writes status only while the order still holds from. A
// concurrent change in between yields a ConflictError.
func (r *MySQLOrderRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, from, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	exec := mysql.Executor(ctx, r.db)
	result, err := exec.ExecContext(ctx, query, status.String(), updatedAt, id.String(), from.String())
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := sqlx.GetContext(ctx, exec, &exists, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = ?)`, id.String()); err != nil {
		return fmt.Errorf("checking order existence: %w", err)
	}
	if !exists {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	return apperrors.NewConflictError(fmt.Sprintf("order status is no longer %s", from))
}

// Delete removes the order; its items go with it through the foreign key.
func (r *MySQLOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}
