package store

import (
	"context"
	"database/sql"
	"fmt"

	"rinkops/internal/models"

	"github.com/jmoiron/sqlx"
)

// upsertOrderSQL updates vendor-owned fields only. payment_status and
// has_installments are operator-owned after first insert and must survive
// every re-sync.
const upsertOrderSQL = `
	INSERT INTO orders (
		order_id, order_number, date_created, status,
		customer_first_name, customer_last_name, customer_email, customer_phone,
		total, payment_method, payment_method_title, products,
		payment_status, has_installments
	) VALUES (
		:order_id, :order_number, :date_created, :status,
		:customer_first_name, :customer_last_name, :customer_email, :customer_phone,
		:total, :payment_method, :payment_method_title, :products,
		:payment_status, :has_installments
	)
	ON CONFLICT (order_id) DO UPDATE SET
		order_number = EXCLUDED.order_number,
		date_created = EXCLUDED.date_created,
		status = EXCLUDED.status,
		customer_first_name = EXCLUDED.customer_first_name,
		customer_last_name = EXCLUDED.customer_last_name,
		customer_email = EXCLUDED.customer_email,
		customer_phone = EXCLUDED.customer_phone,
		total = EXCLUDED.total,
		payment_method = EXCLUDED.payment_method,
		payment_method_title = EXCLUDED.payment_method_title,
		products = EXCLUDED.products,
		updated_at = NOW()`

// UpsertOrders writes the full fetched order set in one transaction so a
// failed sync run never leaves a half-written batch behind.
func (s *Store) UpsertOrders(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range orders {
		if _, err := tx.NamedExecContext(ctx, upsertOrderSQL, &orders[i]); err != nil {
			return fmt.Errorf("failed to upsert order %d: %w", orders[i].OrderID, err)
		}
	}

	return tx.Commit()
}

const upsertProductSQL = `
	INSERT INTO products (product_id, name, status)
	VALUES (:product_id, :name, :status)
	ON CONFLICT (product_id) DO UPDATE SET
		name = EXCLUDED.name,
		status = EXCLUDED.status,
		updated_at = NOW()`

// UpsertProducts writes the full fetched product set in one transaction.
func (s *Store) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range products {
		if _, err := tx.NamedExecContext(ctx, upsertProductSQL, &products[i]); err != nil {
			return fmt.Errorf("failed to upsert product %d: %w", products[i].ProductID, err)
		}
	}

	return tx.Commit()
}

// GetOrders retrieves all synced orders, newest first
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY date_created DESC")
	return orders, err
}

// OrderFilter narrows ListOrders. Zero values mean "no constraint".
type OrderFilter struct {
	ExcludeStatuses []string
	PaymentStatus   string
	Limit           int
}

// ListOrders retrieves orders matching the filter, newest first
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := "SELECT * FROM orders"
	var args []interface{}

	if len(f.ExcludeStatuses) > 0 {
		q, inArgs, err := sqlx.In(" WHERE status NOT IN (?)", f.ExcludeStatuses)
		if err != nil {
			return nil, err
		}
		query += q
		args = append(args, inArgs...)
	}
	if f.PaymentStatus != "" {
		if len(args) > 0 {
			query += " AND payment_status = ?"
		} else {
			query += " WHERE payment_status = ?"
		}
		args = append(args, f.PaymentStatus)
	}

	query += " ORDER BY date_created DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	query = s.db.Rebind(query)

	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// GetOrderByOrderID retrieves an order by its external identifier
func (s *Store) GetOrderByOrderID(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE order_id = $1", orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetOrderPaymentStatus updates the order's payment status and cascades it
// to every registration derived from that order, in one transaction.
func (s *Store) SetOrderPaymentStatus(ctx context.Context, orderID int64, paymentStatus string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE order_id = $2",
		paymentStatus, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order payment status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order not found: %d", orderID)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE program_registrations SET payment_status = $1 WHERE order_id = $2",
		paymentStatus, orderID)
	if err != nil {
		return fmt.Errorf("failed to cascade payment status to registrations: %w", err)
	}

	return tx.Commit()
}

// GetProducts retrieves all synced products
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY product_id")
	return products, err
}
