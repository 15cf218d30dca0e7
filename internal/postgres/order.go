package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
)

const orderColumns = "id, customer_id, destination, status, total, payment_method, created_at, updated_at"

type orderRepo struct {
	db querier
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Destination, &o.Status, &o.Total, &o.PaymentMethod,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, translateErr(err)
	}
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r orderRepo) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM customer_order WHERE id = $1", id)
	return scanOrder(row)
}

func (r orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row := r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM customer_order WHERE id = $1 FOR UPDATE", id)
	return scanOrder(row)
}

func (r orderRepo) Save(ctx context.Context, o domain.Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customer_order (id, customer_id, destination, status, total, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			destination = EXCLUDED.destination,
			status = EXCLUDED.status,
			total = EXCLUDED.total,
			payment_method = EXCLUDED.payment_method,
			updated_at = EXCLUDED.updated_at`,
		o.ID, o.CustomerID, o.Destination, o.Status, o.Total, o.PaymentMethod,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM customer_order WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (r orderRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM customer_order WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, "SELECT "+orderColumns+" FROM customer_order ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+orderColumns+" FROM customer_order WHERE customer_id = $1 ORDER BY created_at, id", customerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (r orderRepo) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+orderColumns+" FROM customer_order WHERE status = $1 ORDER BY created_at, id", status)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

type orderItemRepo struct {
	db querier
}

func scanOrderItem(row pgx.Row) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := row.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.PriceAtPurchase)
	if err != nil {
		return domain.OrderItem{}, translateErr(err)
	}
	return it, nil
}

func (r orderItemRepo) Get(ctx context.Context, id uuid.UUID) (domain.OrderItem, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, order_id, book_id, quantity, price_at_purchase FROM order_item WHERE id = $1", id)
	return scanOrderItem(row)
}

func (r orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, order_id, book_id, quantity, price_at_purchase FROM order_item WHERE order_id = $1 ORDER BY book_id",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r orderItemRepo) Save(ctx context.Context, it domain.OrderItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO order_item (id, order_id, book_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		it.ID, it.OrderID, it.BookID, it.Quantity, it.PriceAtPurchase,
	)
	if err != nil {
		return fmt.Errorf("failed to save order item: %w", err)
	}
	return nil
}

func (r orderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM order_item WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}
	return nil
}

func (r orderItemRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM order_item WHERE order_id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	return nil
}
