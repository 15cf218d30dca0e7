package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
)

type cartRepo struct {
	db querier
}

func scanCart(row pgx.Row) (domain.Cart, error) {
	var c domain.Cart
	if err := row.Scan(&c.ID, &c.CustomerID, &c.CreatedAt); err != nil {
		return domain.Cart{}, translateErr(err)
	}
	return c, nil
}

func (r cartRepo) Get(ctx context.Context, id uuid.UUID) (domain.Cart, error) {
	row := r.db.QueryRow(ctx, "SELECT id, customer_id, created_at FROM cart WHERE id = $1", id)
	return scanCart(row)
}

func (r cartRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Cart, error) {
	row := r.db.QueryRow(ctx, "SELECT id, customer_id, created_at FROM cart WHERE id = $1 FOR UPDATE", id)
	return scanCart(row)
}

func (r cartRepo) Save(ctx context.Context, c domain.Cart) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart (id, customer_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`,
		c.ID, c.CustomerID, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r cartRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM cart WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r cartRepo) FindLatestByCustomer(ctx context.Context, customerID uuid.UUID) (domain.Cart, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, customer_id, created_at FROM cart
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, customerID)
	return scanCart(row)
}

type cartItemRepo struct {
	db querier
}

func scanCartItem(row pgx.Row) (domain.CartItem, error) {
	var it domain.CartItem
	if err := row.Scan(&it.ID, &it.CartID, &it.BookID, &it.Quantity); err != nil {
		return domain.CartItem{}, translateErr(err)
	}
	return it, nil
}

func (r cartItemRepo) Get(ctx context.Context, id uuid.UUID) (domain.CartItem, error) {
	row := r.db.QueryRow(ctx, "SELECT id, cart_id, book_id, quantity FROM cart_item WHERE id = $1", id)
	return scanCartItem(row)
}

func (r cartItemRepo) FindByCartAndBook(ctx context.Context, cartID, bookID uuid.UUID) (domain.CartItem, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, cart_id, book_id, quantity FROM cart_item WHERE cart_id = $1 AND book_id = $2",
		cartID, bookID)
	return scanCartItem(row)
}

func (r cartItemRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, cart_id, book_id, quantity FROM cart_item WHERE cart_id = $1 ORDER BY book_id", cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r cartItemRepo) Save(ctx context.Context, it domain.CartItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_item (id, cart_id, book_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		it.ID, it.CartID, it.BookID, it.Quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

func (r cartItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM cart_item WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

func (r cartItemRepo) DeleteByCart(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM cart_item WHERE cart_id = $1", cartID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
