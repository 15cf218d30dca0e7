package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
)

// OrderItemService edits the lines of a pending order. Every edit moves
// stock and recomputes the order total in the same transaction, so the
// total always equals the sum over the items.
type OrderItemService interface {
	// AddItem puts quantity units of a book on a pending order at the book's
	// current price, decrementing stock. Adding a book already on the order
	// merges quantities and keeps the original purchase price.
	AddItem(ctx context.Context, orderID, bookID uuid.UUID, quantity int) (domain.OrderItem, error)

	// RemoveItem drops a line from a pending order and returns its units to
	// inventory.
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error

	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
}

type orderItemService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewOrderItemService(store repository.Store, logger *slog.Logger) OrderItemService {
	return &orderItemService{store: store, logger: logger}
}

func (s *orderItemService) AddItem(ctx context.Context, orderID, bookID uuid.UUID, quantity int) (domain.OrderItem, error) {
	if quantity <= 0 {
		return domain.OrderItem{}, domain.ErrInvalidQuantity
	}

	var item domain.OrderItem
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		order, err := loadPendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		book, err := adjustStock(ctx, tx, bookID, -quantity)
		if err != nil {
			return err
		}

		existing, err := findOrderItem(ctx, tx, orderID, bookID)
		switch {
		case err == nil:
			existing.Quantity += quantity
			item = existing
		case errors.Is(err, repository.ErrNoRows):
			item = domain.OrderItem{
				ID:              uuid.New(),
				OrderID:         orderID,
				BookID:          bookID,
				Quantity:        quantity,
				PriceAtPurchase: book.Price,
			}
		default:
			return err
		}

		if err := tx.OrderItems().Save(ctx, item); err != nil {
			return err
		}
		return recomputeTotal(ctx, tx, order)
	})
	if err != nil {
		return domain.OrderItem{}, err
	}

	s.logger.InfoContext(ctx, "order item added",
		slog.String("order_id", orderID.String()),
		slog.String("book_id", bookID.String()),
		slog.Int("quantity", quantity),
	)
	return item, nil
}

func (s *orderItemService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		order, err := loadPendingOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		item, err := tx.OrderItems().Get(ctx, itemID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrOrderItemNotFound
			}
			return fmt.Errorf("failed to load order item: %w", err)
		}
		if item.OrderID != orderID {
			return ErrOwnershipMismatch
		}

		if _, err := adjustStock(ctx, tx, item.BookID, item.Quantity); err != nil {
			if !errors.Is(err, domain.ErrBookNotFound) {
				return err
			}
			// Book no longer exists; drop the line without restock.
		}

		if err := tx.OrderItems().Delete(ctx, itemID); err != nil {
			return err
		}
		return recomputeTotal(ctx, tx, order)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order item removed",
		slog.String("order_id", orderID.String()),
		slog.String("item_id", itemID.String()),
	)
	return nil
}

func (s *orderItemService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	exists, err := s.store.Orders().ExistsByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check order: %w", err)
	}
	if !exists {
		return nil, domain.ErrOrderNotFound
	}
	return s.store.OrderItems().ListByOrder(ctx, orderID)
}

// loadPendingOrder locks an order row and rejects edits to non-pending
// ones. The lock serializes concurrent edits of the same order.
func loadPendingOrder(ctx context.Context, tx repository.Store, orderID uuid.UUID) (domain.Order, error) {
	order, err := tx.Orders().GetForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	if order.Status != domain.OrderStatusPending {
		return domain.Order{}, ErrInvalidTransition
	}
	return order, nil
}

// findOrderItem locates an order's line for a given book.
func findOrderItem(ctx context.Context, tx repository.Store, orderID, bookID uuid.UUID) (domain.OrderItem, error) {
	items, err := tx.OrderItems().ListByOrder(ctx, orderID)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("failed to list order items: %w", err)
	}
	for _, it := range items {
		if it.BookID == bookID {
			return it, nil
		}
	}
	return domain.OrderItem{}, repository.ErrNoRows
}

// recomputeTotal rewrites the order total from its items.
func recomputeTotal(ctx context.Context, tx repository.Store, order domain.Order) error {
	items, err := tx.OrderItems().ListByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to list order items: %w", err)
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.PriceAtPurchase.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	order.Total = total
	order.UpdatedAt = time.Now().UTC()
	return tx.Orders().Save(ctx, order)
}
