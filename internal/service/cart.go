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

// CartService manages shopping carts. A customer's active cart is their most
// recently created one; a successful checkout empties it.
type CartService interface {
	// GetOrCreateActiveCart returns the customer's active cart, creating one
	// if they have none.
	GetOrCreateActiveCart(ctx context.Context, customerID uuid.UUID) (domain.Cart, error)

	// AddItem puts quantity units of a book into the cart. If the book is
	// already in the cart the quantities merge into the existing line.
	AddItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) (domain.CartItem, error)

	// UpdateItemQuantity replaces a line's quantity. Zero and negative
	// quantities are rejected; use RemoveItem to drop a line.
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (domain.CartItem, error)

	// RemoveItem deletes a line from the cart. Removing an absent item is
	// not an error.
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error

	// Clear removes every line from the cart.
	Clear(ctx context.Context, cartID uuid.UUID) error

	// Summary returns the cart's lines joined with current book data plus
	// running totals.
	Summary(ctx context.Context, cartID uuid.UUID) (domain.CartSummary, error)
}

type cartService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewCartService(store repository.Store, logger *slog.Logger) CartService {
	return &cartService{store: store, logger: logger}
}

func (s *cartService) GetOrCreateActiveCart(ctx context.Context, customerID uuid.UUID) (domain.Cart, error) {
	exists, err := s.store.Customers().ExistsByID(ctx, customerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return domain.Cart{}, domain.ErrCustomerNotFound
	}

	cart, err := s.store.Carts().FindLatestByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNoRows) {
		return domain.Cart{}, fmt.Errorf("failed to find cart: %w", err)
	}

	cart = domain.Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.Carts().Save(ctx, cart); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart created",
		slog.String("cart_id", cart.ID.String()),
		slog.String("customer_id", customerID.String()),
	)
	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, cartID, bookID uuid.UUID, quantity int) (domain.CartItem, error) {
	if quantity <= 0 {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}

	var item domain.CartItem
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		// Lock the cart row so concurrent adds merge instead of clobbering
		// each other's quantities.
		if _, err := tx.Carts().GetForUpdate(ctx, cartID); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrCartNotFound
			}
			return fmt.Errorf("failed to load cart: %w", err)
		}

		book, err := tx.Books().Get(ctx, bookID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("failed to load book: %w", err)
		}
		if book.Status != domain.BookStatusAvailable {
			return domain.ErrBookUnavailable
		}

		existing, err := tx.CartItems().FindByCartAndBook(ctx, cartID, bookID)
		switch {
		case err == nil:
			merged := existing.Quantity + quantity
			if merged > book.Stock {
				return ErrInsufficientStock
			}
			existing.Quantity = merged
			item = existing
		case errors.Is(err, repository.ErrNoRows):
			if quantity > book.Stock {
				return ErrInsufficientStock
			}
			item = domain.CartItem{
				ID:       uuid.New(),
				CartID:   cartID,
				BookID:   bookID,
				Quantity: quantity,
			}
		default:
			return fmt.Errorf("failed to find cart item: %w", err)
		}

		return tx.CartItems().Save(ctx, item)
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (domain.CartItem, error) {
	if quantity <= 0 {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}

	var item domain.CartItem
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Carts().GetForUpdate(ctx, cartID); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrCartNotFound
			}
			return fmt.Errorf("failed to load cart: %w", err)
		}

		it, err := tx.CartItems().Get(ctx, itemID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrCartItemNotFound
			}
			return fmt.Errorf("failed to load cart item: %w", err)
		}
		if it.CartID != cartID {
			return ErrOwnershipMismatch
		}

		book, err := tx.Books().Get(ctx, it.BookID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("failed to load book: %w", err)
		}
		if quantity > book.Stock {
			return ErrInsufficientStock
		}

		it.Quantity = quantity
		if err := tx.CartItems().Save(ctx, it); err != nil {
			return err
		}
		item = it
		return nil
	})
	if err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	item, err := s.store.CartItems().Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			// Already gone; removal is idempotent.
			return nil
		}
		return fmt.Errorf("failed to load cart item: %w", err)
	}
	if item.CartID != cartID {
		return ErrOwnershipMismatch
	}
	return s.store.CartItems().Delete(ctx, itemID)
}

func (s *cartService) Clear(ctx context.Context, cartID uuid.UUID) error {
	exists, err := s.store.Carts().ExistsByID(ctx, cartID)
	if err != nil {
		return fmt.Errorf("failed to check cart: %w", err)
	}
	if !exists {
		return domain.ErrCartNotFound
	}
	return s.store.CartItems().DeleteByCart(ctx, cartID)
}

func (s *cartService) Summary(ctx context.Context, cartID uuid.UUID) (domain.CartSummary, error) {
	cart, err := s.store.Carts().Get(ctx, cartID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.CartSummary{}, domain.ErrCartNotFound
		}
		return domain.CartSummary{}, fmt.Errorf("failed to load cart: %w", err)
	}

	items, err := s.store.CartItems().ListByCart(ctx, cartID)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("failed to list cart items: %w", err)
	}

	summary := domain.CartSummary{
		Cart:       cart,
		TotalPrice: decimal.Zero,
	}
	for _, it := range items {
		book, err := s.store.Books().Get(ctx, it.BookID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				// Book deleted since it was added; skip the stale line.
				continue
			}
			return domain.CartSummary{}, fmt.Errorf("failed to load book: %w", err)
		}

		subtotal := book.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		summary.Items = append(summary.Items, domain.CartSummaryItem{
			Item:         it,
			BookTitle:    book.Title,
			UnitPrice:    book.Price,
			LineSubtotal: subtotal,
		})
		summary.ItemCount += it.Quantity
		summary.TotalPrice = summary.TotalPrice.Add(subtotal)
	}
	return summary, nil
}
