// Package service implements the business rules on top of the repository
// layer. Services own all invariants; handlers only translate HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
)

// InventoryService is the single authority over book stock and availability
// status. All stock movement in the system funnels through it, directly or
// via the in-transaction helper the checkout and order services share.
type InventoryService interface {
	// AdjustStock changes a book's stock by delta (positive or negative) and
	// applies the status rules atomically. Returns the updated book.
	AdjustStock(ctx context.Context, bookID uuid.UUID, delta int) (domain.Book, error)

	// SetStatus sets a book's availability status. Setting available with
	// zero stock is rejected.
	SetStatus(ctx context.Context, bookID uuid.UUID, status domain.BookStatus) (domain.Book, error)
}

type inventoryService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewInventoryService(store repository.Store, logger *slog.Logger) InventoryService {
	return &inventoryService{store: store, logger: logger}
}

func (s *inventoryService) AdjustStock(ctx context.Context, bookID uuid.UUID, delta int) (domain.Book, error) {
	var book domain.Book
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		book, err = adjustStock(ctx, tx, bookID, delta)
		return err
	})
	if err != nil {
		return domain.Book{}, err
	}

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("book_id", bookID.String()),
		slog.Int("delta", delta),
		slog.Int("stock", book.Stock),
		slog.String("status", string(book.Status)),
	)
	return book, nil
}

func (s *inventoryService) SetStatus(ctx context.Context, bookID uuid.UUID, status domain.BookStatus) (domain.Book, error) {
	if !status.Valid() {
		return domain.Book{}, &domain.Error{Code: domain.EINVALID, Message: "Unknown book status", Op: "inventory.SetStatus"}
	}

	var book domain.Book
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		b, err := tx.Books().GetForUpdate(ctx, bookID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("failed to load book: %w", err)
		}

		if status == domain.BookStatusAvailable && b.Stock == 0 {
			return ErrInvalidTransition
		}

		b.Status = status
		b.UpdatedAt = time.Now().UTC()
		if err := tx.Books().Save(ctx, b); err != nil {
			return err
		}
		book = b
		return nil
	})
	if err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// adjustStock applies a stock delta to a book inside an existing transaction
// and keeps status consistent with the new level:
//
//   - stock hitting zero forces out_of_stock
//   - a refill promotes out_of_stock back to available
//   - upcoming books keep their status when stocked; release is an explicit
//     SetStatus call
//
// A delta that would take stock negative fails with ErrInsufficientStock.
func adjustStock(ctx context.Context, tx repository.Store, bookID uuid.UUID, delta int) (domain.Book, error) {
	b, err := tx.Books().GetForUpdate(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.Book{}, domain.ErrBookNotFound
		}
		return domain.Book{}, fmt.Errorf("failed to load book: %w", err)
	}

	next := b.Stock + delta
	if next < 0 {
		return domain.Book{}, ErrInsufficientStock
	}

	b.Stock = next
	switch {
	case next == 0:
		b.Status = domain.BookStatusOutOfStock
	case b.Status == domain.BookStatusOutOfStock:
		b.Status = domain.BookStatusAvailable
	}
	b.UpdatedAt = time.Now().UTC()

	if err := tx.Books().Save(ctx, b); err != nil {
		return domain.Book{}, fmt.Errorf("failed to save book: %w", err)
	}
	return b, nil
}
