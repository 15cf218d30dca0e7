package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
)

func newBook(title, author string, price string, stock int) domain.Book {
	return domain.Book{
		ID:        uuid.New(),
		Title:     title,
		Author:    author,
		Genre:     "Fiction",
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Status:    domain.BookStatusAvailable,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := NewStore()

	_, err := store.Books().Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNoRows)

	_, err = store.Orders().Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNoRows)
}

func TestStore_SaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	book := newBook("The Go Programming Language", "Donovan", "39.99", 10)
	require.NoError(t, store.Books().Save(ctx, book))

	got, err := store.Books().Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
	assert.True(t, book.Price.Equal(got.Price))
}

func TestStore_WithTxCommit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	book := newBook("Dune", "Herbert", "12.50", 5)
	require.NoError(t, store.Books().Save(ctx, book))

	err := store.WithTx(ctx, func(tx repository.Store) error {
		b, err := tx.Books().GetForUpdate(ctx, book.ID)
		if err != nil {
			return err
		}
		b.Stock -= 3
		return tx.Books().Save(ctx, b)
	})
	require.NoError(t, err)

	got, err := store.Books().Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestStore_WithTxRollback(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	book := newBook("Dune", "Herbert", "12.50", 5)
	require.NoError(t, store.Books().Save(ctx, book))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx repository.Store) error {
		b, err := tx.Books().GetForUpdate(ctx, book.ID)
		if err != nil {
			return err
		}
		b.Stock = 0
		if err := tx.Books().Save(ctx, b); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Books().Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock, "failed transaction must leave the store untouched")
}

func TestStore_FindLatestByCustomer(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	customerID := uuid.New()

	older := domain.Cart{ID: uuid.New(), CustomerID: customerID, CreatedAt: time.Now().Add(-time.Hour)}
	newer := domain.Cart{ID: uuid.New(), CustomerID: customerID, CreatedAt: time.Now()}
	require.NoError(t, store.Carts().Save(ctx, older))
	require.NoError(t, store.Carts().Save(ctx, newer))

	got, err := store.Carts().FindLatestByCustomer(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = store.Carts().FindLatestByCustomer(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNoRows)
}

func TestStore_Search(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	books := []domain.Book{
		newBook("A Wizard of Earthsea", "Le Guin", "9.99", 3),
		newBook("The Left Hand of Darkness", "Le Guin", "11.99", 0),
		newBook("Dune", "Herbert", "12.50", 7),
	}
	books[1].Status = domain.BookStatusOutOfStock
	for _, b := range books {
		require.NoError(t, store.Books().Save(ctx, b))
	}

	t.Run("by author query", func(t *testing.T) {
		res, err := store.Books().Search(ctx, domain.BookSearchFilter{Query: "le guin"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalItems)
	})

	t.Run("by status", func(t *testing.T) {
		res, err := store.Books().Search(ctx, domain.BookSearchFilter{Status: domain.BookStatusAvailable})
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalItems)
	})

	t.Run("paging", func(t *testing.T) {
		res, err := store.Books().Search(ctx, domain.BookSearchFilter{Size: 2})
		require.NoError(t, err)
		assert.Len(t, res.Books, 2)
		assert.Equal(t, 3, res.TotalItems)
		assert.Equal(t, 2, res.TotalPages)

		res, err = store.Books().Search(ctx, domain.BookSearchFilter{Size: 2, Page: 1})
		require.NoError(t, err)
		assert.Len(t, res.Books, 1)
	})
}

func TestStore_DeleteByCart(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	cartID := uuid.New()
	otherCartID := uuid.New()
	for _, id := range []uuid.UUID{cartID, cartID, otherCartID} {
		item := domain.CartItem{ID: uuid.New(), CartID: id, BookID: uuid.New(), Quantity: 1}
		require.NoError(t, store.CartItems().Save(ctx, item))
	}

	require.NoError(t, store.CartItems().DeleteByCart(ctx, cartID))

	items, err := store.CartItems().ListByCart(ctx, cartID)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = store.CartItems().ListByCart(ctx, otherCartID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
