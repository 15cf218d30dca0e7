package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
	"github.com/PhucCodee/LuffysBookstore/internal/repository/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedBook(t *testing.T, store *memory.Store, price string, stock int, status domain.BookStatus) domain.Book {
	t.Helper()
	book := domain.Book{
		ID:        uuid.New(),
		Title:     "Book " + uuid.NewString()[:8],
		Author:    "Author",
		Genre:     "Fiction",
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Books().Save(context.Background(), book))
	return book
}

func seedCustomer(t *testing.T, store *memory.Store) domain.Customer {
	t.Helper()
	customer := domain.Customer{
		ID:        uuid.New(),
		Username:  "user-" + uuid.NewString()[:8],
		Name:      "Test Customer",
		Email:     uuid.NewString()[:8] + "@example.com",
		Role:      domain.RoleCustomer,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Customers().Save(context.Background(), customer))
	return customer
}

func seedCart(t *testing.T, store *memory.Store, customerID uuid.UUID) domain.Cart {
	t.Helper()
	cart := domain.Cart{ID: uuid.New(), CustomerID: customerID, CreatedAt: time.Now()}
	require.NoError(t, store.Carts().Save(context.Background(), cart))
	return cart
}

func seedCartItem(t *testing.T, store *memory.Store, cartID, bookID uuid.UUID, qty int) domain.CartItem {
	t.Helper()
	item := domain.CartItem{ID: uuid.New(), CartID: cartID, BookID: bookID, Quantity: qty}
	require.NoError(t, store.CartItems().Save(context.Background(), item))
	return item
}

func seedOrder(t *testing.T, store *memory.Store, customerID uuid.UUID, status domain.OrderStatus) domain.Order {
	t.Helper()
	now := time.Now()
	order := domain.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Destination:   "12 Grimmauld Place",
		Status:        status,
		Total:         decimal.Zero,
		PaymentMethod: domain.PaymentCreditCard,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.Orders().Save(context.Background(), order))
	return order
}

func seedOrderItem(t *testing.T, store *memory.Store, orderID, bookID uuid.UUID, qty int, price string) domain.OrderItem {
	t.Helper()
	item := domain.OrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
		BookID:          bookID,
		Quantity:        qty,
		PriceAtPurchase: decimal.RequireFromString(price),
	}
	require.NoError(t, store.OrderItems().Save(context.Background(), item))
	return item
}

// staleReadStore models read-committed visibility between two database
// connections: a plain read of a captured row returns the state from before
// the other transaction committed, while GetForUpdate waits out the lock and
// sees the live row. Wrapping the memory store this way exposes paths that
// read mutable rows without locking them.
type staleReadStore struct {
	repository.Store
	staleOrders    map[uuid.UUID]domain.Order
	staleCartLines map[uuid.UUID][]domain.CartItem
	lockedCarts    map[uuid.UUID]bool
}

func newStaleReadStore(s repository.Store) *staleReadStore {
	return &staleReadStore{
		Store:          s,
		staleOrders:    make(map[uuid.UUID]domain.Order),
		staleCartLines: make(map[uuid.UUID][]domain.CartItem),
	}
}

// captureOrder freezes the row unlocked reads will keep returning.
func (s *staleReadStore) captureOrder(o domain.Order) {
	s.staleOrders[o.ID] = o
}

// captureCartLines freezes what unlocked reads of the cart's items return.
func (s *staleReadStore) captureCartLines(cartID uuid.UUID, lines []domain.CartItem) {
	s.staleCartLines[cartID] = lines
}

func (s *staleReadStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(&staleReadStore{
			Store:          tx,
			staleOrders:    s.staleOrders,
			staleCartLines: s.staleCartLines,
			lockedCarts:    make(map[uuid.UUID]bool),
		})
	})
}

func (s *staleReadStore) Orders() repository.OrderRepository {
	return staleOrderRepo{OrderRepository: s.Store.Orders(), stale: s.staleOrders}
}

func (s *staleReadStore) Carts() repository.CartRepository {
	return staleCartRepo{CartRepository: s.Store.Carts(), locked: s.lockedCarts}
}

func (s *staleReadStore) CartItems() repository.CartItemRepository {
	return staleCartItemRepo{
		CartItemRepository: s.Store.CartItems(),
		stale:              s.staleCartLines,
		locked:             s.lockedCarts,
	}
}

type staleOrderRepo struct {
	repository.OrderRepository
	stale map[uuid.UUID]domain.Order
}

func (r staleOrderRepo) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	if o, ok := r.stale[id]; ok {
		return o, nil
	}
	return r.OrderRepository.Get(ctx, id)
}

type staleCartRepo struct {
	repository.CartRepository
	locked map[uuid.UUID]bool
}

func (r staleCartRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Cart, error) {
	if r.locked != nil {
		r.locked[id] = true
	}
	return r.CartRepository.GetForUpdate(ctx, id)
}

type staleCartItemRepo struct {
	repository.CartItemRepository
	stale  map[uuid.UUID][]domain.CartItem
	locked map[uuid.UUID]bool
}

func (r staleCartItemRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	if lines, ok := r.stale[cartID]; ok && !r.locked[cartID] {
		return lines, nil
	}
	return r.CartItemRepository.ListByCart(ctx, cartID)
}
