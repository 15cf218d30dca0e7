// Package repository defines the transactional storage abstraction the
// services run against. Implementations: postgres (pgx) and memory (tests,
// local runs).
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
)

// ErrNoRows is returned by every Get/Find method when no row matches.
// Implementations translate their driver's miss sentinel into this one.
var ErrNoRows = errors.New("repository: no rows in result set")

// Store bundles the entity repositories behind a single transactional
// boundary. WithTx runs fn against a Store view whose writes commit together
// or not at all; nesting WithTx is not supported.
type Store interface {
	Books() BookRepository
	Customers() CustomerRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository

	// WithTx executes fn inside a transaction. If fn returns an error the
	// transaction is rolled back and the error is returned unchanged.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// BookRepository persists books.
type BookRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Book, error)

	// GetForUpdate reads a book under an exclusive per-row lock. Only valid
	// inside WithTx; the lock is held until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Book, error)

	Save(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error)
	List(ctx context.Context) ([]domain.Book, error)
	ListByStatus(ctx context.Context, status domain.BookStatus) ([]domain.Book, error)
	ListByGenre(ctx context.Context, genre string) ([]domain.Book, error)
	ListByAuthor(ctx context.Context, author string) ([]domain.Book, error)
	Search(ctx context.Context, filter domain.BookSearchFilter) (domain.BookSearchResult, error)
	Genres(ctx context.Context) ([]string, error)
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	GetByUsername(ctx context.Context, username string) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	Save(ctx context.Context, customer domain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]domain.Customer, error)
}

// CartRepository persists carts.
type CartRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Cart, error)

	// GetForUpdate reads a cart under an exclusive per-row lock, serializing
	// concurrent operations on the same cart. Only valid inside WithTx.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Cart, error)

	Save(ctx context.Context, cart domain.Cart) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// FindLatestByCustomer returns the customer's most recently created cart,
	// or ErrNoRows if they have none.
	FindLatestByCustomer(ctx context.Context, customerID uuid.UUID) (domain.Cart, error)
}

// CartItemRepository persists cart line items.
type CartItemRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.CartItem, error)
	FindByCartAndBook(ctx context.Context, cartID, bookID uuid.UUID) (domain.CartItem, error)
	ListByCart(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error)
	Save(ctx context.Context, item domain.CartItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCart(ctx context.Context, cartID uuid.UUID) error
}

// OrderRepository persists orders.
type OrderRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Order, error)

	// GetForUpdate reads an order under an exclusive per-row lock, so two
	// transactions mutating the same order see each other's status flips.
	// Only valid inside WithTx.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error)

	Save(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

// OrderItemRepository persists order line items.
type OrderItemRepository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	Save(ctx context.Context, item domain.OrderItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) error
}
