// Package memory provides an in-memory repository.Store. It backs the test
// suites and local runs without a database. Transactions are applied
// copy-on-write against a private snapshot, so a failed transaction leaves
// no trace, and they are fully serialized: the per-row locking a database
// would do is subsumed by the transaction mutex.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
)

// Store is an in-memory implementation of repository.Store.
type Store struct {
	// txMu serializes all mutating operations and transactions.
	txMu sync.Mutex

	// mu guards data for readers racing the commit swap.
	mu   sync.RWMutex
	data *dataset
}

type dataset struct {
	books      map[uuid.UUID]domain.Book
	customers  map[uuid.UUID]domain.Customer
	carts      map[uuid.UUID]domain.Cart
	cartItems  map[uuid.UUID]domain.CartItem
	orders     map[uuid.UUID]domain.Order
	orderItems map[uuid.UUID]domain.OrderItem
}

func newDataset() *dataset {
	return &dataset{
		books:      make(map[uuid.UUID]domain.Book),
		customers:  make(map[uuid.UUID]domain.Customer),
		carts:      make(map[uuid.UUID]domain.Cart),
		cartItems:  make(map[uuid.UUID]domain.CartItem),
		orders:     make(map[uuid.UUID]domain.Order),
		orderItems: make(map[uuid.UUID]domain.OrderItem),
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.books {
		c.books[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = v
	}
	for k, v := range d.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.orderItems {
		c.orderItems[k] = v
	}
	return c
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Books() repository.BookRepository           { return bookRepo{repoBase{s: s}} }
func (s *Store) Customers() repository.CustomerRepository   { return customerRepo{repoBase{s: s}} }
func (s *Store) Carts() repository.CartRepository           { return cartRepo{repoBase{s: s}} }
func (s *Store) CartItems() repository.CartItemRepository   { return cartItemRepo{repoBase{s: s}} }
func (s *Store) Orders() repository.OrderRepository         { return orderRepo{repoBase{s: s}} }
func (s *Store) OrderItems() repository.OrderItemRepository { return orderItemRepo{repoBase{s: s}} }

// WithTx runs fn against a snapshot of the store. The snapshot replaces the
// live dataset only if fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(&txStore{data: snapshot}); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
	return nil
}

// read runs fn with a consistent view of the dataset.
func (s *Store) read(fn func(*dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// write runs fn as a single-operation transaction.
func (s *Store) write(fn func(*dataset) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// txStore is the Store view handed to a WithTx callback. It operates on the
// private snapshot without locking: the transaction mutex already serializes
// access.
type txStore struct {
	data *dataset
}

var _ repository.Store = (*txStore)(nil)

func (t *txStore) Books() repository.BookRepository           { return bookRepo{repoBase{tx: t}} }
func (t *txStore) Customers() repository.CustomerRepository   { return customerRepo{repoBase{tx: t}} }
func (t *txStore) Carts() repository.CartRepository           { return cartRepo{repoBase{tx: t}} }
func (t *txStore) CartItems() repository.CartItemRepository   { return cartItemRepo{repoBase{tx: t}} }
func (t *txStore) Orders() repository.OrderRepository         { return orderRepo{repoBase{tx: t}} }
func (t *txStore) OrderItems() repository.OrderItemRepository { return orderItemRepo{repoBase{tx: t}} }

func (t *txStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	// Already inside a transaction; run against the same snapshot.
	return fn(t)
}

// repoBase dispatches an operation to either the live store or a snapshot.
type repoBase struct {
	s  *Store
	tx *txStore
}

func (r repoBase) read(fn func(*dataset)) {
	if r.tx != nil {
		fn(r.tx.data)
		return
	}
	r.s.read(fn)
}

func (r repoBase) write(fn func(*dataset) error) error {
	if r.tx != nil {
		return fn(r.tx.data)
	}
	return r.s.write(fn)
}

// =============================================================================
// Books
// =============================================================================

type bookRepo struct{ repoBase }

func (r bookRepo) Get(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	var (
		book domain.Book
		ok   bool
	)
	r.read(func(d *dataset) { book, ok = d.books[id] })
	if !ok {
		return domain.Book{}, repository.ErrNoRows
	}
	return book, nil
}

// GetForUpdate behaves like Get: transactions are serialized, so the
// snapshot itself is the lock.
func (r bookRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	return r.Get(ctx, id)
}

func (r bookRepo) Save(ctx context.Context, book domain.Book) error {
	return r.write(func(d *dataset) error {
		d.books[book.ID] = book
		return nil
	})
}

func (r bookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(func(d *dataset) error {
		delete(d.books, id)
		return nil
	})
}

func (r bookRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.read(func(d *dataset) { _, ok = d.books[id] })
	return ok, nil
}

func (r bookRepo) ExistsByTitleAndAuthor(ctx context.Context, title, author string) (bool, error) {
	var found bool
	r.read(func(d *dataset) {
		for _, b := range d.books {
			if strings.EqualFold(b.Title, title) && strings.EqualFold(b.Author, author) {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r bookRepo) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	r.read(func(d *dataset) {
		for _, b := range d.books {
			books = append(books, b)
		}
	})
	sortBooks(books)
	return books, nil
}

func (r bookRepo) ListByStatus(ctx context.Context, status domain.BookStatus) ([]domain.Book, error) {
	return r.listWhere(func(b domain.Book) bool { return b.Status == status })
}

func (r bookRepo) ListByGenre(ctx context.Context, genre string) ([]domain.Book, error) {
	return r.listWhere(func(b domain.Book) bool { return strings.EqualFold(b.Genre, genre) })
}

func (r bookRepo) ListByAuthor(ctx context.Context, author string) ([]domain.Book, error) {
	needle := strings.ToLower(author)
	return r.listWhere(func(b domain.Book) bool {
		return strings.Contains(strings.ToLower(b.Author), needle)
	})
}

func (r bookRepo) listWhere(match func(domain.Book) bool) ([]domain.Book, error) {
	var books []domain.Book
	r.read(func(d *dataset) {
		for _, b := range d.books {
			if match(b) {
				books = append(books, b)
			}
		}
	})
	sortBooks(books)
	return books, nil
}

func (r bookRepo) Search(ctx context.Context, filter domain.BookSearchFilter) (domain.BookSearchResult, error) {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	var matched []domain.Book
	r.read(func(d *dataset) {
		for _, b := range d.books {
			if query != "" &&
				!strings.Contains(strings.ToLower(b.Title), query) &&
				!strings.Contains(strings.ToLower(b.Author), query) {
				continue
			}
			if filter.Status != "" && b.Status != filter.Status {
				continue
			}
			if filter.Genre != "" && !strings.EqualFold(b.Genre, filter.Genre) {
				continue
			}
			matched = append(matched, b)
		}
	})

	sort.Slice(matched, func(i, j int) bool {
		less := bookFieldLess(matched[i], matched[j], filter.SortField)
		if filter.SortDesc {
			return !less
		}
		return less
	})

	size := filter.Size
	if size <= 0 {
		size = 10
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	total := len(matched)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return domain.BookSearchResult{
		Books:       matched[start:end],
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  totalPages,
	}, nil
}

func (r bookRepo) Genres(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var genres []string
	r.read(func(d *dataset) {
		for _, b := range d.books {
			if b.Genre == "" {
				continue
			}
			if _, ok := seen[b.Genre]; ok {
				continue
			}
			seen[b.Genre] = struct{}{}
			genres = append(genres, b.Genre)
		}
	})
	sort.Strings(genres)
	return genres, nil
}

func bookFieldLess(a, b domain.Book, field string) bool {
	switch field {
	case "author":
		return strings.ToLower(a.Author) < strings.ToLower(b.Author)
	case "price":
		return a.Price.LessThan(b.Price)
	case "createdAt", "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	default:
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
}

func sortBooks(books []domain.Book) {
	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.Before(books[j].CreatedAt)
		}
		return books[i].ID.String() < books[j].ID.String()
	})
}

// =============================================================================
// Customers
// =============================================================================

type customerRepo struct{ repoBase }

func (r customerRepo) Get(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	var (
		c  domain.Customer
		ok bool
	)
	r.read(func(d *dataset) { c, ok = d.customers[id] })
	if !ok {
		return domain.Customer{}, repository.ErrNoRows
	}
	return c, nil
}

func (r customerRepo) GetByUsername(ctx context.Context, username string) (domain.Customer, error) {
	return r.getWhere(func(c domain.Customer) bool { return c.Username == username })
}

func (r customerRepo) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.getWhere(func(c domain.Customer) bool { return strings.EqualFold(c.Email, email) })
}

func (r customerRepo) getWhere(match func(domain.Customer) bool) (domain.Customer, error) {
	var (
		found domain.Customer
		ok    bool
	)
	r.read(func(d *dataset) {
		for _, c := range d.customers {
			if match(c) {
				found, ok = c, true
				return
			}
		}
	})
	if !ok {
		return domain.Customer{}, repository.ErrNoRows
	}
	return found, nil
}

func (r customerRepo) Save(ctx context.Context, customer domain.Customer) error {
	return r.write(func(d *dataset) error {
		d.customers[customer.ID] = customer
		return nil
	})
}

func (r customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(func(d *dataset) error {
		delete(d.customers, id)
		return nil
	})
}

func (r customerRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.read(func(d *dataset) { _, ok = d.customers[id] })
	return ok, nil
}

func (r customerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	r.read(func(d *dataset) {
		for _, c := range d.customers {
			customers = append(customers, c)
		}
	})
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].Username < customers[j].Username
	})
	return customers, nil
}

// =============================================================================
// Carts
// =============================================================================

type cartRepo struct{ repoBase }

func (r cartRepo) Get(ctx context.Context, id uuid.UUID) (domain.Cart, error) {
	var (
		c  domain.Cart
		ok bool
	)
	r.read(func(d *dataset) { c, ok = d.carts[id] })
	if !ok {
		return domain.Cart{}, repository.ErrNoRows
	}
	return c, nil
}

// GetForUpdate behaves like Get, see bookRepo.GetForUpdate.
func (r cartRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Cart, error) {
	return r.Get(ctx, id)
}

func (r cartRepo) Save(ctx context.Context, cart domain.Cart) error {
	return r.write(func(d *dataset) error {
		d.carts[cart.ID] = cart
		return nil
	})
}

func (r cartRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.read(func(d *dataset) { _, ok = d.carts[id] })
	return ok, nil
}

func (r cartRepo) FindLatestByCustomer(ctx context.Context, customerID uuid.UUID) (domain.Cart, error) {
	var (
		latest domain.Cart
		found  bool
	)
	r.read(func(d *dataset) {
		for _, c := range d.carts {
			if c.CustomerID != customerID {
				continue
			}
			if !found || c.CreatedAt.After(latest.CreatedAt) {
				latest, found = c, true
			}
		}
	})
	if !found {
		return domain.Cart{}, repository.ErrNoRows
	}
	return latest, nil
}

// =============================================================================
// Cart items
// =============================================================================

type cartItemRepo struct{ repoBase }

func (r cartItemRepo) Get(ctx context.Context, id uuid.UUID) (domain.CartItem, error) {
	var (
		item domain.CartItem
		ok   bool
	)
	r.read(func(d *dataset) { item, ok = d.cartItems[id] })
	if !ok {
		return domain.CartItem{}, repository.ErrNoRows
	}
	return item, nil
}

func (r cartItemRepo) FindByCartAndBook(ctx context.Context, cartID, bookID uuid.UUID) (domain.CartItem, error) {
	var (
		found domain.CartItem
		ok    bool
	)
	r.read(func(d *dataset) {
		for _, it := range d.cartItems {
			if it.CartID == cartID && it.BookID == bookID {
				found, ok = it, true
				return
			}
		}
	})
	if !ok {
		return domain.CartItem{}, repository.ErrNoRows
	}
	return found, nil
}

func (r cartItemRepo) ListByCart(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	var items []domain.CartItem
	r.read(func(d *dataset) {
		for _, it := range d.cartItems {
			if it.CartID == cartID {
				items = append(items, it)
			}
		}
	})
	sort.Slice(items, func(i, j int) bool {
		return items[i].BookID.String() < items[j].BookID.String()
	})
	return items, nil
}

func (r cartItemRepo) Save(ctx context.Context, item domain.CartItem) error {
	return r.write(func(d *dataset) error {
		d.cartItems[item.ID] = item
		return nil
	})
}

func (r cartItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(func(d *dataset) error {
		delete(d.cartItems, id)
		return nil
	})
}

func (r cartItemRepo) DeleteByCart(ctx context.Context, cartID uuid.UUID) error {
	return r.write(func(d *dataset) error {
		for id, it := range d.cartItems {
			if it.CartID == cartID {
				delete(d.cartItems, id)
			}
		}
		return nil
	})
}

// =============================================================================
// Orders
// =============================================================================

type orderRepo struct{ repoBase }

func (r orderRepo) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var (
		o  domain.Order
		ok bool
	)
	r.read(func(d *dataset) { o, ok = d.orders[id] })
	if !ok {
		return domain.Order{}, repository.ErrNoRows
	}
	return o, nil
}

// GetForUpdate behaves like Get, see bookRepo.GetForUpdate.
func (r orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return r.Get(ctx, id)
}

func (r orderRepo) Save(ctx context.Context, order domain.Order) error {
	return r.write(func(d *dataset) error {
		d.orders[order.ID] = order
		return nil
	})
}

func (r orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(func(d *dataset) error {
		delete(d.orders, id)
		return nil
	})
}

func (r orderRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	r.read(func(d *dataset) { _, ok = d.orders[id] })
	return ok, nil
}

func (r orderRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.listWhere(func(domain.Order) bool { return true })
}

func (r orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	return r.listWhere(func(o domain.Order) bool { return o.CustomerID == customerID })
}

func (r orderRepo) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return r.listWhere(func(o domain.Order) bool { return o.Status == status })
}

func (r orderRepo) listWhere(match func(domain.Order) bool) ([]domain.Order, error) {
	var orders []domain.Order
	r.read(func(d *dataset) {
		for _, o := range d.orders {
			if match(o) {
				orders = append(orders, o)
			}
		}
	})
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
		return orders[i].ID.String() < orders[j].ID.String()
	})
	return orders, nil
}

// =============================================================================
// Order items
// =============================================================================

type orderItemRepo struct{ repoBase }

func (r orderItemRepo) Get(ctx context.Context, id uuid.UUID) (domain.OrderItem, error) {
	var (
		item domain.OrderItem
		ok   bool
	)
	r.read(func(d *dataset) { item, ok = d.orderItems[id] })
	if !ok {
		return domain.OrderItem{}, repository.ErrNoRows
	}
	return item, nil
}

func (r orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	r.read(func(d *dataset) {
		for _, it := range d.orderItems {
			if it.OrderID == orderID {
				items = append(items, it)
			}
		}
	})
	sort.Slice(items, func(i, j int) bool {
		return items[i].BookID.String() < items[j].BookID.String()
	})
	return items, nil
}

func (r orderItemRepo) Save(ctx context.Context, item domain.OrderItem) error {
	return r.write(func(d *dataset) error {
		d.orderItems[item.ID] = item
		return nil
	})
}

func (r orderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.write(func(d *dataset) error {
		delete(d.orderItems, id)
		return nil
	})
}

func (r orderItemRepo) DeleteByOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.write(func(d *dataset) error {
		for id, it := range d.orderItems {
			if it.OrderID == orderID {
				delete(d.orderItems, id)
			}
		}
		return nil
	})
}
