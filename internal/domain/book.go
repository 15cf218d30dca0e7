package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book domain errors.
var (
	ErrBookNotFound    = &Error{Code: ENOTFOUND, Message: "Book not found"}
	ErrBookUnavailable = &Error{Code: EINVALID, Message: "Book is not available"}
	ErrDuplicateBook   = &Error{Code: ECONFLICT, Message: "A book with this title and author already exists"}
)

// BookStatus is the availability state of a book in the catalog.
type BookStatus string

const (
	BookStatusUpcoming   BookStatus = "upcoming"
	BookStatusAvailable  BookStatus = "available"
	BookStatusOutOfStock BookStatus = "out_of_stock"
)

// Valid reports whether s is one of the known statuses.
func (s BookStatus) Valid() bool {
	switch s {
	case BookStatusUpcoming, BookStatusAvailable, BookStatusOutOfStock:
		return true
	}
	return false
}

// Book represents a title in the catalog. Stock and Status are owned by the
// inventory ledger: outside of it they are read-only.
type Book struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Genre       string
	Description string
	Cover       string
	Price       decimal.Decimal
	Stock       int
	Status      BookStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidPrice reports whether d is usable as a book price: non-negative with
// at most two fractional digits.
func ValidPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Exponent() >= -2
}

// BookSearchFilter narrows a catalog search. Zero values mean "no filter".
type BookSearchFilter struct {
	// Query matches title or author, case-insensitive substring.
	Query  string
	Status BookStatus
	Genre  string

	// Paging and sorting.
	Page      int
	Size      int
	SortField string
	SortDesc  bool
}

// BookSearchResult is one page of a catalog search.
type BookSearchResult struct {
	Books       []Book
	CurrentPage int
	TotalItems  int
	TotalPages  int
}
