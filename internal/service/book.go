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

// CreateBookInput carries the fields for adding a title to the catalog.
type CreateBookInput struct {
	Title       string
	Author      string
	Genre       string
	Description string
	Cover       string
	Price       decimal.Decimal
	Stock       int
	Status      domain.BookStatus
}

// UpdateBookInput carries catalog edits. Nil fields are left unchanged.
// Stock and status are deliberately absent: they belong to the inventory
// service.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	Genre       *string
	Description *string
	Cover       *string
	Price       *decimal.Decimal
}

// BookService manages the catalog. Stock and status mutations go through
// InventoryService.
type BookService interface {
	Create(ctx context.Context, input CreateBookInput) (domain.Book, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (domain.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	ListByStatus(ctx context.Context, status domain.BookStatus) ([]domain.Book, error)
	ListByGenre(ctx context.Context, genre string) ([]domain.Book, error)
	ListByAuthor(ctx context.Context, author string) ([]domain.Book, error)
	Search(ctx context.Context, filter domain.BookSearchFilter) (domain.BookSearchResult, error)
	Genres(ctx context.Context) ([]string, error)
}

type bookService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewBookService(store repository.Store, logger *slog.Logger) BookService {
	return &bookService{store: store, logger: logger}
}

func (s *bookService) Create(ctx context.Context, input CreateBookInput) (domain.Book, error) {
	const op = "book.Create"
	if input.Title == "" {
		return domain.Book{}, domain.Invalid(op, "Title is required")
	}
	if input.Author == "" {
		return domain.Book{}, domain.Invalid(op, "Author is required")
	}
	if !domain.ValidPrice(input.Price) {
		return domain.Book{}, domain.Invalid(op, "Price must be non-negative with at most two decimal places")
	}
	if input.Stock < 0 {
		return domain.Book{}, domain.Invalid(op, "Stock cannot be negative")
	}

	status := input.Status
	if status == "" {
		if input.Stock > 0 {
			status = domain.BookStatusAvailable
		} else {
			status = domain.BookStatusOutOfStock
		}
	}
	if !status.Valid() {
		return domain.Book{}, domain.Invalid(op, "Unknown book status")
	}
	if status == domain.BookStatusAvailable && input.Stock == 0 {
		return domain.Book{}, domain.Invalid(op, "An available book must have stock")
	}

	dup, err := s.store.Books().ExistsByTitleAndAuthor(ctx, input.Title, input.Author)
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to check for duplicate book: %w", err)
	}
	if dup {
		return domain.Book{}, domain.ErrDuplicateBook
	}

	now := time.Now().UTC()
	book := domain.Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Author:      input.Author,
		Genre:       input.Genre,
		Description: input.Description,
		Cover:       input.Cover,
		Price:       input.Price,
		Stock:       input.Stock,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Books().Save(ctx, book); err != nil {
		return domain.Book{}, fmt.Errorf("failed to save book: %w", err)
	}

	s.logger.InfoContext(ctx, "book created",
		slog.String("book_id", book.ID.String()),
		slog.String("title", book.Title),
	)
	return book, nil
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, input UpdateBookInput) (domain.Book, error) {
	const op = "book.Update"

	var book domain.Book
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		b, err := tx.Books().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("failed to load book: %w", err)
		}

		if input.Title != nil {
			if *input.Title == "" {
				return domain.Invalid(op, "Title cannot be empty")
			}
			b.Title = *input.Title
		}
		if input.Author != nil {
			if *input.Author == "" {
				return domain.Invalid(op, "Author cannot be empty")
			}
			b.Author = *input.Author
		}
		if input.Genre != nil {
			b.Genre = *input.Genre
		}
		if input.Description != nil {
			b.Description = *input.Description
		}
		if input.Cover != nil {
			b.Cover = *input.Cover
		}
		if input.Price != nil {
			if !domain.ValidPrice(*input.Price) {
				return domain.Invalid(op, "Price must be non-negative with at most two decimal places")
			}
			b.Price = *input.Price
		}

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

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.store.Books().ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return domain.ErrBookNotFound
	}

	if err := s.store.Books().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "book deleted", slog.String("book_id", id.String()))
	return nil
}

func (s *bookService) Get(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	book, err := s.store.Books().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.Book{}, domain.ErrBookNotFound
		}
		return domain.Book{}, fmt.Errorf("failed to load book: %w", err)
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.store.Books().List(ctx)
}

func (s *bookService) ListByStatus(ctx context.Context, status domain.BookStatus) ([]domain.Book, error) {
	if !status.Valid() {
		return nil, domain.Invalid("book.ListByStatus", "Unknown book status")
	}
	return s.store.Books().ListByStatus(ctx, status)
}

func (s *bookService) ListByGenre(ctx context.Context, genre string) ([]domain.Book, error) {
	return s.store.Books().ListByGenre(ctx, genre)
}

func (s *bookService) ListByAuthor(ctx context.Context, author string) ([]domain.Book, error) {
	return s.store.Books().ListByAuthor(ctx, author)
}

func (s *bookService) Search(ctx context.Context, filter domain.BookSearchFilter) (domain.BookSearchResult, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.BookSearchResult{}, domain.Invalid("book.Search", "Unknown book status")
	}
	return s.store.Books().Search(ctx, filter)
}

func (s *bookService) Genres(ctx context.Context) ([]string, error) {
	return s.store.Books().Genres(ctx)
}
