package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/handler"
	"github.com/PhucCodee/LuffysBookstore/internal/service"
)

// BookHandler serves the catalog and inventory endpoints.
type BookHandler struct {
	books     service.BookService
	inventory service.InventoryService
	logger    *slog.Logger
}

func NewBookHandler(books service.BookService, inventory service.InventoryService, logger *slog.Logger) *BookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookHandler{books: books, inventory: inventory, logger: logger}
}

type createBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
	Price       string `json:"price" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Status      string `json:"status" validate:"omitempty,oneof=upcoming available out_of_stock"`
}

// Create handles POST /api/books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		fail(w, r, domain.Invalid("book.create", "Price must be a decimal number"))
		return
	}

	book, err := h.books.Create(r.Context(), service.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
		Cover:       req.Cover,
		Price:       price,
		Stock:       req.Stock,
		Status:      domain.BookStatus(req.Status),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toBookResponse(book))
}

// Get handles GET /api/books/{bookId}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookId")
	if err != nil {
		fail(w, r, err)
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toBookResponse(book))
}

// List handles GET /api/books with optional status, genre and author
// filters.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		books []domain.Book
		err   error
	)
	switch {
	case q.Get("status") != "":
		books, err = h.books.ListByStatus(r.Context(), domain.BookStatus(q.Get("status")))
	case q.Get("genre") != "":
		books, err = h.books.ListByGenre(r.Context(), q.Get("genre"))
	case q.Get("author") != "":
		books, err = h.books.ListByAuthor(r.Context(), q.Get("author"))
	default:
		books, err = h.books.List(r.Context())
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toBookResponses(books))
}

// Search handles GET /api/books/search.
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	result, err := h.books.Search(r.Context(), domain.BookSearchFilter{
		Query:     q.Get("query"),
		Status:    domain.BookStatus(q.Get("status")),
		Genre:     q.Get("genre"),
		Page:      page,
		Size:      size,
		SortField: q.Get("sort"),
		SortDesc:  q.Get("order") == "desc",
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"books":        toBookResponses(result.Books),
		"current_page": result.CurrentPage,
		"total_items":  result.TotalItems,
		"total_pages":  result.TotalPages,
	})
}

// Genres handles GET /api/books/genres.
func (h *BookHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.books.Genres(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"genres": genres})
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Genre       *string `json:"genre"`
	Description *string `json:"description"`
	Cover       *string `json:"cover"`
	Price       *string `json:"price"`
}

// Update handles PATCH /api/books/{bookId}.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req updateBookRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	input := service.UpdateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
		Cover:       req.Cover,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			fail(w, r, domain.Invalid("book.update", "Price must be a decimal number"))
			return
		}
		input.Price = &price
	}

	book, err := h.books.Update(r.Context(), id, input)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toBookResponse(book))
}

// Delete handles DELETE /api/books/{bookId}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookId")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.books.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// AdjustStock handles PATCH /api/books/{bookId}/stock.
func (h *BookHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req adjustStockRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	book, err := h.inventory.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toBookResponse(book))
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=upcoming available out_of_stock"`
}

// SetStatus handles PATCH /api/books/{bookId}/status.
func (h *BookHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "bookId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req setStatusRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	book, err := h.inventory.SetStatus(r.Context(), id, domain.BookStatus(req.Status))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toBookResponse(book))
}
