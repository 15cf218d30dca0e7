// Package api implements the JSON API handlers.
package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/handler"
)

// pathUUID parses a UUID path segment, returning an EINVALID error for
// malformed values.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("api", name+" must be a valid UUID")
	}
	return id, nil
}

// Money is serialized as a fixed two-decimal string.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type bookResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toBookResponse(b domain.Book) bookResponse {
	return bookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		Cover:       b.Cover,
		Price:       money(b.Price),
		Stock:       b.Stock,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

type orderResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	Destination   string    `json:"destination"`
	Status        string    `json:"status"`
	Total         string    `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Destination:   o.Destination,
		Status:        string(o.Status),
		Total:         money(o.Total),
		PaymentMethod: string(o.PaymentMethod),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

type orderItemResponse struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"order_id"`
	BookID          uuid.UUID `json:"book_id"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase string    `json:"price_at_purchase"`
}

func toOrderItemResponse(it domain.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:              it.ID,
		OrderID:         it.OrderID,
		BookID:          it.BookID,
		Quantity:        it.Quantity,
		PriceAtPurchase: money(it.PriceAtPurchase),
	}
}

func toOrderItemResponses(items []domain.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toOrderItemResponse(it))
	}
	return out
}

type orderSummaryResponse struct {
	Order      orderResponse       `json:"order"`
	Items      []orderItemResponse `json:"items"`
	TotalItems int                 `json:"total_items"`
}

func toOrderSummaryResponse(s domain.OrderSummary) orderSummaryResponse {
	return orderSummaryResponse{
		Order:      toOrderResponse(s.Order),
		Items:      toOrderItemResponses(s.Items),
		TotalItems: s.TotalItems,
	}
}

type customerResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Username:  c.Username,
		Name:      c.Name,
		Email:     c.Email,
		Role:      string(c.Role),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// respond and fail keep the handler bodies short.
func respond(w http.ResponseWriter, status int, v any) {
	handler.RespondJSON(w, status, v)
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	handler.ErrorResponse(w, r, err)
}
