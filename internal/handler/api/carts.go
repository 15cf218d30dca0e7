package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/handler"
	"github.com/PhucCodee/LuffysBookstore/internal/service"
)

// CartHandler serves cart and checkout endpoints.
type CartHandler struct {
	carts    service.CartService
	checkout service.CheckoutService
	logger   *slog.Logger
}

func NewCartHandler(carts service.CartService, checkout service.CheckoutService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{carts: carts, checkout: checkout, logger: logger}
}

type cartResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type cartItemResponse struct {
	ID       uuid.UUID `json:"id"`
	CartID   uuid.UUID `json:"cart_id"`
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

func toCartItemResponse(it domain.CartItem) cartItemResponse {
	return cartItemResponse{ID: it.ID, CartID: it.CartID, BookID: it.BookID, Quantity: it.Quantity}
}

type cartSummaryItemResponse struct {
	cartItemResponse
	BookTitle    string `json:"book_title"`
	UnitPrice    string `json:"unit_price"`
	LineSubtotal string `json:"line_subtotal"`
}

type cartSummaryResponse struct {
	Cart       cartResponse              `json:"cart"`
	Items      []cartSummaryItemResponse `json:"items"`
	ItemCount  int                       `json:"item_count"`
	TotalPrice string                    `json:"total_price"`
}

// ActiveCart handles GET /api/customers/{customerId}/cart.
func (h *CartHandler) ActiveCart(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "customerId")
	if err != nil {
		fail(w, r, err)
		return
	}

	cart, err := h.carts.GetOrCreateActiveCart(r.Context(), customerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, cartResponse{ID: cart.ID, CustomerID: cart.CustomerID, CreatedAt: cart.CreatedAt})
}

// Summary handles GET /api/carts/{cartId}.
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartId")
	if err != nil {
		fail(w, r, err)
		return
	}

	summary, err := h.carts.Summary(r.Context(), cartID)
	if err != nil {
		fail(w, r, err)
		return
	}

	resp := cartSummaryResponse{
		Cart: cartResponse{
			ID:         summary.Cart.ID,
			CustomerID: summary.Cart.CustomerID,
			CreatedAt:  summary.Cart.CreatedAt,
		},
		Items:      make([]cartSummaryItemResponse, 0, len(summary.Items)),
		ItemCount:  summary.ItemCount,
		TotalPrice: money(summary.TotalPrice),
	}
	for _, it := range summary.Items {
		resp.Items = append(resp.Items, cartSummaryItemResponse{
			cartItemResponse: toCartItemResponse(it.Item),
			BookTitle:        it.BookTitle,
			UnitPrice:        money(it.UnitPrice),
			LineSubtotal:     money(it.LineSubtotal),
		})
	}
	respond(w, http.StatusOK, resp)
}

type addCartItemRequest struct {
	BookID   uuid.UUID `json:"book_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// AddItem handles POST /api/carts/{cartId}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req addCartItemRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	item, err := h.carts.AddItem(r.Context(), cartID, req.BookID, req.Quantity)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toCartItemResponse(item))
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// UpdateItem handles PATCH /api/carts/{cartId}/items/{itemId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartId")
	if err != nil {
		fail(w, r, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req updateCartItemRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	item, err := h.carts.UpdateItemQuantity(r.Context(), cartID, itemID, req.Quantity)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCartItemResponse(item))
}

// RemoveItem handles DELETE /api/carts/{cartId}/items/{itemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartId")
	if err != nil {
		fail(w, r, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.carts.RemoveItem(r.Context(), cartID, itemID); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/carts/{cartId}/items.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartId")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.carts.Clear(r.Context(), cartID); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkoutRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" validate:"required"`
	Destination   string    `json:"destination" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=electronic_banking cash_on_delivery credit_card"`
}

// Checkout handles POST /api/carts/{cartId}/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathUUID(r, "cartId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req checkoutRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	summary, err := h.checkout.Checkout(r.Context(), cartID, service.CheckoutInput{
		CustomerID:    req.CustomerID,
		Destination:   req.Destination,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toOrderSummaryResponse(summary))
}
