// Package routes maps the API surface onto handlers.
package routes

import (
	"github.com/PhucCodee/LuffysBookstore/internal/handler/api"
	"github.com/PhucCodee/LuffysBookstore/internal/router"
)

// APIDeps contains the handlers behind /api.
type APIDeps struct {
	Books     *api.BookHandler
	Carts     *api.CartHandler
	Orders    *api.OrderHandler
	Customers *api.CustomerHandler
}

// RegisterAPIRoutes registers the JSON API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Catalog
	r.Get("/api/books", deps.Books.List)
	r.Get("/api/books/search", deps.Books.Search)
	r.Get("/api/books/genres", deps.Books.Genres)
	r.Get("/api/books/{bookId}", deps.Books.Get)
	r.Post("/api/books", deps.Books.Create)
	r.Patch("/api/books/{bookId}", deps.Books.Update)
	r.Delete("/api/books/{bookId}", deps.Books.Delete)

	// Inventory
	r.Patch("/api/books/{bookId}/stock", deps.Books.AdjustStock)
	r.Patch("/api/books/{bookId}/status", deps.Books.SetStatus)

	// Carts and checkout
	r.Get("/api/customers/{customerId}/cart", deps.Carts.ActiveCart)
	r.Get("/api/carts/{cartId}", deps.Carts.Summary)
	r.Post("/api/carts/{cartId}/items", deps.Carts.AddItem)
	r.Patch("/api/carts/{cartId}/items/{itemId}", deps.Carts.UpdateItem)
	r.Delete("/api/carts/{cartId}/items/{itemId}", deps.Carts.RemoveItem)
	r.Delete("/api/carts/{cartId}/items", deps.Carts.Clear)
	r.Post("/api/carts/{cartId}/checkout", deps.Carts.Checkout)

	// Orders
	r.Post("/api/orders", deps.Orders.Create)
	r.Get("/api/orders", deps.Orders.List)
	r.Get("/api/orders/{orderId}", deps.Orders.Get)
	r.Get("/api/customers/{customerId}/orders", deps.Orders.ListByCustomer)
	r.Patch("/api/orders/{orderId}/status", deps.Orders.TransitionStatus)
	r.Post("/api/orders/{orderId}/cancel", deps.Orders.Cancel)
	r.Delete("/api/orders/{orderId}", deps.Orders.Delete)
	r.Get("/api/orders/{orderId}/items", deps.Orders.ListItems)
	r.Post("/api/orders/{orderId}/items", deps.Orders.AddItem)
	r.Delete("/api/orders/{orderId}/items/{itemId}", deps.Orders.RemoveItem)

	// Accounts
	r.Post("/api/customers", deps.Customers.Create)
	r.Get("/api/customers", deps.Customers.List)
	r.Get("/api/customers/username/{username}", deps.Customers.GetByUsername)
	r.Get("/api/customers/{customerId}", deps.Customers.Get)
	r.Patch("/api/customers/{customerId}", deps.Customers.Update)
	r.Delete("/api/customers/{customerId}", deps.Customers.Delete)
}
