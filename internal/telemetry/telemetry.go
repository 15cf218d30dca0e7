// Package telemetry holds the business-level Prometheus metrics. HTTP-level
// metrics live in the middleware package.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookstore",
		Name:      "orders_placed_total",
		Help:      "Orders successfully created through checkout.",
	})

	OrdersCanceled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookstore",
		Name:      "orders_canceled_total",
		Help:      "Orders canceled by customers or admins.",
	})

	CheckoutStockConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookstore",
		Name:      "checkout_stock_conflicts_total",
		Help:      "Checkouts rejected because stock was insufficient.",
	})
)
