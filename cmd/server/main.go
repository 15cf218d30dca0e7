package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/PhucCodee/LuffysBookstore/internal"
	"github.com/PhucCodee/LuffysBookstore/internal/events"
	"github.com/PhucCodee/LuffysBookstore/internal/handler/api"
	"github.com/PhucCodee/LuffysBookstore/internal/middleware"
	"github.com/PhucCodee/LuffysBookstore/internal/postgres"
	"github.com/PhucCodee/LuffysBookstore/internal/router"
	"github.com/PhucCodee/LuffysBookstore/internal/routes"
	"github.com/PhucCodee/LuffysBookstore/internal/service"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := postgres.Connect(ctx, cfg.DatabaseUrl)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.NewStore(pool)

	// Initialize event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsUrl != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsUrl)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("Order event publisher connected", "url", cfg.NatsUrl)
	}

	// Initialize services
	bookService := service.NewBookService(store, logger)
	inventoryService := service.NewInventoryService(store, logger)
	cartService := service.NewCartService(store, logger)
	checkoutService := service.NewCheckoutService(store, publisher, logger)
	orderService := service.NewOrderService(store, publisher, logger)
	orderItemService := service.NewOrderItemService(store, logger)
	customerService := service.NewCustomerService(store, logger)

	// Initialize Prometheus metrics
	metrics := middleware.NewMetrics("bookstore")

	// Create router and register routes
	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.CORS(cfg.CORSOrigins),
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Books:     api.NewBookHandler(bookService, inventoryService, logger),
		Carts:     api.NewCartHandler(cartService, checkoutService, logger),
		Orders:    api.NewOrderHandler(orderService, orderItemService, logger),
		Customers: api.NewCustomerHandler(customerService, logger),
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
