package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/aetherstore/storefront/internal/cache"
	"github.com/aetherstore/storefront/internal/cart"
	"github.com/aetherstore/storefront/internal/checkout"
	"github.com/aetherstore/storefront/internal/domain"
	storehttp "github.com/aetherstore/storefront/internal/http"
	"github.com/aetherstore/storefront/internal/ledger"
	"github.com/aetherstore/storefront/internal/publisher"
	"github.com/aetherstore/storefront/internal/repository"
)

type Config struct {
	HTTPPort        string
	RedisAddr       string
	KafkaBrokers    string
	OrdersBackend   string
	CatalogBackend  string
	MongoURI        string
	MongoDatabase   string
	AdminPassword   string
	AdminSecretCode string
	AdminToken      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		OrdersBackend:   getEnv("ORDERS_BACKEND", "memory"),
		CatalogBackend:  getEnv("CATALOG_BACKEND", "memory"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "storefront"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "change-me"),
		AdminSecretCode: getEnv("ADMIN_SECRET_CODE", "change-me-too"),
		AdminToken:      getEnv("ADMIN_TOKEN", "operator-token"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := loadConfig()
	ctx := context.Background()

	// Catalog store
	var products repository.ProductRepository
	switch cfg.CatalogBackend {
	case "mongo":
		db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			logger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		mongoStore := repository.NewMongoProductStore(db)
		if err := mongoStore.CreateIndexes(ctx); err != nil {
			logger.Fatal("failed to create mongo indexes", zap.Error(err))
		}
		products = mongoStore
	default:
		memStore := repository.NewMemoryProductStore()
		seedCatalog(ctx, memStore)
		products = memStore
	}

	// Order store
	var orders repository.OrderRepository
	switch cfg.OrdersBackend {
	case "postgres":
		port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
		if err != nil {
			logger.Fatal("invalid DB_PORT", zap.Error(err))
		}
		creds := &repository.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              port,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "storefront"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),
		}
		pgStore, err := repository.NewPostgresOrderStore(creds)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		if err := pgStore.RunMigrations(creds); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations completed")
		orders = pgStore
	default:
		orders = repository.NewMemoryOrderStore()
	}
	defer orders.Close()

	users := repository.NewMemoryUserStore()
	configStore := repository.NewMemoryConfigStore(defaultStorefrontConfig())

	// Order events publisher (optional)
	var events checkout.EventPublisher
	if cfg.KafkaBrokers != "" {
		orderEvents := publisher.NewOrderEvents(logger, strings.Split(cfg.KafkaBrokers, ",")...)
		defer orderEvents.Close()
		events = orderEvents
		logger.Info("order events publisher enabled", zap.String("brokers", cfg.KafkaBrokers))
	}

	// Cart session cache
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	cartCache := cache.NewRedisCache(redisClient)

	checkoutService := checkout.NewService(products, users, orders, configStore, events, logger)
	cartService := cart.NewService(products, cartCache, logger)
	ledgerService := ledger.NewService(orders)

	ordersHandler := storehttp.NewOrdersHandler(checkoutService, cfg.RequestTimeout)
	productsHandler := storehttp.NewProductsHandler(products, cfg.RequestTimeout)
	configHandler := storehttp.NewConfigHandler(configStore, cfg.RequestTimeout)
	cartHandler := storehttp.NewCartHandler(cartService, cfg.RequestTimeout)
	usersHandler := storehttp.NewUsersHandler(users, cfg.RequestTimeout)
	loyaltyHandler := storehttp.NewLoyaltyHandler(ledgerService, users, cfg.RequestTimeout)
	authHandler := storehttp.NewAuthHandler(cfg.AdminPassword, cfg.AdminSecretCode, cfg.AdminToken)

	adminOnly := storehttp.AdminOnly(cfg.AdminToken)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(storehttp.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productsHandler.List)
			r.Get("/{product_id}", productsHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/", productsHandler.Create)
				r.Put("/{product_id}", productsHandler.Update)
				r.Delete("/{product_id}", productsHandler.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordersHandler.CreateOrder)
			r.Get("/me", ordersHandler.MyOrders)
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", ordersHandler.ListOrders)
				r.Get("/{order_id}", ordersHandler.GetOrder)
				r.Put("/{order_id}", ordersHandler.UpdateStatus)
			})
		})

		r.Post("/users", usersHandler.Register)
		r.Get("/users/{user_id}", usersHandler.Get)

		r.Route("/config", func(r chi.Router) {
			r.Get("/", configHandler.Get)
			r.With(adminOnly).Put("/", configHandler.Update)
		})

		r.Route("/loyalty", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/ledger", loyaltyHandler.Ledger)
			r.Get("/reconcile/{user_id}", loyaltyHandler.Reconcile)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func defaultStorefrontConfig() domain.StorefrontConfig {
	return domain.StorefrontConfig{
		Shipping: domain.ShippingConfig{
			FreeShippingThreshold: 150,
			FlatRate:              17.99,
			TaxRate:               13,
			PickupLocation:        "315 Queen St W, Toronto",
			AllowPayOnArrival:     true,
		},
		Loyalty: domain.LoyaltyConfig{
			Enabled:            true,
			PointsPerDollar:    10,
			PointsToDollarRate: 120,
		},
	}
}

// seedCatalog loads the demo products the storefront ships with.
func seedCatalog(ctx context.Context, store *repository.MemoryProductStore) {
	now := time.Now()
	for _, p := range []*domain.Product{
		{
			ID:          "1",
			Name:        "Aether Wireless Headphones",
			Description: "Premium noise-canceling headphones with crystal clear sound and 40-hour battery life.",
			Price:       299.99,
			Category:    "Electronics",
			Stock:       15,
			CreatedAt:   now,
		},
		{
			ID:          "2",
			Name:        "Lumina Smart Watch",
			Description: "Elegant health tracking with a vibrant OLED display and week-long battery.",
			Price:       199.99,
			Category:    "Wearables",
			Stock:       25,
			CreatedAt:   now,
		},
		{
			ID:          "3",
			Name:        "Terra Ceramic Coffee Set",
			Description: "Hand-crafted minimalist ceramic set including four mugs and a matching carafe.",
			Price:       89.99,
			Category:    "Home",
			Stock:       10,
			CreatedAt:   now,
		},
	} {
		_ = store.CreateProduct(ctx, p)
	}
}
