package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/SankalpJangid/jewellary-ecommerce/internal/cache"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/cart"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/checkout"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/events"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/gateway"
	h "github.com/SankalpJangid/jewellary-ecommerce/internal/http"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/payment"
)

type Config struct {
	HTTPPort            string
	BackendBaseURL      string
	JWTSecret           string
	RedisAddr           string // empty disables the cart session cache
	KafkaBrokers        string // empty disables checkout events
	RazorpayKeyID       string
	MerchantName        string
	MerchantDescription string
	RequestTimeout      time.Duration
	BackendTimeout      time.Duration
	ShutdownTimeout     time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		BackendBaseURL:      getEnv("BACKEND_BASE_URL", "http://localhost:8000/api"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", ""),
		RazorpayKeyID:       getEnv("RAZORPAY_KEY_ID", "rzp_test_RKcclTBtTFN1El"),
		MerchantName:        getEnv("MERCHANT_NAME", "Luxe Adorn"),
		MerchantDescription: getEnv("MERCHANT_DESCRIPTION", "Premium Jewelry Purchase"),
		RequestTimeout:      30 * time.Second,
		BackendTimeout:      10 * time.Second,
		ShutdownTimeout:     10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	var cartCache cache.CartCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		cartCache = cache.NewRedisCache(client)
		log.Printf("cart session cache enabled at %s", cfg.RedisAddr)
	}

	var publisher checkout.Publisher
	if cfg.KafkaBrokers != "" {
		kp := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kp.Close()
		publisher = kp
		log.Printf("checkout events enabled via %s", cfg.KafkaBrokers)
	}

	carts := cart.NewStore(cartCache)
	backend := gateway.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	bridge := payment.NewHostedCheckout(cfg.RazorpayKeyID, cfg.MerchantName, cfg.MerchantDescription)
	orchestrator := checkout.NewOrchestrator(carts, backend, bridge, publisher)

	cartHandler := h.NewCartHandler(carts)
	checkoutHandler := h.NewCheckoutHandler(orchestrator, cfg.RequestTimeout)
	catalogHandler := h.NewCatalogHandler(backend, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog
		r.Get("/categories", catalogHandler.ListCategories)
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{slug}", catalogHandler.GetProduct)

		// Authenticated storefront
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware(cfg.JWTSecret))

			r.Get("/profile", catalogHandler.Profile)
			r.Get("/addresses", catalogHandler.ListAddresses)
			r.Get("/orders", catalogHandler.ListOrders)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", checkoutHandler.Submit)
				r.Get("/state", checkoutHandler.State)
				r.Post("/payment/callback", checkoutHandler.PaymentCallback)
				r.Post("/payment/dismiss", checkoutHandler.PaymentDismiss)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
