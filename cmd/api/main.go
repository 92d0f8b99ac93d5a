package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"velan-store/internal/auth"
	"velan-store/internal/cache"
	"velan-store/internal/config"
	"velan-store/internal/database"
	"velan-store/internal/handler"
	"velan-store/internal/payment"
	"velan-store/internal/repository"
	"velan-store/internal/router"
	"velan-store/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development overrides; a missing .env is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting velan-store API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize the optional catalogue cache with a no-op fallback
	var railCache cache.Cache
	if cfg.Redis.Enabled {
		railCache, err = cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, serving rails from the database")
			railCache = cache.NewNoopCache()
		}
	} else {
		railCache = cache.NewNoopCache()
		logger.Info().Msg("catalogue cache disabled")
	}
	defer railCache.Close()

	// Select the payment provider once at startup
	var provider payment.Provider
	if cfg.Razorpay.Configured() {
		provider = payment.NewRazorpayProvider(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, logger)
		logger.Info().Msg("razorpay payment provider configured")
	} else {
		provider = payment.NewDemoProvider(logger)
		logger.Warn().Msg("payment credentials missing, running in demo mode")
	}

	// Token signing and password hashing
	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL)
	passwords := auth.NewPasswords(0)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	reviewRepo := repository.NewReviewRepository(pool, logger)
	designRepo := repository.NewDesignRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, passwords, logger)
	userService := service.NewUserService(userRepo, logger)
	productService := service.NewProductService(productRepo, reviewRepo, railCache, cfg.Redis.CacheTTL, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, couponRepo, userRepo, reviewRepo, provider, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, orderRepo, logger)
	designService := service.NewDesignService(designRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(authService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
		Review:   handler.NewReviewHandler(reviewService, logger),
		Wishlist: handler.NewWishlistHandler(wishlistService, logger),
		Design:   handler.NewDesignHandler(designService, logger),
		User:     handler.NewUserHandler(userService, logger),
	}, tokens, userRepo, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
