package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopnow/api/handlers"
	"shopnow/internal/config"
	"shopnow/internal/models"
	"shopnow/internal/services"
)

func main() {
	// Load environment variables from .env file; absence is fine, plain
	// environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Initialize services
	catalogService := services.NewCatalogService()
	catalogService.InitSampleData()

	cartService := services.NewCartService(logger)
	favoritesService := services.NewFavoritesService()

	capability := services.NewStaticCapability(
		cfg.NotifySupported,
		models.PermissionState(cfg.NotifyDecision),
	)
	notificationService := services.NewNotificationService(capability, logger)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, catalogService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService, catalogService)

	router := setupRouter(cfg, logger, productHandler, cartHandler, notificationHandler, favoritesHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run server in goroutine
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.HTTPPort), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server shutdown complete")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Env == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zapConfig.Level = level
	}

	return zapConfig.Build()
}

func setupRouter(
	cfg config.Config,
	logger *zap.Logger,
	productHandler *handlers.ProductHandler,
	cartHandler *handlers.CartHandler,
	notificationHandler *handlers.NotificationHandler,
	favoritesHandler *handlers.FavoritesHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(handlers.RequestLogger(logger))
	router.Use(gin.Recovery())

	// API Routes
	api := router.Group("/api")
	{
		// Product routes
		products := api.Group("/products")
		{
			products.GET("/", productHandler.GetAllProducts)
			products.GET("/search", productHandler.SearchProducts)
			products.GET("/:id", productHandler.GetProductByID)
		}

		// Cart routes
		cart := api.Group("/cart")
		{
			cart.GET("/", cartHandler.GetCart)
			cart.GET("/events", cartHandler.StreamCartEvents)
			cart.POST("/items", cartHandler.AddToCart)
			cart.PUT("/items/:product_id", cartHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", cartHandler.RemoveCartItem)
		}

		// Notification prompt routes
		notifications := api.Group("/notifications")
		{
			notifications.GET("/prompt", notificationHandler.GetPrompt)
			notifications.POST("/request", notificationHandler.RequestPermission)
			notifications.POST("/dismiss", notificationHandler.DismissPrompt)
		}

		// Favorites routes
		favorites := api.Group("/favorites")
		{
			favorites.GET("/", favoritesHandler.GetFavorites)
			favorites.POST("/:product_id", favoritesHandler.ToggleFavorite)
		}

		// Health check
		api.GET("/health", productHandler.HealthCheck)
	}

	return router
}
