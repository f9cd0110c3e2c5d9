package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"gamevault-api/internal/cache"
	"gamevault-api/internal/config"
	"gamevault-api/internal/handler"
	"gamevault-api/internal/middleware"
	"gamevault-api/internal/repository"
	"gamevault-api/internal/router"
	"gamevault-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting GameVault API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Connect to MongoDB
	db, err := repository.NewMongo(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx, cfg.OTP.UnverifiedUserTTL); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// Repositories
	userRepo := repository.NewMongoUserRepository(db)
	gameRepo := repository.NewMongoGameRepository(db)
	cartRepo := repository.NewMongoCartRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)
	keyRepo := repository.NewMongoGameKeyRepository(db)
	postRepo := repository.NewMongoPostRepository(db)
	commentRepo := repository.NewMongoCommentRepository(db)
	txnRunner := repository.NewMongoTxnRunner(db)

	// Catalog cache: Redis when configured and reachable, in-memory otherwise
	var catalogCache cache.Cache = cache.NewMemoryCache()
	if cfg.Cache.Type == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis connection failed, using memory cache: %v", err)
		} else {
			catalogCache = cache.NewRedisCache(redisClient, cfg.App.Name)
			log.Println("Redis cache initialized")
		}
		cancel()
	}

	// Services
	emailSender := service.NewSMTPSender(cfg.SMTP, cfg.OTP)
	authService := service.NewAuthService(userRepo, emailSender, cfg.OTP, cfg.Auth)
	if !cfg.App.IsDevelopment() {
		authService.EnableMXCheck()
	}

	keygen := service.NewKeyGenerator(keyRepo)
	catalogService := service.NewCatalogService(gameRepo, catalogCache, cfg.Cache.TTL)
	cartService := service.NewCartService(cartRepo, gameRepo)
	checkoutService := service.NewCheckoutService(cartRepo, gameRepo, orderRepo, keyRepo, txnRunner, keygen)
	libraryService := service.NewLibraryService(orderRepo, keyRepo)
	feedService := service.NewFeedService(postRepo, commentRepo, userRepo)
	adminService := service.NewAdminService(userRepo, gameRepo, orderRepo, keyRepo)

	// Handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	gameHandler := handler.NewGameHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService, checkoutService)
	libraryHandler := handler.NewLibraryHandler(libraryService)
	feedHandler := handler.NewFeedHandler(feedService)
	adminHandler := handler.NewAdminHandler(adminService, feedService)

	// Router
	r := router.New(router.Config{
		HealthHandler:  healthHandler,
		AuthHandler:    authHandler,
		GameHandler:    gameHandler,
		CartHandler:    cartHandler,
		LibraryHandler: libraryHandler,
		FeedHandler:    feedHandler,
		AdminHandler:   adminHandler,

		Auth:          middleware.Auth(authService),
		OptionalAuth:  middleware.OptionalAuth(authService),
		RequireAdmin:  middleware.RequireAdmin(userRepo),
		BlockPurchase: middleware.BlockAdminPurchase(userRepo),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
