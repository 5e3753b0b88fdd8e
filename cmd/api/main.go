// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/mongo"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	appLogger := logger.New(cfg)

	// Connect to Redis (rate limiting, and the cart store by default)
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		log.Fatalf("Redis health check failed: %v", err)
	}

	// Select the cart document store backend
	var store cart.Store
	switch cfg.CartStore.Driver {
	case "mongo":
		mongoClient, err := mongo.NewConnection(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoClient.Close()

		mongoStore := cart.NewMongoStore(mongoClient.Database, cfg.CartStore.Namespace)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoStore.CreateIndexes(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to create cart indexes: %v", err)
		}
		cancel()
		store = mongoStore
	default:
		store = cart.NewRedisStore(redisClient.GetClient(), cfg.CartStore.Namespace)
	}

	// Catalog client and session registry
	catalogClient := catalog.NewClient(cfg, appLogger)
	registry := session.NewRegistry(session.Deps{
		Config:   cfg,
		Store:    store,
		Verifier: auth.NewVerifier(cfg),
		Catalog:  catalogClient,
		Logger:   appLogger,
	})

	log.Println("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, registry, catalogClient, redisClient.GetClient(), appLogger)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	// Close sessions after the server stops accepting requests so
	// in-flight cart writes drain before the store connections close.
	registry.Close()

	log.Println("✅ Server shutdown completed")
}
