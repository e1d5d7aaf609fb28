package main // Entry point package

import (
	"context" // Context for the schema bootstrap
	"log"     // Logging library
	"time"    // Timeouts

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/warehouse-qr-system/internal/config"     // Internal config loader
	"github.com/iliyamo/warehouse-qr-system/internal/database"   // MySQL connection + schema bootstrap
	"github.com/iliyamo/warehouse-qr-system/internal/handler"    // HTTP handlers
	"github.com/iliyamo/warehouse-qr-system/internal/middleware" // Redis cache + token bucket middleware
	"github.com/iliyamo/warehouse-qr-system/internal/queue"      // Background event consumer
	"github.com/iliyamo/warehouse-qr-system/internal/repository" // Data access layer
	"github.com/iliyamo/warehouse-qr-system/internal/router"     // Route registration
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Open the MySQL pool and make sure the schema exists before serving.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema bootstrap: %v", err)
	}

	// Repositories share the single *sql.DB pool.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	areaRepo := repository.NewAreaRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	productRepo := repository.NewProductRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	areaHandler := handler.NewAreaHandler(areaRepo, slotRepo)
	slotHandler := handler.NewSlotHandler(slotRepo)
	productHandler := handler.NewProductHandler(slotRepo, productRepo)
	setupHandler := handler.NewSetupHandler(cfg, userRepo, areaRepo, slotRepo)

	// Redis backs both the response cache and the per-user rate limiter.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New() // Create Echo instance

	router.RegisterRoutes(e)                        // Health check
	router.RegisterAuth(e, authHandler, cfg.JWTSecret) // Auth + /api/me
	router.RegisterWarehouse(e, areaHandler, slotHandler, productHandler, setupHandler, cfg.JWTSecret, cacheMW, limitMW)

	// Consume stored/retrieved events in the background; the consumer
	// reconnects on its own so a broker outage never blocks startup.
	go func() {
		if err := queue.StartWarehouseConsumer(); err != nil {
			log.Printf("warehouse consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
