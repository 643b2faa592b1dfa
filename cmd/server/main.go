package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"khata-backend/internal/auth"
	"khata-backend/internal/cache"
	"khata-backend/internal/config"
	"khata-backend/internal/database"
	"khata-backend/internal/db"
	"khata-backend/internal/events"
	"khata-backend/internal/handlers"
	"khata-backend/internal/health"
	h "khata-backend/internal/http"
	"khata-backend/internal/middleware"
	"khata-backend/internal/repositories"
	"khata-backend/internal/services"
	"khata-backend/internal/storage"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (aggregates derive from the store)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	// Additive only: existing tables are never dropped or recreated
	log.Println("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.NewMigrator(pool).RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize blob storage (Cloudflare R2)
	blobStore, err := storage.NewR2Store(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Initialize health checker and JWT manager
	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	inventoryRepo := repositories.NewInventoryRepository(pool)
	salesRepo := repositories.NewSalesRepository(pool)
	creditRepo := repositories.NewCreditRepository(pool)
	documentRepo := repositories.NewDocumentRepository(pool)

	// Websocket hub for live dashboard updates
	hub := events.NewHub()

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	inventoryService := services.NewInventoryService(inventoryRepo, salesRepo, hub)
	salesService := services.NewSalesService(inventoryRepo, salesRepo, hub)
	creditService := services.NewCreditService(creditRepo, hub)
	documentService := services.NewDocumentService(documentRepo, blobStore, hub)
	reportService := services.NewReportService(inventoryRepo, salesRepo, creditRepo)

	// Seed the first admin account on an empty users table
	if err := userService.SeedAdmin(ctx, cfg); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	salesHandler := handlers.NewSalesHandler(salesService)
	creditHandler := handlers.NewCreditHandler(creditService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	reportHandler := handlers.NewReportHandler(reportService)
	systemHandler := handlers.NewSystemHandler(pool)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		inventoryHandler,
		salesHandler,
		creditHandler,
		documentHandler,
		reportHandler,
		systemHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	// Wrap with panic recovery, request logging and metrics middleware
	handler := middleware.PanicRecovery(
		middleware.RequestLogging(
			middleware.MetricsMiddleware(
				corsMiddleware(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
