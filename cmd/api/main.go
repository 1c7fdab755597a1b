package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fileapi/internal/auth"
	"fileapi/internal/config"
	"fileapi/internal/database"
	"fileapi/internal/database/migration"
	handlers "fileapi/internal/http/handler"
	"fileapi/internal/http/middleware"
	appotel "fileapi/internal/otel"
	"fileapi/internal/repository/postgres"
	"fileapi/internal/service"
	"fileapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize OTLP tracing (no-op when OTEL_SDK_DISABLED=true)
	shutdownTracing, err := appotel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize local blob storage for uploaded content
	store, err := storage.NewDisk(cfg.Files.UploadDir)
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}

	// Initialize repositories and services
	userRepo := postgres.NewUserPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)

	registry := auth.NewMemoryRegistry()
	authSvc := service.NewAuthService(userRepo, registry, cfg.Auth)
	fileSvc := service.NewFileService(store, fileRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	// Prometheus request counting + /metrics endpoint
	metrics, err := middleware.NewRequestMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(metrics.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Bearer guard for /file routes unless explicitly left public
	var guard fiber.Handler
	if !cfg.Files.PublicRoutes {
		guard = middleware.RequireAuth([]byte(cfg.Auth.AccessSecret))
	}

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, authSvc, fileSvc, guard)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
