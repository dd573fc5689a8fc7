package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/forkcast/forkcast-backend/internal/cache"
	"github.com/forkcast/forkcast-backend/internal/config"
	"github.com/forkcast/forkcast-backend/internal/database"
	"github.com/forkcast/forkcast-backend/internal/handlers"
	"github.com/forkcast/forkcast-backend/internal/logging"
	"github.com/forkcast/forkcast-backend/internal/middleware"
	"github.com/forkcast/forkcast-backend/internal/routes"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/forkcast/forkcast-backend/internal/upstream"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.AttestSecret == "" {
		slog.Error("ATTEST_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Redis
	rdb, err := cache.NewClient(context.Background(), 5, cfg)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Upstream credentials: one shared token manager, one executor per
	// provider base URL. Both executors reuse the same cached credentials.
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	tokens := upstream.NewManager(
		&upstream.OAuthSource{
			HTTPClient:   httpClient,
			TokenURL:     cfg.MapsTokenURL,
			ClientID:     cfg.MapsClientID,
			ClientSecret: cfg.MapsClientSecret,
		},
		&upstream.IntegritySource{
			HTTPClient: httpClient,
			URL:        cfg.IntegrityURL,
			APIKey:     cfg.IntegrityAPIKey,
		},
	)
	mapsExec := upstream.NewExecutor(cfg.MapsAPIURL, httpClient, tokens, slog.Default())
	suggestExec := upstream.NewExecutor(cfg.SuggestAPIURL, httpClient, tokens, slog.Default())

	placesClient := upstream.NewPlacesClient(mapsExec)
	suggestClient := upstream.NewSuggestClient(suggestExec, cfg.SuggestModel)

	// Services
	codes := cache.NewCodes(rdb)
	placeCache := cache.NewPlaces(rdb, cfg.PlaceCacheTTL)
	authService := services.NewAuthService(database.DB, cfg, codes, nil)
	attestService := services.NewAttestService(cfg.AttestSecret, cfg.AttestExpiry)
	userService := services.NewUserService(database.DB)
	placesService := services.NewPlacesService(placesClient, placeCache)
	suggestService := services.NewSuggestService(database.DB, suggestClient)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(rdb)
	userHandler := handlers.NewUserHandler(userService)
	placesHandler := handlers.NewPlacesHandler(placesService)
	suggestHandler := handlers.NewSuggestHandler(suggestService)
	attestHandler := handlers.NewAttestHandler(attestService)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, attestService,
		authHandler, healthHandler, userHandler, placesHandler, suggestHandler, attestHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := rdb.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
