package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/worklens/worklens/internal/adapter/store"
	"github.com/worklens/worklens/internal/adapter/weighting"
	"github.com/worklens/worklens/internal/handler"
	"github.com/worklens/worklens/internal/middleware"
	"github.com/worklens/worklens/internal/port"
	"github.com/worklens/worklens/internal/service"
	"github.com/worklens/worklens/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	if cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("🚀 Starting WorkLens",
		"port", cfg.Port,
		"prevent_numeric_categories", cfg.PreventNumericCategories,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Engine (Strategy Pattern) ────────────────────────────────────────
	validator := weighting.NewValidator(cfg.PreventNumericCategories)
	pipeline := port.NewPipeline(
		weighting.NewExtractorPass(pgStore, validator),
		weighting.NewRevertPass(pgStore),
		weighting.NewSyncPass(pgStore),
	)

	// ── Services ─────────────────────────────────────────────────────────
	pipelineService := service.NewPipelineService(pipeline)
	categoryService := service.NewCategoryService(pgStore)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	// ── Protected Routes ─────────────────────────────────────────────────
	api := app.Group("/api/v1", middleware.TokenMiddleware(middleware.AuthConfig{
		Token: cfg.AdminToken,
	}))

	categoryHandler := handler.NewCategoryHandler(categoryService, pgStore)
	categoryHandler.Register(api)

	passHandler := handler.NewPassHandler(pipelineService, pgStore)
	passHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
