package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"design-importer/internal/common/config"
	"design-importer/internal/common/middleware"
	"design-importer/internal/importer/fonts"
	"design-importer/internal/importer/handlers"
	"design-importer/internal/importer/pipeline"
	"design-importer/internal/importer/platform"
	"design-importer/internal/importer/repository"
	"design-importer/internal/importer/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Importer Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3003"
	}

	dbPath := getenv("IMPORTER_DB_PATH", "data/db/importer.db")
	db, err := repository.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "migrations/001_init_importer.sql"); err != nil {
		log.Fatalf("init db: %v", err)
	}

	storage := service.NewArtboardStorage(getenv("STORAGE_ROOT", "source"))
	client := platform.NewClient(getenv("PLATFORM_URL", "http://localhost:3004"))

	// Каталог шрифтов платформы запрашивается один раз на сессию
	catalog, err := client.FontCatalog(context.Background())
	if err != nil {
		log.Printf("[FONTS] Catalog unavailable, text will fall back to images: %v", err)
	}
	log.Printf("[FONTS] Catalog loaded: %d fonts", len(catalog))

	matcherCfg := fonts.DefaultMatcherConfig()
	matcherCfg.MinSubstringLen = cfg.MatchMinSubstring
	queue := fonts.NewDecisionQueue()
	resolver := fonts.NewResolver(catalog, fonts.NewMatcher(matcherCfg), repo, queue)

	pipe := pipeline.New(client, resolver, pipeline.Config{
		UploadDelay:   time.Duration(cfg.UploadDelayMs) * time.Millisecond,
		RetryBase:     time.Duration(cfg.RetryBaseMs) * time.Millisecond,
		RetryAttempts: cfg.RetryAttempts,
		SettleDelay:   time.Duration(cfg.SettleDelayMs) * time.Millisecond,
		ArtboardPause: time.Duration(cfg.ArtboardPauseMs) * time.Millisecond,
	})

	importHandler := handlers.NewImportHandler(storage, pipe)
	fontsHandler := handlers.NewFontsHandler(queue, repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Importer Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Import Routes
	// ============================================================

	app.Get("/artboards", importHandler.ListArtboards)
	app.Post("/artboards/:name", importHandler.UploadArtboard)
	app.Post("/artboards/:name/import", importHandler.ImportArtboard)
	app.Post("/import-all", importHandler.ImportAll)

	// ============================================================
	// Font Decision Routes
	// ============================================================

	app.Get("/fonts/pending", fontsHandler.Pending)
	app.Post("/fonts/decision", fontsHandler.Decide)
	app.Post("/fonts/cache/clear", fontsHandler.ClearCache)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Importer Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getenv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
