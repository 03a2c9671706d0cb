package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"design-importer/internal/common/config"
	"design-importer/internal/common/middleware"
	"design-importer/internal/importer/models"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
)

// ============================================================
// Platform Stub Service
// ============================================================

// Локальная заглушка целевой платформы для разработки и демо:
// каталог шрифтов, хранилище ассетов и страниц, редактируемые сессии.

type page struct {
	Request      models.PageRequest
	Transparency map[int]float64
}

type session struct {
	ID       string
	PageName string
}

type store struct {
	mu       sync.Mutex
	assets   map[string][]byte
	pages    map[string]*page
	sessions map[string]*session

	createCalls int
	limitEvery  int // каждый N-й create отвечает 429 (0 = выключено)
}

var defaultCatalog = []models.FontCatalogEntry{
	{DisplayName: "Roboto", Ref: "font:roboto"},
	{DisplayName: "Open Sans", Ref: "font:open-sans"},
	{DisplayName: "Lato", Ref: "font:lato"},
	{DisplayName: "Montserrat", Ref: "font:montserrat"},
	{DisplayName: "Source Code Pro", Ref: "font:source-code-pro"},
	{DisplayName: "Playfair Display", Ref: "font:playfair-display"},
}

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3004"
	}

	st := &store{
		assets:     map[string][]byte{},
		pages:      map[string]*page{},
		sessions:   map[string]*session{},
		limitEvery: envInt("RATE_LIMIT_EVERY", 0),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Platform Stub",
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	// ============================================================
	// Font Catalog
	// ============================================================

	app.Get("/v1/fonts", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"fonts": defaultCatalog})
	})

	// ============================================================
	// Assets
	// ============================================================

	app.Post("/v1/assets", func(c fiber.Ctx) error {
		st.mu.Lock()
		defer st.mu.Unlock()

		ref := "asset:" + uuid.NewString()
		body := make([]byte, len(c.Body()))
		copy(body, c.Body())
		st.assets[ref] = body

		log.Printf("[PLATFORM] Asset stored: %s (%d bytes, %s)", ref, len(body), c.Get("Content-Type"))
		return c.Status(201).JSON(models.AssetReference{Ref: ref})
	})

	// ============================================================
	// Pages
	// ============================================================

	app.Post("/v1/pages", func(c fiber.Ctx) error {
		st.mu.Lock()
		defer st.mu.Unlock()

		st.createCalls++
		if st.limitEvery > 0 && st.createCalls%st.limitEvery == 0 {
			log.Printf("[PLATFORM] Simulated rate limit on create #%d", st.createCalls)
			return c.Status(429).JSON(fiber.Map{"error": "rate limited"})
		}

		var req models.PageRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid json"})
		}
		if req.Name == "" {
			return c.Status(400).JSON(fiber.Map{"error": "page name required"})
		}

		st.pages[req.Name] = &page{Request: req, Transparency: map[int]float64{}}
		log.Printf("[PLATFORM] Page %q created with %d elements", req.Name, len(req.Elements))
		return c.Status(201).JSON(fiber.Map{"status": "created"})
	})

	// ============================================================
	// Editable Sessions
	// ============================================================

	app.Post("/v1/pages/:name/session", func(c fiber.Ctx) error {
		st.mu.Lock()
		defer st.mu.Unlock()

		name := c.Params("name")
		pg, ok := st.pages[name]
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "page not found"})
		}

		sess := &session{ID: uuid.NewString(), PageName: name}
		st.sessions[sess.ID] = sess

		elements := make([]models.SessionElement, len(pg.Request.Elements))
		for i := range elements {
			elements[i] = models.SessionElement{Editable: true}
		}
		return c.Status(201).JSON(fiber.Map{
			"id":       sess.ID,
			"editable": true,
			"elements": elements,
		})
	})

	app.Patch("/v1/sessions/:id", func(c fiber.Ctx) error {
		st.mu.Lock()
		defer st.mu.Unlock()

		sess, ok := st.sessions[c.Params("id")]
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "session not found"})
		}
		pg := st.pages[sess.PageName]

		var req struct {
			Changes []struct {
				Index int     `json:"index"`
				Value float64 `json:"value"`
			} `json:"changes"`
		}
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid json"})
		}

		// Все изменения применяются одним коммитом
		for _, change := range req.Changes {
			if change.Index < 0 || change.Index >= len(pg.Request.Elements) {
				return c.Status(400).JSON(fiber.Map{"error": "element index out of range"})
			}
			pg.Transparency[change.Index] = change.Value
		}
		delete(st.sessions, sess.ID)

		log.Printf("[PLATFORM] Session %s committed %d changes on %q", sess.ID, len(req.Changes), sess.PageName)
		return c.JSON(fiber.Map{"status": "committed"})
	})

	// Для отладки: состояние страницы целиком
	app.Get("/v1/pages/:name", func(c fiber.Ctx) error {
		st.mu.Lock()
		defer st.mu.Unlock()

		pg, ok := st.pages[c.Params("name")]
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "page not found"})
		}
		return c.JSON(fiber.Map{"page": pg.Request, "transparency": pg.Transparency})
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Platform Stub on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func envInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultVal
}
