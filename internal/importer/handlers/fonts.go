package handlers

import (
	"encoding/json"
	"log"

	"design-importer/internal/importer/fonts"
	"design-importer/internal/importer/models"
	"design-importer/internal/importer/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Fonts Handler
// ============================================================

// FontsHandler обслуживает канал решений человека: одно семейство
// может ждать решения в любой момент времени.
type FontsHandler struct {
	queue *fonts.DecisionQueue
	repo  *repository.Repository
}

func NewFontsHandler(queue *fonts.DecisionQueue, repo *repository.Repository) *FontsHandler {
	return &FontsHandler{queue: queue, repo: repo}
}

// Pending возвращает семейство, ожидающее решения (если есть).
func (h *FontsHandler) Pending(c fiber.Ctx) error {
	family, pending := h.queue.Pending()
	return c.JSON(fiber.Map{"pending": pending, "family": family})
}

type decisionRequest struct {
	Ref      string `json:"ref,omitempty"`
	UseImage bool   `json:"useImage,omitempty"`
}

// Decide принимает выбор шрифта платформы либо явный fallback
// в картинку и будит заблокированный импорт.
func (h *FontsHandler) Decide(c fiber.Ctx) error {
	var req decisionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Ref == "" && !req.UseImage {
		return c.Status(400).JSON(fiber.Map{"error": "ref or useImage required"})
	}

	choice := models.FontChoice{Ref: req.Ref, UseImage: req.UseImage}
	if err := h.queue.Answer(choice); err != nil {
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("[FONTS] Decision accepted: ref=%q useImage=%v", req.Ref, req.UseImage)
	return c.JSON(fiber.Map{"status": "accepted"})
}

// ClearCache сбрасывает сохраненные решения между запусками импорта.
func (h *FontsHandler) ClearCache(c fiber.Ctx) error {
	if err := h.repo.Clear(c.Context()); err != nil {
		log.Printf("[FONTS] Clear cache error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to clear cache"})
	}
	log.Printf("[FONTS] User font choice cache cleared")
	return c.JSON(fiber.Map{"status": "cleared"})
}
