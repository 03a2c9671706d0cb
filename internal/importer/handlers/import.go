package handlers

import (
	"io"
	"log"

	"design-importer/internal/importer/pipeline"
	"design-importer/internal/importer/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Import Handler
// ============================================================

type ImportHandler struct {
	storage  *service.ArtboardStorage
	pipeline *pipeline.Pipeline
}

func NewImportHandler(storage *service.ArtboardStorage, p *pipeline.Pipeline) *ImportHandler {
	return &ImportHandler{storage: storage, pipeline: p}
}

// ListArtboards возвращает артборды, готовые к импорту.
func (h *ImportHandler) ListArtboards(c fiber.Ctx) error {
	names, err := h.storage.ListArtboards()
	if err != nil {
		log.Printf("[IMPORT] List error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to list artboards"})
	}
	return c.JSON(fiber.Map{"artboards": names})
}

// UploadArtboard принимает layout.json и файлы ассетов одним multipart.
func (h *ImportHandler) UploadArtboard(c fiber.Ctx) error {
	name := c.Params("name")
	log.Printf("[IMPORT] Upload artboard %q, Content-Length: %d", name, len(c.Body()))

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "multipart/form-data required"})
	}

	saved := 0
	for key, files := range form.File {
		for _, fileHeader := range files {
			f, err := fileHeader.Open()
			if err != nil {
				log.Printf("[IMPORT] Failed to open %s: %v", fileHeader.Filename, err)
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				log.Printf("[IMPORT] Failed to read %s: %v", fileHeader.Filename, err)
				continue
			}

			if key == "layout" {
				err = h.storage.SaveLayout(name, data)
			} else {
				err = h.storage.SaveAsset(name, fileHeader.Filename, data)
			}
			if err != nil {
				log.Printf("[IMPORT] Failed to save %s: %v", fileHeader.Filename, err)
				return c.Status(500).JSON(fiber.Map{"error": "failed to save file"})
			}
			saved++
		}
	}

	if saved == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "no files in form"})
	}
	return c.JSON(fiber.Map{"saved": saved})
}

// ImportArtboard запускает пайплайн для одного артборда. Запрос висит,
// пока идет импорт, включая ожидание решений по шрифтам.
func (h *ImportHandler) ImportArtboard(c fiber.Ctx) error {
	name := c.Params("name")
	log.Printf("[IMPORT] Import request for %q", name)

	layout, err := h.storage.ReadLayout(name)
	if err != nil {
		log.Printf("[IMPORT] Layout error: %v", err)
		return c.Status(404).JSON(fiber.Map{"error": "artboard layout not found"})
	}

	idx, err := h.storage.Index(name)
	if err != nil {
		log.Printf("[IMPORT] Index error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to index artboard files"})
	}

	result, err := h.pipeline.ImportArtboard(c.Context(), layout, idx)
	if err != nil {
		log.Printf("[IMPORT] Import of %q failed: %v", name, err)
		return c.Status(502).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// ImportAll импортирует все артборды строго по очереди.
func (h *ImportHandler) ImportAll(c fiber.Ctx) error {
	names, err := h.storage.ListArtboards()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to list artboards"})
	}

	var artboards []pipeline.Artboard
	for _, name := range names {
		layout, err := h.storage.ReadLayout(name)
		if err != nil {
			log.Printf("[IMPORT] Skipping %q: %v", name, err)
			continue
		}
		idx, err := h.storage.Index(name)
		if err != nil {
			log.Printf("[IMPORT] Skipping %q: %v", name, err)
			continue
		}
		artboards = append(artboards, pipeline.Artboard{Layout: layout, Files: idx})
	}

	results := h.pipeline.ImportAll(c.Context(), artboards)
	return c.JSON(fiber.Map{"results": results})
}
