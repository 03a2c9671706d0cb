package uploader

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"design-importer/internal/importer/models"
	"design-importer/internal/importer/platform"
)

// ============================================================
// Asset Upload Orchestrator
// ============================================================

// Files — источник байтов ассетов (файловый индекс артборда).
type Files interface {
	Read(fileName string) ([]byte, error)
}

type Uploader struct {
	api   platform.API
	delay time.Duration
	sleep func(time.Duration)
}

func New(api platform.API, delay time.Duration) *Uploader {
	return &Uploader{api: api, delay: delay, sleep: time.Sleep}
}

// Result: успешные ссылки по имени файла и список отказов.
// Отказ не фатален — зависимые элементы пропустит компилятор.
type Result struct {
	Assets map[string]models.AssetReference
	Failed []string
}

// RequiredFiles собирает дедуплицированный набор файлов, на которые
// ссылаются объекты: основные картинки, пререндеры текста,
// содержимое масок и обводки.
func RequiredFiles(objects []models.LayoutObject) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	for _, obj := range objects {
		switch obj.Type {
		case models.ObjectTypeVector, models.ObjectTypeRaster:
			add(obj.FileName)
		case models.ObjectTypeText:
			add(obj.TextSvgFile)
		case models.ObjectTypeMasked:
			add(obj.ContentFile)
			add(obj.FileName)
			add(obj.StrokeFileName)
		}
	}
	return names
}

// UploadAll грузит файлы строго по одному с фиксированной паузой,
// чтобы не упереться в rate limit платформы.
func (u *Uploader) UploadAll(ctx context.Context, files Files, names []string) *Result {
	result := &Result{Assets: make(map[string]models.AssetReference)}

	for i, name := range names {
		if i > 0 {
			u.sleep(u.delay)
		}

		data, err := files.Read(name)
		if err != nil {
			log.Printf("[UPLOAD] Missing asset %s: %v", name, err)
			result.Failed = append(result.Failed, name)
			continue
		}

		ref, err := u.api.UploadAsset(ctx, data, mimeFor(name))
		if err != nil {
			log.Printf("[UPLOAD] Failed to upload %s: %v", name, err)
			result.Failed = append(result.Failed, name)
			continue
		}

		log.Printf("[UPLOAD] Uploaded %s -> %s", name, ref.Ref)
		result.Assets[name] = ref
	}
	return result
}

func mimeFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
