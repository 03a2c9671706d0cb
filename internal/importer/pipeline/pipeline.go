package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"design-importer/internal/importer/compiler"
	"design-importer/internal/importer/fonts"
	"design-importer/internal/importer/models"
	"design-importer/internal/importer/platform"
	"design-importer/internal/importer/uploader"

	"github.com/google/uuid"
)

// ============================================================
// Import Pipeline
// ============================================================

type Config struct {
	UploadDelay   time.Duration
	RetryBase     time.Duration
	RetryAttempts int
	SettleDelay   time.Duration
	ArtboardPause time.Duration
}

func DefaultConfig() Config {
	return Config{
		UploadDelay:   500 * time.Millisecond,
		RetryBase:     time.Second,
		RetryAttempts: 5,
		SettleDelay:   1500 * time.Millisecond,
		ArtboardPause: time.Second,
	}
}

type Pipeline struct {
	api      platform.API
	resolver *fonts.Resolver
	cfg      Config
	sleep    func(time.Duration)
}

func New(api platform.API, resolver *fonts.Resolver, cfg Config) *Pipeline {
	return &Pipeline{
		api:      api,
		resolver: resolver,
		cfg:      cfg,
		sleep:    time.Sleep,
	}
}

// Result — итог импорта одного артборда.
type Result struct {
	RunID          string                     `json:"runId"`
	PageName       string                     `json:"pageName"`
	Elements       int                        `json:"elements"`
	SkippedObjects int                        `json:"skippedObjects"`
	FailedUploads  []string                   `json:"failedUploads,omitempty"`
	ManualOpacity  []models.OpacityAssignment `json:"manualOpacity,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

// ImportArtboard: загрузка ассетов -> резолв шрифтов -> компиляция ->
// создание страницы с ретраями -> корректировка прозрачности.
// Частичные отказы по объектам артборд не валят.
func (p *Pipeline) ImportArtboard(ctx context.Context, layout *models.Layout, files uploader.Files) (*Result, error) {
	result := &Result{
		RunID:    uuid.NewString(),
		PageName: layout.ArtboardName,
	}
	log.Printf("[IMPORT] Run %s: artboard %q, %d objects", result.RunID, layout.ArtboardName, len(layout.Objects))

	// Загрузка ассетов по одному
	required := uploader.RequiredFiles(layout.Objects)
	up := uploader.New(p.api, p.cfg.UploadDelay)
	uploaded := up.UploadAll(ctx, files, required)
	result.FailedUploads = uploaded.Failed

	// Все шрифты резолвятся до компиляции; может ждать решения человека
	families := fonts.DistinctFamilies(layout.Objects)
	resolved, err := p.resolver.ResolveAll(ctx, families)
	if err != nil {
		return nil, fmt.Errorf("resolve fonts: %w", err)
	}

	out := compiler.New(uploaded.Assets, resolved).Compile(layout)
	result.Elements = len(out.Elements)
	result.SkippedObjects = out.Skipped

	page := models.PageRequest{
		Name:     layout.ArtboardName,
		Width:    layout.Width,
		Height:   layout.Height,
		Elements: out.Elements,
	}
	if err := p.createPageWithRetry(ctx, page); err != nil {
		return nil, err
	}
	log.Printf("[IMPORT] Run %s: page %q created with %d elements", result.RunID, page.Name, len(page.Elements))

	result.ManualOpacity = p.correctOpacity(ctx, page.Name, out.Opacity)
	return result, nil
}

// ============================================================
// Page Creation & Retry
// ============================================================

// createPageWithRetry: rate limit ретраится с удвоением паузы,
// любая другая ошибка фатальна для артборда.
func (p *Pipeline) createPageWithRetry(ctx context.Context, page models.PageRequest) error {
	delay := p.cfg.RetryBase
	for attempt := 1; attempt <= p.cfg.RetryAttempts; attempt++ {
		err := p.api.CreatePage(ctx, page)
		if err == nil {
			return nil
		}
		if !errors.Is(err, platform.ErrRateLimited) {
			return fmt.Errorf("create page: %w", err)
		}

		log.Printf("[IMPORT] Rate limited on attempt %d/%d, backing off %v", attempt, p.cfg.RetryAttempts, delay)
		p.sleep(delay)
		delay *= 2
	}
	return fmt.Errorf("create page: %w after %d attempts", platform.ErrRateLimited, p.cfg.RetryAttempts)
}

// ============================================================
// Opacity Correction Pass
// ============================================================

// correctOpacity применяет прозрачности вторым проходом через
// редактируемую сессию. Если сессия недоступна, назначения
// возвращаются как ручные инструкции, импорт не проваливается.
func (p *Pipeline) correctOpacity(ctx context.Context, pageName string, assignments []models.OpacityAssignment) []models.OpacityAssignment {
	if len(assignments) == 0 {
		return nil
	}

	p.sleep(p.cfg.SettleDelay)

	session, err := p.api.OpenSession(ctx, pageName)
	if err != nil {
		log.Printf("[OPACITY] Session unavailable for %q: %v", pageName, err)
		logManualInstructions(assignments)
		return assignments
	}

	elements := session.Elements()
	applied := 0
	for _, a := range assignments {
		if a.ElementIndex < 0 || a.ElementIndex >= len(elements) {
			log.Printf("[OPACITY] Assignment index %d out of range, skipping", a.ElementIndex)
			continue
		}
		el := elements[a.ElementIndex]
		if !el.Editable || el.Locked {
			log.Printf("[OPACITY] Element %d not editable, skipping", a.ElementIndex)
			continue
		}
		if err := session.SetTransparency(a.ElementIndex, 1-a.Opacity); err != nil {
			log.Printf("[OPACITY] Set transparency for %d: %v", a.ElementIndex, err)
			continue
		}
		applied++
	}

	if err := session.Commit(ctx); err != nil {
		log.Printf("[OPACITY] Commit failed for %q: %v", pageName, err)
		logManualInstructions(assignments)
		return assignments
	}

	log.Printf("[OPACITY] Applied %d/%d assignments on %q", applied, len(assignments), pageName)
	return nil
}

func logManualInstructions(assignments []models.OpacityAssignment) {
	for _, a := range assignments {
		log.Printf("[OPACITY] Manual step: set element %d transparency to %.2f", a.ElementIndex, 1-a.Opacity)
	}
}

// ============================================================
// Import All
// ============================================================

// Artboard — раскладка вместе с источником файлов.
type Artboard struct {
	Layout *models.Layout
	Files  uploader.Files
}

// ImportAll обрабатывает артборды строго по очереди с паузой между
// ними. Фатальный артборд логируется, очередь продолжается.
func (p *Pipeline) ImportAll(ctx context.Context, artboards []Artboard) []*Result {
	results := make([]*Result, 0, len(artboards))
	for i, ab := range artboards {
		if i > 0 {
			p.sleep(p.cfg.ArtboardPause)
		}

		result, err := p.ImportArtboard(ctx, ab.Layout, ab.Files)
		if err != nil {
			log.Printf("[IMPORT] Artboard %q failed: %v", ab.Layout.ArtboardName, err)
			result = &Result{PageName: ab.Layout.ArtboardName, Error: err.Error()}
		}
		results = append(results, result)
	}
	return results
}
