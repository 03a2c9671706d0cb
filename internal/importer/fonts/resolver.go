package fonts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"design-importer/internal/importer/models"
)

// ============================================================
// Font Resolver
// ============================================================

// ChoiceCache — персистентный кэш решений пользователя.
// Живет всю сессию, переживает артборды, сбрасывается явно.
type ChoiceCache interface {
	Get(ctx context.Context, family string) (models.FontChoice, bool, error)
	Put(ctx context.Context, family string, choice models.FontChoice) error
}

type Resolver struct {
	catalog []models.FontCatalogEntry
	matcher *Matcher
	cache   ChoiceCache
	queue   *DecisionQueue
}

func NewResolver(catalog []models.FontCatalogEntry, matcher *Matcher, cache ChoiceCache, queue *DecisionQueue) *Resolver {
	return &Resolver{
		catalog: catalog,
		matcher: matcher,
		cache:   cache,
		queue:   queue,
	}
}

// Resolve: каталог -> кэш решений -> интерактивный запрос.
// Пустое семейство или пустой каталог сразу дают fallback в картинку.
func (r *Resolver) Resolve(ctx context.Context, family string) (models.FontChoice, error) {
	if family == "" || len(r.catalog) == 0 {
		return models.ImageFallback(), nil
	}

	if entry, ok := r.matcher.Match(family, r.catalog); ok {
		return models.FontChoice{Ref: entry.Ref}, nil
	}

	key := strings.ToLower(family)
	if choice, ok, err := r.cache.Get(ctx, key); err != nil {
		return models.FontChoice{}, fmt.Errorf("font cache get: %w", err)
	} else if ok {
		return choice, nil
	}

	log.Printf("[FONTS] No match for %q, waiting for user decision", family)
	choice, err := r.queue.Request(ctx, family)
	if err != nil {
		return models.FontChoice{}, fmt.Errorf("font decision: %w", err)
	}

	if err := r.cache.Put(ctx, key, choice); err != nil {
		return models.FontChoice{}, fmt.Errorf("font cache put: %w", err)
	}
	return choice, nil
}

// ResolveAll строит ResolvedFontMap до компиляции: каждое семейство
// резолвится ровно один раз за проход артборда.
func (r *Resolver) ResolveAll(ctx context.Context, families []string) (models.ResolvedFontMap, error) {
	resolved := make(models.ResolvedFontMap, len(families))
	for _, family := range families {
		if _, ok := resolved[family]; ok {
			continue
		}
		choice, err := r.Resolve(ctx, family)
		if err != nil {
			return nil, err
		}
		resolved[family] = choice
	}
	return resolved, nil
}

// DistinctFamilies собирает семейства текстовых объектов в порядке появления.
func DistinctFamilies(objects []models.LayoutObject) []string {
	seen := make(map[string]bool)
	var families []string
	for _, obj := range objects {
		if obj.Type != models.ObjectTypeText || obj.TextData == nil {
			continue
		}
		family := obj.TextData.FontFamily
		if family == "" || seen[family] {
			continue
		}
		seen[family] = true
		families = append(families, family)
	}
	return families
}
