package fonts

import (
	"context"
	"testing"
	"time"

	"design-importer/internal/importer/models"
)

type memCache struct {
	entries map[string]models.FontChoice
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]models.FontChoice{}}
}

func (c *memCache) Get(_ context.Context, family string) (models.FontChoice, bool, error) {
	choice, ok := c.entries[family]
	return choice, ok, nil
}

func (c *memCache) Put(_ context.Context, family string, choice models.FontChoice) error {
	c.entries[family] = choice
	c.puts++
	return nil
}

func answerSoon(t *testing.T, q *DecisionQueue, choice models.FontChoice) {
	t.Helper()
	go func() {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if err := q.Answer(choice); err == nil {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()
}

func TestResolveCatalogMatchSkipsCacheAndPrompt(t *testing.T) {
	cache := newMemCache()
	r := NewResolver(catalog("Roboto"), NewMatcher(DefaultMatcherConfig()), cache, NewDecisionQueue())

	choice, err := r.Resolve(context.Background(), "Roboto")
	if err != nil {
		t.Fatal(err)
	}
	if choice.UseImage || choice.Ref != "ref:Roboto" {
		t.Errorf("expected catalog ref, got %+v", choice)
	}
	if cache.puts != 0 {
		t.Error("catalog match must not touch the cache")
	}
}

func TestResolveEmptyFamilyShortCircuits(t *testing.T) {
	r := NewResolver(catalog("Roboto"), NewMatcher(DefaultMatcherConfig()), newMemCache(), NewDecisionQueue())

	choice, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !choice.UseImage {
		t.Errorf("expected image fallback, got %+v", choice)
	}
}

func TestResolveEmptyCatalogShortCircuits(t *testing.T) {
	r := NewResolver(nil, NewMatcher(DefaultMatcherConfig()), newMemCache(), NewDecisionQueue())

	choice, err := r.Resolve(context.Background(), "Futura")
	if err != nil {
		t.Fatal(err)
	}
	if !choice.UseImage {
		t.Errorf("expected image fallback, got %+v", choice)
	}
}

func TestResolveInteractiveDecisionIsCached(t *testing.T) {
	cache := newMemCache()
	queue := NewDecisionQueue()
	r := NewResolver(catalog("Roboto"), NewMatcher(DefaultMatcherConfig()), cache, queue)

	answerSoon(t, queue, models.FontChoice{Ref: "ref:Lato"})

	choice, err := r.Resolve(context.Background(), "Futura")
	if err != nil {
		t.Fatal(err)
	}
	if choice.Ref != "ref:Lato" {
		t.Errorf("expected user-picked ref, got %+v", choice)
	}

	// Второй резолв того же семейства берется из кэша без нового запроса
	again, err := r.Resolve(context.Background(), "Futura")
	if err != nil {
		t.Fatal(err)
	}
	if again != choice {
		t.Errorf("resolution not idempotent: %+v vs %+v", again, choice)
	}
	if cache.puts != 1 {
		t.Errorf("expected a single cache write, got %d", cache.puts)
	}
	if _, pending := queue.Pending(); pending {
		t.Error("no decision should be pending after resolve")
	}
}

func TestResolveCacheKeyIsLowercased(t *testing.T) {
	cache := newMemCache()
	cache.entries["futura"] = models.ImageFallback()
	r := NewResolver(catalog("Roboto"), NewMatcher(DefaultMatcherConfig()), cache, NewDecisionQueue())

	choice, err := r.Resolve(context.Background(), "FUTURA")
	if err != nil {
		t.Fatal(err)
	}
	if !choice.UseImage {
		t.Errorf("expected cached image fallback, got %+v", choice)
	}
}

func TestResolveAllResolvesEachFamilyOnce(t *testing.T) {
	cache := newMemCache()
	queue := NewDecisionQueue()
	r := NewResolver(catalog("Roboto"), NewMatcher(DefaultMatcherConfig()), cache, queue)

	answerSoon(t, queue, models.ImageFallback())

	resolved, err := r.ResolveAll(context.Background(), []string{"Futura", "Roboto", "Futura"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved families, got %d", len(resolved))
	}
	if !resolved["Futura"].UseImage {
		t.Errorf("expected image fallback for Futura, got %+v", resolved["Futura"])
	}
	if resolved["Roboto"].Ref != "ref:Roboto" {
		t.Errorf("expected catalog ref for Roboto, got %+v", resolved["Roboto"])
	}
	if cache.puts != 1 {
		t.Errorf("Futura must be asked exactly once, got %d cache writes", cache.puts)
	}
}

func TestRequestCancelledByContext(t *testing.T) {
	queue := NewDecisionQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := queue.Request(ctx, "Futura")
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestAnswerWithoutPendingFails(t *testing.T) {
	queue := NewDecisionQueue()
	if err := queue.Answer(models.ImageFallback()); err != ErrNoPendingDecision {
		t.Errorf("expected ErrNoPendingDecision, got %v", err)
	}
}

func TestDistinctFamilies(t *testing.T) {
	objects := []models.LayoutObject{
		{Type: models.ObjectTypeText, TextData: &models.TextData{FontFamily: "Roboto"}},
		{Type: models.ObjectTypeRaster, FileName: "a.png"},
		{Type: models.ObjectTypeText, TextData: &models.TextData{FontFamily: "Futura"}},
		{Type: models.ObjectTypeText, TextData: &models.TextData{FontFamily: "Roboto"}},
		{Type: models.ObjectTypeText, TextData: &models.TextData{}},
	}

	families := DistinctFamilies(objects)
	if len(families) != 2 || families[0] != "Roboto" || families[1] != "Futura" {
		t.Errorf("unexpected families: %v", families)
	}
}
