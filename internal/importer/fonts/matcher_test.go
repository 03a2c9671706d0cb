package fonts

import (
	"testing"

	"design-importer/internal/importer/models"
)

func catalog(names ...string) []models.FontCatalogEntry {
	entries := make([]models.FontCatalogEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, models.FontCatalogEntry{DisplayName: n, Ref: "ref:" + n})
	}
	return entries
}

func TestMatchExactCaseInsensitive(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	entry, ok := m.Match("open sans", catalog("Roboto", "Open Sans"))
	if !ok {
		t.Fatal("expected match")
	}
	if entry.DisplayName != "Open Sans" {
		t.Errorf("expected Open Sans, got %s", entry.DisplayName)
	}
}

func TestMatchNormalized(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	entry, ok := m.Match("Open-Sans", catalog("Open Sans"))
	if !ok || entry.DisplayName != "Open Sans" {
		t.Fatalf("expected normalized match, got %v %v", entry, ok)
	}

	entry, ok = m.Match("source_code_pro", catalog("Source Code Pro"))
	if !ok || entry.DisplayName != "Source Code Pro" {
		t.Fatalf("expected normalized match, got %v %v", entry, ok)
	}
}

func TestMatchStyleStripped(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	entry, ok := m.Match("Roboto Condensed Bold", catalog("Arial", "Roboto"))
	if !ok || entry.DisplayName != "Roboto" {
		t.Fatalf("expected style-stripped match to Roboto, got %v %v", entry, ok)
	}
}

func TestMatchSubstring(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	// "Helvetica Neue" содержит нормализованное "helvetica"
	entry, ok := m.Match("Helvetica", catalog("Helvetica Neue"))
	if !ok || entry.DisplayName != "Helvetica Neue" {
		t.Fatalf("expected substring match, got %v %v", entry, ok)
	}
}

func TestSubstringNeverFiresForShortNames(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	if _, ok := m.Match("Go", catalog("Gotham")); ok {
		t.Error("short name must not substring-match a longer one")
	}
	if _, ok := m.Match("Gotham", catalog("Go")); ok {
		t.Error("substring guard must be bidirectional")
	}
}

func TestSubstringThresholdConfigurable(t *testing.T) {
	cfg := DefaultMatcherConfig()
	cfg.MinSubstringLen = 2
	m := NewMatcher(cfg)

	if _, ok := m.Match("Go", catalog("Gotham")); !ok {
		t.Error("lowered threshold should allow the short match")
	}
}

func TestStyleOnlyNamesDoNotCollide(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	// Оба имени состоят из одних стилевых токенов: после зачистки пустые
	if _, ok := m.Match("Bold Italic", catalog("Light")); ok {
		t.Error("style-only names must not match each other")
	}
}

func TestNoMatchReturnsFalse(t *testing.T) {
	m := NewMatcher(DefaultMatcherConfig())

	if _, ok := m.Match("Futura", catalog("Roboto", "Open Sans")); ok {
		t.Error("expected no match")
	}
	if _, ok := m.Match("", catalog("Roboto")); ok {
		t.Error("empty family must not match")
	}
	if _, ok := m.Match("Roboto", nil); ok {
		t.Error("empty catalog must not match")
	}
}
