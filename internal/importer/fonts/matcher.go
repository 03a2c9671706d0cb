package fonts

import (
	"strings"

	"design-importer/internal/importer/models"
)

// ============================================================
// Catalog Matcher
// ============================================================

// Словарь стилевых токенов, отбрасываемых на третьем уровне сопоставления.
var defaultStyleTokens = []string{
	"bold", "italic", "oblique", "regular", "normal", "book",
	"light", "thin", "medium", "semibold", "demibold", "extrabold",
	"heavy", "black", "condensed", "narrow", "wide", "extended",
	"extra", "demi", "ultra",
}

type MatcherConfig struct {
	// Минимальная длина нормализованного имени для substring-уровней.
	MinSubstringLen int
	StyleTokens     []string
}

func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		MinSubstringLen: 4,
		StyleTokens:     defaultStyleTokens,
	}
}

type Matcher struct {
	cfg MatcherConfig
}

func NewMatcher(cfg MatcherConfig) *Matcher {
	if cfg.MinSubstringLen <= 0 {
		cfg.MinSubstringLen = 4
	}
	if len(cfg.StyleTokens) == 0 {
		cfg.StyleTokens = defaultStyleTokens
	}
	return &Matcher{cfg: cfg}
}

// Match ищет шрифт каталога по пяти уровням, первый успех выигрывает:
// точное имя -> нормализованное -> без стилевых токенов ->
// substring по нормализованным -> substring без стилевых токенов.
func (m *Matcher) Match(family string, catalog []models.FontCatalogEntry) (models.FontCatalogEntry, bool) {
	if family == "" || len(catalog) == 0 {
		return models.FontCatalogEntry{}, false
	}

	// 1. Точное совпадение без учета регистра
	lower := strings.ToLower(family)
	for _, entry := range catalog {
		if strings.ToLower(entry.DisplayName) == lower {
			return entry, true
		}
	}

	// 2. Нормализованное (без пробелов, дефисов, подчеркиваний)
	norm := normalize(family)
	for _, entry := range catalog {
		if normalize(entry.DisplayName) == norm {
			return entry, true
		}
	}

	// 3. Дополнительно без стилевых токенов
	stripped := m.stripStyles(family)
	if stripped != "" {
		for _, entry := range catalog {
			if m.stripStyles(entry.DisplayName) == stripped {
				return entry, true
			}
		}
	}

	// 4. Взаимное вхождение нормализованных имен
	for _, entry := range catalog {
		if m.containsEither(norm, normalize(entry.DisplayName)) {
			return entry, true
		}
	}

	// 5. То же после отбрасывания стилевых токенов
	for _, entry := range catalog {
		if m.containsEither(stripped, m.stripStyles(entry.DisplayName)) {
			return entry, true
		}
	}

	return models.FontCatalogEntry{}, false
}

// containsEither: оба имени не короче MinSubstringLen, иначе короткие
// имена вроде "Go" ловили бы "Gotham".
func (m *Matcher) containsEither(a, b string) bool {
	if len(a) < m.cfg.MinSubstringLen || len(b) < m.cfg.MinSubstringLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '\t', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m *Matcher) stripStyles(name string) string {
	s := normalize(name)
	for _, token := range m.cfg.StyleTokens {
		s = strings.ReplaceAll(s, token, "")
	}
	return s
}
