package service

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"design-importer/internal/importer/models"
)

// ============================================================
// Artboard Storage
// ============================================================

// ArtboardStorage — папки артбордов под общим корнем:
// <root>/<artboard>/layout.json + файлы ассетов рядом.
type ArtboardStorage struct {
	root string
}

func NewArtboardStorage(root string) *ArtboardStorage {
	return &ArtboardStorage{root: root}
}

func (s *ArtboardStorage) ArtboardDir(name string) string {
	return filepath.Join(s.root, name)
}

func (s *ArtboardStorage) LayoutPath(name string) string {
	return filepath.Join(s.ArtboardDir(name), "layout.json")
}

func (s *ArtboardStorage) AssetPath(name, fileName string) string {
	return filepath.Join(s.ArtboardDir(name), filepath.Base(fileName))
}

// SaveLayout кладет layout.json в папку артборда.
func (s *ArtboardStorage) SaveLayout(name string, data []byte) error {
	return s.save(s.LayoutPath(name), data)
}

// SaveAsset кладет файл ассета в папку артборда.
func (s *ArtboardStorage) SaveAsset(name, fileName string, data []byte) error {
	return s.save(s.AssetPath(name, fileName), data)
}

func (s *ArtboardStorage) save(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ListArtboards возвращает имена папок с layout.json внутри.
func (s *ArtboardStorage) ListArtboards() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(s.LayoutPath(entry.Name())); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadLayout читает и разбирает layout.json артборда.
func (s *ArtboardStorage) ReadLayout(name string) (*models.Layout, error) {
	data, err := os.ReadFile(s.LayoutPath(name))
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	var layout models.Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if layout.ArtboardName == "" {
		layout.ArtboardName = name
	}
	return &layout, nil
}

// Index строит файловый индекс артборда.
func (s *ArtboardStorage) Index(name string) (*FileIndex, error) {
	dir := s.ArtboardDir(name)
	idx := &FileIndex{byName: make(map[string]string)}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		base := filepath.Base(path)
		if _, exists := idx.byName[base]; !exists {
			idx.byName[base] = path
		}
		idx.paths = append(idx.paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("index artboard %s: %w", name, err)
	}
	return idx, nil
}

// ============================================================
// File Index
// ============================================================

// FileIndex резолвит имена файлов раскладки: сначала точное имя
// в папке артборда, затем поиск по суффиксу пути.
type FileIndex struct {
	byName map[string]string
	paths  []string
}

func (idx *FileIndex) Resolve(fileName string) (string, bool) {
	if fileName == "" {
		return "", false
	}
	if path, ok := idx.byName[filepath.Base(fileName)]; ok {
		return path, true
	}
	suffix := filepath.FromSlash(fileName)
	for _, path := range idx.paths {
		if strings.HasSuffix(path, suffix) {
			return path, true
		}
	}
	return "", false
}

// Read читает файл по имени из раскладки.
func (idx *FileIndex) Read(fileName string) ([]byte, error) {
	path, ok := idx.Resolve(fileName)
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", fileName)
	}
	return os.ReadFile(path)
}
