package service

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestStorage(t *testing.T) *ArtboardStorage {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Home", "layout.json"),
		`{"artboardName":"Home","width":800,"height":600,"objects":[{"index":0,"fileName":"bg.png","type":"image-raster","geometry":{"x":0,"y":0,"w":800,"h":600},"opacity":0.5}]}`)
	writeFile(t, filepath.Join(root, "Home", "bg.png"), "png-bytes")
	writeFile(t, filepath.Join(root, "Home", "exports", "text-0.svg"), "svg-bytes")
	writeFile(t, filepath.Join(root, "Empty", "readme.txt"), "no layout here")

	return NewArtboardStorage(root)
}

func TestListArtboardsRequiresLayout(t *testing.T) {
	s := newTestStorage(t)

	names, err := s.ListArtboards()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "Home" {
		t.Errorf("expected only Home, got %v", names)
	}
}

func TestReadLayout(t *testing.T) {
	s := newTestStorage(t)

	layout, err := s.ReadLayout("Home")
	if err != nil {
		t.Fatal(err)
	}
	if layout.ArtboardName != "Home" || layout.Width != 800 {
		t.Errorf("unexpected layout: %+v", layout)
	}
	if len(layout.Objects) != 1 || layout.Objects[0].FileName != "bg.png" {
		t.Fatalf("unexpected objects: %+v", layout.Objects)
	}
	if layout.Objects[0].Opacity == nil || *layout.Objects[0].Opacity != 0.5 {
		t.Errorf("opacity must survive parsing: %+v", layout.Objects[0].Opacity)
	}
	if layout.Objects[0].ZIndex != nil {
		t.Errorf("absent zIndex must stay nil, got %v", *layout.Objects[0].ZIndex)
	}
}

func TestIndexResolvesByNameAndSuffix(t *testing.T) {
	s := newTestStorage(t)

	idx, err := s.Index("Home")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := idx.Resolve("bg.png"); !ok {
		t.Error("exact name must resolve")
	}
	// Файл лежит в подпапке: находится поиском по суффиксу пути
	if _, ok := idx.Resolve("exports/text-0.svg"); !ok {
		t.Error("path suffix must resolve")
	}
	if _, ok := idx.Resolve("text-0.svg"); !ok {
		t.Error("base name of nested file must resolve")
	}
	if _, ok := idx.Resolve("missing.png"); ok {
		t.Error("missing file must not resolve")
	}
	if _, ok := idx.Resolve(""); ok {
		t.Error("empty name must not resolve")
	}

	data, err := idx.Read("bg.png")
	if err != nil || string(data) != "png-bytes" {
		t.Errorf("unexpected read: %q %v", data, err)
	}
}
