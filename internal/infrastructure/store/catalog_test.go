package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/snackwise/backend/internal/domain"
)

func sampleProduct(url string) domain.Product {
	return domain.Product{
		URL:         url,
		Title:       "KitKat Classic",
		Description: "Crisp wafer fingers covered with milk chocolate.",
		Nutrition:   map[string]string{"calories": "210", "protein": "3 g"},
		Categories:  []string{"Home", "Chocolate"},
		ScrapedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	want := sampleProduct("https://example.test/products/kitkat")
	if err := fs.SaveProduct(&want); err != nil {
		t.Fatalf("SaveProduct() error = %v", err)
	}

	catalog, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("catalog has %d products, want 1", catalog.Len())
	}
	if !reflect.DeepEqual(catalog.Products[0], want) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", catalog.Products[0], want)
	}
}

func TestSaveProductOverwritesSameURL(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	first := sampleProduct("https://example.test/products/kitkat")
	if err := fs.SaveProduct(&first); err != nil {
		t.Fatalf("SaveProduct() error = %v", err)
	}

	second := first
	second.Title = "KitKat Chunky"
	if err := fs.SaveProduct(&second); err != nil {
		t.Fatalf("SaveProduct() error = %v", err)
	}

	catalog, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("catalog has %d products, want 1 after overwrite", catalog.Len())
	}
	if catalog.Products[0].Title != "KitKat Chunky" {
		t.Errorf("Title = %q, want KitKat Chunky", catalog.Products[0].Title)
	}
}

func TestLoadExcludesAggregateFile(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	p := sampleProduct("https://example.test/products/kitkat")
	if err := fs.SaveProduct(&p); err != nil {
		t.Fatalf("SaveProduct() error = %v", err)
	}
	if err := fs.SaveCatalog([]domain.Product{p}); err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}

	catalog, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if catalog.Len() != 1 {
		t.Errorf("catalog has %d products, want 1 (aggregate excluded)", catalog.Len())
	}
}

func TestLoadFailsOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	p := sampleProduct("https://example.test/products/kitkat")
	if err := fs.SaveProduct(&p); err != nil {
		t.Fatalf("SaveProduct() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "deadbeef.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := fs.Load()
	if !errors.Is(err, domain.ErrCatalogLoad) {
		t.Errorf("Load() error = %v, want ErrCatalogLoad", err)
	}
}

func TestLoadMissingDirectoryYieldsEmptyCatalog(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "never-created"))

	catalog, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if catalog.Len() != 0 {
		t.Errorf("catalog has %d products, want 0", catalog.Len())
	}
}

func TestProductFilenameStable(t *testing.T) {
	a := ProductFilename("https://example.test/products/kitkat")
	b := ProductFilename("https://example.test/products/kitkat")
	c := ProductFilename("https://example.test/products/smarties")

	if a != b {
		t.Errorf("filename not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Error("distinct URLs produced the same filename")
	}
}
