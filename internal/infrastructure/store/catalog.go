// Package store persists the catalog as JSON documents on disk: one file
// per product plus one aggregate file.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/logger"
)

// AggregateFile is the filename of the full-catalog document.
const AggregateFile = "all_products.json"

// FileStore reads and writes the catalog under a single directory.
type FileStore struct {
	dir string
	log zerolog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created
// lazily on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir: dir,
		log: logger.With("store"),
	}
}

// ProductFilename derives the stable per-product filename from its URL.
func ProductFilename(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:]) + ".json"
}

// SaveProduct writes one product document, overwriting any previous
// snapshot of the same URL.
func (fs *FileStore) SaveProduct(product *domain.Product) error {
	if product == nil || product.URL == "" {
		return fmt.Errorf("%w: product must have a url", domain.ErrInvalidRequest)
	}
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %q: %w", fs.dir, err)
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product %q: %w", product.URL, err)
	}

	path := filepath.Join(fs.dir, ProductFilename(product.URL))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write product file %q: %w", path, err)
	}
	return nil
}

// SaveCatalog writes the aggregate document containing the full product list.
func (fs *FileStore) SaveCatalog(products []domain.Product) error {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %q: %w", fs.dir, err)
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	path := filepath.Join(fs.dir, AggregateFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog file %q: %w", path, err)
	}
	return nil
}

// Load scans the storage directory and parses every per-product document,
// excluding the aggregate file. A missing directory yields an empty
// catalog; a file that fails to parse fails the whole load. Iteration
// order is directory order, which is stable for a given catalog.
func (fs *FileStore) Load() (*domain.Catalog, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Catalog{}, nil
		}
		return nil, fmt.Errorf("%w: read directory %q: %v", domain.ErrCatalogLoad, fs.dir, err)
	}

	catalog := &domain.Catalog{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == AggregateFile || !strings.HasSuffix(name, ".json") {
			continue
		}

		path := filepath.Join(fs.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %q: %v", domain.ErrCatalogLoad, path, err)
		}

		var product domain.Product
		if err := json.Unmarshal(data, &product); err != nil {
			return nil, fmt.Errorf("%w: parse %q: %v", domain.ErrCatalogLoad, path, err)
		}
		catalog.Products = append(catalog.Products, product)
	}

	fs.log.Debug().Int("products", catalog.Len()).Str("dir", fs.dir).Msg("catalog loaded")
	return catalog, nil
}
