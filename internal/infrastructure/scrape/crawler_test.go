package scrape

import (
	"errors"
	"sync"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/snackwise/backend/internal/domain"
)

type collectingStore struct {
	mu       sync.Mutex
	products []domain.Product
	catalogs [][]domain.Product
}

func (cs *collectingStore) SaveProduct(p *domain.Product) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.products = append(cs.products, *p)
	return nil
}

func (cs *collectingStore) SaveCatalog(products []domain.Product) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.catalogs = append(cs.catalogs, products)
	return nil
}

func (cs *collectingStore) Load() (*domain.Catalog, error) {
	return &domain.Catalog{}, nil
}

const landingPage = `<html><body>
  <a href="/products/kitkat">KitKat</a>
  <a href="/products/smarties">Smarties</a>
  <a href="/products/kitkat">KitKat again</a>
  <a href="/products/broken">Broken</a>
  <a href="/about">About us</a>
  <a href="https://other.test/elsewhere">Elsewhere</a>
</body></html>`

func TestCrawlerAssemblesCatalog(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/",
		httpmock.NewStringResponder(200, landingPage))
	transport.RegisterResponder("GET", "http://example.test/products/kitkat",
		httpmock.NewStringResponder(200, "<html><h1>KitKat</h1></html>"))
	transport.RegisterResponder("GET", "http://example.test/products/smarties",
		httpmock.NewStringResponder(200, "<html><h1>Smarties</h1></html>"))
	transport.RegisterResponder("GET", "http://example.test/products/broken",
		httpmock.NewErrorResponder(errors.New("connection timed out")))

	cfg := testCrawlConfig()
	fetcher := NewFetcher(cfg, NewMetrics())
	fetcher.WithTransport(transport)

	store := &collectingStore{}
	crawler := NewCrawler(fetcher, store, cfg, NewMetrics())

	products := crawler.Crawl()

	// The failed URL is skipped; the duplicate link is deduped. Traversal
	// order is not guaranteed, so compare as a set.
	titles := map[string]bool{}
	for _, p := range products {
		titles[p.Title] = true
	}
	if len(products) != 2 || !titles["KitKat"] || !titles["Smarties"] {
		t.Errorf("products = %+v, want KitKat and Smarties", products)
	}

	if len(store.products) != 2 {
		t.Errorf("per-product saves = %d, want 2", len(store.products))
	}
	if len(store.catalogs) != 1 || len(store.catalogs[0]) != 2 {
		t.Errorf("catalog saves = %+v, want one save of 2 products", store.catalogs)
	}
}

func TestCrawlerAbortsOnLandingFailure(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/",
		httpmock.NewStringResponder(503, ""))

	cfg := testCrawlConfig()
	fetcher := NewFetcher(cfg, NewMetrics())
	fetcher.WithTransport(transport)

	store := &collectingStore{}
	crawler := NewCrawler(fetcher, store, cfg, NewMetrics())

	products := crawler.Crawl()
	if len(products) != 0 {
		t.Errorf("products = %+v, want empty", products)
	}
	if len(store.catalogs) != 0 {
		t.Errorf("catalog saves = %d, want none on aborted crawl", len(store.catalogs))
	}
}

func TestDiscoverProductLinksResolvesRelative(t *testing.T) {
	cfg := testCrawlConfig()
	crawler := NewCrawler(nil, nil, cfg, NewMetrics())

	links := crawler.discoverProductLinks(landingPage)

	want := []string{
		"http://example.test/products/kitkat",
		"http://example.test/products/smarties",
		"http://example.test/products/broken",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %d entries", links, len(want))
	}
	for _, u := range want {
		if _, ok := links[u]; !ok {
			t.Errorf("links missing %q", u)
		}
	}
}
