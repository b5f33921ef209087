package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/snackwise/backend/config"
	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/logger"
)

// PageFetcher retrieves raw HTML for a URL, returning "" on failure.
type PageFetcher interface {
	Fetch(pageURL string) string
}

// Crawler walks the site's landing page for product links and assembles
// the catalog. The crawl is sequential; duration scales linearly with the
// number of discovered product pages.
type Crawler struct {
	fetcher PageFetcher
	store   domain.CatalogStore
	cfg     config.CrawlConfig
	metrics *Metrics
	log     zerolog.Logger
}

// NewCrawler builds a crawler over the given fetcher and store.
func NewCrawler(fetcher PageFetcher, store domain.CatalogStore, cfg config.CrawlConfig, metrics *Metrics) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		log:     logger.With("crawler"),
	}
}

// Crawl fetches the landing page, visits every discovered product URL, and
// persists each extracted product plus the aggregate catalog. A failed
// landing fetch aborts the crawl with an empty catalog; a failed product
// fetch skips only that URL.
func (c *Crawler) Crawl() []domain.Product {
	c.metrics.IncCrawl()

	landing := c.fetcher.Fetch(c.cfg.BaseURL)
	if landing == "" {
		c.log.Error().Str("url", c.cfg.BaseURL).Msg("landing page fetch failed, aborting crawl")
		return []domain.Product{}
	}

	links := c.discoverProductLinks(landing)
	c.log.Info().Int("candidates", len(links)).Msg("product links discovered")

	products := make([]domain.Product, 0, len(links))
	for link := range links {
		html := c.fetcher.Fetch(link)
		if html == "" {
			continue
		}

		product := ExtractProduct(html, link)
		c.metrics.IncExtracted()

		if err := c.store.SaveProduct(&product); err != nil {
			c.log.Error().Str("url", link).Err(err).Msg("save product failed")
		}
		products = append(products, product)
	}

	if err := c.store.SaveCatalog(products); err != nil {
		c.log.Error().Err(err).Msg("save catalog failed")
	}

	c.log.Info().Int("products", len(products)).Msg("crawl complete")
	return products
}

// discoverProductLinks collects every hyperlink on the landing page whose
// resolved absolute URL contains the product path marker, deduped by exact
// URL string.
func (c *Crawler) discoverProductLinks(html string) map[string]struct{} {
	links := map[string]struct{}{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		c.log.Error().Err(err).Msg("landing page parse failed")
		return links
	}

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		c.log.Error().Str("url", c.cfg.BaseURL).Err(err).Msg("invalid base url")
		return links
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if strings.Contains(abs, c.cfg.ProductPathMarker) {
			links[abs] = struct{}{}
		}
	})

	return links
}
