// Package scrape implements the data-ingestion pipeline: page fetching,
// product extraction, and the full-site crawl.
package scrape

import (
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"github.com/snackwise/backend/config"
	"github.com/snackwise/backend/internal/logger"
)

// Fetcher retrieves raw HTML for single URLs. Any failure (network error,
// timeout, non-success status) yields an empty string; errors are logged,
// never returned. No retries.
type Fetcher struct {
	collector *colly.Collector
	metrics   *Metrics
	log       zerolog.Logger
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg config.CrawlConfig, metrics *Metrics) *Fetcher {
	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true

	return &Fetcher{
		collector: collector,
		metrics:   metrics,
		log:       logger.With("fetcher"),
	}
}

// WithTransport overrides the HTTP transport. Used by tests to stub
// network responses.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// Fetch issues a single GET for pageURL and returns the response body, or
// an empty string if the fetch failed for any reason.
func (f *Fetcher) Fetch(pageURL string) string {
	c := f.collector.Clone()

	var body []byte
	failed := false

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		failed = true
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		f.log.Warn().Str("url", pageURL).Int("status", status).Err(err).Msg("fetch failed")
	})

	start := time.Now()
	err := c.Visit(pageURL)
	c.Wait()
	f.metrics.ObserveFetchDuration(time.Since(start))

	if err != nil && !failed {
		// Request was rejected before it was issued (bad URL, filtered domain).
		f.log.Warn().Str("url", pageURL).Err(err).Msg("fetch rejected")
		failed = true
	}
	if failed || body == nil {
		f.metrics.IncFetch("error")
		return ""
	}

	f.metrics.IncFetch("ok")
	return string(body)
}
