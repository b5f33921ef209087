package scrape

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawl pipeline.
type Metrics struct {
	Registry          *prometheus.Registry
	FetchesTotal      *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
	ProductsExtracted prometheus.Counter
	CrawlsTotal       prometheus.Counter
}

// NewMetrics constructs and registers all crawl metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_fetches_total",
			Help: "Total page fetches issued by the crawler, by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_fetch_duration_seconds",
			Help:    "Page fetch latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	productsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_products_extracted_total",
			Help: "Total products extracted from fetched pages.",
		},
	)
	crawls := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_cycles_total",
			Help: "Total full crawl cycles started.",
		},
	)

	registry.MustRegister(fetches, fetchDuration, productsExtracted, crawls)

	return &Metrics{
		Registry:          registry,
		FetchesTotal:      fetches,
		FetchDuration:     fetchDuration,
		ProductsExtracted: productsExtracted,
		CrawlsTotal:       crawls,
	}
}

// IncFetch increments the fetch counter for the given outcome.
func (m *Metrics) IncFetch(outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetchDuration records one fetch latency sample.
func (m *Metrics) ObserveFetchDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncExtracted increments the extracted-products counter.
func (m *Metrics) IncExtracted() {
	if m == nil {
		return
	}
	m.ProductsExtracted.Inc()
}

// IncCrawl increments the crawl-cycles counter.
func (m *Metrics) IncCrawl() {
	if m == nil {
		return
	}
	m.CrawlsTotal.Inc()
}
