package domain

import "time"

// Product is one scraped catalog entry. URL is the primary identity:
// re-scraping the same URL overwrites, never duplicates.
type Product struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Nutrition   map[string]string `json:"nutrition"`
	Categories  []string          `json:"categories"`
	ScrapedAt   time.Time         `json:"scraped_at"`
}

// Catalog is the full set of scraped products for one crawl cycle. A crawl
// replaces the previous catalog in full; there is no partial merge.
type Catalog struct {
	Products []Product `json:"products"`
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}
