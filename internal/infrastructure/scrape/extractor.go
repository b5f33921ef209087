package scrape

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/snackwise/backend/internal/domain"
)

// Selectors for the product page layout.
const (
	titleSelector      = "h1"
	descSelector       = "div.product-description"
	nutritionSelector  = "table.nutrition-table tr"
	breadcrumbSelector = "nav.breadcrumb a"
)

// ExtractProduct parses one product page into a Product. Missing markup
// yields empty fields, never an error: an unparseable document produces a
// product carrying only its URL and scrape time.
func ExtractProduct(html, pageURL string) domain.Product {
	product := domain.Product{
		URL:       pageURL,
		Nutrition: map[string]string{},
		ScrapedAt: time.Now(),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return product
	}

	product.Title = strings.TrimSpace(doc.Find(titleSelector).First().Text())
	product.Description = strings.TrimSpace(doc.Find(descSelector).First().Text())

	// Two-cell rows are label/value pairs; anything else is decoration.
	doc.Find(nutritionSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}
		key := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		product.Nutrition[key] = value
	})

	doc.Find(breadcrumbSelector).Each(func(_ int, link *goquery.Selection) {
		if text := strings.TrimSpace(link.Text()); text != "" {
			product.Categories = append(product.Categories, text)
		}
	})

	return product
}
