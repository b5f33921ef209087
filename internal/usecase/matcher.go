package usecase

import (
	"strings"

	"github.com/snackwise/backend/internal/domain"
)

// MatchProducts returns the catalog entries whose title or description
// contains the query, case-insensitively. Result order follows catalog
// order, which is stable for a given catalog. No ranking, no tokenization.
func MatchProducts(catalog *domain.Catalog, query string) []domain.Product {
	if catalog == nil {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(query))

	var matches []domain.Product
	for _, product := range catalog.Products {
		if strings.Contains(strings.ToLower(product.Title), q) ||
			strings.Contains(strings.ToLower(product.Description), q) {
			matches = append(matches, product)
		}
	}
	return matches
}

// MatchProductsMentioned returns the catalog entries whose non-empty title
// appears as a substring of the text, case-insensitively. It covers
// conversational phrasings like "tell me the calories in KitKat", where
// the product name is embedded in surrounding words.
func MatchProductsMentioned(catalog *domain.Catalog, text string) []domain.Product {
	if catalog == nil {
		return nil
	}

	lower := strings.ToLower(text)

	var matches []domain.Product
	for _, product := range catalog.Products {
		title := strings.ToLower(product.Title)
		if title != "" && strings.Contains(lower, title) {
			matches = append(matches, product)
		}
	}
	return matches
}
