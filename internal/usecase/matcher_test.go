package usecase

import (
	"testing"

	"github.com/snackwise/backend/internal/domain"
)

func matcherCatalog() *domain.Catalog {
	return &domain.Catalog{Products: []domain.Product{
		{URL: "u1", Title: "Whole Milk", Description: "Fresh dairy milk."},
		{URL: "u2", Title: "Dark Chocolate", Description: "70% cocoa bar."},
		{URL: "u3", Title: "Cereal", Description: "Made with milk chocolate pieces."},
	}}
}

func TestMatchProductsSubstring(t *testing.T) {
	matches := MatchProducts(matcherCatalog(), "chocolate")

	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].URL != "u2" || matches[1].URL != "u3" {
		t.Errorf("match order = %q, %q, want catalog order u2, u3", matches[0].URL, matches[1].URL)
	}
}

func TestMatchProductsCaseInsensitive(t *testing.T) {
	upper := MatchProducts(matcherCatalog(), "MILK")
	lower := MatchProducts(matcherCatalog(), "milk")

	if len(upper) != len(lower) {
		t.Fatalf("MILK matched %d, milk matched %d", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i].URL != lower[i].URL {
			t.Errorf("match %d differs: %q vs %q", i, upper[i].URL, lower[i].URL)
		}
	}
	if len(upper) != 2 {
		t.Errorf("milk matched %d products, want 2 (title and description hits)", len(upper))
	}
}

func TestMatchProductsNoHit(t *testing.T) {
	if matches := MatchProducts(matcherCatalog(), "broccoli"); len(matches) != 0 {
		t.Errorf("matches = %+v, want none", matches)
	}
}

func TestMatchProductsNilCatalog(t *testing.T) {
	if matches := MatchProducts(nil, "milk"); matches != nil {
		t.Errorf("matches = %+v, want nil", matches)
	}
}

func TestMatchProductsMentioned(t *testing.T) {
	matches := MatchProductsMentioned(matcherCatalog(), "how much is dark chocolate these days")

	if len(matches) != 1 || matches[0].URL != "u2" {
		t.Fatalf("matches = %+v, want just u2", matches)
	}
}

func TestMatchProductsMentionedSkipsEmptyTitles(t *testing.T) {
	catalog := &domain.Catalog{Products: []domain.Product{{URL: "u1", Title: ""}}}

	if matches := MatchProductsMentioned(catalog, "anything at all"); len(matches) != 0 {
		t.Errorf("matches = %+v, want none for empty titles", matches)
	}
}
