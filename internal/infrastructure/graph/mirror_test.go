package graph

import (
	"strings"
	"testing"

	"github.com/snackwise/backend/internal/domain"
)

func TestProductProps(t *testing.T) {
	product := &domain.Product{
		URL:         "https://example.test/products/kitkat",
		Title:       "KitKat",
		Description: "Crisp wafer fingers.",
		Nutrition:   map[string]string{"calories": "210", "saturated fat": "4 g"},
	}

	props := productProps(product)

	if props["title"] != "KitKat" {
		t.Errorf(`props["title"] = %v`, props["title"])
	}
	if props["url"] != product.URL {
		t.Errorf(`props["url"] = %v`, props["url"])
	}
	if props["calories"] != "210" {
		t.Errorf(`props["calories"] = %v`, props["calories"])
	}
	if props["saturated_fat"] != "4 g" {
		t.Errorf("nutrition label with space not underscored: %v", props)
	}
	if _, ok := props["saturated fat"]; ok {
		t.Error("raw nutrition label leaked into props")
	}
}

func TestFormatHitTruncatesDescription(t *testing.T) {
	long := strings.Repeat("x", 150)
	hit := formatHit("Title", long)

	if !strings.HasPrefix(hit, "• Title: ") {
		t.Errorf("hit = %q", hit)
	}
	if !strings.HasSuffix(hit, "...") {
		t.Errorf("hit missing ellipsis: %q", hit)
	}
	if len(hit) > len("• Title: ")+100+3 {
		t.Errorf("hit too long: %d chars", len(hit))
	}
}
