package usecase

import (
	"strings"

	"github.com/snackwise/backend/internal/domain"
)

// KeywordTable maps each keyword-triggered intent to its trigger words.
// Classification is a pure function over this table, so new intents only
// need a new entry here, not new dispatch logic.
type KeywordTable struct {
	Nutrition []string
	Gift      []string
}

// DefaultKeywords returns the built-in trigger words.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		Nutrition: []string{"calories", "nutrition", "protein", "fat", "sugar"},
		Gift:      []string{"gift", "present", "christmas", "holiday"},
	}
}

// Classify determines the intent of a message by keyword membership.
// Nutrition keywords win over gift keywords; anything else is general.
func Classify(message string, table KeywordTable) domain.Intent {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, table.Nutrition):
		return domain.IntentNutrition
	case containsAny(lower, table.Gift):
		return domain.IntentGift
	default:
		return domain.IntentGeneral
	}
}

// StripKeywords removes every occurrence of the given keywords from the
// message and collapses the leftover whitespace. The remainder is used as
// the product-name query.
func StripKeywords(message string, keywords []string) string {
	out := strings.ToLower(message)
	for _, keyword := range keywords {
		out = strings.ReplaceAll(out, keyword, "")
	}
	return strings.Join(strings.Fields(out), " ")
}

func containsAny(s string, words []string) bool {
	for _, word := range words {
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}
