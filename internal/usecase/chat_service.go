package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/logger"
)

// Formatter limits and canned replies.
const (
	maxNutritionMatches = 3
	maxGiftIdeas        = 5
	descriptionPreview  = 100

	noProductsMessage = "I couldn't find information about that product. Could you clarify?"
	noGiftsMessage    = "I couldn't find any gift ideas at the moment."
	apologyMessage    = "I'm having trouble connecting to the knowledge base. Please try again later."

	defaultPersona = "You are Smartie, a helpful assistant for the Snackwise product site. " +
		"Be friendly and provide concise answers. When possible, reference " +
		"specific products from the site."
)

// ChatServiceConfig holds configuration for the chat service.
type ChatServiceConfig struct {
	Persona  string
	Keywords KeywordTable
}

// ChatService routes inbound messages to the keyword-triggered formatters
// or the language-model fallback, and records every turn in the session
// store. Each request runs to completion without internal parallelism.
type ChatService struct {
	mu      sync.RWMutex
	catalog *domain.Catalog

	sessions    domain.SessionStore
	completions domain.CompletionClient
	graph       domain.GraphMirror // nil when the mirror is disabled

	keywords KeywordTable
	persona  string
	intents  *prometheus.CounterVec
	log      zerolog.Logger
}

// NewChatService creates a chat service over the given collaborators.
// graph may be nil. Chat metrics are registered on reg when provided.
func NewChatService(
	catalog *domain.Catalog,
	sessions domain.SessionStore,
	completions domain.CompletionClient,
	graph domain.GraphMirror,
	cfg ChatServiceConfig,
	reg prometheus.Registerer,
) *ChatService {
	persona := cfg.Persona
	if persona == "" {
		persona = defaultPersona
	}
	keywords := cfg.Keywords
	if len(keywords.Nutrition) == 0 && len(keywords.Gift) == 0 {
		keywords = DefaultKeywords()
	}

	intents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total chat requests handled, by classified intent.",
		},
		[]string{"intent"},
	)
	if reg != nil {
		reg.MustRegister(intents)
	}

	return &ChatService{
		catalog:     catalog,
		sessions:    sessions,
		completions: completions,
		graph:       graph,
		keywords:    keywords,
		persona:     persona,
		intents:     intents,
		log:         logger.With("chat"),
	}
}

// ReloadCatalog swaps in a freshly loaded catalog, replacing the previous
// one in full.
func (s *ChatService) ReloadCatalog(catalog *domain.Catalog) {
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
	s.log.Info().Int("products", catalog.Len()).Msg("catalog reloaded")
}

func (s *ChatService) snapshot() *domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Respond handles one inbound message: it appends the user turn, routes by
// intent, optionally augments the reply from the graph mirror, appends the
// assistant turn, and returns the reply plus reference URLs. Collaborator
// failures degrade to canned replies and never propagate.
func (s *ChatService) Respond(ctx context.Context, sessionID, message string) (string, []string) {
	if err := s.sessions.Append(ctx, sessionID, domain.Turn{Role: domain.RoleUser, Content: message}); err != nil {
		s.log.Error().Str("session", sessionID).Err(err).Msg("append user turn failed")
	}

	intent := Classify(message, s.keywords)
	s.intents.WithLabelValues(intent.String()).Inc()

	var response string
	var references []string
	switch intent {
	case domain.IntentNutrition:
		response, references = s.nutritionResponse(message)
	case domain.IntentGift:
		response, references = s.giftResponse()
	default:
		response, references = s.generalResponse(ctx, sessionID)
	}

	// The formatters never produce "I don't know" themselves; only a
	// model-generated reply can trigger the graph augmentation.
	if s.graph != nil && strings.Contains(response, "I don't know") {
		if extra := s.graph.Query(ctx, message); extra != "" {
			response = response + "\n\nAdditional context:\n" + extra
		}
	}

	if err := s.sessions.Append(ctx, sessionID, domain.Turn{Role: domain.RoleAssistant, Content: response}); err != nil {
		s.log.Error().Str("session", sessionID).Err(err).Msg("append assistant turn failed")
	}

	return response, references
}

// nutritionResponse formats nutrition facts for up to 3 products matching
// the message with the trigger keywords stripped out.
func (s *ChatService) nutritionResponse(message string) (string, []string) {
	query := StripKeywords(message, s.keywords.Nutrition)
	catalog := s.snapshot()
	matches := MatchProducts(catalog, query)
	if len(matches) == 0 {
		matches = MatchProductsMentioned(catalog, query)
	}
	if len(matches) == 0 {
		return noProductsMessage, []string{}
	}
	if len(matches) > maxNutritionMatches {
		matches = matches[:maxNutritionMatches]
	}

	sections := make([]string, 0, len(matches))
	references := make([]string, 0, len(matches))
	for _, product := range matches {
		var b strings.Builder
		fmt.Fprintf(&b, "**%s**\n", product.Title)
		if len(product.Nutrition) > 0 {
			b.WriteString("Nutritional information per serving:\n")
			for _, label := range sortedKeys(product.Nutrition) {
				fmt.Fprintf(&b, "- %s: %s\n", label, product.Nutrition[label])
			}
		} else {
			b.WriteString("No nutritional information available.\n")
		}
		fmt.Fprintf(&b, "\n[View product](%s)", product.URL)

		sections = append(sections, b.String())
		references = append(references, product.URL)
	}

	return strings.Join(sections, "\n\n"), references
}

// giftResponse lists up to 5 products whose title or categories mention
// "gift".
func (s *ChatService) giftResponse() (string, []string) {
	catalog := s.snapshot()

	var gifts []domain.Product
	if catalog != nil {
		for _, product := range catalog.Products {
			if isGiftProduct(&product) {
				gifts = append(gifts, product)
			}
		}
	}
	if len(gifts) == 0 {
		return noGiftsMessage, []string{}
	}
	if len(gifts) > maxGiftIdeas {
		gifts = gifts[:maxGiftIdeas]
	}

	lines := []string{"Here are some great gift ideas:"}
	references := make([]string, 0, len(gifts))
	for _, product := range gifts {
		lines = append(lines, fmt.Sprintf("- **%s**: %s...\n  [View product](%s)",
			product.Title, truncate(product.Description, descriptionPreview), product.URL))
		references = append(references, product.URL)
	}

	return strings.Join(lines, "\n"), references
}

// generalResponse delegates to the language-model fallback with the
// session history behind a fixed persona instruction.
func (s *ChatService) generalResponse(ctx context.Context, sessionID string) (string, []string) {
	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		s.log.Warn().Str("session", sessionID).Err(err).Msg("session history unavailable")
	}

	turns := make([]domain.Turn, 0, len(history)+1)
	turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: s.persona})
	turns = append(turns, history...)

	reply, err := s.completions.Complete(ctx, turns)
	if err != nil {
		s.log.Error().Str("session", sessionID).Err(err).Msg("completion failed")
		return apologyMessage, []string{}
	}
	return reply, []string{}
}

func isGiftProduct(product *domain.Product) bool {
	if strings.Contains(strings.ToLower(product.Title), "gift") {
		return true
	}
	for _, category := range product.Categories {
		if strings.Contains(strings.ToLower(category), "gift") {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// sortedKeys orders nutrition labels so replies are deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
