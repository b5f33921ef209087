package domain

import "context"

// CatalogStore defines the interface for catalog persistence.
type CatalogStore interface {
	SaveProduct(product *Product) error
	SaveCatalog(products []Product) error
	Load() (*Catalog, error)
}

// SessionStore defines the interface for conversation-turn storage.
// Append must be serialized per session id so concurrent requests for the
// same session cannot interleave or lose turns.
type SessionStore interface {
	Append(ctx context.Context, sessionID string, turn Turn) error
	History(ctx context.Context, sessionID string) ([]Turn, error)
}

// CompletionClient defines the interface for the language-model fallback.
type CompletionClient interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// GraphMirror defines the interface for the optional graph representation
// of the catalog.
type GraphMirror interface {
	Rebuild(ctx context.Context, catalog *Catalog) error
	Query(ctx context.Context, text string) string
}
