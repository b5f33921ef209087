// Package graph mirrors the catalog into Neo4j for graph-pattern and
// full-text queries.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/snackwise/backend/config"
	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/logger"
)

const fulltextIndex = "productSearch"

// Mirror maintains the graph representation of the catalog: one Product
// node per scraped entry, one Category node per distinct breadcrumb label,
// and IN_CATEGORY relationships between them. A rebuild clears and
// reinserts everything; it is not atomic from the caller's point of view.
type Mirror struct {
	driver  neo4j.DriverWithContext
	timeout time.Duration
	log     zerolog.Logger
}

// NewMirror connects to Neo4j, verifies connectivity, and ensures the
// constraints and full-text index exist.
func NewMirror(ctx context.Context, cfg config.Neo4jConfig) (*Mirror, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: create driver: %v", domain.ErrGraphUnavailable, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	m := &Mirror{
		driver:  driver,
		timeout: timeout,
		log:     logger.With("graph"),
	}

	verifyCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", domain.ErrGraphUnavailable, err)
	}

	if err := m.ensureSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return m, nil
}

// ensureSchema creates uniqueness constraints and the full-text search index.
func (m *Mirror) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT product_id IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE`,
		`CREATE CONSTRAINT category_name IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE`,
		`CREATE FULLTEXT INDEX ` + fulltextIndex + ` IF NOT EXISTS
		 FOR (p:Product) ON EACH [p.title, p.description]`,
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("%w: ensure schema: %v", domain.ErrGraphUnavailable, err)
		}
	}
	return nil
}

// Rebuild clears all nodes and relationships and reinserts the catalog.
// Interrupting a rebuild leaves the mirror partially populated; the next
// rebuild starts from a clean slate again.
func (m *Mirror) Rebuild(ctx context.Context, catalog *domain.Catalog) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout*time.Duration(1+catalog.Len()))
	defer cancel()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, `MATCH (n) DETACH DELETE n`, nil); err != nil {
		return fmt.Errorf("%w: clear graph: %v", domain.ErrGraphUnavailable, err)
	}

	for _, product := range catalog.Products {
		// Property keys never reach the query text; everything is bound
		// through parameters.
		_, err := session.Run(ctx,
			`MERGE (p:Product {id: $id}) SET p += $props`,
			map[string]any{"id": product.URL, "props": productProps(&product)},
		)
		if err != nil {
			return fmt.Errorf("%w: insert product %q: %v", domain.ErrGraphUnavailable, product.URL, err)
		}

		for _, category := range product.Categories {
			_, err := session.Run(ctx,
				`MERGE (c:Category {name: $name})
				 MERGE (p:Product {id: $id})
				 MERGE (p)-[:IN_CATEGORY]->(c)`,
				map[string]any{"name": category, "id": product.URL},
			)
			if err != nil {
				return fmt.Errorf("%w: link category %q: %v", domain.ErrGraphUnavailable, category, err)
			}
		}
	}

	m.log.Info().Int("products", catalog.Len()).Msg("graph rebuilt")
	return nil
}

// Query runs a full-text search over product titles and descriptions and
// returns up to 3 formatted hits. Backend errors are logged and swallowed;
// the caller sees an empty result.
func (m *Mirror) Query(ctx context.Context, text string) string {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		`CALL db.index.fulltext.queryNodes($index, $query)
		 YIELD node, score
		 RETURN node.title AS title, node.description AS description
		 ORDER BY score DESC
		 LIMIT 3`,
		map[string]any{"index": fulltextIndex, "query": text},
	)
	if err != nil {
		m.log.Warn().Err(err).Msg("graph query failed")
		return ""
	}

	var hits []string
	for result.Next(ctx) {
		record := result.Record()
		title, _ := record.Get("title")
		description, _ := record.Get("description")
		hits = append(hits, formatHit(asString(title), asString(description)))
	}
	if err := result.Err(); err != nil {
		m.log.Warn().Err(err).Msg("graph result iteration failed")
		return ""
	}
	if len(hits) == 0 {
		return ""
	}

	return "I found these related products:\n" + strings.Join(hits, "\n")
}

// Close releases the driver's connections.
func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}

// productProps builds the parameterized property map for a product node.
// Nutrition labels become node properties with spaces replaced by
// underscores.
func productProps(product *domain.Product) map[string]any {
	props := map[string]any{
		"title":       product.Title,
		"description": product.Description,
		"url":         product.URL,
	}
	for label, value := range product.Nutrition {
		props[strings.ReplaceAll(label, " ", "_")] = value
	}
	return props
}

func formatHit(title, description string) string {
	if len(description) > 100 {
		description = description[:100]
	}
	return fmt.Sprintf("• %s: %s...", title, description)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
