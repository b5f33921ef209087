package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/logger"
)

// Requests without a session_id share this conversation.
const defaultSessionID = "default_session"

// ChatResponder answers chat messages and accepts catalog replacements.
type ChatResponder interface {
	Respond(ctx context.Context, sessionID, message string) (string, []string)
	ReloadCatalog(catalog *domain.Catalog)
}

// SiteCrawler walks the product site and persists what it finds.
type SiteCrawler interface {
	Crawl() []domain.Product
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	chat    ChatResponder
	crawler SiteCrawler
	store   domain.CatalogStore
	graph   domain.GraphMirror // nil when the mirror is disabled
	log     zerolog.Logger
}

// NewHandler creates a new HTTP handler. graph may be nil.
func NewHandler(chat ChatResponder, crawler SiteCrawler, store domain.CatalogStore, graph domain.GraphMirror) *Handler {
	return &Handler{
		chat:    chat,
		crawler: crawler,
		store:   store,
		graph:   graph,
		log:     logger.With("http"),
	}
}

// Chat handles a single chat exchange.
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message is required",
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	response, references := h.chat.Respond(c.Request.Context(), sessionID, req.Message)

	c.JSON(http.StatusOK, domain.ChatResponse{
		Response:   response,
		References: references,
		SessionID:  sessionID,
	})
}

// RefreshData re-crawls the product site, reloads the catalog into the
// chat service, and rebuilds the graph mirror. Failure details stay in
// the server log; clients get an opaque error.
func (h *Handler) RefreshData(c *gin.Context) {
	products := h.crawler.Crawl()
	h.log.Info().Int("products", len(products)).Msg("crawl finished")

	catalog, err := h.store.Load()
	if err != nil {
		h.log.Error().Err(err).Msg("catalog reload failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to refresh data",
		})
		return
	}
	h.chat.ReloadCatalog(catalog)

	if h.graph != nil {
		if err := h.graph.Rebuild(c.Request.Context(), catalog); err != nil {
			h.log.Error().Err(err).Msg("graph rebuild failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to refresh data",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Data refreshed successfully",
	})
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "snackwise-backend",
		"version": "1.0.0",
	})
}
