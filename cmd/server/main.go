package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/snackwise/backend/config"
	httpDelivery "github.com/snackwise/backend/internal/delivery/http"
	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/infrastructure/graph"
	"github.com/snackwise/backend/internal/infrastructure/openai"
	"github.com/snackwise/backend/internal/infrastructure/scrape"
	"github.com/snackwise/backend/internal/infrastructure/session"
	"github.com/snackwise/backend/internal/infrastructure/store"
	"github.com/snackwise/backend/internal/logger"
	"github.com/snackwise/backend/internal/usecase"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	appLog := logger.With("main")
	appLog.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting snackwise backend v1.0.0")

	ctx := context.Background()

	// Crawl pipeline
	metrics := scrape.NewMetrics()
	fetcher := scrape.NewFetcher(cfg.Crawl, metrics)
	fileStore := store.NewFileStore(cfg.Crawl.DataDir)
	crawler := scrape.NewCrawler(fetcher, fileStore, cfg.Crawl, metrics)

	// Session storage
	var sessions domain.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		redisStore, err := session.NewRedisStore(ctx, cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		appLog.Info().Msg("using redis session store")
	default:
		sessions = session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL)
		appLog.Info().Msg("using in-memory session store")
	}

	completions := openai.NewClient(cfg.OpenAI)

	// Graph mirror is optional; a nil interface disables it everywhere.
	var mirror domain.GraphMirror
	if cfg.Neo4j.Enabled {
		m, err := graph.NewMirror(ctx, cfg.Neo4j)
		if err != nil {
			log.Fatalf("Failed to connect to Neo4j: %v", err)
		}
		defer m.Close(ctx)
		mirror = m
		appLog.Info().Str("uri", cfg.Neo4j.URI).Msg("graph mirror enabled")
	}

	catalog, err := fileStore.Load()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	appLog.Info().Int("products", catalog.Len()).Msg("catalog loaded")

	// First production boot starts from an empty data dir; crawl before
	// serving so the chat surface has something to answer from.
	if cfg.Server.Environment == "production" && catalog.Len() == 0 {
		appLog.Info().Msg("empty catalog in production, running bootstrap crawl")
		crawler.Crawl()
		catalog, err = fileStore.Load()
		if err != nil {
			log.Fatalf("Failed to load catalog after bootstrap crawl: %v", err)
		}
		if mirror != nil {
			if err := mirror.Rebuild(ctx, catalog); err != nil {
				appLog.Error().Err(err).Msg("bootstrap graph rebuild failed")
			}
		}
	}

	chatService := usecase.NewChatService(
		catalog,
		sessions,
		completions,
		mirror,
		usecase.ChatServiceConfig{},
		metrics.Registry,
	)

	handler := httpDelivery.NewHandler(chatService, crawler, fileStore, mirror)
	router := httpDelivery.SetupRouter(cfg, handler, metrics.Registry)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	appLog.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
