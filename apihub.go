// Package apihub provides semantic retrieval over OpenAPI documentation.
//
// It fetches official API specifications, chunks and embeds them, and
// answers free-text questions about REST endpoints from the most similar
// stored chunks.
//
// Basic usage:
//
//	client, err := apihub.New(
//	    apihub.WithDatabaseURL("sqlite:///.apihub/apihub.db"),
//	    apihub.WithOpenAIEmbedding(embeddingEndpoint),
//	    apihub.WithOpenAIGeneration(generationEndpoint),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	answer, err := client.Query.Ask(ctx, "how do I create a stripe customer?")
package apihub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/AayushMore1708/api-hub/application/service"
	"github.com/AayushMore1708/api-hub/infrastructure/persistence"
	"github.com/AayushMore1708/api-hub/infrastructure/provider"
	"github.com/AayushMore1708/api-hub/infrastructure/specfetch"
	"github.com/AayushMore1708/api-hub/infrastructure/websearch"
	"github.com/AayushMore1708/api-hub/internal/database"
)

// ErrNoEmbedder is returned by New when no embedding provider is configured.
var ErrNoEmbedder = errors.New("no embedding provider configured")

// ErrNoGenerator is returned by New when no text generation provider is
// configured.
var ErrNoGenerator = errors.New("no text generation provider configured")

// Client is the main entry point for the library.
// The background seeding runner starts automatically on creation.
//
// Access services via struct fields:
//
//	client.Query.Ask(ctx, "how do I create a stripe customer?")
//	client.Seeder.SeedAll(ctx)
type Client struct {
	// Public service fields (direct access)
	Query     *service.Query
	Seeder    *service.Seeder
	WebSearch *websearch.Client

	db         database.Database
	background *service.Background
	cache      provider.VectorCache
	logger     *slog.Logger
	closed     atomic.Bool
}

// New creates a new Client with the given options.
// The background runner is started automatically.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.embedder == nil {
		return nil, ErrNoEmbedder
	}
	if cfg.generator == nil {
		return nil, ErrNoGenerator
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	dbURL := cfg.dbURL
	if dbURL == "" {
		dbURL = "sqlite:///" + filepath.Join(cfg.dataDir, "apihub.db")
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(ctx, db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	embedder := cfg.embedder
	var cache provider.VectorCache
	if !cfg.noCache {
		cache = provider.NewMemoryCache()
		embedder = provider.NewCachingEmbedder(embedder, cache)
	}

	store := persistence.NewDocumentStore(db)
	fetcher := specfetch.NewFetcher(cfg.seeding.FetchTimeout())

	background := service.NewBackground(logger)
	seeder := service.NewSeeder(store, fetcher, embedder, cfg.registry, cfg.seeding, logger)
	query := service.NewQuery(store, embedder, cfg.generator, seeder, background, cfg.query, logger)

	background.Start(ctx)

	return &Client{
		Query:      query,
		Seeder:     seeder,
		WebSearch:  websearch.NewClient(cfg.webSearch),
		db:         db,
		background: background,
		cache:      cache,
		logger:     logger,
	}, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Background returns the background task runner.
func (c *Client) Background() *service.Background {
	return c.background
}

// Close stops the background runner and releases the database.
// It is safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.background.Stop()
	return c.db.Close()
}
