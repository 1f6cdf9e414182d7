package apihub

import (
	"log/slog"

	"github.com/AayushMore1708/api-hub/domain/library"
	"github.com/AayushMore1708/api-hub/infrastructure/provider"
	"github.com/AayushMore1708/api-hub/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	dbURL     string
	dataDir   string
	logger    *slog.Logger
	embedder  provider.Embedder
	generator provider.TextGenerator
	registry  library.Registry
	seeding   config.SeedingConfig
	query     config.QueryConfig
	webSearch config.WebSearchConfig
	noCache   bool
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:  config.DefaultDataDir(),
		registry: library.Default(),
		seeding:  config.NewSeedingConfig(),
		query:    config.NewQueryConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithDatabaseURL sets the database connection URL. It accepts
// "sqlite:///path" and "postgres://..." URLs. Defaults to a SQLite
// database in the data directory.
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithOpenAIEmbedding configures an OpenAI-compatible embedding endpoint.
func WithOpenAIEmbedding(ep config.Endpoint) Option {
	return func(c *clientConfig) {
		c.embedder = provider.NewOpenAIEmbedder(ep)
	}
}

// WithOpenAIGeneration configures an OpenAI-compatible generation endpoint.
func WithOpenAIGeneration(ep config.Endpoint) Option {
	return func(c *clientConfig) {
		c.generator = provider.NewOpenAIGenerator(ep)
	}
}

// WithEmbedder sets a custom embedding provider.
func WithEmbedder(e provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithTextGenerator sets a custom text generation provider.
func WithTextGenerator(g provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.generator = g
	}
}

// WithLibraries replaces the built-in library registry.
func WithLibraries(registry library.Registry) Option {
	return func(c *clientConfig) {
		c.registry = registry
	}
}

// WithSeedingConfig sets the seeding parameters.
func WithSeedingConfig(cfg config.SeedingConfig) Option {
	return func(c *clientConfig) {
		c.seeding = cfg
	}
}

// WithQueryConfig sets the query answering parameters.
func WithQueryConfig(cfg config.QueryConfig) Option {
	return func(c *clientConfig) {
		c.query = cfg
	}
}

// WithWebSearch sets the web search proxy credentials.
func WithWebSearch(cfg config.WebSearchConfig) Option {
	return func(c *clientConfig) {
		c.webSearch = cfg
	}
}

// WithoutEmbeddingCache disables the in-memory embedding cache.
func WithoutEmbeddingCache() Option {
	return func(c *clientConfig) {
		c.noCache = true
	}
}

// WithAppConfig applies an environment-derived AppConfig in one step.
func WithAppConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.dbURL = cfg.DBURL()
		c.dataDir = cfg.DataDir()
		c.embedder = provider.NewOpenAIEmbedder(cfg.EmbeddingEndpoint())
		c.generator = provider.NewOpenAIGenerator(cfg.GenerationEndpoint())
		c.seeding = cfg.Seeding()
		c.query = cfg.Query()
		c.webSearch = cfg.WebSearch()
	}
}
