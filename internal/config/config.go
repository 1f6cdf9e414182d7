package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultLogLevel        = "INFO"
	DefaultChunkSize       = 15000
	DefaultMaxChunks       = 12
	DefaultTopK            = 8
	DefaultMaxContextChars = 40000
	DefaultFetchTimeout    = 30 * time.Second
	DefaultEmbedStagger    = 150 * time.Millisecond
	DefaultEndpointTimeout = 60 * time.Second
	DefaultMaxRetries      = 5
	DefaultInitialDelay    = 2 * time.Second
	DefaultBackoffFactor   = 2.0
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures an AI service endpoint.
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:       DefaultEndpointTimeout,
		maxRetries:    DefaultMaxRetries,
		initialDelay:  DefaultInitialDelay,
		backoffFactor: DefaultBackoffFactor,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// IsConfigured returns true if the endpoint has an API key or base URL.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != "" || e.baseURL != ""
}

// SeedingConfig configures documentation seeding.
type SeedingConfig struct {
	chunkSize    int
	maxChunks    int
	fetchTimeout time.Duration
	embedStagger time.Duration
}

// NewSeedingConfig creates a SeedingConfig with defaults.
func NewSeedingConfig() SeedingConfig {
	return SeedingConfig{
		chunkSize:    DefaultChunkSize,
		maxChunks:    DefaultMaxChunks,
		fetchTimeout: DefaultFetchTimeout,
		embedStagger: DefaultEmbedStagger,
	}
}

// WithChunkSize returns a copy with the chunk size overridden.
func (s SeedingConfig) WithChunkSize(n int) SeedingConfig {
	s.chunkSize = n
	return s
}

// WithMaxChunks returns a copy with the chunk cap overridden.
func (s SeedingConfig) WithMaxChunks(n int) SeedingConfig {
	s.maxChunks = n
	return s
}

// WithFetchTimeout returns a copy with the fetch timeout overridden.
func (s SeedingConfig) WithFetchTimeout(d time.Duration) SeedingConfig {
	s.fetchTimeout = d
	return s
}

// WithEmbedStagger returns a copy with the embed stagger overridden.
func (s SeedingConfig) WithEmbedStagger(d time.Duration) SeedingConfig {
	s.embedStagger = d
	return s
}

// ChunkSize returns the maximum chunk length in characters.
func (s SeedingConfig) ChunkSize() int { return s.chunkSize }

// MaxChunks returns the cap on embedded chunks per spec.
func (s SeedingConfig) MaxChunks() int { return s.maxChunks }

// FetchTimeout returns the spec download timeout.
func (s SeedingConfig) FetchTimeout() time.Duration { return s.fetchTimeout }

// EmbedStagger returns the delay between embedding dispatches.
func (s SeedingConfig) EmbedStagger() time.Duration { return s.embedStagger }

// QueryConfig configures query answering.
type QueryConfig struct {
	topK            int
	maxContextChars int
}

// NewQueryConfig creates a QueryConfig with defaults.
func NewQueryConfig() QueryConfig {
	return QueryConfig{
		topK:            DefaultTopK,
		maxContextChars: DefaultMaxContextChars,
	}
}

// WithTopK returns a copy with the ranked-chunk count overridden.
func (q QueryConfig) WithTopK(n int) QueryConfig {
	q.topK = n
	return q
}

// WithMaxContextChars returns a copy with the context bound overridden.
func (q QueryConfig) WithMaxContextChars(n int) QueryConfig {
	q.maxContextChars = n
	return q
}

// TopK returns how many ranked chunks feed the context window.
func (q QueryConfig) TopK() int { return q.topK }

// MaxContextChars returns the context length bound.
func (q QueryConfig) MaxContextChars() int { return q.maxContextChars }

// WebSearchConfig configures the web search proxy.
type WebSearchConfig struct {
	apiKey   string
	engineID string
}

// NewWebSearchConfig creates a WebSearchConfig from credentials.
func NewWebSearchConfig(apiKey, engineID string) WebSearchConfig {
	return WebSearchConfig{apiKey: apiKey, engineID: engineID}
}

// APIKey returns the Google Custom Search API key.
func (w WebSearchConfig) APIKey() string { return w.apiKey }

// EngineID returns the programmable search engine identifier.
func (w WebSearchConfig) EngineID() string { return w.engineID }

// IsConfigured returns true if the proxy has credentials.
func (w WebSearchConfig) IsConfigured() bool {
	return w.apiKey != "" && w.engineID != ""
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host               string
	port               int
	dataDir            string
	dbURL              string
	logLevel           string
	logFormat          LogFormat
	embeddingEndpoint  Endpoint
	generationEndpoint Endpoint
	seeding            SeedingConfig
	query              QueryConfig
	webSearch          WebSearchConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".apihub"
	}
	return filepath.Join(home, ".apihub")
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:               DefaultHost,
		port:               DefaultPort,
		dataDir:            dataDir,
		dbURL:              "sqlite:///" + filepath.Join(dataDir, "apihub.db"),
		logLevel:           DefaultLogLevel,
		logFormat:          LogFormatPretty,
		embeddingEndpoint:  NewEndpoint(),
		generationEndpoint: NewEndpoint(),
		seeding:            NewSeedingConfig(),
		query:              NewQueryConfig(),
	}
}

// LoadConfig loads configuration from a .env file (if present) and
// environment variables. Later sources override earlier ones.
func LoadConfig(envFile string) (AppConfig, error) {
	if envFile != "" {
		if err := LoadDotenv(envFile); err != nil {
			return AppConfig{}, fmt.Errorf("load env file: %w", err)
		}
	} else {
		LoadDefaultDotenv()
	}

	env, err := LoadEnv()
	if err != nil {
		return AppConfig{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg := NewAppConfig()
	if env.Host != "" {
		cfg.host = env.Host
	}
	if env.Port != 0 {
		cfg.port = env.Port
	}
	if env.DataDir != "" {
		cfg.dataDir = env.DataDir
		cfg.dbURL = "sqlite:///" + filepath.Join(env.DataDir, "apihub.db")
	}
	if env.DBURL != "" {
		cfg.dbURL = env.DBURL
	}
	if env.LogLevel != "" {
		cfg.logLevel = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.logFormat = ParseLogFormat(env.LogFormat)
	}

	cfg.embeddingEndpoint = env.EmbeddingEndpoint.EndpointConfig()
	cfg.generationEndpoint = env.GenerationEndpoint.EndpointConfig()

	if env.Seeding.ChunkSize > 0 {
		cfg.seeding.chunkSize = env.Seeding.ChunkSize
	}
	if env.Seeding.MaxChunks > 0 {
		cfg.seeding.maxChunks = env.Seeding.MaxChunks
	}
	if env.Seeding.FetchTimeout > 0 {
		cfg.seeding.fetchTimeout = time.Duration(env.Seeding.FetchTimeout * float64(time.Second))
	}
	if env.Seeding.EmbedStagger > 0 {
		cfg.seeding.embedStagger = time.Duration(env.Seeding.EmbedStagger) * time.Millisecond
	}
	if env.Query.TopK > 0 {
		cfg.query.topK = env.Query.TopK
	}
	if env.Query.MaxContextChars > 0 {
		cfg.query.maxContextChars = env.Query.MaxContextChars
	}
	cfg.webSearch = WebSearchConfig{
		apiKey:   env.WebSearch.APIKey,
		engineID: env.WebSearch.EngineID,
	}

	return cfg, nil
}

// ParseLogFormat converts a string to a LogFormat, defaulting to pretty.
func ParseLogFormat(s string) LogFormat {
	if strings.EqualFold(s, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatPretty
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// EmbeddingEndpoint returns the embedding service endpoint.
func (c AppConfig) EmbeddingEndpoint() Endpoint { return c.embeddingEndpoint }

// GenerationEndpoint returns the answer-generation service endpoint.
func (c AppConfig) GenerationEndpoint() Endpoint { return c.generationEndpoint }

// Seeding returns the seeding configuration.
func (c AppConfig) Seeding() SeedingConfig { return c.seeding }

// Query returns the query answering configuration.
func (c AppConfig) Query() QueryConfig { return c.query }

// WebSearch returns the web search proxy configuration.
func (c AppConfig) WebSearch() WebSearchConfig { return c.webSearch }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// WithHost returns a copy with the host overridden.
func (c AppConfig) WithHost(host string) AppConfig {
	c.host = host
	return c
}

// WithPort returns a copy with the port overridden.
func (c AppConfig) WithPort(port int) AppConfig {
	c.port = port
	return c
}

// LogAttrs returns structured attributes describing the configuration,
// with secrets masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("embedding_model", c.embeddingEndpoint.Model()),
		slog.String("generation_model", c.generationEndpoint.Model()),
		slog.Int("chunk_size", c.seeding.chunkSize),
		slog.Int("max_chunks", c.seeding.maxChunks),
	}
}

// maskedDBURL hides credentials in the database URL for logging.
func (c AppConfig) maskedDBURL() string {
	at := strings.LastIndex(c.dbURL, "@")
	if at < 0 {
		return c.dbURL
	}
	scheme := strings.Index(c.dbURL, "://")
	if scheme < 0 {
		return c.dbURL
	}
	return c.dbURL[:scheme+3] + "***" + c.dbURL[at:]
}
