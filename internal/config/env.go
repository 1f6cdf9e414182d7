// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiters (e.g. EMBEDDING_ENDPOINT_API_KEY).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR (default: .apihub)
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL (default: sqlite:///{data_dir}/apihub.db)
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// GenerationEndpoint configures the answer-generation AI service.
	GenerationEndpoint EndpointEnv `envconfig:"GENERATION_ENDPOINT"`

	// Seeding configures documentation seeding.
	Seeding SeedingEnv `envconfig:"SEEDING"`

	// Query configures query answering.
	Query QueryEnv `envconfig:"QUERY"`

	// WebSearch configures the web search proxy.
	WebSearch WebSearchEnv `envconfig:"WEB_SEARCH"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier (e.g. text-embedding-3-small).
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: *_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: *_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// SeedingEnv holds environment configuration for spec seeding.
type SeedingEnv struct {
	// ChunkSize is the maximum chunk length in characters.
	// Env: SEEDING_CHUNK_SIZE (default: 15000)
	ChunkSize int `envconfig:"CHUNK_SIZE" default:"15000"`

	// MaxChunks caps how many chunks of one spec are embedded.
	// Env: SEEDING_MAX_CHUNKS (default: 12)
	MaxChunks int `envconfig:"MAX_CHUNKS" default:"12"`

	// FetchTimeout is the spec download timeout in seconds.
	// Env: SEEDING_FETCH_TIMEOUT (default: 30)
	FetchTimeout float64 `envconfig:"FETCH_TIMEOUT" default:"30"`

	// EmbedStagger is the delay between concurrent embedding dispatches
	// in milliseconds, to smooth burst load on the provider.
	// Env: SEEDING_EMBED_STAGGER_MS (default: 150)
	EmbedStagger int `envconfig:"EMBED_STAGGER_MS" default:"150"`
}

// QueryEnv holds environment configuration for query answering.
type QueryEnv struct {
	// TopK is how many ranked chunks feed the context window.
	// Env: QUERY_TOP_K (default: 8)
	TopK int `envconfig:"TOP_K" default:"8"`

	// MaxContextChars bounds the concatenated context length.
	// Env: QUERY_MAX_CONTEXT_CHARS (default: 40000)
	MaxContextChars int `envconfig:"MAX_CONTEXT_CHARS" default:"40000"`
}

// WebSearchEnv holds environment configuration for the search proxy.
type WebSearchEnv struct {
	// APIKey is the Google Custom Search API key.
	// Env: WEB_SEARCH_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// EngineID is the programmable search engine identifier (cx).
	// Env: WEB_SEARCH_ENGINE_ID
	EngineID string `envconfig:"ENGINE_ID"`
}

// LoadEnv parses environment variables into an EnvConfig.
func LoadEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return EnvConfig{}, err
	}
	return env, nil
}

// EndpointConfig converts an EndpointEnv to an Endpoint.
func (e EndpointEnv) EndpointConfig() Endpoint {
	ep := NewEndpoint()
	ep.baseURL = strings.TrimSuffix(e.BaseURL, "/")
	ep.model = e.Model
	ep.apiKey = e.APIKey
	if e.Timeout > 0 {
		ep.timeout = time.Duration(e.Timeout * float64(time.Second))
	}
	if e.MaxRetries > 0 {
		ep.maxRetries = e.MaxRetries
	}
	if e.InitialDelay > 0 {
		ep.initialDelay = time.Duration(e.InitialDelay * float64(time.Second))
	}
	if e.BackoffFactor > 0 {
		ep.backoffFactor = e.BackoffFactor
	}
	return ep
}
