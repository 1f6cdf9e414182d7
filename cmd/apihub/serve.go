package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apihub "github.com/AayushMore1708/api-hub"
	"github.com/AayushMore1708/api-hub/infrastructure/api"
	"github.com/AayushMore1708/api-hub/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                    Server host to bind to (default: 0.0.0.0)
  PORT                    Server port to listen on (default: 8080)
  DATA_DIR                Data directory (default: ~/.apihub)
  DB_URL                  Database URL (default: sqlite:///{data_dir}/apihub.db)
  LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT              Log format: pretty, json (default: pretty)

  EMBEDDING_ENDPOINT_*    Embedding AI service configuration
    BASE_URL              Base URL (e.g., https://api.openai.com/v1)
    MODEL                 Model identifier (e.g., text-embedding-3-small)
    API_KEY               API key for authentication
    TIMEOUT               Request timeout in seconds (default: 60)
    MAX_RETRIES           Retry attempts (default: 5)

  GENERATION_ENDPOINT_*   Answer-generation AI service configuration
    (same fields as EMBEDDING_ENDPOINT)

  SEEDING_CHUNK_SIZE      Max characters per chunk (default: 15000)
  SEEDING_MAX_CHUNKS      Max embedded chunks per spec (default: 12)
  SEEDING_FETCH_TIMEOUT   Spec download timeout in seconds (default: 30)
  SEEDING_EMBED_STAGGER_MS  Delay between embedding dispatches (default: 150)

  QUERY_TOP_K             Ranked chunks per answer (default: 8)
  QUERY_MAX_CONTEXT_CHARS Context length bound (default: 40000)

  WEB_SEARCH_API_KEY      Google Custom Search API key
  WEB_SEARCH_ENGINE_ID    Programmable search engine ID`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars.
	if host != "" {
		cfg = cfg.WithHost(host)
	}
	if port != 0 {
		cfg = cfg.WithPort(port)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting apihub", attrs...)

	client, err := apihub.New(
		apihub.WithAppConfig(cfg),
		apihub.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create apihub client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close apihub client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client)
	apiServer.MountRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
