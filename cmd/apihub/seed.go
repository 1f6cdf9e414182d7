package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	apihub "github.com/AayushMore1708/api-hub"
	"github.com/AayushMore1708/api-hub/internal/log"
)

func seedCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "seed [library...]",
		Short: "Seed documentation for registered libraries",
		Long: `Fetch, chunk, embed and store the official OpenAPI specifications
for the named libraries, or for all registered libraries if none are named.

Libraries that already have stored documents are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(envFile, args)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")

	return cmd
}

func runSeed(envFile string, libraries []string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

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

	ctx := context.Background()
	if len(libraries) == 0 {
		slogger.Info("seeding all libraries", "libraries", strings.Join(client.Seeder.Registry().Names(), ", "))
		return client.Seeder.SeedAll(ctx)
	}

	for _, name := range libraries {
		if !client.Seeder.Registry().Known(name) {
			return fmt.Errorf("unknown library %q (registered: %s)", name, strings.Join(client.Seeder.Registry().Names(), ", "))
		}
	}
	for _, name := range libraries {
		if err := client.Seeder.SeedLibrary(ctx, name); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}
