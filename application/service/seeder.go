// Package service implements the application services that tie fetching,
// embedding, storage and ranking together.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AayushMore1708/api-hub/domain/document"
	"github.com/AayushMore1708/api-hub/domain/library"
	"github.com/AayushMore1708/api-hub/domain/spec"
	"github.com/AayushMore1708/api-hub/infrastructure/chunking"
	"github.com/AayushMore1708/api-hub/infrastructure/provider"
	"github.com/AayushMore1708/api-hub/internal/config"
)

// SpecFetcher downloads and parses a specification document.
type SpecFetcher interface {
	Fetch(ctx context.Context, url string) (spec.Document, error)
}

// Seeder populates the document store with embedded specification chunks.
// Seeding is idempotent per library: a library that already has stored
// documents is never re-seeded.
type Seeder struct {
	store    document.Store
	fetcher  SpecFetcher
	embedder provider.Embedder
	registry library.Registry
	cfg      config.SeedingConfig
	logger   *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	store document.Store,
	fetcher SpecFetcher,
	embedder provider.Embedder,
	registry library.Registry,
	cfg config.SeedingConfig,
	logger *slog.Logger,
) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		store:    store,
		fetcher:  fetcher,
		embedder: embedder,
		registry: registry,
		cfg:      cfg,
		logger:   logger,
	}
}

// Registry returns the library registry the seeder works from.
func (s *Seeder) Registry() library.Registry { return s.registry }

// SeedAll seeds every registered library. A failure in one library does
// not stop the others; all errors are joined into the result.
func (s *Seeder) SeedAll(ctx context.Context) error {
	var errs []error
	for _, name := range s.registry.Names() {
		if err := s.SeedLibrary(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("seed %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// SeedLibrary fetches, chunks, embeds and stores the specifications for
// one library. It returns nil immediately if the library already has
// documents. Unreachable or unparseable sources are logged and skipped;
// embedding and persistence failures are returned so nothing partial is
// recorded as seeded.
func (s *Seeder) SeedLibrary(ctx context.Context, name string) error {
	log := s.logger.With("library", name)

	count, err := s.store.CountByLibrary(ctx, name)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		log.Debug("library already seeded", "documents", count)
		return nil
	}

	urls := s.registry.URLs(name)
	if len(urls) == 0 {
		log.Warn("no specification sources registered")
		return nil
	}

	var docs []document.Document
	for _, url := range urls {
		batch, err := s.seedSource(ctx, name, url)
		if err != nil {
			return err
		}
		docs = append(docs, batch...)
	}
	if len(docs) == 0 {
		log.Warn("no documents produced from any source")
		return nil
	}

	if err := s.store.SaveAll(ctx, docs); err != nil {
		return fmt.Errorf("save documents: %w", err)
	}

	log.Info("library seeded", "documents", len(docs))
	return nil
}

// seedSource turns a single specification URL into embedded documents.
// Fetch and parse failures yield an empty batch, not an error.
func (s *Seeder) seedSource(ctx context.Context, name, url string) ([]document.Document, error) {
	log := s.logger.With("library", name, "url", url)

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn("skipping specification source", "error", err)
		return nil, nil
	}

	serialized, err := doc.PathsJSON()
	if err != nil {
		log.Warn("skipping specification source", "error", err)
		return nil, nil
	}

	chunks, err := chunking.Split(serialized, s.cfg.ChunkSize())
	if err != nil {
		return nil, fmt.Errorf("chunk specification: %w", err)
	}
	chunks = chunking.Cap(chunks, s.cfg.MaxChunks())
	if len(chunks) == 0 {
		log.Warn("specification produced no chunks")
		return nil, nil
	}
	log.Debug("specification chunked", "paths", doc.PathCount(), "chunks", len(chunks))

	vectors, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	docs := make([]document.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = document.New(name, document.SourceOfficial, url, chunk, vectors[i])
	}
	return docs, nil
}

// embedChunks embeds all chunks concurrently, spacing dispatches by the
// configured stagger to avoid bursting the provider. Results keep chunk
// order regardless of completion order.
func (s *Seeder) embedChunks(ctx context.Context, chunks []string) ([][]float64, error) {
	vectors := make([][]float64, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		delay := time.Duration(i) * s.cfg.EmbedStagger()
		g.Go(func() error {
			if delay > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
			}

			result, err := s.embedder.Embed(ctx, []string{chunk})
			if err != nil {
				return err
			}
			if len(result) != 1 {
				return fmt.Errorf("expected 1 embedding, got %d", len(result))
			}
			vectors[i] = result[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
