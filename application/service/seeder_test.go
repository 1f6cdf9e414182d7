package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AayushMore1708/api-hub/application/service"
	"github.com/AayushMore1708/api-hub/domain/document"
	"github.com/AayushMore1708/api-hub/domain/library"
	"github.com/AayushMore1708/api-hub/domain/spec"
	"github.com/AayushMore1708/api-hub/infrastructure/persistence"
	"github.com/AayushMore1708/api-hub/internal/config"
	"github.com/AayushMore1708/api-hub/internal/testdb"
)

// fakeFetcher serves canned specification documents by URL.
type fakeFetcher struct {
	mu    sync.Mutex
	specs map[string]map[string]any
	errs  map[string]error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (spec.Document, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := f.errs[url]; err != nil {
		return spec.Document{}, err
	}
	raw, ok := f.specs[url]
	if !ok {
		return spec.Document{}, fmt.Errorf("no spec for %s", url)
	}
	return spec.New(raw)
}

// fakeEmbedder returns a fixed-dimension vector derived from each text.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	texts []string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, texts...)
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = []float64{float64(len(text)), float64(strings.Count(text, "/")), 1}
	}
	return vectors, nil
}

func pathsSpec(paths ...string) map[string]any {
	m := make(map[string]any, len(paths))
	for _, p := range paths {
		m[p] = map[string]any{"get": map[string]any{"summary": "op " + p}}
	}
	return map[string]any{"openapi": "3.0.0", "paths": m}
}

func testRegistry() library.Registry {
	return library.NewRegistry(map[string][]string{
		"stripe": {"https://specs.test/stripe.yaml"},
	})
}

func seedingConfig() config.SeedingConfig {
	return config.NewSeedingConfig().WithEmbedStagger(0)
}

func TestSeedLibrary_StoresEmbeddedChunks(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	fetcher := &fakeFetcher{specs: map[string]map[string]any{
		"https://specs.test/stripe.yaml": pathsSpec("/v1/customers", "/v1/charges"),
	}}
	embedder := &fakeEmbedder{}

	seeder := service.NewSeeder(store, fetcher, embedder, testRegistry(), seedingConfig(), nil)
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))

	docs, err := store.Find(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	for _, d := range docs {
		assert.Equal(t, "stripe", d.Library())
		assert.Equal(t, document.SourceOfficial, d.Source())
		assert.Equal(t, "https://specs.test/stripe.yaml", d.URL())
		assert.NotEmpty(t, d.Vector())
	}

	// Joined chunks reproduce the serialized paths.
	var joined strings.Builder
	for _, d := range docs {
		joined.WriteString(d.Content())
	}
	assert.Contains(t, joined.String(), "/v1/customers")
	assert.Contains(t, joined.String(), "/v1/charges")
}

func TestSeedLibrary_IdempotentWhenAlreadySeeded(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	fetcher := &fakeFetcher{specs: map[string]map[string]any{
		"https://specs.test/stripe.yaml": pathsSpec("/v1/customers"),
	}}
	embedder := &fakeEmbedder{}

	seeder := service.NewSeeder(store, fetcher, embedder, testRegistry(), seedingConfig(), nil)
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))

	docs, err := store.Find(ctx)
	require.NoError(t, err)
	firstCount := len(docs)
	require.NotZero(t, firstCount)

	// Second run touches neither the network nor the store.
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))
	assert.Equal(t, 1, fetcher.calls)

	docs, err = store.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, firstCount)
}

func TestSeedLibrary_ChunkCapBoundsDocuments(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	paths := make([]string, 50)
	for i := range paths {
		paths[i] = fmt.Sprintf("/v1/resource%02d", i)
	}
	fetcher := &fakeFetcher{specs: map[string]map[string]any{
		"https://specs.test/stripe.yaml": pathsSpec(paths...),
	}}
	embedder := &fakeEmbedder{}

	cfg := seedingConfig().WithChunkSize(100).WithMaxChunks(3)
	seeder := service.NewSeeder(store, fetcher, embedder, testRegistry(), cfg, nil)
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))

	docs, err := store.Find(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestSeedLibrary_FetchFailureIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	fetcher := &fakeFetcher{errs: map[string]error{
		"https://specs.test/stripe.yaml": errors.New("connection refused"),
	}}
	embedder := &fakeEmbedder{}

	seeder := service.NewSeeder(store, fetcher, embedder, testRegistry(), seedingConfig(), nil)
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))

	assert.Zero(t, embedder.calls)

	docs, err := store.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSeedLibrary_NoPathsIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	fetcher := &fakeFetcher{errs: map[string]error{
		"https://specs.test/stripe.yaml": spec.ErrNoPaths,
	}}

	seeder := service.NewSeeder(store, fetcher, &fakeEmbedder{}, testRegistry(), seedingConfig(), nil)
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))
}

func TestSeedLibrary_EmbedFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	fetcher := &fakeFetcher{specs: map[string]map[string]any{
		"https://specs.test/stripe.yaml": pathsSpec("/v1/customers"),
	}}
	embedder := &fakeEmbedder{err: errors.New("rate limited")}

	seeder := service.NewSeeder(store, fetcher, embedder, testRegistry(), seedingConfig(), nil)
	require.Error(t, seeder.SeedLibrary(ctx, "stripe"))

	docs, err := store.Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	// A later run retries from scratch.
	embedder.err = nil
	require.NoError(t, seeder.SeedLibrary(ctx, "stripe"))
	docs, err = store.Find(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, docs)
}

func TestSeedLibrary_UnregisteredLibraryIsNoop(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	fetcher := &fakeFetcher{}
	seeder := service.NewSeeder(store, fetcher, &fakeEmbedder{}, testRegistry(), seedingConfig(), nil)
	require.NoError(t, seeder.SeedLibrary(ctx, "slack"))
	assert.Zero(t, fetcher.calls)
}

func TestSeedAll_SeedsEveryRegisteredLibrary(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	registry := library.NewRegistry(map[string][]string{
		"stripe": {"https://specs.test/stripe.yaml"},
		"github": {"https://specs.test/github.yaml"},
	})
	fetcher := &fakeFetcher{specs: map[string]map[string]any{
		"https://specs.test/stripe.yaml": pathsSpec("/v1/customers"),
		"https://specs.test/github.yaml": pathsSpec("/repos"),
	}}

	seeder := service.NewSeeder(store, fetcher, &fakeEmbedder{}, registry, seedingConfig(), nil)
	require.NoError(t, seeder.SeedAll(ctx))

	for _, name := range []string{"stripe", "github"} {
		count, err := store.CountByLibrary(ctx, name)
		require.NoError(t, err)
		assert.NotZero(t, count, name)
	}
}
