package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AayushMore1708/api-hub/application/service"
	"github.com/AayushMore1708/api-hub/domain/document"
	"github.com/AayushMore1708/api-hub/infrastructure/persistence"
	"github.com/AayushMore1708/api-hub/infrastructure/provider"
	"github.com/AayushMore1708/api-hub/internal/config"
	"github.com/AayushMore1708/api-hub/internal/testdb"
)

// fakeGenerator records prompts and echoes a canned answer.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	answer  string
}

func (g *fakeGenerator) ChatCompletion(_ context.Context, req provider.ChatCompletionRequest) (provider.ChatCompletionResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	for _, m := range req.Messages() {
		g.prompts = append(g.prompts, m.Content())
	}
	return provider.NewChatCompletionResponse(g.answer, "stop"), nil
}

// recordingSubmitter captures submitted tasks without running them.
type recordingSubmitter struct {
	mu    sync.Mutex
	names []string
	fns   []service.TaskFunc
}

func (r *recordingSubmitter) Submit(name string, fn service.TaskFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.fns = append(r.fns, fn)
}

// vectorEmbedder returns a fixed vector for every text.
type vectorEmbedder struct {
	vector []float64
}

func (e vectorEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = e.vector
	}
	return vectors, nil
}

func newQueryService(t *testing.T, store document.Store, embedder provider.Embedder, generator provider.TextGenerator, background service.Submitter) *service.Query {
	t.Helper()
	seeder := service.NewSeeder(store, &fakeFetcher{}, embedder, testRegistry(), seedingConfig(), nil)
	return service.NewQuery(store, embedder, generator, seeder, background, config.NewQueryConfig(), nil)
}

func TestAsk_MissingQuery(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	generator := &fakeGenerator{}

	query := newQueryService(t, store, vectorEmbedder{vector: []float64{1}}, generator, &recordingSubmitter{})

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := query.Ask(ctx, q)
		require.ErrorIs(t, err, service.ErrMissingQuery, "query %q", q)
	}
	assert.Zero(t, generator.calls)
}

func TestAsk_EmptyStoreReturnsInitializing(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	generator := &fakeGenerator{}
	background := &recordingSubmitter{}

	query := newQueryService(t, store, vectorEmbedder{vector: []float64{1, 2, 3}}, generator, background)

	answer, err := query.Ask(ctx, "how do I create a stripe customer?")
	require.NoError(t, err)

	assert.True(t, answer.Initializing)
	assert.Equal(t, "stripe", answer.Library)
	assert.Contains(t, answer.Text, "stripe")
	assert.Zero(t, generator.calls)

	// Seeding was submitted but not awaited.
	require.Len(t, background.names, 1)
	assert.Equal(t, "seed stripe", background.names[0])
}

func TestAsk_UnknownLibraryPlaceholderNamesQuery(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))
	background := &recordingSubmitter{}

	query := newQueryService(t, store, vectorEmbedder{vector: []float64{1}}, &fakeGenerator{}, background)

	answer, err := query.Ask(ctx, "how do I send email?")
	require.NoError(t, err)

	assert.True(t, answer.Initializing)
	assert.Empty(t, answer.Library)
	assert.Contains(t, answer.Text, "how do I send email?")
	assert.Empty(t, background.names)
}

func TestAsk_AnswersFromMostSimilarChunks(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	require.NoError(t, store.SaveAll(ctx, []document.Document{
		document.New("stripe", document.SourceOfficial, "u", "customer endpoints", []float64{1, 2, 3}),
		document.New("stripe", document.SourceOfficial, "u", "unrelated billing", []float64{2, 3, 4}),
	}))

	generator := &fakeGenerator{answer: "## POST\n* **Path:** `/v1/customers`"}
	query := newQueryService(t, store, vectorEmbedder{vector: []float64{1, 2, 3}}, generator, &recordingSubmitter{})

	answer, err := query.Ask(ctx, "stripe customers")
	require.NoError(t, err)

	assert.False(t, answer.Initializing)
	assert.Equal(t, "## POST\n* **Path:** `/v1/customers`", answer.Text)

	require.Len(t, generator.prompts, 1)
	prompt := generator.prompts[0]

	// The exact-match chunk leads the context.
	assert.Less(t, strings.Index(prompt, "customer endpoints"), strings.Index(prompt, "unrelated billing"))
	assert.Contains(t, prompt, "# STRIPE REST Endpoints")
	assert.Contains(t, prompt, "stripe customers")
}

func TestAsk_ScopesToInferredLibrary(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	require.NoError(t, store.SaveAll(ctx, []document.Document{
		document.New("github", document.SourceOfficial, "u", "github only chunk", []float64{1, 0}),
	}))

	generator := &fakeGenerator{answer: "answer"}
	query := newQueryService(t, store, vectorEmbedder{vector: []float64{1, 0}}, generator, &recordingSubmitter{})

	// Stripe has no documents, so even with github rows present the
	// scoped query reports initializing.
	answer, err := query.Ask(ctx, "stripe refunds")
	require.NoError(t, err)
	assert.True(t, answer.Initializing)

	answer, err = query.Ask(ctx, "github repositories")
	require.NoError(t, err)
	assert.False(t, answer.Initializing)
	assert.Contains(t, generator.prompts[0], "github only chunk")
}

func TestAsk_ContextIsBounded(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	big := strings.Repeat("x", 500)
	require.NoError(t, store.SaveAll(ctx, []document.Document{
		document.New("openai", document.SourceOfficial, "u", big, []float64{1}),
		document.New("openai", document.SourceOfficial, "u", big, []float64{1}),
	}))

	generator := &fakeGenerator{answer: "ok"}
	seeder := service.NewSeeder(store, &fakeFetcher{}, vectorEmbedder{vector: []float64{1}}, testRegistry(), seedingConfig(), nil)
	cfg := config.NewQueryConfig().WithMaxContextChars(100)
	query := service.NewQuery(store, vectorEmbedder{vector: []float64{1}}, generator, seeder, &recordingSubmitter{}, cfg, nil)

	_, err := query.Ask(ctx, "openai completions")
	require.NoError(t, err)

	require.Len(t, generator.prompts, 1)
	assert.Less(t, len(generator.prompts[0]), 2*len(big))
}

func TestAsk_BackgroundSeedActuallySeeds(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewDocumentStore(testdb.New(t))

	fetcher := &fakeFetcher{specs: map[string]map[string]any{
		"https://specs.test/stripe.yaml": pathsSpec("/v1/customers"),
	}}
	embedder := &fakeEmbedder{}
	seeder := service.NewSeeder(store, fetcher, embedder, testRegistry(), seedingConfig(), nil)
	background := &recordingSubmitter{}
	query := service.NewQuery(store, embedder, &fakeGenerator{answer: "ok"}, seeder, background, config.NewQueryConfig(), nil)

	answer, err := query.Ask(ctx, "stripe customers")
	require.NoError(t, err)
	require.True(t, answer.Initializing)

	// Run the captured task the way the runner would.
	require.Len(t, background.fns, 1)
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, background.fns[0](runCtx))

	answer, err = query.Ask(ctx, "stripe customers")
	require.NoError(t, err)
	assert.False(t, answer.Initializing)
}
