package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AayushMore1708/api-hub/domain/document"
	"github.com/AayushMore1708/api-hub/domain/library"
	"github.com/AayushMore1708/api-hub/domain/storage"
	"github.com/AayushMore1708/api-hub/infrastructure/provider"
	"github.com/AayushMore1708/api-hub/infrastructure/search"
	"github.com/AayushMore1708/api-hub/internal/config"
)

// answerPrompt instructs the generator to extract endpoints as markdown.
const answerPrompt = `You are an API documentation extractor.
From the OpenAPI specification paths context below, extract and output all REST API endpoints grouped by HTTP method in markdown format.

For each method, list endpoints with:
* **Path:** ` + "`/path`" + `
* **Description:** short description
* **Key Parameters:**
  * name: description (type)

No summaries or JSON. Only markdown.

# %s REST Endpoints
%s
Question: %s`

// Answer is the result of a documentation query.
type Answer struct {
	// Text is the generated answer, or a placeholder while seeding runs.
	Text string

	// Initializing is true when no documents were available yet and Text
	// is a placeholder rather than a generated answer.
	Initializing bool

	// Library is the inferred library, empty if none was recognized.
	Library string
}

// Query answers documentation questions from stored specification chunks.
// Seeding for a recognized library is kicked off in the background on
// first contact; until documents land the caller gets a placeholder.
type Query struct {
	store      document.Store
	embedder   provider.Embedder
	generator  provider.TextGenerator
	registry   library.Registry
	seeder     *Seeder
	background Submitter
	cfg        config.QueryConfig
	logger     *slog.Logger
}

// NewQuery creates a Query service.
func NewQuery(
	store document.Store,
	embedder provider.Embedder,
	generator provider.TextGenerator,
	seeder *Seeder,
	background Submitter,
	cfg config.QueryConfig,
	logger *slog.Logger,
) *Query {
	if logger == nil {
		logger = slog.Default()
	}
	return &Query{
		store:      store,
		embedder:   embedder,
		generator:  generator,
		registry:   seeder.Registry(),
		seeder:     seeder,
		background: background,
		cfg:        cfg,
		logger:     logger,
	}
}

// Ask answers a free-text documentation question. Queries that mention a
// registered library are scoped to it and trigger its seeding; other
// queries search across all stored documents.
func (q *Query) Ask(ctx context.Context, query string) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, ErrMissingQuery
	}

	lib, found := q.registry.Infer(query)
	if found {
		name := lib
		q.background.Submit("seed "+name, func(ctx context.Context) error {
			return q.seeder.SeedLibrary(ctx, name)
		})
	}

	vectors, err := q.embedder.Embed(ctx, []string{query})
	if err != nil {
		return Answer{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return Answer{}, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	var options []storage.Option
	if found {
		options = append(options, document.WithLibrary(lib))
	}
	docs, err := q.store.Find(ctx, options...)
	if err != nil {
		return Answer{}, fmt.Errorf("load documents: %w", err)
	}

	if len(docs) == 0 {
		subject := lib
		if subject == "" {
			subject = query
		}
		return Answer{
			Text:         fmt.Sprintf("Preparing documentation for %q. Please retry in a few seconds.", subject),
			Initializing: true,
			Library:      lib,
		}, nil
	}

	matches := search.TopK(vectors[0], docs, q.cfg.TopK())
	docContext := q.buildContext(matches)

	answer, err := q.generate(ctx, query, lib, docContext)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Text: answer, Library: lib}, nil
}

// buildContext joins ranked chunk contents, bounded to the configured
// context length.
func (q *Query) buildContext(matches []search.Match) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.Document().Content()
	}
	joined := strings.Join(parts, "\n\n")

	limit := q.cfg.MaxContextChars()
	if limit <= 0 {
		return joined
	}
	runes := []rune(joined)
	if len(runes) <= limit {
		return joined
	}
	return string(runes[:limit])
}

// generate produces the final answer text from the assembled context.
func (q *Query) generate(ctx context.Context, query, lib, docContext string) (string, error) {
	heading := "API"
	if lib != "" {
		heading = strings.ToUpper(lib)
	}
	prompt := fmt.Sprintf(answerPrompt, heading, docContext, query)

	resp, err := q.generator.ChatCompletion(ctx, provider.NewChatCompletionRequest(
		[]provider.Message{provider.UserMessage(prompt)},
	))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return resp.Content(), nil
}
