package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AayushMore1708/api-hub/internal/config"
)

func testEndpoint(baseURL string) config.Endpoint {
	return config.EndpointEnv{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		MaxRetries:    2,
		InitialDelay:  0.001,
		BackoffFactor: 2,
	}.EndpointConfig()
}

func TestOpenAIProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embeddings", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "list",
			"data": [
				{"object": "embedding", "index": 0, "embedding": [0.1, 0.2]},
				{"object": "embedding", "index": 1, "embedding": [0.3, 0.4]}
			],
			"model": "text-embedding-3-small"
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder(testEndpoint(srv.URL))
	vectors, err := p.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.1, vectors[0][0], 1e-6)
	assert.InDelta(t, 0.4, vectors[1][1], 1e-6)
}

func TestOpenAIProvider_EmbedEmptyInput(t *testing.T) {
	p := NewOpenAIEmbedder(testEndpoint("http://unused.invalid"))

	vectors, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestOpenAIProvider_EmbedRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": {"message": "overloaded", "type": "server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"index": 0, "embedding": [1.0]}], "model": "m"}`))
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder(testEndpoint(srv.URL))
	vectors, err := p.Embed(context.Background(), []string{"text"})
	require.NoError(t, err)

	require.Len(t, vectors, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenAIProvider_EmbedDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIEmbedder(testEndpoint(srv.URL))
	_, err := p.Embed(context.Background(), []string{"text"})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "embedding", provErr.Operation())
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode())
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [
				{"message": {"role": "assistant", "content": "## GET\n* /v1/customers"}, "finish_reason": "stop"}
			]
		}`))
	}))
	defer srv.Close()

	p := NewOpenAIGenerator(testEndpoint(srv.URL))
	resp, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{
		UserMessage("list stripe customer endpoints"),
	}))
	require.NoError(t, err)

	assert.Equal(t, "## GET\n* /v1/customers", resp.Content())
	assert.Equal(t, "stop", resp.FinishReason())
}

func TestOpenAIProvider_ChatCompletionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewOpenAIGenerator(testEndpoint(srv.URL))
	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{UserMessage("hi")}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIProvider_DefaultModels(t *testing.T) {
	embedder := NewOpenAIEmbedder(testEndpoint("http://unused.invalid"))
	assert.Equal(t, "text-embedding-3-small", embedder.embeddingModel)

	generator := NewOpenAIGenerator(testEndpoint("http://unused.invalid"))
	assert.Equal(t, "gpt-4o-mini", generator.chatModel)
}
