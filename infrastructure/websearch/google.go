// Package websearch proxies queries to the Google Custom Search API.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AayushMore1708/api-hub/internal/config"
)

const endpoint = "https://www.googleapis.com/customsearch/v1"

// ErrNotConfigured indicates the search proxy is missing credentials.
var ErrNotConfigured = errors.New("web search is not configured")

// Result is one search hit, shaped for the UI.
type Result struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
}

// Client queries the Google Custom Search JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engineID   string
}

// NewClient creates a search client from configuration.
func NewClient(cfg config.WebSearchConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    endpoint,
		apiKey:     cfg.APIKey(),
		engineID:   cfg.EngineID(),
	}
}

// Search runs a query and returns the hits in rank order.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Items []Result `json:"items"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if body.Error != nil {
		return nil, fmt.Errorf("search API: %s", body.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API: HTTP %d", resp.StatusCode)
	}

	return body.Items, nil
}
