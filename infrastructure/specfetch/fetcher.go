// Package specfetch downloads and parses OpenAPI specification documents.
package specfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AayushMore1708/api-hub/domain/spec"
	"gopkg.in/yaml.v3"
)

// userAgent identifies this client to spec hosts.
const userAgent = "api-hub/1.0"

// DefaultTimeout bounds a single spec download.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves raw specification documents over HTTP and parses them
// into canonical form. Upstream failures (unreachable host, bad status,
// malformed body, missing paths) are expected, recoverable conditions:
// callers skip the source rather than escalating.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads and parses the specification at rawURL. URLs ending in
// .yaml or .yml are parsed as YAML; everything else is treated as JSON.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (spec.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return spec.Document{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return spec.Document{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return spec.Document{}, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return spec.Document{}, fmt.Errorf("read body: %w", err)
	}

	raw, err := parse(body, isYAML(rawURL))
	if err != nil {
		return spec.Document{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	return spec.New(raw)
}

// parse unmarshals a raw body into a generic tree.
func parse(body []byte, asYAML bool) (map[string]any, error) {
	var raw map[string]any
	if asYAML {
		if err := yaml.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// isYAML reports whether the URL path names a YAML file.
func isYAML(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
