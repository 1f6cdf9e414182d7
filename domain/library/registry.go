// Package library tracks the external API providers whose specifications
// can be indexed.
package library

import (
	"sort"
	"strings"
)

// Registry maps library identifiers to official specification URLs.
type Registry struct {
	specs map[string][]string
}

// Default returns the built-in registry of well-known providers.
func Default() Registry {
	return NewRegistry(map[string][]string{
		"stripe": {
			"https://raw.githubusercontent.com/stripe/openapi/master/openapi/spec3.yaml",
		},
		"openai": {
			"https://raw.githubusercontent.com/openai/openai-openapi/master/openapi.yaml",
		},
		"github": {
			"https://raw.githubusercontent.com/github/rest-api-description/main/descriptions/api.github.com/api.github.com.yaml",
		},
		"twilio": {
			"https://raw.githubusercontent.com/twilio/twilio-oai/main/spec/yaml/twilio_api_v2010.yaml",
		},
	})
}

// NewRegistry creates a Registry from library-name to spec-URL mappings.
// Names are normalized to lower case.
func NewRegistry(specs map[string][]string) Registry {
	normalized := make(map[string][]string, len(specs))
	for name, urls := range specs {
		cp := make([]string, len(urls))
		copy(cp, urls)
		normalized[strings.ToLower(name)] = cp
	}
	return Registry{specs: normalized}
}

// Names returns all registered library names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URLs returns the specification URLs for a library.
func (r Registry) URLs(name string) []string {
	urls, ok := r.specs[strings.ToLower(name)]
	if !ok {
		return nil
	}
	cp := make([]string, len(urls))
	copy(cp, urls)
	return cp
}

// Known reports whether a library is registered.
func (r Registry) Known(name string) bool {
	_, ok := r.specs[strings.ToLower(name)]
	return ok
}

// Infer detects a registered library mentioned in free text by
// case-insensitive substring match. The first match in sorted name order
// wins, which keeps inference deterministic.
func (r Registry) Infer(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, name := range r.Names() {
		if strings.Contains(lowered, name) {
			return name, true
		}
	}
	return "", false
}
