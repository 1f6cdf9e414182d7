// Package spec models parsed OpenAPI specification documents.
package spec

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoPaths indicates the parsed document exposes no usable paths map,
// even after normalization. Callers treat this as an empty source rather
// than a fatal condition.
var ErrNoPaths = errors.New("specification has no paths")

// Document is a parsed specification with a canonical paths map.
type Document struct {
	paths map[string]any
}

// New builds a Document from a parsed specification tree. Vendor-specific
// shapes without a standard paths map are normalized via the registered
// Normalizers before the paths requirement is enforced.
func New(raw map[string]any) (Document, error) {
	paths, ok := raw["paths"].(map[string]any)
	if !ok || len(paths) == 0 {
		for _, n := range normalizers {
			if n.Detect(raw) {
				paths = n.Paths(raw)
				break
			}
		}
	}

	if len(paths) == 0 {
		return Document{}, ErrNoPaths
	}
	return Document{paths: paths}, nil
}

// Paths returns the canonical paths map.
func (d Document) Paths() map[string]any { return d.paths }

// PathCount returns the number of distinct paths.
func (d Document) PathCount() int { return len(d.paths) }

// PathsJSON serializes only the paths object as indented JSON. Only the
// paths are embedded; the rest of the specification (schemas, components)
// is deliberately excluded to bound embedding cost.
func (d Document) PathsJSON() (string, error) {
	data, err := json.MarshalIndent(map[string]any{"paths": d.paths}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize paths: %w", err)
	}
	return string(data), nil
}
