// Package document defines the stored documentation chunk and its store contract.
package document

import "time"

// Source identifies where a specification document came from.
type Source string

// Source values.
const (
	SourceOfficial  Source = "official"
	SourceCommunity Source = "community"
	SourceOther     Source = "other"
)

// Document is one embedded fragment of a library's API specification.
// Documents are immutable once created; re-seeding a library replaces the
// whole batch rather than updating rows in place.
type Document struct {
	id        int64
	library   string
	source    Source
	url       string
	content   string
	vector    []float64
	createdAt time.Time
}

// New creates a Document ready for persistence.
func New(library string, source Source, url, content string, vector []float64) Document {
	vec := make([]float64, len(vector))
	copy(vec, vector)
	return Document{
		library: library,
		source:  source,
		url:     url,
		content: content,
		vector:  vec,
	}
}

// Restore rehydrates a Document from stored fields.
func Restore(id int64, library string, source Source, url, content string, vector []float64, createdAt time.Time) Document {
	d := New(library, source, url, content, vector)
	d.id = id
	d.createdAt = createdAt
	return d
}

// ID returns the row identifier (0 before persistence).
func (d Document) ID() int64 { return d.id }

// Library returns the library tag.
func (d Document) Library() string { return d.library }

// Source returns the document source.
func (d Document) Source() Source { return d.source }

// URL returns the origin URL the content was fetched from.
func (d Document) URL() string { return d.url }

// Content returns the raw chunk text.
func (d Document) Content() string { return d.content }

// Vector returns the embedding vector.
func (d Document) Vector() []float64 {
	vec := make([]float64, len(d.vector))
	copy(vec, d.vector)
	return vec
}

// CreatedAt returns the creation timestamp.
func (d Document) CreatedAt() time.Time { return d.createdAt }
