// Package chunking provides fixed-size text chunking for embedding.
package chunking

import "fmt"

// DefaultSize is the default maximum chunk length in characters.
const DefaultSize = 15000

// Split divides text into contiguous, non-overlapping chunks of at most
// size characters (runes), preserving order and exact content: joining the
// result reproduces the input byte for byte. Empty input yields no chunks;
// input shorter than size yields a single chunk.
func Split(text string, size int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}

// Cap truncates a chunk sequence to at most n chunks, taken from the start.
func Cap(chunks []string, n int) []string {
	if n <= 0 || len(chunks) <= n {
		return chunks
	}
	return chunks[:n]
}
