// File: services/ingestion/chunking.go
package ingestion

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	ChunkerRecursive = "recursive"
	ChunkerSliding   = "sliding"

	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
	MinChunkSize        = 100
	MaxChunkSize        = 4000
	MaxChunkOverlap     = 2000
)

var recursiveSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// ChunkOptions selects the chunker and its window.
type ChunkOptions struct {
	Chunker string
	Size    int
	Overlap int
}

// Validate fills defaults and rejects out-of-range values.
func (o *ChunkOptions) Validate() error {
	if o.Chunker == "" {
		o.Chunker = ChunkerRecursive
	}
	if o.Size == 0 {
		o.Size = DefaultChunkSize
	}
	if o.Chunker != ChunkerRecursive && o.Chunker != ChunkerSliding {
		return fmt.Errorf("%w: unknown chunker %q", ErrInvalidChunkOptions, o.Chunker)
	}
	if o.Size < MinChunkSize || o.Size > MaxChunkSize {
		return fmt.Errorf("%w: chunk_size must be between %d and %d", ErrInvalidChunkOptions, MinChunkSize, MaxChunkSize)
	}
	if o.Overlap < 0 || o.Overlap > MaxChunkOverlap {
		return fmt.Errorf("%w: chunk_overlap must be between 0 and %d", ErrInvalidChunkOptions, MaxChunkOverlap)
	}
	if o.Overlap >= o.Size {
		return fmt.Errorf("%w: chunk_overlap must be smaller than chunk_size", ErrInvalidChunkOptions)
	}
	return nil
}

// Chunk splits text with the configured chunker and drops blank pieces.
func Chunk(text string, opts ChunkOptions) ([]string, error) {
	var (
		pieces []string
		err    error
	)
	switch opts.Chunker {
	case ChunkerSliding:
		pieces = ChunkSlidingWindow(text, opts.Size, opts.Overlap)
	default:
		pieces, err = ChunkRecursive(text, opts.Size, opts.Overlap)
	}
	if err != nil {
		return nil, err
	}
	out := pieces[:0]
	for _, p := range pieces {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// ChunkRecursive splits on paragraph, line, sentence and word boundaries in
// that order of preference.
func ChunkRecursive(text string, size, overlap int) ([]string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(recursiveSeparators),
	)
	return splitter.SplitText(text)
}

// ChunkSlidingWindow emits fixed windows of size runes advancing by
// size-overlap. The last window may be shorter.
func ChunkSlidingWindow(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 || size <= 0 {
		return nil
	}
	step := size - overlap
	if step <= 0 {
		step = size
	}
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
