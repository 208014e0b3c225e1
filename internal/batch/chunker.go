// Package batch splits long URL lists into chunks so results can be flushed while
// the rest of the list is still being scored.
package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const DefaultChunkSize = 500

// ChunkFunc processes one chunk. offset is the index of chunk[0] in the full input.
type ChunkFunc func(ctx context.Context, chunk []string, offset int) error

// Stats summarizes a Process run.
type Stats struct {
	Chunks    int
	Processed int
	Duration  time.Duration
}

// Chunker runs a ChunkFunc over consecutive chunks, one at a time.
type Chunker struct {
	size   int
	logger zerolog.Logger
}

// NewChunker creates a chunker. A size <= 0 uses DefaultChunkSize.
func NewChunker(size int, logger zerolog.Logger) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Chunker{
		size:   size,
		logger: logger.With().Str("component", "Chunker").Logger(),
	}
}

// Size is the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Split returns consecutive sub-slices of at most Size items. They share input's
// backing array.
func (c *Chunker) Split(input []string) [][]string {
	chunks := make([][]string, 0, c.Count(len(input)))
	for start := 0; start < len(input); start += c.size {
		end := min(start+c.size, len(input))
		chunks = append(chunks, input[start:end])
	}
	return chunks
}

// Count is the number of chunks Split would return for n items.
func (c *Chunker) Count(n int) int {
	return (n + c.size - 1) / c.size
}

// Process calls fn for each chunk in order. It stops at the first error, or before
// the next chunk once ctx is done.
func (c *Chunker) Process(ctx context.Context, input []string, fn ChunkFunc) (Stats, error) {
	start := time.Now()
	chunks := c.Split(input)
	stats := Stats{}

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			c.logger.Info().
				Int("completed_chunks", i).
				Int("total_chunks", len(chunks)).
				Msg("Chunk processing interrupted")
			stats.Duration = time.Since(start)
			return stats, err
		}

		chunkStart := time.Now()
		if err := fn(ctx, chunk, i*c.size); err != nil {
			c.logger.Error().Err(err).Int("chunk_index", i).Msg("Chunk processing failed")
			stats.Duration = time.Since(start)
			return stats, err
		}

		stats.Chunks++
		stats.Processed += len(chunk)
		c.logger.Info().
			Int("chunk", i+1).
			Int("total_chunks", len(chunks)).
			Int("processed", stats.Processed).
			Int("total", len(input)).
			Dur("duration", time.Since(chunkStart)).
			Msg("Chunk done")
	}

	stats.Duration = time.Since(start)
	return stats, nil
}
