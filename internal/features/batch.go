package features

import (
	"context"
	"runtime"
	"sync"
)

// Extractor runs extraction over batches of URLs on a bounded worker pool.
type Extractor struct {
	workers int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWorkers caps the number of goroutines used by ExtractBatch. Values below 1
// select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		e.workers = n
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// Workers returns the pool size.
func (e *Extractor) Workers() int {
	return e.workers
}

// Extract is the single-URL contract.
func (e *Extractor) Extract(raw string) Vector {
	return Extract(raw)
}

// ExtractBatch returns one vector per input in input order. Elements are independent
// and may be computed in any order. If ctx is cancelled, elements not yet dispatched
// are left as the zero vector.
func (e *Extractor) ExtractBatch(ctx context.Context, urls []string) []Vector {
	out := make([]Vector, len(urls))
	if len(urls) == 0 {
		return out
	}

	workers := min(e.workers, len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = Extract(urls[i])
			}
		}()
	}

dispatch:
	for i := range urls {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return out
}

// ExtractBatch is a convenience wrapper using a default Extractor.
func ExtractBatch(urls []string) []Vector {
	return NewExtractor().ExtractBatch(context.Background(), urls)
}
