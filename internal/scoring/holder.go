package scoring

import (
	"context"
	"sync"
	"sync/atomic"
)

// Loader constructs a scorer, typically by reading a model artifact.
type Loader func() (Scorer, error)

type slot struct {
	scorer Scorer
}

// Holder is the process-wide slot for the active scorer. Readers never lock; Load and
// Reload swap the whole scorer atomically.
type Holder struct {
	current atomic.Pointer[slot]

	mu     sync.Mutex
	loader Loader
}

// NewHolder creates an empty holder. Until a scorer is set every call returns
// ErrUnavailable.
func NewHolder() *Holder {
	return &Holder{}
}

// Load runs loader and installs its scorer. The loader is remembered for Reload. On
// error the previous scorer stays active.
func (h *Holder) Load(loader Loader) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := loader()
	if err != nil {
		return err
	}
	h.loader = loader
	h.current.Store(&slot{scorer: s})
	return nil
}

// Reload re-runs the last loader. It is a no-op when nothing was loaded.
func (h *Holder) Reload() error {
	h.mu.Lock()
	loader := h.loader
	h.mu.Unlock()

	if loader == nil {
		return nil
	}
	return h.Load(loader)
}

// Set installs s directly. A nil s clears the holder.
func (h *Holder) Set(s Scorer) {
	if s == nil {
		h.current.Store(nil)
		return
	}
	h.current.Store(&slot{scorer: s})
}

// Scorer returns the active scorer, or nil.
func (h *Holder) Scorer() Scorer {
	if cur := h.current.Load(); cur != nil {
		return cur.scorer
	}
	return nil
}

// Available reports whether a scorer is installed.
func (h *Holder) Available() bool {
	return h.Scorer() != nil
}

// Name describes the active scorer.
func (h *Holder) Name() string {
	return NameOf(h.Scorer())
}

// RawProbability delegates to the active scorer.
func (h *Holder) RawProbability(ctx context.Context, url string) (float64, error) {
	s := h.Scorer()
	if s == nil {
		return 0, ErrUnavailable
	}
	return s.RawProbability(ctx, url)
}
