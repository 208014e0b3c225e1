// Package scoring provides the raw phishing probability behind a URL assessment.
// A Scorer may be a local model artifact, a remote model service, or a fixed value;
// callers treat all of them the same way and fall back to a prior when none is
// available.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrUnavailable means no model is loaded or the model service cannot be reached.
var ErrUnavailable = errors.New("scorer unavailable")

// Scorer returns the raw phishing probability for a URL.
type Scorer interface {
	RawProbability(ctx context.Context, url string) (float64, error)
}

// Named is implemented by scorers that can describe themselves for health output.
type Named interface {
	Name() string
}

// NameOf returns s.Name() when available, otherwise a generic label.
func NameOf(s Scorer) string {
	if s == nil {
		return "none"
	}
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// clamp keeps p inside [0,1]. NaN is rejected.
func clamp(p float64) (float64, error) {
	if math.IsNaN(p) {
		return 0, fmt.Errorf("scorer returned NaN")
	}
	return min(max(p, 0), 1), nil
}

// Static always returns the same probability.
type Static struct {
	Probability float64
	Label       string
}

// NewStatic creates a Static scorer.
func NewStatic(p float64) *Static {
	return &Static{Probability: p, Label: "static"}
}

func (s *Static) RawProbability(ctx context.Context, _ string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return clamp(s.Probability)
}

func (s *Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

// Failing returns err for every call. Useful to exercise fallbacks.
type Failing struct {
	Err error
}

func (f Failing) RawProbability(context.Context, string) (float64, error) {
	if f.Err == nil {
		return 0, ErrUnavailable
	}
	return 0, f.Err
}

func (f Failing) Name() string { return "failing" }
