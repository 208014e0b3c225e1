// Package assess runs the full scoring pipeline for a URL: feature extraction, raw
// probability from a scorer, bias correction and policy classification.
package assess

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/phishlens/internal/bias"
	"github.com/aleister1102/phishlens/internal/features"
	"github.com/aleister1102/phishlens/internal/metrics"
	"github.com/aleister1102/phishlens/internal/policy"
	"github.com/aleister1102/phishlens/internal/resources"
	"github.com/aleister1102/phishlens/internal/scoring"
)

// Source tells where the raw probability came from.
type Source string

const (
	SourceModel Source = "model"
	SourcePrior Source = "prior"
)

// Assessment is the full result for one URL.
type Assessment struct {
	URL string `json:"url"`
	policy.RiskAssessment
	Features    features.Vector `json:"features"`
	Source      Source          `json:"source"`
	Adjustments []bias.Rule     `json:"adjustments,omitempty"`
}

// Pipeline is safe for concurrent use. The scorer it holds may be swapped underneath
// it when a scoring.Holder is passed.
type Pipeline struct {
	extractor *features.Extractor
	scorer    scoring.Scorer
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// PipelineBuilder provides a fluent interface for creating a Pipeline
type PipelineBuilder struct {
	logger  zerolog.Logger
	scorer  scoring.Scorer
	metrics *metrics.Metrics
	workers int
}

// NewPipelineBuilder creates a new builder
func NewPipelineBuilder(logger zerolog.Logger) *PipelineBuilder {
	return &PipelineBuilder{logger: logger}
}

// WithScorer sets the probability source. Without one every assessment uses the prior.
func (b *PipelineBuilder) WithScorer(s scoring.Scorer) *PipelineBuilder {
	b.scorer = s
	return b
}

// WithMetrics attaches Prometheus collectors.
func (b *PipelineBuilder) WithMetrics(m *metrics.Metrics) *PipelineBuilder {
	b.metrics = m
	return b
}

// WithWorkers sets the batch pool size; 0 sizes it from the physical core count.
func (b *PipelineBuilder) WithWorkers(n int) *PipelineBuilder {
	b.workers = n
	return b
}

// Build creates the Pipeline
func (b *PipelineBuilder) Build() *Pipeline {
	return &Pipeline{
		extractor: features.NewExtractor(features.WithWorkers(resources.Workers(b.workers))),
		scorer:    b.scorer,
		metrics:   b.metrics,
		logger:    b.logger.With().Str("component", "Pipeline").Logger(),
	}
}

// ScoreURL assesses url with scorer and no metrics or logging.
func ScoreURL(ctx context.Context, url string, scorer scoring.Scorer) Assessment {
	return NewPipelineBuilder(zerolog.Nop()).WithScorer(scorer).WithWorkers(1).Build().ScoreURL(ctx, url)
}

// Workers returns the batch pool size.
func (p *Pipeline) Workers() int {
	return p.extractor.Workers()
}

// ExtractFeatures never fails; faults yield the all-zero vector.
func (p *Pipeline) ExtractFeatures(url string) features.Vector {
	v, err := features.TryExtract(url)
	if err != nil {
		p.metrics.IncExtractionFallback()
		if !errors.Is(err, features.ErrEmptyURL) {
			p.logger.Warn().Err(err).Str("url", url).Msg("Feature extraction failed, using zero vector")
		}
	}
	return v
}

// ExtractBatch extracts every URL, preserving input order.
func (p *Pipeline) ExtractBatch(ctx context.Context, urls []string) []features.Vector {
	return p.extractor.ExtractBatch(ctx, urls)
}

// ScoreURL runs the pipeline. A missing or failing scorer falls back to
// bias.DefaultPrior and marks the result SourcePrior.
func (p *Pipeline) ScoreURL(ctx context.Context, url string) Assessment {
	v := p.ExtractFeatures(url)
	raw, source := p.rawProbability(ctx, url)

	adjusted, rules := bias.Trace(v, raw)
	ra := policy.Classify(adjusted, v)
	ra.RawProbability = raw

	p.metrics.IncAssessment(string(ra.Prediction), string(source))

	return Assessment{
		URL:            url,
		RiskAssessment: ra,
		Features:       v,
		Source:         source,
		Adjustments:    rules,
	}
}

func (p *Pipeline) rawProbability(ctx context.Context, url string) (float64, Source) {
	if p.scorer == nil {
		p.metrics.IncScorerFallback("unavailable")
		return bias.DefaultPrior, SourcePrior
	}

	start := time.Now()
	raw, err := p.scorer.RawProbability(ctx, url)
	p.metrics.ObserveScorerLatency(time.Since(start))

	if err != nil {
		if errors.Is(err, scoring.ErrUnavailable) {
			p.metrics.IncScorerFallback("unavailable")
			p.logger.Debug().Err(err).Str("url", url).Msg("Scorer unavailable, using default prior")
		} else {
			p.metrics.IncScorerFallback("error")
			p.logger.Warn().Err(err).Str("url", url).Msg("Scorer failed, using default prior")
		}
		return bias.DefaultPrior, SourcePrior
	}
	return raw, SourceModel
}

// ScoreBatch assesses every URL on the worker pool and returns results in input
// order. If ctx is cancelled, URLs not yet started are skipped and ctx.Err() is
// returned with the partial results; skipped entries have an empty URL.
func (p *Pipeline) ScoreBatch(ctx context.Context, urls []string) ([]Assessment, error) {
	out := make([]Assessment, len(urls))
	if len(urls) == 0 {
		return out, nil
	}

	workers := min(p.Workers(), len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = p.ScoreURL(ctx, urls[i])
			}
		}()
	}

	var err error
dispatch:
	for i := range urls {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		p.logger.Warn().Err(err).Int("total", len(urls)).Msg("Batch scoring interrupted")
	}
	return out, err
}
