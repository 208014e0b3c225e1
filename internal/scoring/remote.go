package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// RemoteConfig configures a RemoteScorer.
type RemoteConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// Breaker tuning. Zero values pick the defaults below.
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
}

const (
	DefaultRemoteTimeout          = 5 * time.Second
	DefaultMaxConsecutiveFailures = 5
	DefaultOpenTimeout            = 30 * time.Second
)

// RemoteScorer asks an external model service for the probability:
// POST {endpoint}/score {"url": ...} -> {"probability": p}.
type RemoteScorer struct {
	endpoint string
	apiKey   string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
	logger   zerolog.Logger
}

type scoreRequest struct {
	URL string `json:"url"`
}

type scoreResponse struct {
	Probability *float64 `json:"probability"`
}

// NewRemoteScorer creates a client. The endpoint must be non-empty.
func NewRemoteScorer(cfg RemoteConfig, logger zerolog.Logger) (*RemoteScorer, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("remote scorer: endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRemoteTimeout
	}
	if cfg.MaxConsecutiveFailures == 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}

	r := &RemoteScorer{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger.With().Str("component", "RemoteScorer").Logger(),
	}

	maxFailures := cfg.MaxConsecutiveFailures
	r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-service",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about the service.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return r, nil
}

func (r *RemoteScorer) Name() string {
	return "remote:" + r.endpoint
}

// State exposes the breaker state for health output.
func (r *RemoteScorer) State() gobreaker.State {
	return r.cb.State()
}

func (r *RemoteScorer) RawProbability(ctx context.Context, url string) (float64, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		return r.post(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return 0, err
	}
	return clamp(out.(float64))
}

func (r *RemoteScorer) post(ctx context.Context, url string) (float64, error) {
	body, err := json.Marshal(scoreRequest{URL: url})
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return 0, fmt.Errorf("%w: model service returned %s", ErrUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if sr.Probability == nil {
		return 0, fmt.Errorf("decode response: missing probability")
	}
	return *sr.Probability, nil
}
