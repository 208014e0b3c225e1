package config

import "time"

// Scorer types
const (
	ScorerTypeNone   = "none"
	ScorerTypeLinear = "linear"
	ScorerTypeRemote = "remote"
	ScorerTypeStatic = "static"
)

// ScorerConfig selects where raw probabilities come from.
type ScorerConfig struct {
	Type              string  `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,scorertype"`
	ModelPath         string  `json:"model_path,omitempty" yaml:"model_path,omitempty" validate:"required_if=Type linear"`
	Endpoint          string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"required_if=Type remote,omitempty,url"`
	APIKey            string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	TimeoutSecs       int     `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	BreakerFailures   uint32  `json:"breaker_failures,omitempty" yaml:"breaker_failures,omitempty"`
	BreakerOpenSecs   int     `json:"breaker_open_secs,omitempty" yaml:"breaker_open_secs,omitempty" validate:"omitempty,min=1"`
	StaticProbability float64 `json:"static_probability,omitempty" yaml:"static_probability,omitempty" validate:"min=0,max=1"`
}

// NewDefaultScorerConfig creates default scorer configuration
func NewDefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Type:            DefaultScorerType,
		TimeoutSecs:     DefaultScorerTimeoutSecs,
		BreakerFailures: DefaultScorerBreakerFailures,
		BreakerOpenSecs: DefaultScorerBreakerOpenSecs,
	}
}

// Timeout returns the remote request timeout.
func (sc ScorerConfig) Timeout() time.Duration {
	return time.Duration(sc.TimeoutSecs) * time.Second
}

// BreakerOpen returns how long the breaker stays open.
func (sc ScorerConfig) BreakerOpen() time.Duration {
	return time.Duration(sc.BreakerOpenSecs) * time.Second
}
