package config

import "time"

// ServerConfig defines configuration for the HTTP API
type ServerConfig struct {
	ListenAddr       string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"required"`
	ReadTimeoutSecs  int    `json:"read_timeout_secs,omitempty" yaml:"read_timeout_secs,omitempty" validate:"omitempty,min=1"`
	WriteTimeoutSecs int    `json:"write_timeout_secs,omitempty" yaml:"write_timeout_secs,omitempty" validate:"omitempty,min=1"`
	BodyLimitKB      int    `json:"body_limit_kb,omitempty" yaml:"body_limit_kb,omitempty" validate:"omitempty,min=1"`
	// RequireModel makes /predict answer 503 while no scorer is loaded instead of
	// scoring with the default prior.
	RequireModel bool `json:"require_model" yaml:"require_model"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:       DefaultServerListenAddr,
		ReadTimeoutSecs:  DefaultServerReadTimeoutSecs,
		WriteTimeoutSecs: DefaultServerWriteTimeoutSecs,
		BodyLimitKB:      DefaultServerBodyLimitKB,
		RequireModel:     DefaultServerRequireModel,
	}
}

func (sc ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(sc.ReadTimeoutSecs) * time.Second
}

func (sc ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(sc.WriteTimeoutSecs) * time.Second
}

// AuthConfig defines bearer token settings
type AuthConfig struct {
	Enabled         bool   `json:"enabled" yaml:"enabled"`
	Secret          string `json:"secret,omitempty" yaml:"secret,omitempty" validate:"required_if=Enabled true,omitempty,min=16"`
	Issuer          string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	TokenTTLMinutes int    `json:"token_ttl_minutes,omitempty" yaml:"token_ttl_minutes,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultAuthConfig creates default auth configuration
func NewDefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled:         false,
		Issuer:          DefaultAuthIssuer,
		TokenTTLMinutes: DefaultAuthTokenTTLMinutes,
	}
}

func (ac AuthConfig) TokenTTL() time.Duration {
	return time.Duration(ac.TokenTTLMinutes) * time.Minute
}
