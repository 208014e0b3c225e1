// Package config loads and validates the application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aleister1102/phishlens/internal/common"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig      LogConfig      `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ScorerConfig   ScorerConfig   `json:"scorer_config,omitempty" yaml:"scorer_config,omitempty"`
	ServerConfig   ServerConfig   `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	AuthConfig     AuthConfig     `json:"auth_config,omitempty" yaml:"auth_config,omitempty"`
	StorageConfig  StorageConfig  `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	BatchConfig    BatchConfig    `json:"batch_config,omitempty" yaml:"batch_config,omitempty"`
	ResourceConfig ResourceConfig `json:"resource_config,omitempty" yaml:"resource_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:      NewDefaultLogConfig(),
		ScorerConfig:   NewDefaultScorerConfig(),
		ServerConfig:   NewDefaultServerConfig(),
		AuthConfig:     NewDefaultAuthConfig(),
		StorageConfig:  NewDefaultStorageConfig(),
		BatchConfig:    NewDefaultBatchConfig(),
		ResourceConfig: NewDefaultResourceConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// Values present in the file override the defaults; absent sections keep them.
// YAML is used for .yaml/.yml files, JSON otherwise. With no file found the
// defaults are returned. An explicitly provided path that does not exist is an
// error.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath != "" && !fileExists(providedPath) {
		return nil, common.NewValidationError("config_file", providedPath, "config file does not exist")
	}

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	logger.Info().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
