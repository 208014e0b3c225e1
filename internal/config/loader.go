package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// GetConfigPath determines the configuration file path based on command-line flags,
// environment variables, and default locations.
// Priority:
// 1. -config command-line flag
// 2. PHISHLENS_CONFIG_PATH environment variable
// 3. config.yaml in the current working directory
// 4. config.json in the current working directory
// 5. config.yaml in the executable's directory
// 6. config.json in the executable's directory
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" && fileExists(configFilePathFlag) {
		return configFilePathFlag
	}

	if envPath := os.Getenv(EnvConfigPath); envPath != "" && fileExists(envPath) {
		return envPath
	}

	cwd, errCwd := os.Getwd()
	exePath, errExe := os.Executable()
	exeDir := ""
	if errExe == nil {
		exeDir = filepath.Dir(exePath)
	}

	defaultFiles := []string{"config.yaml", "config.json"}
	var locations []string

	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if exeDir != "" && (errCwd != nil || exeDir != cwd) { // Avoid duplicate check if cwd is exeDir
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range defaultFiles {
			path := filepath.Join(loc, file)
			if fileExists(path) {
				return path
			}
		}
	}
	return "" // No config file found
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none) into the
// process environment. Variables already set win; missing files are ignored.
func LoadDotEnv(logger zerolog.Logger, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		logger.Debug().Str("file", f).Msg("Loaded environment file")
	}
	return nil
}

// ApplyEnvOverrides copies secrets and deployment knobs from the environment into
// cfg. Secrets are kept out of config files this way.
func ApplyEnvOverrides(cfg *GlobalConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvJWTSecret)); v != "" {
		cfg.AuthConfig.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvScorerAPIKey)); v != "" {
		cfg.ScorerConfig.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvListenAddr)); v != "" {
		cfg.ServerConfig.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvModelPath)); v != "" {
		cfg.ScorerConfig.ModelPath = v
		if cfg.ScorerConfig.Type == "" || cfg.ScorerConfig.Type == ScorerTypeNone {
			cfg.ScorerConfig.Type = ScorerTypeLinear
		}
	}
}

// fileExists reports whether filename exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
