package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/phishlens/internal/common"
)

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, ScorerTypeNone, cfg.ScorerConfig.Type)
	assert.Equal(t, ":8080", cfg.ServerConfig.ListenAddr)
	assert.True(t, cfg.ServerConfig.RequireModel)
	assert.False(t, cfg.AuthConfig.Enabled)
	assert.True(t, cfg.StorageConfig.HistoryEnabled)
	assert.Equal(t, "zstd", cfg.StorageConfig.CompressionCodec)
	assert.Equal(t, 0, cfg.BatchConfig.Workers)
	assert.Equal(t, DefaultBatchChunkSize, cfg.BatchConfig.ChunkSize)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_NoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvConfigPath, "")

	cfg, err := LoadGlobalConfig("", zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json", zerolog.Nop())

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestLoadGlobalConfig_YAMLFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
log_config:
  log_level: debug
scorer_config:
  type: linear
  model_path: models/lr.yaml
server_config:
  listen_addr: "127.0.0.1:9000"
  require_model: false
batch_config:
  workers: 8
`)
	cfg, err := LoadGlobalConfig(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, ScorerTypeLinear, cfg.ScorerConfig.Type)
	assert.Equal(t, "models/lr.yaml", cfg.ScorerConfig.ModelPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.ServerConfig.ListenAddr)
	assert.False(t, cfg.ServerConfig.RequireModel)
	assert.Equal(t, 8, cfg.BatchConfig.Workers)
	// untouched sections keep defaults
	assert.Equal(t, DefaultStorageSQLitePath, cfg.StorageConfig.SQLitePath)
	assert.Equal(t, DefaultServerBodyLimitKB, cfg.ServerConfig.BodyLimitKB)
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	path := writeConfig(t, "settings.json", `{
		"auth_config": {"enabled": true, "secret": "0123456789abcdef"},
		"storage_config": {"history_enabled": false, "compression_codec": "gzip"}
	}`)
	cfg, err := LoadGlobalConfig(path, zerolog.Nop())
	require.NoError(t, err)

	assert.True(t, cfg.AuthConfig.Enabled)
	assert.Equal(t, DefaultAuthIssuer, cfg.AuthConfig.Issuer)
	assert.False(t, cfg.StorageConfig.HistoryEnabled)
	assert.Equal(t, "gzip", cfg.StorageConfig.CompressionCodec)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_InvalidContent(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server_config: [unclosed")
	_, err := LoadGlobalConfig(path, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config content")
}

func TestGetConfigPath_EnvVariable(t *testing.T) {
	path := writeConfig(t, "from-env.yaml", "log_config:\n  log_level: warn\n")
	t.Setenv(EnvConfigPath, path)

	assert.Equal(t, path, GetConfigPath(""))

	cfg, err := LoadGlobalConfig("", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogConfig.LogLevel)
}

func TestGetConfigPath_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{}`), 0644))
	chdir(t, dir)
	t.Setenv(EnvConfigPath, "")

	assert.Equal(t, "config.json", filepath.Base(GetConfigPath("")))
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvJWTSecret, "env-secret-0123456789")
	t.Setenv(EnvScorerAPIKey, "key-from-env")
	t.Setenv(EnvListenAddr, ":9999")
	t.Setenv(EnvModelPath, "/models/lr.json")

	cfg := NewDefaultGlobalConfig()
	ApplyEnvOverrides(cfg)

	assert.Equal(t, "env-secret-0123456789", cfg.AuthConfig.Secret)
	assert.Equal(t, "key-from-env", cfg.ScorerConfig.APIKey)
	assert.Equal(t, ":9999", cfg.ServerConfig.ListenAddr)
	assert.Equal(t, "/models/lr.json", cfg.ScorerConfig.ModelPath)
	assert.Equal(t, ScorerTypeLinear, cfg.ScorerConfig.Type)
}

func TestApplyEnvOverrides_ModelPathKeepsRemoteType(t *testing.T) {
	t.Setenv(EnvModelPath, "/models/lr.json")
	cfg := NewDefaultGlobalConfig()
	cfg.ScorerConfig.Type = ScorerTypeRemote

	ApplyEnvOverrides(cfg)
	assert.Equal(t, ScorerTypeRemote, cfg.ScorerConfig.Type)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PHISHLENS_TEST_DOTENV=loaded\n"), 0644))
	t.Setenv("PHISHLENS_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("PHISHLENS_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(zerolog.Nop(), envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("PHISHLENS_TEST_DOTENV"))
}
