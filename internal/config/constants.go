package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Scorer Defaults
	DefaultScorerType            = ScorerTypeNone
	DefaultScorerTimeoutSecs     = 5
	DefaultScorerBreakerFailures = 5
	DefaultScorerBreakerOpenSecs = 30

	// Server Defaults
	DefaultServerListenAddr       = ":8080"
	DefaultServerReadTimeoutSecs  = 10
	DefaultServerWriteTimeoutSecs = 10
	DefaultServerBodyLimitKB      = 64
	DefaultServerRequireModel     = true

	// Auth Defaults
	DefaultAuthIssuer          = "phishlens"
	DefaultAuthTokenTTLMinutes = 60
	MinAuthSecretLength        = 16

	// Storage Defaults
	DefaultStorageHistoryEnabled    = true
	DefaultStorageSQLitePath        = "database/phishlens.db"
	DefaultStorageCompressionCodec  = "zstd"
	DefaultStorageExportPath        = "database/features.parquet"
	DefaultHistoryListLimit         = 50
	MaxHistoryListLimit             = 500
	DefaultBatchChunkSize           = 500
	DefaultResourceCheckIntervalSec = 30
	DefaultResourceMemoryWarnMB     = 1024
)

// Environment variables read by ApplyEnvOverrides and GetConfigPath.
const (
	EnvConfigPath   = "PHISHLENS_CONFIG_PATH"
	EnvJWTSecret    = "PHISHLENS_JWT_SECRET"
	EnvScorerAPIKey = "PHISHLENS_SCORER_API_KEY"
	EnvListenAddr   = "PHISHLENS_LISTEN_ADDR"
	EnvModelPath    = "PHISHLENS_MODEL_PATH"
)
