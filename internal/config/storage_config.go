package config

import "time"

// StorageConfig defines configuration for scan history and dataset export
type StorageConfig struct {
	HistoryEnabled   bool   `json:"history_enabled" yaml:"history_enabled"`
	SQLitePath       string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" validate:"required_if=HistoryEnabled true"`
	ExportPath       string `json:"export_path,omitempty" yaml:"export_path,omitempty"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,compression"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		HistoryEnabled:   DefaultStorageHistoryEnabled,
		SQLitePath:       DefaultStorageSQLitePath,
		ExportPath:       DefaultStorageExportPath,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}

// BatchConfig sizes batch work
type BatchConfig struct {
	// Workers is the pool size for batch extraction and scoring; 0 uses the
	// physical core count.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"omitempty,min=0,max=1024"`
	// ChunkSize is how many URLs scan mode scores before flushing results.
	ChunkSize int `json:"chunk_size,omitempty" yaml:"chunk_size,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultBatchConfig creates default batch configuration
func NewDefaultBatchConfig() BatchConfig {
	return BatchConfig{Workers: 0, ChunkSize: DefaultBatchChunkSize}
}

// ResourceConfig controls the resource monitor used by the server
type ResourceConfig struct {
	CheckIntervalSecs int   `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
	MemoryWarnMB      int64 `json:"memory_warn_mb,omitempty" yaml:"memory_warn_mb,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultResourceConfig creates default resource configuration
func NewDefaultResourceConfig() ResourceConfig {
	return ResourceConfig{
		CheckIntervalSecs: DefaultResourceCheckIntervalSec,
		MemoryWarnMB:      DefaultResourceMemoryWarnMB,
	}
}

func (rc ResourceConfig) CheckInterval() time.Duration {
	return time.Duration(rc.CheckIntervalSecs) * time.Second
}
