// Package export writes extracted feature vectors as Parquet datasets.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/aleister1102/phishlens/internal/common"
	"github.com/aleister1102/phishlens/internal/features"
)

// ParquetWriter handles writing feature rows to Parquet files.
type ParquetWriter struct {
	compression string
	logger      zerolog.Logger
}

// NewParquetWriter creates a writer. compression is zstd, gzip, snappy or none; an
// empty value selects zstd.
func NewParquetWriter(compression string, logger zerolog.Logger) (*ParquetWriter, error) {
	compression = strings.ToLower(strings.TrimSpace(compression))
	if _, err := compressionOption(compression); err != nil {
		return nil, err
	}
	return &ParquetWriter{
		compression: compression,
		logger:      logger.With().Str("component", "ParquetWriter").Logger(),
	}, nil
}

// Write creates or truncates path and writes rows to it. It returns the number of
// rows written.
func (pw *ParquetWriter) Write(path string, rows []FeatureRow) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, common.WrapError(err, "failed to create export directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, common.WrapError(err, "failed to create/truncate parquet file: "+path)
	}
	defer file.Close()

	option, _ := compressionOption(pw.compression)
	writer := parquet.NewGenericWriter[FeatureRow](file, option)

	n, err := writer.Write(rows)
	if err != nil {
		_ = writer.Close()
		return 0, common.WrapError(err, "failed to write feature rows")
	}
	if err := writer.Close(); err != nil {
		return 0, common.WrapError(err, "failed to finalize parquet file")
	}

	pw.logger.Info().Str("path", path).Int("rows", n).Str("compression", pw.compressionName()).Msg("Feature dataset written")
	return n, nil
}

// WriteVectors pairs urls with vectors and writes them.
func (pw *ParquetWriter) WriteVectors(path string, urls []string, vectors []features.Vector) (int, error) {
	if len(urls) != len(vectors) {
		return 0, common.NewValidationError("vectors", len(vectors), fmt.Sprintf("expected %d vectors", len(urls)))
	}
	rows := make([]FeatureRow, len(urls))
	for i := range urls {
		rows[i] = NewFeatureRow(urls[i], vectors[i])
	}
	return pw.Write(path, rows)
}

func (pw *ParquetWriter) compressionName() string {
	if pw.compression == "" {
		return "zstd"
	}
	return pw.compression
}

func compressionOption(name string) (parquet.WriterOption, error) {
	switch name {
	case "", "zstd":
		return parquet.Compression(&parquet.Zstd), nil
	case "gzip":
		return parquet.Compression(&parquet.Gzip), nil
	case "snappy":
		return parquet.Compression(&parquet.Snappy), nil
	case "none":
		return parquet.Compression(&parquet.Uncompressed), nil
	default:
		return nil, common.NewValidationError("compression", name, "unsupported compression codec")
	}
}

// ReadRows reads every row of a dataset written by ParquetWriter.
func ReadRows(path string) ([]FeatureRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[FeatureRow](file)
	defer reader.Close()

	out := make([]FeatureRow, 0, reader.NumRows())
	buf := make([]FeatureRow, 256)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
		}
	}
	return out, nil
}
