package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/phishlens/internal/common"
	"github.com/aleister1102/phishlens/internal/features"
)

func TestFeatureRow_SchemaMatchesFeatureNames(t *testing.T) {
	schema := parquet.SchemaOf(FeatureRow{})
	var names []string
	for _, f := range schema.Fields() {
		names = append(names, f.Name())
	}
	assert.Equal(t, append([]string{"url"}, features.Names()...), names)
}

func TestNewFeatureRow_KeepsValues(t *testing.T) {
	v := features.Extract("http://paypal-login.tk/verify?id=1")
	row := NewFeatureRow("http://paypal-login.tk/verify?id=1", v)

	assert.Equal(t, v.Values(), row.Values())
	assert.Equal(t, v.Value(features.IsSuspiciousTLD), row.IsSuspiciousTLD)
	assert.Equal(t, v.Value(features.DotRatio), row.DotRatio)
	assert.Equal(t, v.Value(features.LengthURL), row.LengthURL)
}

func TestParquetWriter_RoundTrip(t *testing.T) {
	urls := []string{"https://www.google.com/search?q=go", "", "http://10.1.1.1/login"}
	vectors := features.ExtractBatch(urls)

	for _, codec := range []string{"zstd", "gzip", "snappy", "none", ""} {
		t.Run("codec="+codec, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "features.parquet")
			pw, err := NewParquetWriter(codec, zerolog.Nop())
			require.NoError(t, err)

			n, err := pw.WriteVectors(path, urls, vectors)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			rows, err := ReadRows(path)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			for i := range urls {
				assert.Equal(t, urls[i], rows[i].URL)
				assert.Equal(t, vectors[i].Values(), rows[i].Values())
			}
		})
	}
}

func TestParquetWriter_EmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	pw, err := NewParquetWriter("zstd", zerolog.Nop())
	require.NoError(t, err)

	n, err := pw.Write(path, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err := ReadRows(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNewParquetWriter_UnknownCodec(t *testing.T) {
	_, err := NewParquetWriter("lz4", zerolog.Nop())
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestParquetWriter_MismatchedLengths(t *testing.T) {
	pw, err := NewParquetWriter("", zerolog.Nop())
	require.NoError(t, err)
	_, err = pw.WriteVectors(filepath.Join(t.TempDir(), "x.parquet"), []string{"a"}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestReadRows_MissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "absent.parquet"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
