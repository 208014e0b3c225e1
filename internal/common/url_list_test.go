package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURLList(t *testing.T) {
	input := "# seeds\nhttps://github.com\n\n  paypal-secure.tk/login  \n#skip\nhttp://1.2.3.4\n"
	urls, err := ParseURLList(strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com", "paypal-secure.tk/login", "http://1.2.3.4"}, urls)
}

func TestReadURLList(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadURLList(filepath.Join(dir, "nope.txt"), zerolog.Nop())
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("only comments", func(t *testing.T) {
		path := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte("# nothing\n\n"), 0644))
		_, err := ReadURLList(path, zerolog.Nop())
		assert.ErrorIs(t, err, ErrFileEmpty)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadURLList(dir, zerolog.Nop())
		assert.ErrorIs(t, err, ErrReadingFile)
	})

	t.Run("urls", func(t *testing.T) {
		path := filepath.Join(dir, "urls.txt")
		require.NoError(t, os.WriteFile(path, []byte("a.com\nb.com\n"), 0644))
		urls, err := ReadURLList(path, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, []string{"a.com", "b.com"}, urls)
	})
}
