package common

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Custom errors for URL list files
var (
	ErrFileNotFound = errors.New("input file not found")
	ErrFileEmpty    = errors.New("input file contains no URLs")
	ErrReadingFile  = errors.New("error reading input file")
)

// ReadURLList reads one URL per line. Blank lines and lines starting with '#' are
// skipped; everything else is returned verbatim (trimmed) because the extractor is
// built to handle raw strings.
func ReadURLList(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("file_path", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrReadingFile, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fileLogger.Error().Err(closeErr).Msg("Failed to close URL list")
		}
	}()

	urls, err := ParseURLList(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (cause: %v)", ErrReadingFile, filePath, err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}

	fileLogger.Info().Int("url_count", len(urls)).Msg("Finished reading URL list")
	return urls, nil
}

// ParseURLList applies the ReadURLList line rules to r.
func ParseURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
