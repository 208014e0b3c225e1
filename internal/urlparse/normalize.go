// Package urlparse splits raw URL strings into the scheme, host, and path used by
// the feature extractor. Parsing is tolerant: every input yields a ParsedURL.
package urlparse

import (
	"net/url"
	"strings"
)

const (
	schemeDelimiter = "://"
	defaultScheme   = "http"
)

// ParsedURL is the scheme/host/path split of a lower-cased URL. Empty fields are
// legal values and mean the component could not be found.
type ParsedURL struct {
	Scheme string
	Host   string
	Path   string
}

// Normalize lower-cases raw, prepends http:// when no scheme delimiter is present and
// parses the result. When the standard parser rejects the string (bad percent
// encoding, control characters, ...) a manual split is used instead, so Normalize
// never fails.
func Normalize(raw string) ParsedURL {
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, schemeDelimiter) {
		lowered = defaultScheme + schemeDelimiter + lowered
	}

	if parsed, ok := parse(lowered); ok {
		return parsed
	}
	return split(lowered)
}

// parse uses net/url. Host keeps any port and embedded credentials so it matches the
// network location as written; Path keeps the original escaping.
func parse(s string) (ParsedURL, bool) {
	u, err := url.Parse(s)
	if err != nil {
		return ParsedURL{}, false
	}

	host := u.Host
	if u.User != nil {
		host = u.User.String() + "@" + host
	}

	path := u.RawPath
	switch {
	case u.Opaque != "":
		path = u.Opaque
	case path == "":
		path = u.EscapedPath()
	}

	return ParsedURL{Scheme: u.Scheme, Host: host, Path: path}, true
}

// split is the fallback. The scheme is everything before the first "://", the host is
// everything after the last "://" up to the first "/", and the path is the rest
// including its leading slash.
func split(s string) ParsedURL {
	scheme := s
	if idx := strings.Index(s, schemeDelimiter); idx >= 0 {
		scheme = s[:idx]
	}

	rest := s
	if idx := strings.LastIndex(s, schemeDelimiter); idx >= 0 {
		rest = s[idx+len(schemeDelimiter):]
	}

	host, path := rest, ""
	if idx := strings.Index(rest, "/"); idx >= 0 {
		host, path = rest[:idx], rest[idx:]
	}

	return ParsedURL{Scheme: scheme, Host: host, Path: path}
}
