// Package features turns raw URL strings into fixed-shape numeric feature vectors.
//
// Extraction is pure and deterministic. Any failure, including empty input, yields
// the all-zero vector; callers never see a partially populated one.
package features

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aleister1102/phishlens/internal/urlparse"
)

var (
	// ErrEmptyURL is reported by TryExtract for empty input.
	ErrEmptyURL = errors.New("empty URL")
	// ErrExtraction wraps an internal fault recovered during extraction.
	ErrExtraction = errors.New("feature extraction failed")
)

// ipLiteral matches any dotted quad inside the host. Octets are not range checked.
var ipLiteral = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

const (
	trustedHostPrefix  = "www."
	maxStandardPathLen = 30
	maxStandardSlashes = 4
)

// Extract returns the feature vector for raw, or the all-zero vector when extraction
// fails.
func Extract(raw string) Vector {
	v, _ := TryExtract(raw)
	return v
}

// TryExtract is Extract but also reports why the zero vector was returned.
func TryExtract(raw string) (v Vector, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = Zero(), fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	if raw == "" {
		return Zero(), ErrEmptyURL
	}
	return compute(strings.ToLower(raw)), nil
}

// compute assumes u is already lower-cased and non-empty.
func compute(u string) Vector {
	parsed := urlparse.Normalize(u)
	host, path := parsed.Host, parsed.Path

	var v Vector
	length := utf8.RuneCountInString(u)
	hostLength := utf8.RuneCountInString(host)

	// Structural counts
	dots := strings.Count(u, ".")
	hyphens := strings.Count(u, "-")
	digits := countFunc(u, unicode.IsDigit)
	v.set(LengthURL, float64(length))
	v.set(LengthHostname, float64(hostLength))
	v.setFlag(IP, ipLiteral.MatchString(host))
	v.set(NbDots, float64(dots))
	v.set(NbHyphens, float64(hyphens))
	v.set(NbAt, float64(strings.Count(u, "@")))
	v.set(NbQm, float64(strings.Count(u, "?")))
	v.set(NbAnd, float64(strings.Count(u, "&")))
	v.set(NbEq, float64(strings.Count(u, "=")))
	v.set(NbSlash, float64(strings.Count(u, "/")))
	v.set(NbDigits, float64(digits))
	v.set(NbSubdomains, float64(max(0, strings.Count(host, ".")-1)))

	// Domain context
	v.set(DomainLength, float64(hostLength))
	tld := topLevelDomain(host)
	_, common := commonTLDs[tld]
	_, suspicious := suspiciousTLDs[tld]
	v.setFlag(IsCommonTLD, common)
	v.setFlag(IsSuspiciousTLD, suspicious)

	_, brandFound := firstContained(host, knownBrands)
	v.setFlag(IsKnownBrandDomain, brandFound)
	v.setFlag(BrandDomainMismatch, brandMismatch(host, path))

	// Randomness
	symbols := dots + hyphens + strings.Count(u, "_") + strings.Count(u, "/")
	v.set(ShannonEntropy, Entropy(u))
	v.set(DigitRatio, ratio(digits, length))
	v.set(SymbolRatio, ratio(symbols, length))
	v.set(VowelConsonantRatio, ratio(countFunc(u, isVowel), countFunc(u, isConsonant)))

	// Semantic
	_, keywordFound := firstContained(u, suspiciousKeywords)
	v.setFlag(SusKeywordNearBrand, brandFound && keywordFound)
	v.set(NbMeaningfulTokens, float64(len(strings.FieldsFunc(u, isTokenSeparator))))
	_, loginFound := firstContained(u, loginVerifyKeywords)
	v.setFlag(LoginVerifyNearBrand, loginFound)

	// Bias inputs
	v.setFlag(IsTrustedDomain, isTrusted(host))
	v.setFlag(IsStandardPath, utf8.RuneCountInString(path) < maxStandardPathLen &&
		strings.Count(path, "/") < maxStandardSlashes)
	v.setFlag(IsHTTPS, parsed.Scheme == "https")
	v.set(DotRatio, ratio(dots, length))

	return v
}

// topLevelDomain is the text after the last dot, or "" when host has no dot.
func topLevelDomain(host string) string {
	idx := strings.LastIndex(host, ".")
	if idx < 0 {
		return ""
	}
	return host[idx+1:]
}

// firstContained returns the first entry of list that occurs in s.
func firstContained(s string, list []string) (string, bool) {
	for _, item := range list {
		if strings.Contains(s, item) {
			return item, true
		}
	}
	return "", false
}

// brandMismatch looks only at the first brand (in list order) found in the path.
func brandMismatch(host, path string) bool {
	brand, ok := firstContained(path, knownBrands)
	if !ok {
		return false
	}
	return !strings.Contains(host, brand)
}

func isTrusted(host string) bool {
	domain := strings.TrimSpace(strings.TrimPrefix(host, trustedHostPrefix))
	for _, trusted := range trustedDomains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			return true
		}
	}
	return false
}

// ratio is n/d, or 0 when d is 0.
func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func countFunc(s string, pred func(rune) bool) int {
	n := 0
	for _, r := range s {
		if pred(r) {
			n++
		}
	}
	return n
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiou", r)
}

func isConsonant(r rune) bool {
	return strings.ContainsRune("bcdfghjklmnpqrstvwxyz", r)
}

func isTokenSeparator(r rune) bool {
	return strings.ContainsRune("./-_?&=", r)
}
