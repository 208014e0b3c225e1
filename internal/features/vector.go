package features

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Feature identifies one field of a Vector. The declaration order is the canonical
// column order shared with the scoring model.
type Feature int

const (
	LengthURL Feature = iota
	LengthHostname
	IP
	NbDots
	NbHyphens
	NbAt
	NbQm
	NbAnd
	NbEq
	NbSlash
	NbDigits
	NbSubdomains
	DomainLength
	IsCommonTLD
	IsSuspiciousTLD
	IsKnownBrandDomain
	BrandDomainMismatch
	ShannonEntropy
	DigitRatio
	SymbolRatio
	VowelConsonantRatio
	SusKeywordNearBrand
	NbMeaningfulTokens
	LoginVerifyNearBrand
	IsTrustedDomain
	IsStandardPath
	IsHTTPS
	DotRatio

	numFeatures
)

// Count is the number of fields in every Vector.
const Count = int(numFeatures)

var featureNames = [numFeatures]string{
	LengthURL:            "length_url",
	LengthHostname:       "length_hostname",
	IP:                   "ip",
	NbDots:               "nb_dots",
	NbHyphens:            "nb_hyphens",
	NbAt:                 "nb_at",
	NbQm:                 "nb_qm",
	NbAnd:                "nb_and",
	NbEq:                 "nb_eq",
	NbSlash:              "nb_slash",
	NbDigits:             "nb_digits",
	NbSubdomains:         "nb_subdomains",
	DomainLength:         "domain_length",
	IsCommonTLD:          "is_common_tld",
	IsSuspiciousTLD:      "is_suspicious_tld",
	IsKnownBrandDomain:   "is_known_brand_domain",
	BrandDomainMismatch:  "brand_domain_mismatch",
	ShannonEntropy:       "shannon_entropy",
	DigitRatio:           "digit_ratio",
	SymbolRatio:          "symbol_ratio",
	VowelConsonantRatio:  "vowel_consonant_ratio",
	SusKeywordNearBrand:  "sus_keyword_near_brand",
	NbMeaningfulTokens:   "nb_meaningful_tokens",
	LoginVerifyNearBrand: "login_verify_near_brand",
	IsTrustedDomain:      "is_trusted_domain",
	IsStandardPath:       "is_standard_path",
	IsHTTPS:              "is_https",
	DotRatio:             "dot_ratio",
}

var featureIndex = func() map[string]Feature {
	m := make(map[string]Feature, numFeatures)
	for i, name := range featureNames {
		m[name] = Feature(i)
	}
	return m
}()

// String returns the feature's key name.
func (f Feature) String() string {
	if f < 0 || f >= numFeatures {
		return "Feature(" + strconv.Itoa(int(f)) + ")"
	}
	return featureNames[f]
}

// Names returns all key names in canonical order.
func Names() []string {
	names := make([]string, numFeatures)
	copy(names, featureNames[:])
	return names
}

// Lookup resolves a key name.
func Lookup(name string) (Feature, bool) {
	f, ok := featureIndex[name]
	return f, ok
}

// Vector is a fully keyed feature vector. The zero value is the all-zero fallback
// vector; every key is always present.
type Vector struct {
	values [numFeatures]float64
}

// Zero returns the all-zero vector.
func Zero() Vector {
	return Vector{}
}

// Value returns the value of f.
func (v Vector) Value(f Feature) float64 {
	return v.values[f]
}

// Flag reports whether an indicator feature is set.
func (v Vector) Flag(f Feature) bool {
	return v.values[f] == 1
}

// Get returns the value stored under a key name.
func (v Vector) Get(name string) (float64, bool) {
	f, ok := featureIndex[name]
	if !ok {
		return 0, false
	}
	return v.values[f], true
}

// Values returns the values in canonical order.
func (v Vector) Values() []float64 {
	out := make([]float64, numFeatures)
	copy(out, v.values[:])
	return out
}

// Map returns a copy keyed by name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, numFeatures)
	for i, name := range featureNames {
		m[name] = v.values[i]
	}
	return m
}

// IsZero reports whether every value is zero.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

func (v *Vector) set(f Feature, x float64) {
	v.values[f] = x
}

func (v *Vector) setFlag(f Feature, b bool) {
	if b {
		v.values[f] = 1
		return
	}
	v.values[f] = 0
}

// MarshalJSON encodes the vector as an object whose keys follow canonical order.
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range featureNames {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(name))
		buf.WriteByte(':')
		n, err := json.Marshal(v.values[i])
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}
		buf.Write(n)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of key/value pairs. Missing keys stay zero and
// unknown keys are rejected.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Vector
	for name, x := range raw {
		f, ok := featureIndex[name]
		if !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		out.values[f] = x
	}
	*v = out
	return nil
}
