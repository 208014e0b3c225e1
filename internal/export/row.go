package export

import "github.com/aleister1102/phishlens/internal/features"

// FeatureRow is one dataset row. Column order and names follow the canonical
// feature order so the file can be fed straight to model training.
type FeatureRow struct {
	URL                  string  `parquet:"url"`
	LengthURL            float64 `parquet:"length_url"`
	LengthHostname       float64 `parquet:"length_hostname"`
	IP                   float64 `parquet:"ip"`
	NbDots               float64 `parquet:"nb_dots"`
	NbHyphens            float64 `parquet:"nb_hyphens"`
	NbAt                 float64 `parquet:"nb_at"`
	NbQm                 float64 `parquet:"nb_qm"`
	NbAnd                float64 `parquet:"nb_and"`
	NbEq                 float64 `parquet:"nb_eq"`
	NbSlash              float64 `parquet:"nb_slash"`
	NbDigits             float64 `parquet:"nb_digits"`
	NbSubdomains         float64 `parquet:"nb_subdomains"`
	DomainLength         float64 `parquet:"domain_length"`
	IsCommonTLD          float64 `parquet:"is_common_tld"`
	IsSuspiciousTLD      float64 `parquet:"is_suspicious_tld"`
	IsKnownBrandDomain   float64 `parquet:"is_known_brand_domain"`
	BrandDomainMismatch  float64 `parquet:"brand_domain_mismatch"`
	ShannonEntropy       float64 `parquet:"shannon_entropy"`
	DigitRatio           float64 `parquet:"digit_ratio"`
	SymbolRatio          float64 `parquet:"symbol_ratio"`
	VowelConsonantRatio  float64 `parquet:"vowel_consonant_ratio"`
	SusKeywordNearBrand  float64 `parquet:"sus_keyword_near_brand"`
	NbMeaningfulTokens   float64 `parquet:"nb_meaningful_tokens"`
	LoginVerifyNearBrand float64 `parquet:"login_verify_near_brand"`
	IsTrustedDomain      float64 `parquet:"is_trusted_domain"`
	IsStandardPath       float64 `parquet:"is_standard_path"`
	IsHTTPS              float64 `parquet:"is_https"`
	DotRatio             float64 `parquet:"dot_ratio"`
}

// fields lists row fields in canonical feature order.
func (r *FeatureRow) fields() [features.Count]*float64 {
	return [features.Count]*float64{
		&r.LengthURL, &r.LengthHostname, &r.IP, &r.NbDots, &r.NbHyphens, &r.NbAt, &r.NbQm,
		&r.NbAnd, &r.NbEq, &r.NbSlash, &r.NbDigits, &r.NbSubdomains, &r.DomainLength,
		&r.IsCommonTLD, &r.IsSuspiciousTLD, &r.IsKnownBrandDomain, &r.BrandDomainMismatch,
		&r.ShannonEntropy, &r.DigitRatio, &r.SymbolRatio, &r.VowelConsonantRatio,
		&r.SusKeywordNearBrand, &r.NbMeaningfulTokens, &r.LoginVerifyNearBrand,
		&r.IsTrustedDomain, &r.IsStandardPath, &r.IsHTTPS, &r.DotRatio,
	}
}

// NewFeatureRow flattens v for url.
func NewFeatureRow(url string, v features.Vector) FeatureRow {
	row := FeatureRow{URL: url}
	values := v.Values()
	for i, f := range row.fields() {
		*f = values[i]
	}
	return row
}

// Values returns the feature columns in canonical order.
func (r FeatureRow) Values() []float64 {
	out := make([]float64, features.Count)
	for i, f := range r.fields() {
		out[i] = *f
	}
	return out
}
