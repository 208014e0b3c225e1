package history

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/aleister1102/phishlens/internal/assess"
	"github.com/aleister1102/phishlens/internal/urlparse"
)

// RegisteredDomain returns the eTLD+1 of raw's host ("login.paypal.co.uk" ->
// "paypal.co.uk"). IP literals are returned as-is; anything publicsuffix rejects
// yields "".
func RegisteredDomain(raw string) string {
	host := urlparse.Normalize(strings.ToLower(strings.TrimSpace(raw))).Host
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	if host == "" {
		return ""
	}
	if net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}

// FromAssessment converts a pipeline result into a record for subject.
func FromAssessment(subject string, a assess.Assessment) Record {
	return Record{
		Subject:             subject,
		URL:                 a.URL,
		RegisteredDomain:    RegisteredDomain(a.URL),
		Prediction:          string(a.Prediction),
		RiskLevel:           string(a.RiskLevel),
		RawProbability:      a.RawProbability,
		AdjustedProbability: a.AdjustedProbability,
		Source:              string(a.Source),
		PolicyNote:          a.PolicyNote,
	}
}
