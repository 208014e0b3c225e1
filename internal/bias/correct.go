// Package bias adjusts a model's raw phishing probability using the trust and
// structure signals of a feature vector. It is a soft bias, not an allowlist: a
// trusted domain can still end up above the phishing threshold.
package bias

import "github.com/aleister1102/phishlens/internal/features"

const (
	// DefaultPrior is used when no raw probability is available.
	DefaultPrior = 0.5

	TrustedDomainScale = 0.15
	StandardPathScale  = 0.8
	MaxStandardDots    = 2
	RiskFloor          = 0.75
)

// Rule names one adjustment step.
type Rule string

const (
	RuleTrustedDomain Rule = "trusted_domain"
	RuleStandardPath  Rule = "standard_path"
	RuleRiskFloor     Rule = "risk_floor"
)

// Correct applies the adjustment rules in order and returns the adjusted probability.
func Correct(v features.Vector, raw float64) float64 {
	p, _ := Trace(v, raw)
	return p
}

// Trace is Correct but also returns the rules that fired, in the order applied. Each
// rule reads the probability left by the previous one.
func Trace(v features.Vector, raw float64) (float64, []Rule) {
	p := raw
	var applied []Rule

	trusted := v.Flag(features.IsTrustedDomain)
	if trusted {
		p *= TrustedDomainScale
		applied = append(applied, RuleTrustedDomain)
	}

	if v.Flag(features.IsStandardPath) && v.Value(features.NbDots) <= MaxStandardDots {
		p *= StandardPathScale
		applied = append(applied, RuleStandardPath)
	}

	// Floor only for untrusted hosts, so the trusted scale-down always wins.
	if !trusted && (v.Flag(features.IP) || v.Flag(features.IsSuspiciousTLD)) {
		p = max(p, RiskFloor)
		applied = append(applied, RuleRiskFloor)
	}

	return p, applied
}
