// Package policy maps an adjusted phishing probability to a prediction, a risk tier,
// and a short rationale.
package policy

import "github.com/aleister1102/phishlens/internal/features"

// Prediction is the discrete verdict for a URL.
type Prediction string

const (
	Phishing   Prediction = "phishing"
	Suspicious Prediction = "suspicious"
	Legitimate Prediction = "legitimate"
)

// RiskLevel is derived one-to-one from Prediction.
type RiskLevel string

const (
	High   RiskLevel = "high"
	Medium RiskLevel = "medium"
	Low    RiskLevel = "low"
)

const (
	PhishingThreshold   = 0.65
	LegitimateThreshold = 0.35
)

// Policy notes.
const (
	NoteCalibrated = "Risk tier determined by calibrated behavioral analysis."
	NoteTrusted    = "URL matches verified trusted domain patterns."
	NoteAmbiguous  = "Ambiguous patterns detected. Proceed with caution."
)

// RiskAssessment is the outcome of one classification.
type RiskAssessment struct {
	RawProbability      float64    `json:"raw_probability"`
	AdjustedProbability float64    `json:"adjusted_probability"`
	Prediction          Prediction `json:"prediction"`
	RiskLevel           RiskLevel  `json:"risk_level"`
	PolicyNote          string     `json:"policy_note"`
}

// Classify thresholds adjusted. RawProbability is left for the caller to fill in.
func Classify(adjusted float64, v features.Vector) RiskAssessment {
	ra := RiskAssessment{AdjustedProbability: adjusted}

	switch {
	case adjusted >= PhishingThreshold:
		ra.Prediction, ra.RiskLevel, ra.PolicyNote = Phishing, High, NoteCalibrated
	case adjusted <= LegitimateThreshold:
		ra.Prediction, ra.RiskLevel, ra.PolicyNote = Legitimate, Low, NoteCalibrated
		if v.Flag(features.IsTrustedDomain) {
			ra.PolicyNote = NoteTrusted
		}
	default:
		ra.Prediction, ra.RiskLevel, ra.PolicyNote = Suspicious, Medium, NoteAmbiguous
	}

	return ra
}

// RiskLevelFor returns the tier paired with p.
func RiskLevelFor(p Prediction) RiskLevel {
	switch p {
	case Phishing:
		return High
	case Legitimate:
		return Low
	default:
		return Medium
	}
}
