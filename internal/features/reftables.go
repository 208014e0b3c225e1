package features

// Reference tables. They are package-level, initialised once, and never written after
// init; the exported accessors hand out copies.

// knownBrands is ordered: the first brand to match wins.
var knownBrands = []string{
	"google", "wikipedia", "netflix", "leetcode", "microsoft", "apple", "amazon",
	"facebook", "instagram", "twitter", "linkedin", "github", "paypal", "dropbox",
	"adobe", "googlecloud", "aws", "azure", "salesforce", "slack", "zoom",
}

// TLDs are stored without the leading dot.
var suspiciousTLDs = toSet([]string{
	"xyz", "top", "tk", "ml", "ga", "cf", "gq", "icu", "wang", "bid", "casa", "viajes", "fit",
})

var commonTLDs = toSet([]string{
	"com", "org", "net", "edu", "gov", "io", "me", "app", "co",
})

var suspiciousKeywords = []string{
	"login", "verify", "account", "secure", "update", "banking", "signin",
}

// loginVerifyKeywords is the fixed subset behind login_verify_near_brand.
var loginVerifyKeywords = []string{"login", "verify", "update"}

var trustedDomains = []string{
	"wikipedia.org", "google.com", "github.com", "microsoft.com", "apple.com",
	"leetcode.com", "netflix.com", "amazon.com", "linkedin.com", "twitter.com",
	"facebook.com", "instagram.com", "stackoverflow.com", "youtube.com", "bit.ly",
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// KnownBrands returns the brand list in match order.
func KnownBrands() []string { return append([]string(nil), knownBrands...) }

// SuspiciousTLDs returns the suspicious TLDs (no leading dot), unordered.
func SuspiciousTLDs() []string { return keys(suspiciousTLDs) }

// CommonTLDs returns the common TLDs (no leading dot), unordered.
func CommonTLDs() []string { return keys(commonTLDs) }

// SuspiciousKeywords returns the keyword list in match order.
func SuspiciousKeywords() []string { return append([]string(nil), suspiciousKeywords...) }

// TrustedDomains returns the allowlist.
func TrustedDomains() []string { return append([]string(nil), trustedDomains...) }
