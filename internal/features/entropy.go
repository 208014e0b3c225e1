package features

import (
	"math"
	"unicode/utf8"
)

// Entropy is the Shannon entropy in bits of the character distribution of s. Terms
// are summed in first-occurrence order so the result is bit-for-bit reproducible.
// The entropy of "" is 0.
func Entropy(s string) float64 {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}

	counts := make(map[rune]int)
	order := make([]rune, 0, 32)
	for _, r := range s {
		if counts[r] == 0 {
			order = append(order, r)
		}
		counts[r]++
	}

	total := float64(n)
	var h float64
	for _, r := range order {
		p := float64(counts[r]) / total
		h -= p * math.Log2(p)
	}
	// A single repeated character gives -0.
	if h == 0 {
		return 0
	}
	return h
}
