package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntropy(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"", 0},
		{"aaaa", 0},
		{"ab", 1},
		{"abcd", 2},
		{"aabb", 1},
		{"aaab", 0.8112781244591328},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Entropy(tt.input), 1e-12)
		})
	}
}

func TestEntropy_NonNegative(t *testing.T) {
	for _, s := range []string{"x", "http://a.b", "ü", "zzzzzzzzzzzzzzzzzzzzzzzzzzzy"} {
		assert.GreaterOrEqual(t, Entropy(s), 0.0, s)
	}
}
