package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "context"))

	base := errors.New("boom")
	wrapped := WrapError(base, "loading model")
	assert.EqualError(t, wrapped, "loading model: boom")
	assert.ErrorIs(t, wrapped, base)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("weights", "bogus", "unknown feature")
	assert.Equal(t, "validation failed for field 'weights': unknown feature (value: bogus)", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	var target *ValidationError
	assert.True(t, errors.As(WrapError(err, "outer"), &target))
	assert.Equal(t, "weights", target.Field)
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{
			name:     "section and field",
			err:      NewConfigurationError("auth_config", "secret", "too short"),
			expected: "configuration error in section 'auth_config', field 'secret': too short",
		},
		{
			name:     "section only",
			err:      NewConfigurationError("scorer_config", "", "unknown type"),
			expected: "configuration error in section 'scorer_config': unknown type",
		},
		{
			name:     "reason only",
			err:      NewConfigurationError("", "", "missing"),
			expected: "configuration error: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrInvalidConfiguration)
		})
	}
}
