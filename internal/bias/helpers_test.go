package bias

import (
	"encoding/json"
	"testing"

	"github.com/aleister1102/phishlens/internal/features"
	"github.com/stretchr/testify/require"
)

func vectorFrom(t *testing.T, values map[string]float64) features.Vector {
	t.Helper()
	data, err := json.Marshal(values)
	require.NoError(t, err)

	var v features.Vector
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}
