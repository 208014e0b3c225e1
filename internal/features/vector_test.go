package features

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_CanonicalOrder(t *testing.T) {
	names := Names()
	require.Len(t, names, 28)
	assert.Equal(t, "length_url", names[0])
	assert.Equal(t, "shannon_entropy", names[ShannonEntropy])
	assert.Equal(t, "dot_ratio", names[27])

	for i, name := range names {
		f, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, Feature(i), f)
		assert.Equal(t, name, f.String())
	}

	_, ok := Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, "Feature(99)", Feature(99).String())
}

func TestVector_MarshalJSONKeepsOrder(t *testing.T) {
	data, err := json.Marshal(Extract("https://github.com"))
	require.NoError(t, err)

	body := string(data)
	last := -1
	for _, name := range Names() {
		idx := strings.Index(body, `"`+name+`"`)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}
}

func TestVector_JSONRoundTrip(t *testing.T) {
	v := Extract("http://paypal.com.verify-account.tk/login?id=42")
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var decoded Vector
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, v, decoded)
}

func TestVector_UnmarshalRejectsUnknownKey(t *testing.T) {
	var v Vector
	err := json.Unmarshal([]byte(`{"length_url": 3, "bogus": 1}`), &v)
	assert.Error(t, err)

	require.NoError(t, json.Unmarshal([]byte(`{"nb_dots": 2}`), &v))
	assert.Equal(t, 2.0, v.Value(NbDots))
	assert.Equal(t, 0.0, v.Value(LengthURL))
}

func TestVector_CopiesAreIndependent(t *testing.T) {
	v := Extract("https://github.com")
	values := v.Values()
	values[0] = -1
	m := v.Map()
	m["length_url"] = -1

	assert.Equal(t, 18.0, v.Value(LengthURL))
}

func TestReferenceTablesAreCopies(t *testing.T) {
	brands := KnownBrands()
	brands[0] = "mutated"
	assert.Equal(t, "google", KnownBrands()[0])
	assert.Len(t, TrustedDomains(), 15)
	assert.Len(t, SuspiciousTLDs(), 13)
	assert.Len(t, CommonTLDs(), 9)
	assert.Equal(t, "login", SuspiciousKeywords()[0])
}
