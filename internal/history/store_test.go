package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/phishlens/internal/assess"
	"github.com/aleister1102/phishlens/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fixedClock returns increasing timestamps one second apart.
func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func TestStore_SaveFillsDefaults(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Save(context.Background(), Record{
		Subject:    "alice",
		URL:        "https://login.paypal.co.uk/verify",
		Prediction: "phishing",
		RiskLevel:  "high",
		Source:     "model",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Equal(t, "paypal.co.uk", rec.RegisteredDomain)
}

func TestStore_ListNewestFirstAndFiltered(t *testing.T) {
	s := openTestStore(t)
	s.now = fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, r := range []Record{
		{Subject: "alice", URL: "https://a.example.com"},
		{Subject: "bob", URL: "https://b.example.com"},
		{Subject: "alice", URL: "https://c.example.com"},
	} {
		_, err := s.Save(ctx, r)
		require.NoError(t, err)
	}

	all, err := s.List(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "https://c.example.com", all[0].URL)
	assert.Equal(t, "https://a.example.com", all[2].URL)

	alice, err := s.List(ctx, Query{Subject: "alice"})
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "https://c.example.com", alice[0].URL)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 3, 0, time.UTC), alice[0].CreatedAt)

	limited, err := s.List(ctx, Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	n, err := s.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStore_ListEmpty(t *testing.T) {
	s := openTestStore(t)
	records, err := s.List(context.Background(), Query{Subject: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_RoundTripsAssessment(t *testing.T) {
	s := openTestStore(t)
	a := assess.ScoreURL(context.Background(), "http://192.168.0.7/login", scoring.NewStatic(0.4))

	saved, err := s.Save(context.Background(), FromAssessment("carol", a))
	require.NoError(t, err)

	got, err := s.List(context.Background(), Query{Subject: "carol"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, saved, got[0])
	assert.Equal(t, "phishing", got[0].Prediction)
	assert.Equal(t, "high", got[0].RiskLevel)
	assert.Equal(t, 0.75, got[0].AdjustedProbability)
	assert.Equal(t, "model", got[0].Source)
	assert.Equal(t, "192.168.0.7", got[0].RegisteredDomain)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = s.Save(context.Background(), Record{Subject: "x", URL: "x.com"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultListLimit, NormalizeLimit(-3))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxListLimit, NormalizeLimit(10_000))
}

func TestRegisteredDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.google.com/search", "google.com"},
		{"login.paypal.co.uk", "paypal.co.uk"},
		{"http://user:pw@secure.example.org:8443/x", "example.org"},
		{"HTTP://Shop.Example.XYZ", "example.xyz"},
		{"http://10.0.0.1:8080/admin", "10.0.0.1"},
		{"http://[::1]:8080/", "::1"},
		{"", ""},
		{"com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RegisteredDomain(tt.in))
		})
	}
}
