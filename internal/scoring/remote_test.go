package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemoteScorer_RequiresEndpoint(t *testing.T) {
	_, err := NewRemoteScorer(RemoteConfig{Endpoint: "  "}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRemoteScorer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/score", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req scoreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "http://paypal.tk", req.URL)

		_, _ = w.Write([]byte(`{"probability": 0.83}`))
	}))
	defer srv.Close()

	rs, err := NewRemoteScorer(RemoteConfig{Endpoint: srv.URL + "/", APIKey: "key"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "remote:"+srv.URL, rs.Name())

	p, err := rs.RawProbability(context.Background(), "http://paypal.tk")
	require.NoError(t, err)
	assert.Equal(t, 0.83, p)
}

func TestRemoteScorer_ClampsOutOfRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"probability": 1.7}`))
	}))
	defer srv.Close()

	rs, err := NewRemoteScorer(RemoteConfig{Endpoint: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	p, err := rs.RawProbability(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestRemoteScorer_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		unavailable bool
	}{
		{"server error", http.StatusInternalServerError, "", false},
		{"missing probability", http.StatusOK, `{}`, false},
		{"bad json", http.StatusOK, `nope`, false},
		{"service warming up", http.StatusServiceUnavailable, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			rs, err := NewRemoteScorer(RemoteConfig{Endpoint: srv.URL}, zerolog.Nop())
			require.NoError(t, err)
			_, err = rs.RawProbability(context.Background(), "x")
			require.Error(t, err)
			assert.Equal(t, tt.unavailable, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestRemoteScorer_BreakerOpensAndMapsToUnavailable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rs, err := NewRemoteScorer(RemoteConfig{
		Endpoint:               srv.URL,
		MaxConsecutiveFailures: 2,
		OpenTimeout:            time.Minute,
	}, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := rs.RawProbability(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, rs.State())

	_, err = rs.RawProbability(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}
