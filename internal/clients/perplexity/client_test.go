package perplexity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paynote/internal/clients/perplexity"
	"paynote/internal/models"
	"paynote/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *perplexity.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return perplexity.New(config.PerplexityConfig{
		APIKey:      "test-key",
		BaseURL:     srv.URL,
		Model:       "llama-3.1-sonar-large-128k-online",
		Temperature: 0.2,
		MaxTokens:   1000,
	}, timeout, zap.NewNop())
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "llama-3.1-sonar-large-128k-online", body["model"])
		require.InDelta(t, 0.2, body["temperature"], 1e-9)
		require.EqualValues(t, 1000, body["max_tokens"])

		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		require.Equal(t, "system", messages[0].(map[string]any)["role"])
		require.Equal(t, "user", messages[1].(map[string]any)["role"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"client_name\":\"Acme\"}  "}}]}`))
	}, time.Second)

	got, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	require.Equal(t, `{"client_name":"Acme"}`, got)
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`, want: models.ErrRateLimited},
		{name: "service unavailable", status: http.StatusServiceUnavailable, body: "", want: models.ErrUpstreamUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, body: "", want: models.ErrUpstreamUnavailable},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, want: models.ErrUpstreamFormat},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, want: models.ErrUpstreamFormat},
		{name: "no message", status: http.StatusOK, body: `{"choices":[{}]}`, want: models.ErrUpstreamFormat},
		{name: "not json", status: http.StatusOK, body: `<html>`, want: models.ErrUpstreamFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, time.Second)

			_, err := c.Complete(context.Background(), "s", "u")
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := c.Complete(context.Background(), "s", "u")
	require.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
