package gigachat_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"paynote/internal/clients/gigachat"
	"paynote/internal/models"
	"paynote/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, chat http.HandlerFunc, timeout time.Duration) *gigachat.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Basic test-key", r.Header.Get("Authorization"))
		expires := time.Now().Add(time.Hour).UnixMilli()
		_, _ = fmt.Fprintf(w, `{"access_token":"token","expires_at":%d}`, expires)
	})
	mux.HandleFunc("/chat", chat)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := gigachat.New(context.Background(), &config.GigaChatConfig{
		APIKey:   "test-key",
		Scope:    "GIGACHAT_API_PERS",
		Model:    "GigaChat",
		URL:      srv.URL + "/chat",
		OAuthURL: srv.URL + "/oauth",
	}, timeout, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "GigaChat", body["model"])

		messages := body["messages"].([]any)
		require.Len(t, messages, 2)
		require.Equal(t, "system", messages[0].(map[string]any)["role"])
		require.Equal(t, "prompt", messages[0].(map[string]any)["content"])

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"client_name\":\"Acme\"} "}}]}`))
	}, time.Second)

	got, err := c.Complete(context.Background(), "prompt", "description")
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
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"message":"too many requests"}`, want: models.ErrRateLimited},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, body: "", want: models.ErrUpstreamUnavailable},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", want: models.ErrUpstreamFormat},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, want: models.ErrUpstreamFormat},
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
