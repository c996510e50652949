package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"paynote/internal/models"
)

const maxErrorSnippet = 300

// StatusError classifies a non-2xx upstream answer. 429 is rate limiting,
// gateway errors mean the provider is unavailable, anything else is an
// answer we cannot use.
func StatusError(provider string, status int, detail string) error {
	detail = snippet(detail)
	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned %d: %s", models.ErrRateLimited, provider, status, detail)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s returned %d: %s", models.ErrUpstreamUnavailable, provider, status, detail)
	default:
		return fmt.Errorf("%w: %s returned %d: %s", models.ErrUpstreamFormat, provider, status, detail)
	}
}

// TransportError wraps a failure to reach the provider, timeouts included.
func TransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request canceled: %w", provider, err)
	}
	return fmt.Errorf("%w: %s: %w", models.ErrUpstreamUnavailable, provider, err)
}

func FormatError(provider, what string) error {
	return fmt.Errorf("%w: %s: %s", models.ErrUpstreamFormat, provider, what)
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorSnippet {
		return s
	}
	cut := maxErrorSnippet
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
