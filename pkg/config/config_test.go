package config_test

import (
	"testing"
	"time"

	"paynote/pkg/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, config.LLMProviderPerplexity, cfg.LLM.Provider)
	require.Equal(t, 30*time.Second, cfg.LLM.RequestTimeout())
	require.Equal(t, "llama-3.1-sonar-large-128k-online", cfg.Perplexity.Model)
	require.Equal(t, 1000, cfg.Perplexity.MaxTokens)
	require.True(t, cfg.Invoice.TaxRate.IsZero())
	require.Equal(t, config.MailProviderResend, cfg.Mail.Provider)
	require.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "1500")
	t.Setenv("INVOICE_TAX_RATE", "20")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("MAIL_PROVIDER", "smtp")
	t.Setenv("LLM_PROVIDER", "gigachat")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 1500*time.Millisecond, cfg.LLM.RequestTimeout())
	require.Equal(t, "20", cfg.Invoice.TaxRate.String())
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, config.MailProviderSMTP, cfg.Mail.Provider)
	require.Equal(t, config.LLMProviderGigaChat, cfg.LLM.Provider)
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")

	_, err := config.Load()
	require.ErrorContains(t, err, "LLM_PROVIDER")
}

func TestLoad_RejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_MS", "0")

	_, err := config.Load()
	require.ErrorContains(t, err, "REQUEST_TIMEOUT_MS")
}
