package smtp_test

import (
	"bytes"
	"context"
	"testing"

	"paynote/internal/clients/smtp"
	"paynote/internal/models"
	"paynote/pkg/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	msg := smtp.BuildMessage("billing@paynote.fr", "Paynote", models.Email{
		To:      []string{"client@example.fr"},
		Subject: "Facture FAC-2025-0001 - Paynote",
		HTML:    "<p>Bonjour</p>",
		Attachments: []models.Attachment{
			{Filename: "FAC-2025-0001.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")},
		},
	})

	require.Equal(t, []string{"client@example.fr"}, msg.GetHeader("To"))
	require.Equal(t, []string{"Facture FAC-2025-0001 - Paynote"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `filename="FAC-2025-0001.pdf"`)
	require.Contains(t, buf.String(), "Paynote")
}

func TestClient_SendHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	c := smtp.New(config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, models.Email{To: []string{"a@b.fr"}, Subject: "s", HTML: "h"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_SendUnreachable(t *testing.T) {
	t.Parallel()

	c := smtp.New(config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1}, zap.NewNop())

	_, err := c.Send(context.Background(), models.Email{To: []string{"a@b.fr"}, Subject: "s", HTML: "h"})
	require.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
