package service_test

import (
	"testing"

	"paynote/internal/service"

	"github.com/stretchr/testify/require"
)

func TestComposeInvoiceEmail(t *testing.T) {
	t.Parallel()

	email, err := service.ComposeInvoiceEmail("client@example.fr", service.InvoiceEmailData{
		ClientName:    "Jean Dupont",
		InvoiceNumber: "FAC-2025-0001",
		PDFURL:        "https://cdn.example.fr/a.pdf",
		Year:          2025,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"client@example.fr"}, email.To)
	require.Equal(t, "Facture FAC-2025-0001 - Paynote", email.Subject)
	require.Contains(t, email.HTML, "Bonjour <strong>Jean Dupont</strong>")
	require.Contains(t, email.HTML, `<a href="https://cdn.example.fr/a.pdf" class="button">Télécharger la facture PDF</a>`)
	require.Contains(t, email.HTML, "FAC-2025-0001")
	require.Contains(t, email.HTML, "© 2025 Paynote")
	require.Contains(t, email.HTML, "Cette facture a été générée avec Paynote")
}

func TestComposeInvoiceEmail_RejectsScriptURL(t *testing.T) {
	t.Parallel()

	email, err := service.ComposeInvoiceEmail("client@example.fr", service.InvoiceEmailData{
		ClientName:    "Jean",
		InvoiceNumber: "FAC-2025-0001",
		PDFURL:        "javascript:alert(1)",
	})
	require.NoError(t, err)
	require.NotContains(t, email.HTML, `href="javascript:`)
	require.Contains(t, email.HTML, "#ZgotmplZ")
}
