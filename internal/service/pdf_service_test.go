package service_test

import (
	"strings"
	"testing"

	"paynote/internal/models"
	"paynote/internal/service"

	"github.com/gen2brain/go-fitz"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pdfText(t *testing.T, data []byte) string {
	t.Helper()

	doc, err := fitz.NewFromMemory(data)
	require.NoError(t, err)
	defer doc.Close()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		require.NoError(t, err)
		b.WriteString(text)
	}
	return b.String()
}

func TestPDFRenderer_Render(t *testing.T) {
	t.Parallel()

	company := "Dupont SARL"
	siret := "12345678901234"
	inv := sampleInvoice("FAC-2025-0042")
	inv.ClientCompany = &company
	inv.Notes = "Paiement sous 30 jours"

	data, err := service.NewPDFRenderer().Render(inv, &models.User{
		FullName: "Marie Curie",
		SIRET:    &siret,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))

	text := pdfText(t, data)
	require.Contains(t, text, "FACTURE")
	require.Contains(t, text, "FAC-2025-0042")
	require.Contains(t, text, "03/03/2025")
	require.Contains(t, text, "Marie Curie")
	require.Contains(t, text, "SIRET: 12345678901234")
	require.Contains(t, text, "Dupont SARL")
	require.Contains(t, text, "Paiement sous 30 jours")
	require.Contains(t, text, "1 000,00")
}

func TestPDFRenderer_WithoutIssuer(t *testing.T) {
	t.Parallel()

	data, err := service.NewPDFRenderer().Render(sampleInvoice("FAC-2025-0043"), nil)
	require.NoError(t, err)

	text := pdfText(t, data)
	require.Contains(t, text, "FAC-2025-0043")
	require.NotContains(t, text, "SIRET")
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"0", "EUR", "0,00 €"},
		{"999.5", "EUR", "999,50 €"},
		{"1234.56", "EUR", "1 234,56 €"},
		{"1234567.891", "USD", "1 234 567,89 $US"},
		{"-42", "GBP", "-42,00 £GB"},
		{"10", "CHF", "10,00 CHF"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, service.FormatMoney(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestBriefReader_ExtractText(t *testing.T) {
	t.Parallel()

	data, err := service.NewPDFRenderer().Render(sampleInvoice("FAC-2025-0044"), nil)
	require.NoError(t, err)

	text, err := service.NewBriefReader(zap.NewNop()).ExtractText(data)
	require.NoError(t, err)
	require.Contains(t, text, "Jean Dupont")
	require.Contains(t, text, "Conseil")
}

func TestBriefReader_RejectsNonPDF(t *testing.T) {
	t.Parallel()

	_, err := service.NewBriefReader(zap.NewNop()).ExtractText([]byte("hello"))
	require.ErrorIs(t, err, models.ErrValidation)
}
