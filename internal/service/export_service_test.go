package service_test

import (
	"bytes"
	"testing"

	"paynote/internal/models"
	"paynote/internal/service"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInvoicesXLSX(t *testing.T) {
	t.Parallel()

	url := "https://cdn/FAC-2025-0002.pdf"
	first := sampleInvoice("FAC-2025-0002")
	first.Status = models.InvoiceStatusSent
	first.PDFURL = &url
	second := sampleInvoice("FAC-2025-0001")
	second.Status = models.InvoiceStatusDraft

	data, err := service.InvoicesXLSX([]models.Invoice{*first, *second})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Factures"}, f.GetSheetList())

	rows, err := f.GetRows("Factures")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "N° Facture", rows[0][0])
	require.Equal(t, "FAC-2025-0002", rows[1][0])
	require.Equal(t, "Jean Dupont", rows[1][1])
	require.Equal(t, "2025-03-03", rows[1][3])
	require.Equal(t, "1000", rows[1][8])
	require.Equal(t, "sent", rows[1][9])
	require.Equal(t, url, rows[1][10])
	require.Equal(t, "FAC-2025-0001", rows[2][0])
}

func TestInvoicesXLSX_Empty(t *testing.T) {
	t.Parallel()

	data, err := service.InvoicesXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Factures")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
