package service

import (
	"fmt"
	"strings"

	"paynote/internal/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Factures"

var exportHeaders = []string{
	"N° Facture",
	"Client",
	"Email",
	"Date d'émission",
	"Échéance",
	"Devise",
	"Sous-total",
	"TVA",
	"Total",
	"Statut",
	"Lien PDF",
}

// InvoicesXLSX writes one row per invoice, in the given order, below a header row.
func InvoicesXLSX(invoices []models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than leaving an empty "Sheet1".
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
	}

	for i := range invoices {
		inv := &invoices[i]
		row := i + 2

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}

		client := inv.ClientName
		if inv.ClientCompany != nil && !strings.EqualFold(*inv.ClientCompany, inv.ClientName) {
			client += " (" + *inv.ClientCompany + ")"
		}

		write(1, inv.InvoiceNumber)
		write(2, client)
		write(3, deref(inv.ClientEmail))
		write(4, inv.IssueDate.Format("2006-01-02"))
		write(5, inv.DueDate.Format("2006-01-02"))
		write(6, inv.Currency)
		write(7, inv.Subtotal.InexactFloat64())
		write(8, inv.Tax.InexactFloat64())
		write(9, inv.Total.InexactFloat64())
		write(10, string(inv.Status))
		write(11, deref(inv.PDFURL))
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 16)
	_ = f.SetColWidth(exportSheet, "B", "C", 30)
	_ = f.SetColWidth(exportSheet, "D", "E", 14)
	_ = f.SetColWidth(exportSheet, "F", "J", 12)
	_ = f.SetColWidth(exportSheet, "K", "K", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
