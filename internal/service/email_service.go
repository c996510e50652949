package service

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"paynote/internal/models"
)

//go:embed templates/invoice_email.html
var invoiceEmailHTML string

var invoiceEmailTemplate = template.Must(template.New("invoice_email").Parse(invoiceEmailHTML))

type InvoiceEmailData struct {
	ClientName    string
	InvoiceNumber string
	PDFURL        string
	Year          int
}

func InvoiceEmailSubject(invoiceNumber string) string {
	return fmt.Sprintf("Facture %s - Paynote", invoiceNumber)
}

// ComposeInvoiceEmail renders the HTML notification. Values are HTML-escaped.
func ComposeInvoiceEmail(to string, data InvoiceEmailData) (models.Email, error) {
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := invoiceEmailTemplate.Execute(&buf, data); err != nil {
		return models.Email{}, fmt.Errorf("render invoice email: %w", err)
	}

	return models.Email{
		To:      []string{to},
		Subject: InvoiceEmailSubject(data.InvoiceNumber),
		HTML:    buf.String(),
	}, nil
}
