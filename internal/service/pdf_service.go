package service

import (
	"bytes"
	"fmt"
	"strings"

	"paynote/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = [3]int{99, 102, 241}
	colorDark    = [3]int{31, 41, 55}
	colorMuted   = [3]int{156, 163, 175}
	colorAccent  = [3]int{52, 211, 153}
)

// PDFRenderer lays out an A4 invoice with the core Helvetica font. Text is
// translated to cp1252, which covers French accents and the euro sign.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render draws the invoice. issuer may be nil, in which case the issuer block is omitted.
func (r *PDFRenderer) Render(inv *models.Invoice, issuer *models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	text := func(x, y float64, s string) {
		pdf.Text(x, y, tr(s))
	}
	color := func(c [3]int) {
		pdf.SetTextColor(c[0], c[1], c[2])
	}

	// Brand
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(20, 15, 15, 15, "F")
	pdf.SetFillColor(colorAccent[0], colorAccent[1], colorAccent[2])
	pdf.Circle(32, 27, 3, "F")

	pdf.SetFont("Helvetica", "B", 24)
	color(colorPrimary)
	text(40, 25, "Paynote")

	pdf.SetFontSize(32)
	color(colorDark)
	text(20, 50, "FACTURE")

	// Number and dates
	pdf.SetFont("Helvetica", "", 10)
	color(colorMuted)
	text(20, 60, "N° Facture")
	text(20, 67, "Date d'émission")
	text(20, 74, "Date d'échéance")

	color(colorDark)
	pdf.SetFont("Helvetica", "B", 10)
	text(60, 60, inv.InvoiceNumber)
	pdf.SetFont("Helvetica", "", 10)
	text(60, 67, inv.IssueDate.Format("02/01/2006"))
	text(60, 74, inv.DueDate.Format("02/01/2006"))

	if issuer != nil {
		y := 60.0
		color(colorMuted)
		text(140, y, "DE")

		name := issuer.FullName
		if strings.TrimSpace(name) == "" {
			name = issuer.Email
		}
		y += 7
		color(colorDark)
		pdf.SetFont("Helvetica", "B", 10)
		text(140, y, name)

		pdf.SetFont("Helvetica", "", 9)
		for _, line := range []string{deref(issuer.CompanyName), siretLine(issuer.SIRET), deref(issuer.Address)} {
			if line == "" {
				continue
			}
			y += 5
			text(140, y, line)
		}
	}

	// Client
	y := 95.0
	pdf.SetFont("Helvetica", "", 10)
	color(colorMuted)
	text(20, y, "FACTURER À")

	y += 7
	color(colorDark)
	pdf.SetFont("Helvetica", "B", 10)
	text(20, y, inv.ClientName)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{deref(inv.ClientCompany), deref(inv.ClientEmail)} {
		if line == "" {
			continue
		}
		y += 5
		text(20, y, line)
	}

	// Items
	y += 20
	pdf.SetFillColor(249, 250, 251)
	pdf.Rect(20, y, 170, 10, "F")

	pdf.SetFont("Helvetica", "B", 9)
	text(22, y+6, "Description")
	text(120, y+6, "Qté")
	text(140, y+6, "Prix unit.")
	text(170, y+6, "Total")

	y += 12
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		lines := pdf.SplitLines([]byte(tr(item.Description)), 95)
		for i, line := range lines {
			pdf.Text(22, y+float64(i)*4.5, string(line))
		}
		text(120, y, item.Quantity.String())
		text(140, y, FormatMoney(item.UnitPrice, inv.Currency))
		text(170, y, FormatMoney(item.LineTotal, inv.Currency))
		y += 7 + float64(max(len(lines)-1, 0))*4.5
	}

	pdf.SetDrawColor(colorMuted[0], colorMuted[1], colorMuted[2])
	pdf.Line(20, y+5, 190, y+5)

	if !inv.Tax.IsZero() {
		y += 12
		pdf.SetFont("Helvetica", "", 10)
		text(120, y, "Sous-total")
		text(170, y, FormatMoney(inv.Subtotal, inv.Currency))
		y += 6
		text(120, y, "TVA")
		text(170, y, FormatMoney(inv.Tax, inv.Currency))
	}

	y += 15
	pdf.SetFont("Helvetica", "B", 14)
	color(colorPrimary)
	text(120, y, "TOTAL")
	text(170, y, FormatMoney(inv.Total, inv.Currency))

	if inv.Notes != "" {
		y += 20
		pdf.SetFont("Helvetica", "", 9)
		color(colorMuted)
		text(20, y, "NOTES")

		color(colorDark)
		pdf.SetXY(20, y+2)
		pdf.MultiCell(170, 5, tr(inv.Notes), "", "L", false)
	}

	// Footer
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "I", 10)
	color(colorPrimary)
	pdf.SetXY(20, 276)
	pdf.CellFormat(170, 6, tr("Merci pour votre confiance !"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	color(colorMuted)
	pdf.SetX(20)
	pdf.CellFormat(170, 5, tr("Généré avec Paynote"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}

// FormatMoney formats an amount the French way: space thousands separator,
// comma decimals, currency after the number.
func FormatMoney(amount decimal.Decimal, currency string) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	b.WriteByte(' ')
	b.WriteString(currencySuffix(currency))

	return b.String()
}

func currencySuffix(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "USD":
		return "$US"
	case "GBP":
		return "£GB"
	default:
		return code
	}
}

func siretLine(siret *string) string {
	if siret == nil || *siret == "" {
		return ""
	}
	return "SIRET: " + *siret
}
