package service

import (
	"time"

	"paynote/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to two decimals.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round2(quantity.Mul(unitPrice))
}

type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// TotalsPolicy is the single place totals are derived from line items.
// TaxRatePercent of zero yields Total == Subtotal.
type TotalsPolicy struct {
	TaxRatePercent decimal.Decimal
}

func (p TotalsPolicy) Totals(items []models.InvoiceItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	subtotal = Round2(subtotal)

	tax := Round2(subtotal.Mul(p.TaxRatePercent).Div(hundred))

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// DueDate adds calendar days, so 2025-01-31 + 30 is 2025-03-02.
func DueDate(issueDate time.Time, termsDays int) time.Time {
	return issueDate.AddDate(0, 0, termsDays)
}
