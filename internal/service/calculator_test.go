package service_test

import (
	"testing"
	"time"

	"paynote/internal/models"
	"paynote/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		quantity  string
		unitPrice string
		want      string
	}{
		{name: "half rounds up", quantity: "3", unitPrice: "150.005", want: "450.02"},
		{name: "daily rate", quantity: "12", unitPrice: "400", want: "4800"},
		{name: "fractional quantity", quantity: "1.5", unitPrice: "333.33", want: "500"},
		{name: "below half rounds down", quantity: "1", unitPrice: "10.004", want: "10"},
		{name: "negative rounds away from zero", quantity: "1", unitPrice: "-2.345", want: "-2.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.LineTotal(decimal.RequireFromString(tt.quantity), decimal.RequireFromString(tt.unitPrice))
			require.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestTotalsPolicy(t *testing.T) {
	t.Parallel()

	items := []models.InvoiceItem{
		{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), LineTotal: service.LineTotal(decimal.NewFromInt(2), decimal.NewFromInt(100))},
		{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("50.505"), LineTotal: service.LineTotal(decimal.NewFromInt(1), decimal.RequireFromString("50.505"))},
	}

	t.Run("no tax", func(t *testing.T) {
		totals := service.TotalsPolicy{}.Totals(items)
		require.Equal(t, "250.51", totals.Subtotal.StringFixed(2))
		require.True(t, totals.Tax.IsZero())
		require.True(t, totals.Total.Equal(totals.Subtotal))
	})

	t.Run("twenty percent", func(t *testing.T) {
		totals := service.TotalsPolicy{TaxRatePercent: decimal.NewFromInt(20)}.Totals(items)
		require.Equal(t, "250.51", totals.Subtotal.StringFixed(2))
		require.Equal(t, "50.10", totals.Tax.StringFixed(2))
		require.Equal(t, "300.61", totals.Total.StringFixed(2))
	})
}

func TestDueDate(t *testing.T) {
	t.Parallel()

	issue := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

	require.Equal(t, "2025-03-02", service.DueDate(issue, 30).Format(time.DateOnly))
	require.Equal(t, "2025-01-31", service.DueDate(issue, 0).Format(time.DateOnly))
	require.Equal(t, "2025-03-17", service.DueDate(issue, 45).Format(time.DateOnly))
}
