package tax_test

import (
	"testing"

	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/shopspring/decimal"
)

func TestSummarizeOrder(t *testing.T) {
	lines := []tax.OrderLine{
		{Quantity: d("2"), UnitValue: d("100"), Discount: d("10"), Taxes: d("64.50")},
		{Quantity: d("0.333"), UnitValue: d("10"), Taxes: d("0.60")},
	}

	tests := []struct {
		name           string
		includeFreight bool
		expectedGrand  string
	}{
		{name: "freight included", includeFreight: true, expectedGrand: "323.43"},
		{name: "freight excluded", includeFreight: false, expectedGrand: "283.43"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tax.SummarizeOrder(lines, d("40"), d("25"), tt.includeFreight)

			assertMoney(t, "203.33", got.TotalProducts, "3.33 rounded line subtotal")
			assertMoney(t, "10", got.TotalDiscounts)
			assertMoney(t, "65.10", got.TotalTaxes)
			assertMoney(t, "40", got.Freight)
			assertMoney(t, "25", got.Expenses)
			assertMoney(t, tt.expectedGrand, got.GrandTotal)
		})
	}
}

func TestSummarizeOrder_Empty(t *testing.T) {
	got := tax.SummarizeOrder(nil, decimal.Zero, decimal.Zero, true)

	assertMoney(t, "0", got.GrandTotal)
	assertMoney(t, "0", got.TotalProducts)
}
