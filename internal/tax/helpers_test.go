package tax_test

import (
	"testing"

	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertMoney compares a decimal with an expected value at two places.
func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, d(want).StringFixed(2), got.StringFixed(2), msgAndArgs...)
}

// assertRate checks a reported rate; want "" means the rate must be absent.
func assertRate(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	if want == "" {
		assert.Nil(t, got, "rate should be absent")
		return
	}
	if assert.NotNil(t, got, "rate should be present") {
		assert.True(t, d(want).Equal(*got), "rate = %s, want %s", got.String(), want)
	}
}

// scenarioConfig is the configuration of the reference scenarios:
// ICMS 18% CST 00, IPI 5%, PIS 1.65% CST 01, COFINS 7.6% CST 01.
func scenarioConfig() *tax.TaxConfiguration {
	return &tax.TaxConfiguration{
		ID:                "cfg-sp",
		OperationNatureID: "venda",
		UF:                "SP",
		ICMS:              tax.TaxRule{CST: "00", Rate: d("18")},
		IPI:               tax.TaxRule{CST: "50", Rate: d("5")},
		PIS:               tax.TaxRule{CST: "01", Rate: d("1.65")},
		COFINS:            tax.TaxRule{CST: "01", Rate: d("7.6")},
	}
}

// itemInput is qty 2 × 100.00 with no discount, freight or expenses.
func itemInput(cfg *tax.TaxConfiguration) tax.StrategyInput {
	return tax.StrategyInput{
		Subtotal:          d("200"),
		Discount:          decimal.Zero,
		AllocatedFreight:  decimal.Zero,
		AllocatedExpenses: decimal.Zero,
		Quantity:          d("2"),
		Config:            cfg,
		OriginUF:          "SP",
	}
}
