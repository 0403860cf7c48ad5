package tax

import "github.com/shopspring/decimal"

// OrderLine is the minimal per-line data the totals formula needs.
type OrderLine struct {
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Discount  decimal.Decimal
	Taxes     decimal.Decimal
}

// OrderTotals are the order-level amounts.
type OrderTotals struct {
	TotalProducts  decimal.Decimal
	TotalDiscounts decimal.Decimal
	TotalTaxes     decimal.Decimal
	Freight        decimal.Decimal
	Expenses       decimal.Decimal
	GrandTotal     decimal.Decimal
}

// SummarizeOrder is the one totals formula shared by the tax engine and the
// order recompute path:
//
//	grandTotal = products - discounts + taxes + (includeFreight ? freight : 0) + expenses
//
// Freight and expenses enter the total independently of whether any tax
// folded them into its base.
func SummarizeOrder(lines []OrderLine, freight, expenses decimal.Decimal, includeFreight bool) OrderTotals {
	t := OrderTotals{
		TotalProducts:  decimal.Zero,
		TotalDiscounts: decimal.Zero,
		TotalTaxes:     decimal.Zero,
		Freight:        Round2(freight),
		Expenses:       Round2(expenses),
	}

	for _, l := range lines {
		t.TotalProducts = t.TotalProducts.Add(Round2(l.Quantity.Mul(l.UnitValue)))
		t.TotalDiscounts = t.TotalDiscounts.Add(Round2(l.Discount))
		t.TotalTaxes = t.TotalTaxes.Add(Round2(l.Taxes))
	}

	grand := t.TotalProducts.Sub(t.TotalDiscounts).Add(t.TotalTaxes).Add(t.Expenses)
	if includeFreight {
		grand = grand.Add(t.Freight)
	}
	t.GrandTotal = Round2(grand)
	return t
}
