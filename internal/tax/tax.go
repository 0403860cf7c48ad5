package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// Calculator computes the taxes of a commercial order.
// Implementations: Engine
type Calculator interface {
	Calculate(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// OrderRequest is everything needed to calculate an order's taxes.
type OrderRequest struct {
	CompanyID         string
	ClientID          string // Optional
	OperationNatureID string

	// OriginUF and DestinationUF override the UFs looked up from the company
	// and the client when set.
	OriginUF      string
	DestinationUF string

	// IncludeFreightInTotal adds the order freight to the grand total.
	IncludeFreightInTotal bool
	Freight               decimal.Decimal
	Expenses              decimal.Decimal

	Items []LineItem
}

// LineItem is a single order line being taxed.
type LineItem struct {
	ProductID string
	Name      string
	NCM       string
	CEST      string
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Discount  decimal.Decimal

	// Per-item CST overrides. Empty means the configuration CST applies.
	CSTICMS   string
	CSTIPI    string
	CSTPIS    string
	CSTCOFINS string

	BenefitCode string // Código de benefício fiscal (cBenef)
}

// OrderContext is the immutable per-calculation context shared by all items.
type OrderContext struct {
	OriginUF              string
	DestinationUF         string
	OperationNatureID     string
	IncludeFreightInTotal bool
	Freight               decimal.Decimal
	Expenses              decimal.Decimal

	// TotalQuantity is the allocation denominator, computed once per order.
	TotalQuantity decimal.Decimal
}

// TaxResult is the outcome of one tax on one item. A nil Rate with a zero
// Value means the tax does not apply.
type TaxResult struct {
	Base        decimal.Decimal
	Rate        *decimal.Decimal
	Value       decimal.Decimal
	CST         string
	BenefitCode string

	// ICMS deferral (CST 51).
	DeferredValue   *decimal.Decimal
	DeferralPercent *decimal.Decimal

	// ICMS previously withheld by substitution (CST 60, CSOSN 500).
	PriorSTValue *decimal.Decimal
	PriorSTState string
}

// Applied reports whether the tax was charged at a rate.
func (r TaxResult) Applied() bool {
	return r.Rate != nil
}

func notTaxed(cst, benefitCode string) TaxResult {
	return TaxResult{CST: cst, BenefitCode: benefitCode}
}

func taxedAt(base, rate decimal.Decimal, cst, benefitCode string) TaxResult {
	return TaxResult{
		Base:        base,
		Rate:        ptr(rate),
		Value:       percentOf(base, rate),
		CST:         cst,
		BenefitCode: benefitCode,
	}
}

// Withholdings groups the retained federal taxes of an item.
type Withholdings struct {
	CSLL   TaxResult
	PIS    TaxResult
	INSS   TaxResult
	IR     TaxResult
	COFINS TaxResult
}

// Total sums the retained values.
func (w Withholdings) Total() decimal.Decimal {
	return w.CSLL.Value.Add(w.PIS.Value).Add(w.INSS.Value).Add(w.IR.Value).Add(w.COFINS.Value)
}

// ItemResult is the calculation result for one line item.
type ItemResult struct {
	ProductID string
	Name      string

	Subtotal decimal.Decimal
	// Discount is capped at Subtotal.
	Discount          decimal.Decimal
	AllocatedFreight  decimal.Decimal
	AllocatedExpenses decimal.Decimal

	// Base is the ICMS base when ICMS is charged, otherwise the base under
	// the configured ICMS flags and reduction.
	Base decimal.Decimal

	ICMS         TaxResult
	ICMSST       TaxResult
	IPI          TaxResult
	PIS          TaxResult
	COFINS       TaxResult
	ISS          TaxResult
	Withholdings Withholdings

	TotalTaxes        decimal.Decimal
	TotalWithholdings decimal.Decimal

	// TotalItem is subtotal - discount + total taxes.
	TotalItem decimal.Decimal
}

// ConfigSource tells where the applied TaxConfiguration came from.
type ConfigSource string

const (
	SourceDestination ConfigSource = "destino"
	SourceOrigin      ConfigSource = "origem"
	SourceDefault     ConfigSource = "padrao"
)

// OrderResult is the calculation result for a whole order.
type OrderResult struct {
	Items []ItemResult
	OrderTotals

	OriginUF            string
	DestinationUF       string
	ConfigurationSource ConfigSource
}
