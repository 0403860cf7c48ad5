package tax

import "github.com/shopspring/decimal"

// WithholdingInput is the item data the withholding calculator works from.
type WithholdingInput struct {
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	AllocatedFreight  decimal.Decimal
	AllocatedExpenses decimal.Decimal
}

// Withhold applies a threshold-gated percentage rule. The tax is charged only
// when the rule is enabled, a positive rate is set, the base is positive and
// the base reaches MinBase. Otherwise the result carries the base with no
// rate and a zero value.
func Withhold(in WithholdingInput, rule WithholdingRule) TaxResult {
	base := ComputeBase(BaseInput{
		Subtotal:          in.Subtotal,
		Discount:          in.Discount,
		AllocatedFreight:  in.AllocatedFreight,
		AllocatedExpenses: in.AllocatedExpenses,
		IncludeFreight:    rule.IncludeFreight,
		IncludeExpenses:   rule.IncludeExpenses,
		ReductionPercent:  rule.ReductionPercent,
	})

	if !rule.Enabled || !rule.Rate.IsPositive() || !base.IsPositive() {
		return TaxResult{Base: base}
	}
	if rule.MinBase.IsPositive() && base.LessThan(rule.MinBase) {
		return TaxResult{Base: base}
	}

	return TaxResult{
		Base:  base,
		Rate:  ptr(rule.Rate),
		Value: percentOf(base, rule.Rate),
	}
}

// CalculateWithholdings computes ISS and every retained tax of an item.
func CalculateWithholdings(in WithholdingInput, cfg *TaxConfiguration) (iss TaxResult, retained Withholdings) {
	iss = Withhold(in, cfg.ISS)
	retained = Withholdings{
		CSLL:   Withhold(in, cfg.CSLL),
		PIS:    Withhold(in, cfg.PISRet),
		INSS:   Withhold(in, cfg.INSS),
		IR:     Withhold(in, cfg.IR),
		COFINS: Withhold(in, cfg.COFINSRet),
	}
	return iss, retained
}
