package tax

var ipiRegistry = NewRegistry[IPICode, TaxResult]("ipi", ipiTaxed, map[IPICode]Strategy[TaxResult]{
	IPI00: ipiTaxed,
	IPI49: ipiTaxed,
	IPI50: ipiTaxed,
	IPI99: ipiTaxed,

	IPI01: ipiUntaxed,
	IPI02: ipiUntaxed,
	IPI03: ipiUntaxed,
	IPI04: ipiUntaxed,
	IPI05: ipiUntaxed,
	IPI51: ipiUntaxed,
	IPI52: ipiUntaxed,
	IPI53: ipiUntaxed,
	IPI54: ipiUntaxed,
	IPI55: ipiUntaxed,
})

// CalculateIPI dispatches the IPI strategy for code.
func CalculateIPI(code IPICode, in StrategyInput) TaxResult {
	return ipiRegistry.Apply(code, in)
}

// ipiTaxed charges IPI per unit when a unit rate is configured, otherwise as
// a percentage of the base.
func ipiTaxed(in StrategyInput, cst string) TaxResult {
	rule := in.Config.IPI
	if rule.UnitRate.IsPositive() {
		return perUnit(in, rule, cst)
	}
	return taxedAt(in.base(rule, rule.Reduction()), rule.Rate, cst, in.BenefitCode)
}

func ipiUntaxed(in StrategyInput, cst string) TaxResult {
	return notTaxed(cst, in.BenefitCode)
}

// perUnit charges aliquotaUnidade × quantidade. The reported base is the
// taxed quantity and the reported rate is the unit rate.
func perUnit(in StrategyInput, rule TaxRule, cst string) TaxResult {
	quantity := clampZero(in.Quantity)
	return TaxResult{
		Base:        quantity,
		Rate:        ptr(rule.UnitRate),
		Value:       Round2(rule.UnitRate.Mul(quantity)),
		CST:         cst,
		BenefitCode: in.BenefitCode,
	}
}
