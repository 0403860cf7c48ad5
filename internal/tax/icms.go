package tax

import "github.com/shopspring/decimal"

// ICMSOutcome is the result of the ICMS pass: the operation's own ICMS and,
// when substitution applies, the ICMS-ST.
type ICMSOutcome struct {
	ICMS TaxResult
	ST   *TaxResult
}

var icmsRegistry = NewRegistry[ICMSCode, ICMSOutcome]("icms", icmsOther, map[ICMSCode]Strategy[ICMSOutcome]{
	ICMS00: icmsFull,
	ICMS10: icmsFull,
	ICMS20: icmsReduced,
	ICMS30: icmsExemptWithST,
	ICMS40: icmsUntaxed,
	ICMS41: icmsUntaxed,
	ICMS50: icmsUntaxed,
	ICMS51: icmsDeferred,
	ICMS60: icmsPriorST,
	ICMS70: icmsReduced,
	ICMS90: icmsOther,

	CSOSN101: icmsUntaxed,
	CSOSN102: icmsUntaxed,
	CSOSN103: icmsUntaxed,
	CSOSN201: icmsExemptWithST,
	CSOSN202: icmsExemptWithST,
	CSOSN203: icmsExemptWithST,
	CSOSN300: icmsUntaxed,
	CSOSN400: icmsUntaxed,
	CSOSN500: icmsPriorST,
	CSOSN900: icmsOther,
})

// CalculateICMS dispatches the ICMS strategy for code.
func CalculateICMS(code ICMSCode, in StrategyInput) ICMSOutcome {
	return icmsRegistry.Apply(code, in)
}

// icmsFull taxes the whole base, plus ST when an MVA is configured.
func icmsFull(in StrategyInput, cst string) ICMSOutcome {
	rule := in.Config.ICMS
	own := taxedAt(in.base(rule, decimal.Zero), rule.Rate, cst, in.BenefitCode)
	return ICMSOutcome{
		ICMS: own,
		ST:   substitution(in, own.Base, own.Value, cst),
	}
}

// icmsReduced always applies the configured reduction percent; the code
// itself means a reduced base. ST follows the MVA as in icmsFull.
func icmsReduced(in StrategyInput, cst string) ICMSOutcome {
	rule := in.Config.ICMS
	own := taxedAt(in.base(rule, rule.ReductionPercent), rule.Rate, cst, in.BenefitCode)
	return ICMSOutcome{
		ICMS: own,
		ST:   substitution(in, own.Base, own.Value, cst),
	}
}

// icmsExemptWithST charges no own ICMS but still withholds ST. The ST value
// is net of the ICMS the operation would have carried.
func icmsExemptWithST(in StrategyInput, cst string) ICMSOutcome {
	rule := in.Config.ICMS
	base := in.base(rule, decimal.Zero)
	return ICMSOutcome{
		ICMS: notTaxed(cst, in.BenefitCode),
		ST:   substitution(in, base, percentOf(base, rule.Rate), cst),
	}
}

func icmsUntaxed(in StrategyInput, cst string) ICMSOutcome {
	return ICMSOutcome{ICMS: notTaxed(cst, in.BenefitCode)}
}

// icmsDeferred splits the operation ICMS into a deferred share and the share
// charged now.
func icmsDeferred(in StrategyInput, cst string) ICMSOutcome {
	rule := in.Config.ICMS
	base := in.base(rule, rule.Reduction())
	operation := percentOf(base, rule.Rate)
	deferred := percentOf(operation, rule.DeferralPercent)

	return ICMSOutcome{ICMS: TaxResult{
		Base:            base,
		Rate:            ptr(rule.Rate),
		Value:           clampZero(operation.Sub(deferred)),
		CST:             cst,
		BenefitCode:     in.BenefitCode,
		DeferredValue:   ptr(deferred),
		DeferralPercent: ptr(rule.DeferralPercent),
	}}
}

// icmsPriorST charges nothing and reports the ST already withheld upstream.
func icmsPriorST(in StrategyInput, cst string) ICMSOutcome {
	rule := in.Config.ICMS
	base := in.base(rule, decimal.Zero)

	state := rule.PriorSTState
	if state == "" {
		state = in.OriginUF
	}

	result := notTaxed(cst, in.BenefitCode)
	result.PriorSTValue = ptr(percentOf(base, stRate(in.Config)))
	result.PriorSTState = state
	return ICMSOutcome{ICMS: result}
}

// icmsOther is CST 90, CSOSN 900 and every unknown code: taxed, with the
// configured reduction when enabled, plus ST when an MVA is configured.
func icmsOther(in StrategyInput, cst string) ICMSOutcome {
	rule := in.Config.ICMS
	base := in.base(rule, rule.Reduction())
	own := taxedAt(base, rule.Rate, cst, in.BenefitCode)
	return ICMSOutcome{
		ICMS: own,
		ST:   substitution(in, base, own.Value, cst),
	}
}

// substitution computes ICMS-ST over icmsBase marked up by the MVA:
//
//	stBase  = icmsBase × (1 + MVA/100) × (1 - stReduction/100)
//	stValue = stBase × stRate/100 - ownICMS
//
// Returns nil when no MVA is configured.
func substitution(in StrategyInput, icmsBase, ownICMS decimal.Decimal, cst string) *TaxResult {
	st := in.Config.ICMSST
	if !st.MVA.IsPositive() {
		return nil
	}

	markup := decimal.NewFromInt(1).Add(st.MVA.Div(hundred))
	stBase := icmsBase.Mul(markup)
	if st.ReductionPercent.IsPositive() {
		stBase = stBase.Mul(decimal.NewFromInt(1).Sub(st.ReductionPercent.Div(hundred)))
	}
	stBase = Round2(clampZero(stBase))

	rate := stRate(in.Config)
	return &TaxResult{
		Base:        stBase,
		Rate:        ptr(rate),
		Value:       clampZero(percentOf(stBase, rate).Sub(ownICMS)),
		CST:         cst,
		BenefitCode: in.BenefitCode,
	}
}

// stRate is the ST rate, falling back to the ICMS rate when unset.
func stRate(cfg *TaxConfiguration) decimal.Decimal {
	if cfg.ICMSST.Rate.IsPositive() {
		return cfg.ICMSST.Rate
	}
	return cfg.ICMS.Rate
}
