package tax

import "github.com/shopspring/decimal"

// TaxRule configures one CST-dispatched tax (ICMS, IPI, PIS, COFINS).
type TaxRule struct {
	CST              string          `yaml:"cst"`
	Rate             decimal.Decimal `yaml:"aliquota"`
	UnitRate         decimal.Decimal `yaml:"aliquotaUnidade"`
	IncludeFreight   bool            `yaml:"incluirFrete"`
	IncludeExpenses  bool            `yaml:"incluirDespesas"`
	ReduceBase       bool            `yaml:"reduzirBase"`
	ReductionPercent decimal.Decimal `yaml:"percentualReducao"`

	// ICMS only.
	DeferralPercent decimal.Decimal `yaml:"percentualDiferimento"`
	PriorSTState    string          `yaml:"ufStAnterior"`
}

// Reduction returns the base reduction to apply, honoring the ReduceBase flag.
func (r TaxRule) Reduction() decimal.Decimal {
	if !r.ReduceBase {
		return decimal.Zero
	}
	return r.ReductionPercent
}

// STRule configures ICMS tax substitution.
type STRule struct {
	// MVA is the margin-value-added percentage. Zero disables ST.
	MVA              decimal.Decimal `yaml:"mva"`
	Rate             decimal.Decimal `yaml:"aliquota"`
	ReductionPercent decimal.Decimal `yaml:"percentualReducao"`
}

// WithholdingRule configures ISS or a retained federal tax.
type WithholdingRule struct {
	Enabled          bool            `yaml:"ativo"`
	Rate             decimal.Decimal `yaml:"aliquota"`
	MinBase          decimal.Decimal `yaml:"valorMinimo"`
	IncludeFreight   bool            `yaml:"incluirFrete"`
	IncludeExpenses  bool            `yaml:"incluirDespesas"`
	ReductionPercent decimal.Decimal `yaml:"percentualReducao"`
}

// TaxConfiguration is the per (operation nature, UF) tax setup. The engine
// treats it as trusted input; ranges are validated when it is written.
type TaxConfiguration struct {
	ID                string `yaml:"id"`
	OperationNatureID string `yaml:"naturezaOperacaoId"`
	UF                string `yaml:"uf"`

	ICMS   TaxRule `yaml:"icms"`
	ICMSST STRule  `yaml:"icmsSt"`
	IPI    TaxRule `yaml:"ipi"`
	PIS    TaxRule `yaml:"pis"`
	COFINS TaxRule `yaml:"cofins"`

	ISS       WithholdingRule `yaml:"iss"`
	CSLL      WithholdingRule `yaml:"csll"`
	PISRet    WithholdingRule `yaml:"pisRetido"`
	INSS      WithholdingRule `yaml:"inss"`
	IR        WithholdingRule `yaml:"ir"`
	COFINSRet WithholdingRule `yaml:"cofinsRetido"`

	// IsDefault is set on configurations synthesized by DefaultConfiguration.
	// They have no ID and must never be persisted.
	IsDefault bool `yaml:"-"`
}

// DefaultConfiguration builds the configuration used when neither the
// destination nor the origin UF has one stored for the operation nature.
//
// ICMS 18% CST 00, IPI 5% CST 00, PIS 1.65% CST 01, COFINS 7.6% CST 01.
// ISS 5% and CSLL 1% carry their rates but stay disabled. Every inclusion flag
// is off and every reduction is zero.
func DefaultConfiguration(operationNatureID string) *TaxConfiguration {
	return &TaxConfiguration{
		OperationNatureID: operationNatureID,
		ICMS:              TaxRule{CST: string(ICMS00), Rate: decimal.NewFromInt(18)},
		IPI:               TaxRule{CST: string(IPI00), Rate: decimal.NewFromInt(5)},
		PIS:               TaxRule{CST: string(Contribution01), Rate: decimal.RequireFromString("1.65")},
		COFINS:            TaxRule{CST: string(Contribution01), Rate: decimal.RequireFromString("7.6")},
		ISS:               WithholdingRule{Rate: decimal.NewFromInt(5)},
		CSLL:              WithholdingRule{Rate: decimal.NewFromInt(1)},
		IsDefault:         true,
	}
}
