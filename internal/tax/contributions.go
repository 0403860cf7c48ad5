package tax

// PIS and COFINS share a code table but keep independent registries, each
// bound to its own rule in the configuration.
var (
	pisRegistry    = contributionRegistry("pis", func(c *TaxConfiguration) TaxRule { return c.PIS })
	cofinsRegistry = contributionRegistry("cofins", func(c *TaxConfiguration) TaxRule { return c.COFINS })
)

// CalculatePIS dispatches the PIS strategy for code.
func CalculatePIS(code ContributionCode, in StrategyInput) TaxResult {
	return pisRegistry.Apply(code, in)
}

// CalculateCOFINS dispatches the COFINS strategy for code.
func CalculateCOFINS(code ContributionCode, in StrategyInput) TaxResult {
	return cofinsRegistry.Apply(code, in)
}

func contributionRegistry(name string, rule func(*TaxConfiguration) TaxRule) *Registry[ContributionCode, TaxResult] {
	percent := func(in StrategyInput, cst string) TaxResult {
		r := rule(in.Config)
		return taxedAt(in.base(r, r.Reduction()), r.Rate, cst, in.BenefitCode)
	}
	unit := func(in StrategyInput, cst string) TaxResult {
		return perUnit(in, rule(in.Config), cst)
	}
	untaxed := func(in StrategyInput, cst string) TaxResult {
		return notTaxed(cst, in.BenefitCode)
	}

	strategies := map[ContributionCode]Strategy[TaxResult]{
		Contribution03: unit,
	}
	for _, code := range []ContributionCode{
		Contribution01, Contribution02, Contribution49,
		Contribution50, Contribution51, Contribution52, Contribution53, Contribution54, Contribution55, Contribution56,
		Contribution60, Contribution61, Contribution62, Contribution63, Contribution64, Contribution65, Contribution66, Contribution67,
		Contribution98, Contribution99,
	} {
		strategies[code] = percent
	}
	for _, code := range []ContributionCode{
		Contribution04, Contribution05, Contribution06, Contribution07, Contribution08, Contribution09,
		Contribution70, Contribution71, Contribution72, Contribution73, Contribution74, Contribution75,
	} {
		strategies[code] = untaxed
	}

	return NewRegistry(name, Strategy[TaxResult](percent), strategies)
}
