package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StrategyInput is the item data a CST strategy works from.
type StrategyInput struct {
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	AllocatedFreight  decimal.Decimal
	AllocatedExpenses decimal.Decimal
	Quantity          decimal.Decimal
	Config            *TaxConfiguration
	BenefitCode       string
	OriginUF          string
}

// base composes the taxable base for a rule with the given reduction.
func (in StrategyInput) base(rule TaxRule, reduction decimal.Decimal) decimal.Decimal {
	return ComputeBase(BaseInput{
		Subtotal:          in.Subtotal,
		Discount:          in.Discount,
		AllocatedFreight:  in.AllocatedFreight,
		AllocatedExpenses: in.AllocatedExpenses,
		IncludeFreight:    rule.IncludeFreight,
		IncludeExpenses:   rule.IncludeExpenses,
		ReductionPercent:  reduction,
	})
}

// Strategy computes one tax for one item under a given CST.
type Strategy[R any] func(in StrategyInput, cst string) R

// Registry maps the known codes of one tax to their strategies. Codes without
// an entry, including the empty code, resolve to the fallback strategy.
type Registry[C ~string, R any] struct {
	name       string
	strategies map[C]Strategy[R]
	fallback   Strategy[R]
}

// NewRegistry builds a registry. It panics when fallback is nil: registries
// are package-level tables and a missing fallback is a programming error.
func NewRegistry[C ~string, R any](name string, fallback Strategy[R], strategies map[C]Strategy[R]) *Registry[C, R] {
	if fallback == nil {
		panic(fmt.Sprintf("tax: %s registry requires a fallback strategy", name))
	}
	return &Registry[C, R]{name: name, strategies: strategies, fallback: fallback}
}

// Has reports whether code has a dedicated strategy.
func (r *Registry[C, R]) Has(code C) bool {
	_, ok := r.strategies[code]
	return ok
}

// Lookup returns the strategy for code, or the fallback. Never nil.
func (r *Registry[C, R]) Lookup(code C) Strategy[R] {
	if s, ok := r.strategies[code]; ok && s != nil {
		return s
	}
	return r.fallback
}

// Apply runs the strategy registered for code.
func (r *Registry[C, R]) Apply(code C, in StrategyInput) R {
	return r.Lookup(code)(in, string(code))
}

// effectiveCode picks the item override, then the configured CST.
func effectiveCode[C ~string](override, configured string) C {
	if override != "" {
		return C(override)
	}
	return C(configured)
}
