package tax

import "github.com/shopspring/decimal"

// BaseInput describes how one tax composes its taxable base.
type BaseInput struct {
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal
	AllocatedFreight  decimal.Decimal
	AllocatedExpenses decimal.Decimal
	IncludeFreight    bool
	IncludeExpenses   bool
	ReductionPercent  decimal.Decimal
}

// ComputeBase composes a taxable base:
//
//	base = subtotal - discount (+ freight) (+ expenses)
//	base = base × (1 - reduction/100)   when reduction > 0
//
// The result is clamped at zero and rounded to two places. Every tax uses this
// function; only the flags and the reduction differ between them.
func ComputeBase(in BaseInput) decimal.Decimal {
	base := in.Subtotal.Sub(in.Discount)
	if in.IncludeFreight {
		base = base.Add(in.AllocatedFreight)
	}
	if in.IncludeExpenses {
		base = base.Add(in.AllocatedExpenses)
	}
	if in.ReductionPercent.IsPositive() {
		base = base.Mul(decimal.NewFromInt(1).Sub(in.ReductionPercent.Div(hundred)))
	}
	return Round2(clampZero(base))
}

// Allocate splits an order-level amount (freight, expenses) across items in
// proportion to quantity. A zero total quantity is treated as 1.
func Allocate(orderAmount, itemQuantity, totalQuantity decimal.Decimal) decimal.Decimal {
	if totalQuantity.IsZero() {
		totalQuantity = decimal.NewFromInt(1)
	}
	return Round2(orderAmount.Mul(itemQuantity).Div(totalQuantity))
}
