package service

import (
	"context"
	"fmt"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/shopspring/decimal"
)

// OrderTotalsService recomputes order and budget totals when items change,
// without running the tax strategies again. It goes through
// tax.SummarizeOrder so both paths share one formula.
type OrderTotalsService interface {
	Recalculate(ctx context.Context, params RecalculateParams) (*tax.OrderTotals, error)
}

// RecalculateParams holds an order's persisted amounts.
type RecalculateParams struct {
	Items                 []OrderItemAmounts
	Freight               decimal.Decimal
	Expenses              decimal.Decimal
	IncludeFreightInTotal bool
}

// OrderItemAmounts are the stored amounts of one order item. Taxes is the
// item total taxes from its last full calculation.
type OrderItemAmounts struct {
	Quantity  decimal.Decimal
	UnitValue decimal.Decimal
	Discount  decimal.Decimal
	Taxes     decimal.Decimal
}

type orderTotalsService struct{}

// NewOrderTotalsService creates an OrderTotalsService.
func NewOrderTotalsService() OrderTotalsService {
	return &orderTotalsService{}
}

// Recalculate validates the amounts and applies the shared totals formula.
func (s *orderTotalsService) Recalculate(ctx context.Context, params RecalculateParams) (*tax.OrderTotals, error) {
	const op = "order.recalculate"

	var verr error
	for i, item := range params.Items {
		if item.Quantity.IsNegative() {
			verr = domain.AddFieldError(verr, fmt.Sprintf("itens[%d].quantidade", i), "must not be negative")
		}
		if item.UnitValue.IsNegative() {
			verr = domain.AddFieldError(verr, fmt.Sprintf("itens[%d].valorUnitario", i), "must not be negative")
		}
		if item.Discount.IsNegative() {
			verr = domain.AddFieldError(verr, fmt.Sprintf("itens[%d].desconto", i), "must not be negative")
		} else if !item.Quantity.IsNegative() && !item.UnitValue.IsNegative() &&
			item.Discount.GreaterThan(item.Quantity.Mul(item.UnitValue)) {
			verr = domain.AddFieldError(verr, fmt.Sprintf("itens[%d].desconto", i), "must not exceed the line subtotal")
		}
		if item.Taxes.IsNegative() {
			verr = domain.AddFieldError(verr, fmt.Sprintf("itens[%d].totalImpostos", i), "must not be negative")
		}
	}
	if params.Freight.IsNegative() {
		verr = domain.AddFieldError(verr, "valorFrete", "must not be negative")
	}
	if params.Expenses.IsNegative() {
		verr = domain.AddFieldError(verr, "valorDespesas", "must not be negative")
	}
	if verr != nil {
		verr.(*domain.ValidationError).Op = op
		return nil, verr
	}

	lines := make([]tax.OrderLine, len(params.Items))
	for i, item := range params.Items {
		lines[i] = tax.OrderLine{
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
			Discount:  item.Discount,
			Taxes:     item.Taxes,
		}
	}

	totals := tax.SummarizeOrder(lines, params.Freight, params.Expenses, params.IncludeFreightInTotal)
	return &totals, nil
}
