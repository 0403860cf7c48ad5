package tax

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
)

// Engine is the order tax calculator. It performs its lookups once per
// request and computes items from immutable snapshots, so a single Engine is
// safe for concurrent use.
type Engine struct {
	store     Store
	resolver  *Resolver
	logger    *slog.Logger
	defaultUF string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithDefaultUF sets the UF used for clients without any address.
func WithDefaultUF(uf string) Option {
	return func(e *Engine) { e.defaultUF = uf }
}

// NewEngine creates an engine reading from store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		logger:    slog.Default(),
		defaultUF: "SP",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = NewResolver(store, e.logger)
	return e
}

// Compile-time check that Engine implements Calculator.
var _ Calculator = (*Engine)(nil)

// Calculate resolves the order context and configuration, then computes every
// item and the order totals.
//
// Errors:
//   - domain.ENOTFOUND when the company, the client (if given) or the
//     operation nature does not exist
//   - store failures, wrapped
func (e *Engine) Calculate(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	company, err := e.store.GetCompany(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	originUF := req.OriginUF
	if originUF == "" {
		originUF = company.UF
	}

	destUF := req.DestinationUF
	if req.ClientID != "" {
		client, err := e.store.GetClient(ctx, req.ClientID)
		if err != nil {
			return nil, err
		}
		if destUF == "" {
			destUF = client.DestinationUF(e.defaultUF)
		}
	}
	if destUF == "" {
		destUF = originUF
	}

	nature, err := e.store.GetOperationNature(ctx, req.OperationNatureID)
	if err != nil {
		return nil, err
	}

	cfg, source, err := e.resolver.Resolve(ctx, nature.ID, destUF, originUF)
	if err != nil {
		return nil, err
	}

	result := Compute(OrderContext{
		OriginUF:              originUF,
		DestinationUF:         destUF,
		OperationNatureID:     nature.ID,
		IncludeFreightInTotal: req.IncludeFreightInTotal,
		Freight:               req.Freight,
		Expenses:              req.Expenses,
	}, cfg, req.Items)
	result.ConfigurationSource = source

	e.logger.Debug("order taxes calculated",
		slog.String("empresa_id", req.CompanyID),
		slog.String("natureza_operacao_id", nature.ID),
		slog.String("uf_origem", originUF),
		slog.String("uf_destino", destUF),
		slog.String("configuracao", string(source)),
		slog.Int("itens", len(req.Items)),
		slog.String("total_pedido", result.GrandTotal.StringFixed(2)),
	)

	return result, nil
}

// Compute is the pure calculation pipeline over an already resolved
// configuration. Items are computed concurrently; the output keeps input order.
func Compute(oc OrderContext, cfg *TaxConfiguration, items []LineItem) *OrderResult {
	oc.TotalQuantity = TotalQuantity(items)

	results := iter.Map(items, func(item *LineItem) ItemResult {
		return computeItem(oc, cfg, *item)
	})

	lines := make([]OrderLine, len(items))
	for i, item := range items {
		lines[i] = OrderLine{
			Quantity:  item.Quantity,
			UnitValue: item.UnitValue,
			Discount:  results[i].Discount,
			Taxes:     results[i].TotalTaxes,
		}
	}

	return &OrderResult{
		Items:         results,
		OrderTotals:   SummarizeOrder(lines, oc.Freight, oc.Expenses, oc.IncludeFreightInTotal),
		OriginUF:      oc.OriginUF,
		DestinationUF: oc.DestinationUF,
	}
}

// TotalQuantity sums item quantities.
func TotalQuantity(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Quantity)
	}
	return total
}

func computeItem(oc OrderContext, cfg *TaxConfiguration, item LineItem) ItemResult {
	subtotal := Round2(item.Quantity.Mul(item.UnitValue))
	discount := decimal.Min(clampZero(Round2(item.Discount)), subtotal)
	freight := Allocate(oc.Freight, item.Quantity, oc.TotalQuantity)
	expenses := Allocate(oc.Expenses, item.Quantity, oc.TotalQuantity)

	in := StrategyInput{
		Subtotal:          subtotal,
		Discount:          discount,
		AllocatedFreight:  freight,
		AllocatedExpenses: expenses,
		Quantity:          item.Quantity,
		Config:            cfg,
		BenefitCode:       item.BenefitCode,
		OriginUF:          oc.OriginUF,
	}

	icms := CalculateICMS(effectiveCode[ICMSCode](item.CSTICMS, cfg.ICMS.CST), in)
	st := notTaxed(icms.ICMS.CST, item.BenefitCode)
	if icms.ST != nil {
		st = *icms.ST
	}

	res := ItemResult{
		ProductID:         item.ProductID,
		Name:              item.Name,
		Subtotal:          subtotal,
		Discount:          discount,
		AllocatedFreight:  freight,
		AllocatedExpenses: expenses,
		Base:              in.base(cfg.ICMS, cfg.ICMS.Reduction()),
		ICMS:              icms.ICMS,
		ICMSST:            st,
		IPI:               CalculateIPI(effectiveCode[IPICode](item.CSTIPI, cfg.IPI.CST), in),
		PIS:               CalculatePIS(effectiveCode[ContributionCode](item.CSTPIS, cfg.PIS.CST), in),
		COFINS:            CalculateCOFINS(effectiveCode[ContributionCode](item.CSTCOFINS, cfg.COFINS.CST), in),
	}

	// A charged ICMS reports the base its strategy used, which may carry a
	// CST-specific reduction.
	if icms.ICMS.Rate != nil {
		res.Base = icms.ICMS.Base
	}

	res.ISS, res.Withholdings = CalculateWithholdings(WithholdingInput{
		Subtotal:          subtotal,
		Discount:          discount,
		AllocatedFreight:  freight,
		AllocatedExpenses: expenses,
	}, cfg)

	res.TotalWithholdings = res.Withholdings.Total()
	res.TotalTaxes = res.ICMS.Value.
		Add(res.ICMSST.Value).
		Add(res.IPI.Value).
		Add(res.PIS.Value).
		Add(res.COFINS.Value).
		Add(res.ISS.Value).
		Add(res.TotalWithholdings)
	res.TotalItem = subtotal.Sub(discount).Add(res.TotalTaxes)

	return res
}
