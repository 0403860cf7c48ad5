package tax_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *tax.MockStore {
	store := tax.NewMockStore()
	store.Companies["emp-1"] = tax.Company{ID: "emp-1", Name: "Comercial Paulista", UF: "SP"}
	store.Clients["cli-1"] = tax.Client{ID: "cli-1", Addresses: []tax.Address{{UF: "MG"}, {UF: "RJ", Principal: true}}}
	store.Clients["cli-2"] = tax.Client{ID: "cli-2", Addresses: []tax.Address{{UF: "PR"}, {UF: "SC"}}}
	store.Clients["cli-3"] = tax.Client{ID: "cli-3"}
	store.Natures["venda"] = tax.OperationNature{ID: "venda", Description: "Venda de mercadoria", CFOP: "5102"}
	return store
}

func scenarioItem() tax.LineItem {
	return tax.LineItem{ProductID: "prod-1", Name: "Parafuso", NCM: "73181500", Quantity: d("2"), UnitValue: d("100")}
}

func scenarioRequest(items ...tax.LineItem) tax.OrderRequest {
	return tax.OrderRequest{
		CompanyID:         "emp-1",
		OperationNatureID: "venda",
		OriginUF:          "SP",
		DestinationUF:     "SP",
		Items:             items,
	}
}

func TestEngine_SingleItemICMS(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(scenarioItem()))

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	item := res.Items[0]
	assertMoney(t, "200", item.ICMS.Base)
	assertMoney(t, "36", item.ICMS.Value)
	assert.Equal(t, "00", item.ICMS.CST)
	assert.Equal(t, tax.SourceDestination, res.ConfigurationSource)
}

func TestEngine_ItemTotalsAllTaxes(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(scenarioItem()))

	require.NoError(t, err)
	item := res.Items[0]
	assertMoney(t, "3.30", item.PIS.Value)
	assertMoney(t, "15.20", item.COFINS.Value)
	assertMoney(t, "10", item.IPI.Value)
	assertMoney(t, "36", item.ICMS.Value)
	assertMoney(t, "64.50", item.TotalTaxes)
	assertMoney(t, "264.50", item.TotalItem)

	assertMoney(t, "200", res.TotalProducts)
	assertMoney(t, "0", res.TotalDiscounts)
	assertMoney(t, "64.50", res.TotalTaxes)
	assertMoney(t, "264.50", res.GrandTotal)

	// Untaxed slots are explicit, never missing.
	assertRate(t, "", item.ICMSST.Rate)
	assertMoney(t, "0", item.ICMSST.Value)
	assertRate(t, "", item.ISS.Rate)
	assertRate(t, "", item.Withholdings.CSLL.Rate)
}

func TestEngine_FreightAndExpensesInGrandTotal(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	req := scenarioRequest(scenarioItem())
	req.Freight = d("50")
	req.Expenses = d("25")
	req.IncludeFreightInTotal = true

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	assertMoney(t, "64.50", res.TotalTaxes, "inclusion flags are off, taxes unchanged")
	assertMoney(t, "339.50", res.GrandTotal)
	assertMoney(t, "50", res.Items[0].AllocatedFreight)
	assertMoney(t, "25", res.Items[0].AllocatedExpenses)
}

func TestEngine_FreightLeftOutOfTotal(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	req := scenarioRequest(scenarioItem())
	req.Freight = d("50")
	req.Expenses = d("25")

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	assertMoney(t, "289.50", res.GrandTotal, "264.50 + expenses only")
}

func TestEngine_DefaultConfigurationWhenNoneStored(t *testing.T) {
	store := newTestStore()

	req := scenarioRequest(scenarioItem())
	req.DestinationUF = "BA"

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, tax.SourceDefault, res.ConfigurationSource)
	assert.True(t, res.TotalTaxes.IsPositive())
	item := res.Items[0]
	assertMoney(t, "36", item.ICMS.Value)
	assertMoney(t, "10", item.IPI.Value)
	assertMoney(t, "3.30", item.PIS.Value)
	assertMoney(t, "15.20", item.COFINS.Value)
	assert.Equal(t, []string{"venda/BA", "venda/SP"}, store.ConfigLookups)
}

func TestEngine_ProportionalFreightAllocation(t *testing.T) {
	store := newTestStore()
	cfg := scenarioConfig()
	cfg.ICMS.IncludeFreight = true
	store.PutConfiguration(cfg)

	first := scenarioItem()
	second := tax.LineItem{ProductID: "prod-2", Name: "Porca", Quantity: d("1"), UnitValue: d("50")}
	req := scenarioRequest(first, second)
	req.Freight = d("90")

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assertMoney(t, "60", res.Items[0].AllocatedFreight)
	assertMoney(t, "30", res.Items[1].AllocatedFreight)
	assertMoney(t, "260", res.Items[0].ICMS.Base)
	assertMoney(t, "80", res.Items[1].ICMS.Base)
	assertMoney(t, "200", res.Items[0].IPI.Base, "IPI does not include freight")
}

func TestEngine_ZeroQuantityOrder(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	req := scenarioRequest(tax.LineItem{ProductID: "p", Quantity: decimal.Zero, UnitValue: d("10")})
	req.Freight = d("30")

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	assertMoney(t, "0", res.Items[0].AllocatedFreight)
	assertMoney(t, "0", res.TotalTaxes)
}

func TestEngine_ItemCSTOverride(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	item := scenarioItem()
	item.CSTICMS = "40"
	item.CSTPIS = "06"
	item.BenefitCode = "SP099999"

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(item))

	require.NoError(t, err)
	got := res.Items[0]
	assert.Equal(t, "40", got.ICMS.CST)
	assert.Equal(t, "SP099999", got.ICMS.BenefitCode)
	assertMoney(t, "0", got.ICMS.Value)
	assertMoney(t, "200", got.Base, "item base still follows the ICMS flags")
	assert.Equal(t, "06", got.PIS.CST)
	assertMoney(t, "0", got.PIS.Value)
	assertMoney(t, "15.20", got.COFINS.Value, "COFINS keeps the configured CST")
	assertMoney(t, "25.20", got.TotalTaxes)
}

func TestEngine_WithholdingsCountTowardTaxes(t *testing.T) {
	store := newTestStore()
	cfg := scenarioConfig()
	cfg.ISS = tax.WithholdingRule{Enabled: true, Rate: d("5")}
	cfg.IR = tax.WithholdingRule{Enabled: true, Rate: d("1.5"), MinBase: d("100")}
	store.PutConfiguration(cfg)

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(scenarioItem()))

	require.NoError(t, err)
	item := res.Items[0]
	assertMoney(t, "10", item.ISS.Value)
	assertMoney(t, "3", item.Withholdings.IR.Value)
	assertMoney(t, "3", item.TotalWithholdings)
	assertMoney(t, "77.50", item.TotalTaxes)
}

func TestEngine_ClientDestinationUF(t *testing.T) {
	tests := []struct {
		name     string
		clientID string
		override string
		expected string
	}{
		{name: "principal address", clientID: "cli-1", expected: "RJ"},
		{name: "first address", clientID: "cli-2", expected: "PR"},
		{name: "no address uses default UF", clientID: "cli-3", expected: "GO"},
		{name: "request UF overrides client", clientID: "cli-1", override: "AM", expected: "AM"},
		{name: "no client uses origin", expected: "SP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioRequest(scenarioItem())
			req.ClientID = tt.clientID
			req.DestinationUF = tt.override
			req.OriginUF = ""

			res, err := tax.NewEngine(newTestStore(), tax.WithDefaultUF("GO")).Calculate(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.DestinationUF)
			assert.Equal(t, "SP", res.OriginUF, "origin comes from the company")
		})
	}
}

func TestEngine_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *tax.OrderRequest)
	}{
		{name: "company", mutate: func(r *tax.OrderRequest) { r.CompanyID = "missing" }},
		{name: "client", mutate: func(r *tax.OrderRequest) { r.ClientID = "missing" }},
		{name: "operation nature", mutate: func(r *tax.OrderRequest) { r.OperationNatureID = "missing" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioRequest(scenarioItem())
			tt.mutate(&req)

			res, err := tax.NewEngine(newTestStore()).Calculate(context.Background(), req)

			assert.Nil(t, res)
			assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		})
	}
}

func TestEngine_Idempotent(t *testing.T) {
	store := newTestStore()
	cfg := scenarioConfig()
	cfg.ICMSST = tax.STRule{MVA: d("35.5"), Rate: d("17")}
	cfg.ICMS.CST = "10"
	store.PutConfiguration(cfg)

	req := scenarioRequest(scenarioItem(), tax.LineItem{ProductID: "p2", Quantity: d("3"), UnitValue: d("33.33"), Discount: d("1.99")})
	req.Freight = d("17.35")
	engine := tax.NewEngine(store)

	first, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)
	second, err := engine.Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_RoundTripToTheCent(t *testing.T) {
	store := newTestStore()
	cfg := scenarioConfig()
	cfg.ICMS.IncludeFreight = true
	cfg.ICMS.IncludeExpenses = true
	cfg.ICMSST = tax.STRule{MVA: d("41.3")}
	cfg.ICMS.CST = "10"
	cfg.ISS = tax.WithholdingRule{Enabled: true, Rate: d("2.79")}
	store.PutConfiguration(cfg)

	items := []tax.LineItem{
		{ProductID: "a", Quantity: d("3"), UnitValue: d("19.99"), Discount: d("2.37")},
		{ProductID: "b", Quantity: d("7"), UnitValue: d("4.33")},
		{ProductID: "c", Quantity: d("1.5"), UnitValue: d("101.01"), Discount: d("0.01")},
	}

	for _, includeFreight := range []bool{true, false} {
		req := scenarioRequest(items...)
		req.Freight = d("33.33")
		req.Expenses = d("12.07")
		req.IncludeFreightInTotal = includeFreight

		res, err := tax.NewEngine(store).Calculate(context.Background(), req)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, item := range res.Items {
			sum = sum.Add(item.TotalItem)
		}
		if includeFreight {
			sum = sum.Add(req.Freight)
		}
		sum = sum.Add(req.Expenses)

		assertMoney(t, res.GrandTotal.StringFixed(2), sum, "includeFreight=%v", includeFreight)
	}
}

func TestEngine_PreservesItemOrder(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	var items []tax.LineItem
	for i := 0; i < 50; i++ {
		items = append(items, tax.LineItem{
			ProductID: fmt.Sprintf("p-%02d", i),
			Quantity:  decimal.NewFromInt(int64(i + 1)),
			UnitValue: d("10"),
		})
	}

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(items...))

	require.NoError(t, err)
	require.Len(t, res.Items, len(items))
	for i, item := range res.Items {
		assert.Equal(t, items[i].ProductID, item.ProductID)
		assertMoney(t, decimal.NewFromInt(int64((i+1)*10)).String(), item.Subtotal)
	}
}

func TestEngine_NoItems(t *testing.T) {
	store := newTestStore()

	req := scenarioRequest()
	req.Freight = d("10")
	req.Expenses = d("5")
	req.IncludeFreightInTotal = true

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assertMoney(t, "15", res.GrandTotal)
}

func TestEngine_DiscountAboveSubtotalIsCapped(t *testing.T) {
	store := newTestStore()
	store.PutConfiguration(scenarioConfig())

	item := scenarioItem()
	item.Discount = d("500")
	req := scenarioRequest(item)
	req.Freight = d("10")
	req.IncludeFreightInTotal = true

	res, err := tax.NewEngine(store).Calculate(context.Background(), req)

	require.NoError(t, err)
	got := res.Items[0]
	assertMoney(t, "200", got.Discount)
	assertMoney(t, "0", got.Base)
	assertMoney(t, "0", got.TotalTaxes)
	assertMoney(t, "0", got.TotalItem)
	assertMoney(t, "200", res.TotalDiscounts)
	assertMoney(t, "10", res.GrandTotal)
	assert.False(t, res.GrandTotal.IsNegative())
}

func TestEngine_ItemBaseMatchesReducedICMSBase(t *testing.T) {
	store := newTestStore()
	cfg := scenarioConfig()
	cfg.ICMS.CST = "20"
	cfg.ICMS.ReductionPercent = d("10")
	store.PutConfiguration(cfg)

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(scenarioItem()))

	require.NoError(t, err)
	item := res.Items[0]
	assertMoney(t, "180", item.ICMS.Base)
	assertMoney(t, "180", item.Base)
}

func TestEngine_STForFullyTaxedCode(t *testing.T) {
	store := newTestStore()
	cfg := scenarioConfig()
	cfg.ICMSST = tax.STRule{MVA: d("40"), Rate: d("18")}
	store.PutConfiguration(cfg)

	res, err := tax.NewEngine(store).Calculate(context.Background(), scenarioRequest(scenarioItem()))

	require.NoError(t, err)
	item := res.Items[0]
	assert.Equal(t, "00", item.ICMSST.CST)
	assertMoney(t, "280", item.ICMSST.Base)
	assertRate(t, "18", item.ICMSST.Rate)
	assertMoney(t, "14.40", item.ICMSST.Value)
}
