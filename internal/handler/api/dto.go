package api

import (
	"encoding/json"
	"fmt"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CalcularRequest is the body of POST /api/impostos/calcular.
// Amounts accept JSON numbers or numeric strings.
type CalcularRequest struct {
	EmpresaID          string          `json:"empresaId" validate:"required"`
	ClienteID          string          `json:"clienteId"`
	NaturezaOperacaoID string          `json:"naturezaOperacaoId" validate:"required"`
	UFOrigem           string          `json:"ufOrigem" validate:"omitempty,uf"`
	UFDestino          string          `json:"ufDestino" validate:"omitempty,uf"`
	IncluirFreteTotal  bool            `json:"incluirFreteTotal"`
	ValorFrete         decimal.Decimal `json:"valorFrete" validate:"gte=0"`
	ValorDespesas      decimal.Decimal `json:"valorDespesas" validate:"gte=0"`
	Itens              []ItemRequest   `json:"itens" validate:"dive"`
}

// ItemRequest is one order line.
type ItemRequest struct {
	ProdutoID             string          `json:"produtoId"`
	Nome                  string          `json:"nome" validate:"max=120"`
	NCM                   string          `json:"ncm" validate:"omitempty,numeric,len=8"`
	CEST                  string          `json:"cest" validate:"omitempty,numeric,len=7"`
	Quantidade            decimal.Decimal `json:"quantidade" validate:"gte=0"`
	ValorUnitario         decimal.Decimal `json:"valorUnitario" validate:"gte=0"`
	Desconto              decimal.Decimal `json:"desconto" validate:"gte=0"`
	CSTICMS               string          `json:"cstIcms" validate:"omitempty,numeric,min=2,max=3"`
	CSTIPI                string          `json:"cstIpi" validate:"omitempty,numeric,len=2"`
	CSTPIS                string          `json:"cstPis" validate:"omitempty,numeric,len=2"`
	CSTCOFINS             string          `json:"cstCofins" validate:"omitempty,numeric,len=2"`
	CodigoBeneficioFiscal string          `json:"codigoBeneficioFiscal" validate:"max=10"`
}

// checkDiscounts adds a field error for every line whose discount exceeds
// quantidade × valorUnitario. err is the result of tag validation; any other
// failure is returned unchanged.
func (c CalcularRequest) checkDiscounts(op string, err error) error {
	if err != nil && domain.GetValidationFields(err) == nil {
		return err
	}
	for i, it := range c.Itens {
		if it.Quantidade.IsNegative() || it.ValorUnitario.IsNegative() {
			continue
		}
		if it.Desconto.GreaterThan(it.Quantidade.Mul(it.ValorUnitario)) {
			err = domain.AddFieldError(err, fmt.Sprintf("itens[%d].desconto", i), "não pode exceder o subtotal do item")
		}
	}
	if ve, ok := err.(*domain.ValidationError); ok {
		ve.Op = op
	}
	return err
}

// OrderRequest converts the body to the engine request.
func (c CalcularRequest) OrderRequest() tax.OrderRequest {
	items := make([]tax.LineItem, len(c.Itens))
	for i, it := range c.Itens {
		items[i] = tax.LineItem{
			ProductID:   it.ProdutoID,
			Name:        it.Nome,
			NCM:         it.NCM,
			CEST:        it.CEST,
			Quantity:    it.Quantidade,
			UnitValue:   it.ValorUnitario,
			Discount:    it.Desconto,
			CSTICMS:     it.CSTICMS,
			CSTIPI:      it.CSTIPI,
			CSTPIS:      it.CSTPIS,
			CSTCOFINS:   it.CSTCOFINS,
			BenefitCode: it.CodigoBeneficioFiscal,
		}
	}

	return tax.OrderRequest{
		CompanyID:             c.EmpresaID,
		ClientID:              c.ClienteID,
		OperationNatureID:     c.NaturezaOperacaoID,
		OriginUF:              c.UFOrigem,
		DestinationUF:         c.UFDestino,
		IncludeFreightInTotal: c.IncluirFreteTotal,
		Freight:               c.ValorFrete,
		Expenses:              c.ValorDespesas,
		Items:                 items,
	}
}

// TotaisRequest is the body of POST /api/pedidos/totais.
type TotaisRequest struct {
	IncluirFreteTotal bool                `json:"incluirFreteTotal"`
	ValorFrete        decimal.Decimal     `json:"valorFrete"`
	ValorDespesas     decimal.Decimal     `json:"valorDespesas"`
	Itens             []TotaisItemRequest `json:"itens"`
}

// TotaisItemRequest carries an item's stored amounts.
type TotaisItemRequest struct {
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valorUnitario"`
	Desconto      decimal.Decimal `json:"desconto"`
	TotalImpostos decimal.Decimal `json:"totalImpostos"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// TaxResultResponse is the JSON form of one tax on one item.
type TaxResultResponse struct {
	Base                  json.Number  `json:"base"`
	Aliquota              *json.Number `json:"aliquota"`
	Valor                 json.Number  `json:"valor"`
	CST                   string       `json:"cst,omitempty"`
	CodigoBeneficioFiscal string       `json:"codigoBeneficioFiscal,omitempty"`
	ValorDiferido         *json.Number `json:"valorDiferido,omitempty"`
	PercentualDiferimento *json.Number `json:"percentualDiferimento,omitempty"`
	ValorSTAnterior       *json.Number `json:"valorStAnterior,omitempty"`
	UFSTAnterior          string       `json:"ufStAnterior,omitempty"`
}

// RetencoesResponse groups the retained federal taxes.
type RetencoesResponse struct {
	CSLL   TaxResultResponse `json:"csll"`
	PIS    TaxResultResponse `json:"pis"`
	INSS   TaxResultResponse `json:"inss"`
	IR     TaxResultResponse `json:"ir"`
	COFINS TaxResultResponse `json:"cofins"`
}

// ItemResponse is the result for one order line.
type ItemResponse struct {
	ProdutoID        string            `json:"produtoId,omitempty"`
	Nome             string            `json:"nome,omitempty"`
	Subtotal         json.Number       `json:"subtotal"`
	Desconto         json.Number       `json:"desconto"`
	FreteRateado     json.Number       `json:"freteRateado"`
	DespesasRateadas json.Number       `json:"despesasRateadas"`
	BaseCalculo      json.Number       `json:"baseCalculo"`
	ICMS             TaxResultResponse `json:"icms"`
	ICMSST           TaxResultResponse `json:"icmsSt"`
	IPI              TaxResultResponse `json:"ipi"`
	PIS              TaxResultResponse `json:"pis"`
	COFINS           TaxResultResponse `json:"cofins"`
	ISS              TaxResultResponse `json:"iss"`
	Retencoes        RetencoesResponse `json:"retencoes"`
	TotalRetencoes   json.Number       `json:"totalRetencoes"`
	TotalImpostos    json.Number       `json:"totalImpostos"`
	TotalItem        json.Number       `json:"totalItem"`
}

// TotaisResponse holds the order-level amounts.
type TotaisResponse struct {
	TotalProdutos  json.Number `json:"totalProdutos"`
	TotalDescontos json.Number `json:"totalDescontos"`
	TotalImpostos  json.Number `json:"totalImpostos"`
	ValorFrete     json.Number `json:"valorFrete"`
	ValorDespesas  json.Number `json:"valorDespesas"`
	TotalPedido    json.Number `json:"totalPedido"`
}

// CalcularResponse is the body returned by POST /api/impostos/calcular.
type CalcularResponse struct {
	Itens []ItemResponse `json:"itens"`
	TotaisResponse
	UFOrigem           string `json:"ufOrigem"`
	UFDestino          string `json:"ufDestino"`
	OrigemConfiguracao string `json:"origemConfiguracao"`
}

// amount renders a decimal with at least two fraction digits, keeping finer
// precision (per-unit bases carry quantities).
func amount(d decimal.Decimal) json.Number {
	if d.Exponent() < -2 {
		return json.Number(d.String())
	}
	return json.Number(d.StringFixed(2))
}

func optional(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := json.Number(d.String())
	return &n
}

func optionalAmount(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := amount(*d)
	return &n
}

func newTaxResultResponse(r tax.TaxResult) TaxResultResponse {
	return TaxResultResponse{
		Base:                  amount(r.Base),
		Aliquota:              optional(r.Rate),
		Valor:                 amount(r.Value),
		CST:                   r.CST,
		CodigoBeneficioFiscal: r.BenefitCode,
		ValorDiferido:         optionalAmount(r.DeferredValue),
		PercentualDiferimento: optional(r.DeferralPercent),
		ValorSTAnterior:       optionalAmount(r.PriorSTValue),
		UFSTAnterior:          r.PriorSTState,
	}
}

func newTotaisResponse(t tax.OrderTotals) TotaisResponse {
	return TotaisResponse{
		TotalProdutos:  amount(t.TotalProducts),
		TotalDescontos: amount(t.TotalDiscounts),
		TotalImpostos:  amount(t.TotalTaxes),
		ValorFrete:     amount(t.Freight),
		ValorDespesas:  amount(t.Expenses),
		TotalPedido:    amount(t.GrandTotal),
	}
}

// NewCalcularResponse converts an engine result to its JSON form.
func NewCalcularResponse(res *tax.OrderResult) CalcularResponse {
	items := make([]ItemResponse, len(res.Items))
	for i, it := range res.Items {
		items[i] = ItemResponse{
			ProdutoID:        it.ProductID,
			Nome:             it.Name,
			Subtotal:         amount(it.Subtotal),
			Desconto:         amount(it.Discount),
			FreteRateado:     amount(it.AllocatedFreight),
			DespesasRateadas: amount(it.AllocatedExpenses),
			BaseCalculo:      amount(it.Base),
			ICMS:             newTaxResultResponse(it.ICMS),
			ICMSST:           newTaxResultResponse(it.ICMSST),
			IPI:              newTaxResultResponse(it.IPI),
			PIS:              newTaxResultResponse(it.PIS),
			COFINS:           newTaxResultResponse(it.COFINS),
			ISS:              newTaxResultResponse(it.ISS),
			Retencoes: RetencoesResponse{
				CSLL:   newTaxResultResponse(it.Withholdings.CSLL),
				PIS:    newTaxResultResponse(it.Withholdings.PIS),
				INSS:   newTaxResultResponse(it.Withholdings.INSS),
				IR:     newTaxResultResponse(it.Withholdings.IR),
				COFINS: newTaxResultResponse(it.Withholdings.COFINS),
			},
			TotalRetencoes: amount(it.TotalWithholdings),
			TotalImpostos:  amount(it.TotalTaxes),
			TotalItem:      amount(it.TotalItem),
		}
	}

	return CalcularResponse{
		Itens:              items,
		TotaisResponse:     newTotaisResponse(res.OrderTotals),
		UFOrigem:           res.OriginUF,
		UFDestino:          res.DestinationUF,
		OrigemConfiguracao: string(res.ConfigurationSource),
	}
}
