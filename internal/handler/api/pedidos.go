package api

import (
	"net/http"

	"github.com/dukerupert/fiscal/internal/handler"
	"github.com/dukerupert/fiscal/internal/service"
)

// PedidosHandler serves order total recomputation.
type PedidosHandler struct {
	totals service.OrderTotalsService
}

// NewPedidosHandler creates the order totals handler.
func NewPedidosHandler(totals service.OrderTotalsService) *PedidosHandler {
	return &PedidosHandler{totals: totals}
}

// Totais handles POST /api/pedidos/totais
// It recomputes totals from stored item amounts without running the tax engine.
func (h *PedidosHandler) Totais(w http.ResponseWriter, r *http.Request) {
	const op = "api.pedidos.totais"

	var req TotaisRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items := make([]service.OrderItemAmounts, len(req.Itens))
	for i, it := range req.Itens {
		items[i] = service.OrderItemAmounts{
			Quantity:  it.Quantidade,
			UnitValue: it.ValorUnitario,
			Discount:  it.Desconto,
			Taxes:     it.TotalImpostos,
		}
	}

	totals, err := h.totals.Recalculate(r.Context(), service.RecalculateParams{
		Items:                 items,
		Freight:               req.ValorFrete,
		Expenses:              req.ValorDespesas,
		IncludeFreightInTotal: req.IncluirFreteTotal,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, r, http.StatusOK, newTotaisResponse(*totals))
}
