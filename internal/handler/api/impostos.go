package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/fiscal/internal/domain"
	"github.com/dukerupert/fiscal/internal/events"
	"github.com/dukerupert/fiscal/internal/handler"
	"github.com/dukerupert/fiscal/internal/middleware"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/dukerupert/fiscal/internal/telemetry"
)

// ImpostosHandler serves the order tax calculation.
type ImpostosHandler struct {
	calculator tax.Calculator
	validator  *handler.Validator
	publisher  events.Publisher
	metrics    *telemetry.FiscalMetrics
	logger     *slog.Logger
}

// NewImpostosHandler creates the calculation handler. A nil publisher
// disables events; nil metrics disables recording.
func NewImpostosHandler(
	calculator tax.Calculator,
	validator *handler.Validator,
	publisher events.Publisher,
	metrics *telemetry.FiscalMetrics,
	logger *slog.Logger,
) *ImpostosHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ImpostosHandler{
		calculator: calculator,
		validator:  validator,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Calcular handles POST /api/impostos/calcular
//
// Response codes:
//   - 200 OK: taxes calculated
//   - 400 Bad Request: malformed JSON or invalid fields
//   - 404 Not Found: company, client or operation nature does not exist
//   - 500 Internal Server Error: store failure
func (h *ImpostosHandler) Calcular(w http.ResponseWriter, r *http.Request) {
	const op = "api.impostos.calcular"
	start := time.Now()
	logger := middleware.GetLogger(r.Context(), h.logger)

	var req CalcularRequest
	if err := handler.DecodeJSON(r, op, &req); err != nil {
		h.fail(w, r, err, start)
		return
	}
	req.UFOrigem = strings.ToUpper(strings.TrimSpace(req.UFOrigem))
	req.UFDestino = strings.ToUpper(strings.TrimSpace(req.UFDestino))

	if err := req.checkDiscounts(op, h.validator.Struct(op, req)); err != nil {
		h.fail(w, r, err, start)
		return
	}

	res, err := h.calculator.Calculate(r.Context(), req.OrderRequest())
	if err != nil {
		h.fail(w, r, err, start)
		return
	}

	elapsed := time.Since(start)
	if h.metrics != nil {
		h.metrics.ObserveResult(res, elapsed)
	}

	logger.Info("Order taxes calculated",
		"empresa_id", req.EmpresaID,
		"natureza_operacao_id", req.NaturezaOperacaoID,
		"uf_origem", res.OriginUF,
		"uf_destino", res.DestinationUF,
		"configuracao", res.ConfigurationSource,
		"itens", len(res.Items),
		"total_pedido", res.GrandTotal.StringFixed(2),
		"duration", elapsed,
	)

	handler.WriteJSON(w, r, http.StatusOK, NewCalcularResponse(res))

	h.publish(r, req, res)
}

// publish announces the calculation. Failures are logged and counted only.
func (h *ImpostosHandler) publish(r *http.Request, req CalcularRequest, res *tax.OrderResult) {
	err := h.publisher.PublishCalculation(r.Context(), events.CalculationCompleted{
		RequestID:         middleware.GetRequestID(r.Context()),
		CompanyID:         req.EmpresaID,
		ClientID:          req.ClienteID,
		OperationNatureID: req.NaturezaOperacaoID,
		OriginUF:          res.OriginUF,
		DestinationUF:     res.DestinationUF,
		ConfigSource:      string(res.ConfigurationSource),
		Items:             len(res.Items),
		TotalTaxes:        res.TotalTaxes.StringFixed(2),
		GrandTotal:        res.GrandTotal.StringFixed(2),
	})

	outcome := telemetry.OutcomeOK
	if err != nil {
		outcome = telemetry.OutcomeError
		middleware.GetLogger(r.Context(), h.logger).Warn("Failed to publish calculation event", "error", err)
	}
	if h.metrics != nil {
		h.metrics.EventsPublished.WithLabelValues(outcome).Inc()
	}
}

func (h *ImpostosHandler) fail(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	if h.metrics != nil {
		h.metrics.ObserveFailure(outcomeFor(err), time.Since(start))
	}
	handler.ErrorResponse(w, r, err)
}

func outcomeFor(err error) string {
	if domain.GetValidationFields(err) != nil {
		return telemetry.OutcomeInvalid
	}
	switch domain.ErrorCode(err) {
	case domain.EINVALID, domain.ETOOLARGE:
		return telemetry.OutcomeInvalid
	case domain.ENOTFOUND:
		return telemetry.OutcomeNotFound
	default:
		return telemetry.OutcomeError
	}
}
