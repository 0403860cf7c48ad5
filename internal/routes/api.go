package routes

import (
	"github.com/dukerupert/fiscal/internal/router"
)

// RegisterAPIRoutes registers the fiscal calculation API.
// Callers are internal systems (ERP, order service); there is no end-user auth.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Post("/api/impostos/calcular", deps.ImpostosHandler.Calcular)
	r.Post("/api/pedidos/totais", deps.PedidosHandler.Totais)
}

// RegisterOpsRoutes registers health and metrics endpoints.
// /metrics should be kept off the public network at the proxy.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Get("/healthz", deps.HealthHandler.Health)
	r.Handle("GET", "/metrics", deps.MetricsHandler)
}
