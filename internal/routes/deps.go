package routes

import (
	"net/http"

	"github.com/dukerupert/fiscal/internal/handler/api"
)

// APIDeps contains dependencies for the fiscal API routes
type APIDeps struct {
	ImpostosHandler *api.ImpostosHandler
	PedidosHandler  *api.PedidosHandler
}

// OpsDeps contains dependencies for operational endpoints
type OpsDeps struct {
	HealthHandler  *api.HealthHandler
	MetricsHandler http.Handler
}
