package routes_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/fiscal/internal/handler"
	"github.com/dukerupert/fiscal/internal/handler/api"
	"github.com/dukerupert/fiscal/internal/router"
	"github.com/dukerupert/fiscal/internal/routes"
	"github.com/dukerupert/fiscal/internal/service"
	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/stretchr/testify/assert"
)

func TestRoutes(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := router.New()
	r.NotFound(handler.NotFoundResponse)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		ImpostosHandler: api.NewImpostosHandler(tax.NewMockCalculator(), handler.NewValidator(), nil, nil, logger),
		PedidosHandler:  api.NewPedidosHandler(service.NewOrderTotalsService()),
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		HealthHandler: api.NewHealthHandler(nil),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),
	})

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodPost, "/api/impostos/calcular", `{"empresaId":"e","naturezaOperacaoId":"n","itens":[]}`, http.StatusOK},
		{http.MethodPost, "/api/pedidos/totais", `{"itens":[]}`, http.StatusOK},
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/desconhecida", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
