package telemetry

import (
	"time"

	"github.com/dukerupert/fiscal/internal/tax"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcomes used as the "outcome" label.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// FiscalMetrics holds Prometheus metrics for the calculation engine.
type FiscalMetrics struct {
	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	ItemsPerOrder       prometheus.Histogram
	ConfigurationSource *prometheus.CounterVec
	TaxAmount           *prometheus.CounterVec
	OrderValue          prometheus.Histogram
	EventsPublished     *prometheus.CounterVec
}

// NewFiscalMetrics creates the engine metrics and registers them with reg.
// A nil reg uses the default Prometheus registry.
func NewFiscalMetrics(namespace string, reg prometheus.Registerer) *FiscalMetrics {
	if namespace == "" {
		namespace = "fiscal"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "engine"

	return &FiscalMetrics{
		CalculationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "calculations_total",
				Help:      "Order tax calculations by outcome",
			},
			[]string{"outcome"}, // ok, invalid, not_found, error
		),
		CalculationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "calculation_duration_seconds",
				Help:      "Time to calculate an order, store lookups included",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		ItemsPerOrder: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_items",
				Help:      "Number of items per calculated order",
				Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
		),
		ConfigurationSource: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "configuration_source_total",
				Help:      "Where the applied tax configuration came from",
			},
			[]string{"source"}, // destino, origem, padrao
		),
		TaxAmount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tax_amount_total",
				Help:      "Sum of calculated tax values in BRL",
			},
			[]string{"tax"},
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_brl",
				Help:      "Grand total of calculated orders in BRL",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 9),
			},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Calculation events sent to the message bus by outcome",
			},
			[]string{"outcome"}, // ok, error
		),
	}
}

// ObserveResult records a successful calculation.
func (m *FiscalMetrics) ObserveResult(res *tax.OrderResult, elapsed time.Duration) {
	m.CalculationsTotal.WithLabelValues(OutcomeOK).Inc()
	m.CalculationDuration.Observe(elapsed.Seconds())
	m.ItemsPerOrder.Observe(float64(len(res.Items)))
	m.ConfigurationSource.WithLabelValues(string(res.ConfigurationSource)).Inc()
	m.OrderValue.Observe(res.GrandTotal.InexactFloat64())

	sums := map[string]float64{}
	for _, item := range res.Items {
		sums["icms"] += item.ICMS.Value.InexactFloat64()
		sums["icms_st"] += item.ICMSST.Value.InexactFloat64()
		sums["ipi"] += item.IPI.Value.InexactFloat64()
		sums["pis"] += item.PIS.Value.InexactFloat64()
		sums["cofins"] += item.COFINS.Value.InexactFloat64()
		sums["iss"] += item.ISS.Value.InexactFloat64()
		sums["retencoes"] += item.TotalWithholdings.InexactFloat64()
	}
	for name, v := range sums {
		m.TaxAmount.WithLabelValues(name).Add(v)
	}
}

// ObserveFailure records a calculation that ended with an error outcome.
func (m *FiscalMetrics) ObserveFailure(outcome string, elapsed time.Duration) {
	m.CalculationsTotal.WithLabelValues(outcome).Inc()
	m.CalculationDuration.Observe(elapsed.Seconds())
}
