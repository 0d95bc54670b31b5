package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the transfer workflow.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	UnitsInTransit    prometheus.Gauge
	EventsDropped     prometheus.Counter
}

// New registers the transfer metrics on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stocktrail_transfer_operations_total",
			Help: "Transfer workflow operations by operation and outcome code",
		}, []string{"operation", "outcome"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stocktrail_transfer_operation_duration_seconds",
			Help:    "Latency of transfer workflow operations",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation"}),
		UnitsInTransit: factory.NewGauge(prometheus.GaugeOpts{
			Name: "stocktrail_transfer_units_in_transit",
			Help: "Units deducted from an origin and not yet received or returned, as seen by this process",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "stocktrail_transfer_events_dropped_total",
			Help: "Transfer events that could not be published",
		}),
	}
}

func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
