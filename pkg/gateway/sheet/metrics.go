package sheet

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters exported on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	// ActionsTotal counts gateway actions by action and result.
	ActionsTotal *prometheus.CounterVec
	// ActionLatency records how long each action took.
	ActionLatency *prometheus.HistogramVec
	// Rows is the number of stored movement rows.
	Rows prometheus.Gauge
	// VehiclesOut is the number of rows with status FORA.
	VehiclesOut prometheus.Gauge
}

// NewMetrics registers the gateway metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}
	m.ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frota_gateway_actions_total",
			Help: "Total number of gateway actions served.",
		},
		[]string{"action", "result"}, // result: success/rejected
	)
	m.ActionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frota_gateway_action_latency_seconds",
			Help:    "Latency of gateway actions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	m.Rows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "frota_gateway_rows",
		Help: "Number of movement rows in the sheet.",
	})
	m.VehiclesOut = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "frota_gateway_vehicles_out",
		Help: "Number of vehicles currently out.",
	})
	m.Registry.MustRegister(m.ActionsTotal, m.ActionLatency, m.Rows, m.VehiclesOut)
	return m
}
