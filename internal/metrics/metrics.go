// Package metrics counts what happened to each row of a run and can export
// the counters in the Prometheus text format for the node_exporter textfile
// collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons used as the "reason" label. Timestamp parse failures use the
// parser's error kind ("shape", "invalid_date", ...).
const (
	ReasonMissingField = "missing_field"
	ReasonOutOfOrder   = "out_of_order"
)

// Metrics holds the per-run counters. Each Metrics has its own registry so
// runs and tests never share state.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead     prometheus.Counter
	RowsWritten  prometheus.Counter
	RowsDropped  *prometheus.CounterVec
	BytesRead    prometheus.Gauge
	LastAccepted prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RowsRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "tsnorm_rows_read_total",
			Help: "Records read from the input, header included",
		}),
		RowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "tsnorm_rows_written_total",
			Help: "Records written to the output, header included",
		}),
		RowsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tsnorm_rows_dropped_total",
				Help: "Records excluded from the output",
			},
			[]string{"reason"},
		),
		BytesRead: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tsnorm_input_bytes",
			Help: "Encoded bytes consumed from the input",
		}),
		LastAccepted: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tsnorm_last_accepted_timestamp_seconds",
			Help: "Last accepted record timestamp as seconds since the epoch, zone ignored",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile atomically writes all counters to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
