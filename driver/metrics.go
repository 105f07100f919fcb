package driver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Unit outcomes.
const (
	ResultTranslated = "translated"
	ResultFailed     = "failed"
	ResultInternal   = "internal_error"
)

// Metrics counts what a batch did. Each Driver owns its registry so
// metrics of independent drivers never mix.
type Metrics struct {
	Registry *prometheus.Registry

	units        *prometheus.CounterVec
	diagnostics  *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
	filesWritten prometheus.Counter
	deadCode     prometheus.Counter
	closure      prometheus.Counter
	runs         prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "j2objc",
			Name:      "units_total",
			Help:      "Compilation units processed, by result",
		}, []string{"result"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "j2objc",
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported, by severity",
		}, []string{"severity"}),
		passDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "j2objc",
			Name:      "pass_duration_seconds",
			Help:      "Time spent in each translation pass",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"pass"}),
		filesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "j2objc",
			Name:      "files_written_total",
			Help:      "Objective-C header and implementation files written",
		}),
		deadCode: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "j2objc",
			Name:      "dead_declarations_removed_total",
			Help:      "Declarations removed by dead code elimination",
		}),
		closure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "j2objc",
			Name:      "closure_files_total",
			Help:      "Source files added by the build closure",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "j2objc",
			Name:      "runs_total",
			Help:      "Batches run",
		}),
	}
	m.Registry.MustRegister(m.units, m.diagnostics, m.passDuration, m.filesWritten, m.deadCode, m.closure, m.runs)
	return m
}

func (m *Metrics) observePass(pass string, elapsed time.Duration) {
	m.passDuration.WithLabelValues(pass).Observe(elapsed.Seconds())
}

func (m *Metrics) unit(result string) {
	m.units.WithLabelValues(result).Inc()
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
