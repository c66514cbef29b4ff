package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the conversion
// pipeline.
type Metrics struct {
	FilesConverted prometheus.Counter
	FilesFailed    prometheus.Counter
	RecordsParsed  prometheus.Counter
	ChannelsSplit  prometheus.Counter
	BatchRunning   prometheus.Gauge

	ConversionDuration prometheus.Histogram
	SamplesPerRecord   prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cesmd",
			Name:      "files_converted_total",
			Help:      "Total source files converted successfully.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cesmd",
			Name:      "files_failed_total",
			Help:      "Total source files that failed to convert.",
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cesmd",
			Name:      "records_parsed_total",
			Help:      "Total waveform records parsed, counting each channel separately.",
		}),
		ChannelsSplit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cesmd",
			Name:      "channels_split_total",
			Help:      "Total channel blocks extracted from multi-channel files.",
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cesmd",
			Name:      "batch_running",
			Help:      "1 while a conversion batch is active, 0 otherwise.",
		}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cesmd",
			Name:      "conversion_duration_seconds",
			Help:      "Duration of a single file conversion, parsing through export.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		SamplesPerRecord: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cesmd",
			Name:      "samples_per_record",
			Help:      "Number of acceleration samples per parsed record.",
			Buckets:   []float64{100, 1000, 5000, 10000, 25000, 50000, 100000},
		}),
	}

	prometheus.MustRegister(
		m.FilesConverted,
		m.FilesFailed,
		m.RecordsParsed,
		m.ChannelsSplit,
		m.BatchRunning,
		m.ConversionDuration,
		m.SamplesPerRecord,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesConverted:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cesmd", Name: "files_converted_total"}),
		FilesFailed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cesmd", Name: "files_failed_total"}),
		RecordsParsed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cesmd", Name: "records_parsed_total"}),
		ChannelsSplit:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cesmd", Name: "channels_split_total"}),
		BatchRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cesmd", Name: "batch_running"}),
		ConversionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cesmd", Name: "conversion_duration_seconds"}),
		SamplesPerRecord:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cesmd", Name: "samples_per_record"}),
	}
}
