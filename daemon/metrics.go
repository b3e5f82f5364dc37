package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsPrefix = "qwt_"

type metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge
	datasetRows prometheus.Gauge
}

// Collectors are registered with reg, which is also what /metrics exposes.  Tests use their own
// registry so that services can be created repeatedly.

func newMetrics(reg *prometheus.Registry) *metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "requests_total",
				Help: "Number of API requests by endpoint, page and outcome",
			},
			[]string{"endpoint", "page", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricsPrefix + "request_duration_seconds",
				Help:    "Time taken to compute API responses, including cache hits",
				Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"endpoint"},
		),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "cache_hits_total",
			Help: "Number of responses served from the result cache",
		}),
		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "cache_misses_total",
			Help: "Number of responses computed",
		}),
		cacheSize: f.NewGauge(prometheus.GaugeOpts{
			Name: metricsPrefix + "cache_entries",
			Help: "Number of responses held in the result cache",
		}),
		datasetRows: f.NewGauge(prometheus.GaugeOpts{
			Name: metricsPrefix + "dataset_rows",
			Help: "Number of rows in the loaded dataset",
		}),
	}
}

func (m *metrics) recordRequest(endpoint, page, outcome string, seconds float64) {
	m.requests.With(prometheus.Labels{"endpoint": endpoint, "page": page, "outcome": outcome}).Inc()
	m.duration.With(prometheus.Labels{"endpoint": endpoint}).Observe(seconds)
}

func (m *metrics) recordCache(hit bool) {
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
