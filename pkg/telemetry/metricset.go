package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricSet struct {
	LabelNames       []string
	StartedCounter   *prometheus.CounterVec
	HandledCounter   *prometheus.CounterVec
	HandledHistogram *prometheus.HistogramVec
}

func NewMetricSet(app string, labelNames []string, buckets []float64) *MetricSet {
	tpe := labelNames[len(labelNames)-1]
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	return &MetricSet{
		LabelNames: labelNames,
		StartedCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_%s_started_total", app, tpe),
				Help: "Total number of operations started.",
			}, labelNames),
		HandledCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%s_%s_handled_total", app, tpe),
				Help: "Total number of operations completed, regardless of success or failure.",
			}, append(append([]string{}, labelNames...), "status")),
		HandledHistogram: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    fmt.Sprintf("%s_%s_handling_seconds", app, tpe),
				Help:    "Histogram of latency (seconds) of operation.",
				Buckets: buckets,
			}, labelNames),
	}
}

func (m *MetricSet) Observe(startTime, endTime time.Time, status string, labelValues []string) {
	m.StartedCounter.WithLabelValues(labelValues...).Inc()
	counterLabels := append([]string{}, labelValues...)
	counterLabels = append(counterLabels, status)
	m.HandledCounter.WithLabelValues(counterLabels...).Inc()
	m.HandledHistogram.WithLabelValues(labelValues...).Observe(endTime.Sub(startTime).Seconds())
}

// Describe sends the super-set of all possible descriptors of metrics
// collected by this Collector to the provided channel and returns once
// the last descriptor has been sent.
func (m *MetricSet) Describe(ch chan<- *prometheus.Desc) {
	m.StartedCounter.Describe(ch)
	m.HandledCounter.Describe(ch)
	m.HandledHistogram.Describe(ch)
}

// Collect is called by the Prometheus registry when collecting
// metrics. The implementation sends each collected metric via the
// provided channel and returns once the last metric has been sent.
func (m *MetricSet) Collect(ch chan<- prometheus.Metric) {
	m.StartedCounter.Collect(ch)
	m.HandledCounter.Collect(ch)
	m.HandledHistogram.Collect(ch)
}
