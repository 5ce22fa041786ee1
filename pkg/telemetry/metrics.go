// See:
//   https://godoc.org/github.com/prometheus/client_golang/prometheus/push#Pusher.Push
//   https://prometheus.io/docs/instrumenting/pushing/
package telemetry

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics is the collection of step metrics of a single deployment run
type Metrics struct {
	steps *MetricSet
	now   func() time.Time
}

// NewMetrics returns metrics named like "<name>_step_started_total", labelled by app and step
func NewMetrics(name string) *Metrics {
	return &Metrics{
		steps: NewMetricSet(name, []string{"app", "step"}, nil),
		now:   time.Now,
	}
}

// Track runs f and observes its duration and outcome as the given step
func (m *Metrics) Track(app, step string, f func() error) error {
	start := m.now()
	err := f()
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.steps.Observe(start, m.now(), status, []string{app, step})
	return err
}

// Describe sends the super-set of all possible descriptors of metrics
// collected by this Collector to the provided channel and returns once
// the last descriptor has been sent.
func (m *Metrics) Describe(ch chan<- *prom.Desc) {
	m.steps.Describe(ch)
}

// Collect is called by the Prometheus registry when collecting
// metrics. The implementation sends each collected metric via the
// provided channel and returns once the last metric has been sent.
func (m *Metrics) Collect(ch chan<- prom.Metric) {
	m.steps.Collect(ch)
}

// pushBase can be something like http://pushgateway:9091 (for pushgateway)
// or http://pushgateway:9091/api/ui (for weaveworks/prom-aggregation-gateway)
func (m *Metrics) Push(pushBase, job string) error {
	return push.New(pushBase, job).
		Collector(m).
		Push()
}
