package asyncprops

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for loading and hydration.
// A nil *Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	superseded  prometheus.Counter
	hydration   *prometheus.CounterVec
}

// Hydration outcomes recorded under the "result" label.
const (
	hydrationSeeded   = "seeded"
	hydrationMismatch = "mismatch"
)

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asyncprops",
			Name:      "loader_invocations_total",
			Help:      "Loader completions by route and outcome.",
		}, []string{"route", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "asyncprops",
			Name:      "loader_duration_seconds",
			Help:      "Time from loader invocation to completion.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "asyncprops",
			Name:      "generations_superseded_total",
			Help:      "Navigations whose results were discarded because a newer one started.",
		}),
		hydration: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "asyncprops",
			Name:      "hydration_total",
			Help:      "First-render hydration attempts by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.invocations, m.duration, m.superseded, m.hydration)
	}
	return m
}

func (m *Metrics) observeLoad(route RouteID, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "resolved"
	if err != nil {
		outcome = "errored"
	}
	m.invocations.WithLabelValues(string(route), outcome).Inc()
	m.duration.WithLabelValues(string(route)).Observe(d.Seconds())
}

func (m *Metrics) observeSuperseded() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

func (m *Metrics) observeHydration(result string) {
	if m == nil {
		return
	}
	m.hydration.WithLabelValues(result).Inc()
}
