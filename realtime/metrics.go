package realtime

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/combograph"
)

const (
	resultAccepted     = "accepted"
	resultRejected     = "rejected"
	resultUnknownActor = "unknown_actor"
)

// Metrics holds the runtime's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	Inputs       *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Recoveries   prometheus.Counter
	TickDuration prometheus.Histogram
	Actors       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Inputs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "combograph_inputs_total",
				Help: "Inputs offered to actor queues, by result",
			},
			[]string{"result"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "combograph_transitions_total",
				Help: "Inputs consumed by actors, by outcome",
			},
			[]string{"outcome"},
		),
		Recoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "combograph_recoveries_total",
			Help: "Advances that found an actor on a node outside the graph",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "combograph_tick_duration_seconds",
			Help:    "Wall time of one runtime tick",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		Actors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "combograph_actors",
			Help: "Actors registered with the runtime",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Inputs, m.Transitions, m.Recoveries, m.TickDuration, m.Actors)
	}
	return m
}

func (m *Metrics) countInput(result string) {
	if m == nil {
		return
	}
	m.Inputs.WithLabelValues(result).Inc()
}

func (m *Metrics) countTransition(o combograph.Outcome) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(o.String()).Inc()
}

func (m *Metrics) countRecovery() {
	if m == nil {
		return
	}
	m.Recoveries.Inc()
}

func (m *Metrics) observeTick(d time.Duration) {
	if m == nil {
		return
	}
	m.TickDuration.Observe(d.Seconds())
}

func (m *Metrics) setActors(n int) {
	if m == nil {
		return
	}
	m.Actors.Set(float64(n))
}
