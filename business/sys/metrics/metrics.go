// Package metrics exposes the ledger's operational metrics to Prometheus.
// The gauges are collected on scrape from the state's stats snapshot, which
// is an observational read and may be slightly stale.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/watermarkd/watermarkd/foundation/ledger/state"
)

// namespace prefixes every metric exported by the node.
const namespace = "watermarkd"

// StatsSource is the view of the ledger the collectors observe.
type StatsSource interface {
	RetrieveStats() state.Stats
}

// Metrics holds the instruments recorded by the mining path. The ledger
// stats collector is registered separately once the state exists, since the
// state itself needs these instruments at construction.
type Metrics struct {
	miningDuration prometheus.Histogram
	blocksMined    prometheus.Counter
}

// New constructs the mining instruments and registers them on the provided
// registry.
func New(reg prometheus.Registerer) *Metrics {
	m := Metrics{
		miningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "duration_seconds",
			Help:      "Time spent solving the proof of work puzzle per mined block.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "blocks_total",
			Help:      "Total number of blocks mined by this node.",
		}),
	}

	reg.MustRegister(m.miningDuration, m.blocksMined)

	return &m
}

// ObserveMiningDuration records the duration of one mining operation. It
// implements the state package's metrics hook.
func (m *Metrics) ObserveMiningDuration(d time.Duration) {
	m.miningDuration.Observe(d.Seconds())
}

// IncBlocksMined counts a mined block. It implements the state package's
// metrics hook.
func (m *Metrics) IncBlocksMined() {
	m.blocksMined.Inc()
}
