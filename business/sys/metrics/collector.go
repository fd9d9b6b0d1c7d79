package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerCollector reads the chain statistics on every scrape.
type LedgerCollector struct {
	src         StatsSource
	chainLength *prometheus.Desc
	pendingTxs  *prometheus.Desc
	difficulty  *prometheus.Desc
}

// NewLedgerCollector constructs a collector over the specified stats source.
func NewLedgerCollector(src StatsSource) *LedgerCollector {
	return &LedgerCollector{
		src: src,
		chainLength: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "chain", "length"),
			"Number of blocks in the local chain.",
			nil,
			nil,
		),
		pendingTxs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "pending_transactions"),
			"Number of transactions waiting to be mined.",
			nil,
			nil,
		),
		difficulty: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mining", "difficulty"),
			"Configured proof of work difficulty.",
			nil,
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainLength
	ch <- c.pendingTxs
	ch <- c.difficulty
}

// Collect implements prometheus.Collector.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.RetrieveStats()

	ch <- prometheus.MustNewConstMetric(c.chainLength, prometheus.GaugeValue, float64(stats.ChainLength))
	ch <- prometheus.MustNewConstMetric(c.pendingTxs, prometheus.GaugeValue, float64(stats.PendingTransactions))
	ch <- prometheus.MustNewConstMetric(c.difficulty, prometheus.GaugeValue, float64(stats.Difficulty))
}
