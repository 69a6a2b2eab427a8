package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerStats is a point-in-time view of the ledger.
type LedgerStats struct {
	TotalSupply      float64
	Accounts         int
	BalanceHolders   int
	Transactions     int
	AirdropMilestone uint64
}

// LedgerCollector reports ledger gauges at scrape time.
type LedgerCollector struct {
	source func() LedgerStats

	supply       *prometheus.Desc
	accounts     *prometheus.Desc
	holders      *prometheus.Desc
	transactions *prometheus.Desc
	milestone    *prometheus.Desc
}

// NewLedgerCollector creates a collector reading from source on every
// scrape.
func NewLedgerCollector(source func() LedgerStats) *LedgerCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "ledger", name), help, nil, nil)
	}
	return &LedgerCollector{
		source:       source,
		supply:       desc("total_supply", "Current total supply"),
		accounts:     desc("accounts", "Registered accounts"),
		holders:      desc("balance_holders", "Identifiers with a balance entry"),
		transactions: desc("transactions", "Length of the transaction log"),
		milestone:    desc("airdrop_milestone", "Account count that triggers the next airdrop"),
	}
}

// Describe implements prometheus.Collector.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.supply
	ch <- c.accounts
	ch <- c.holders
	ch <- c.transactions
	ch <- c.milestone
}

// Collect implements prometheus.Collector.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.source()
	ch <- prometheus.MustNewConstMetric(c.supply, prometheus.GaugeValue, s.TotalSupply)
	ch <- prometheus.MustNewConstMetric(c.accounts, prometheus.GaugeValue, float64(s.Accounts))
	ch <- prometheus.MustNewConstMetric(c.holders, prometheus.GaugeValue, float64(s.BalanceHolders))
	ch <- prometheus.MustNewConstMetric(c.transactions, prometheus.GaugeValue, float64(s.Transactions))
	ch <- prometheus.MustNewConstMetric(c.milestone, prometheus.GaugeValue, float64(s.AirdropMilestone))
}

// WatchLedger registers a LedgerCollector backed by source.
func (r *Registry) WatchLedger(source func() LedgerStats) error {
	if r == nil {
		return nil
	}
	return r.reg.Register(NewLedgerCollector(source))
}
