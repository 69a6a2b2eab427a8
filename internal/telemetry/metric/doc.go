// Package metric provides Prometheus metrics for the CoreX ledger.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Registry of application metrics and the HTTP handler
//   - collector.go: scrape-time collector for ledger state gauges
//
// Metrics include:
//
//   - Ledger operation counters by result code
//   - Supply, account and transaction gauges
//   - State store save latency and load fallbacks
//   - HTTP request latency and rate limit rejections
//
// All Registry methods are safe on a nil receiver, so components can be
// built without metrics in tests.
package metric
