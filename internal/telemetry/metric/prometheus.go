package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/corex-go/internal/core/domain"
)

// Namespace prefixes every metric name.
const Namespace = "corex"

// ResultOK labels successful operations.
const ResultOK = "ok"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Ledger metrics
	Operations     *prometheus.CounterVec
	Airdrops       prometheus.Counter
	AirdropTokens  prometheus.Counter
	AirdropMembers prometheus.Counter

	// Store metrics
	StoreSaveDuration *prometheus.HistogramVec
	StoreLoadFallback *prometheus.CounterVec

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors
// plus the application metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		reg: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations by operation and result code",
		}, []string{"op", "result"}),
		Airdrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ledger",
			Name:      "airdrops_total",
			Help:      "Milestone distributions performed",
		}),
		AirdropTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ledger",
			Name:      "airdrop_tokens_total",
			Help:      "Tokens created by milestone distributions",
		}),
		AirdropMembers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "ledger",
			Name:      "airdrop_recipients_total",
			Help:      "Accounts credited by milestone distributions",
		}),
		StoreSaveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "save_duration_seconds",
			Help:      "Duration of state saves by backend and result",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"backend", "result"}),
		StoreLoadFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "load_fallbacks_total",
			Help:      "Loads that fell back to the default state, by reason",
		}, []string{"reason"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by rate limiting, by scope",
		}, []string{"scope"}),
	}

	reg.MustRegister(
		r.Operations,
		r.Airdrops,
		r.AirdropTokens,
		r.AirdropMembers,
		r.StoreSaveDuration,
		r.StoreLoadFallback,
		r.RequestsTotal,
		r.RequestDuration,
		r.RateLimited,
	)
	return r
}

// Prometheus exposes the underlying registry for subsystems that own
// their collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveOperation counts one ledger operation.
func (r *Registry) ObserveOperation(op string, err error) {
	if r == nil {
		return
	}
	r.Operations.WithLabelValues(op, resultLabel(err)).Inc()
}

// ObserveAirdrop records one milestone distribution.
func (r *Registry) ObserveAirdrop(recipients int, tokens float64) {
	if r == nil {
		return
	}
	r.Airdrops.Inc()
	r.AirdropMembers.Add(float64(recipients))
	r.AirdropTokens.Add(tokens)
}

// ObserveStoreSave records the latency of one state save.
func (r *Registry) ObserveStoreSave(backend string, d time.Duration, err error) {
	if r == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = "error"
	}
	r.StoreSaveDuration.WithLabelValues(backend, result).Observe(d.Seconds())
}

// IncLoadFallback counts a load that substituted the default state.
func (r *Registry) IncLoadFallback(reason string) {
	if r == nil {
		return
	}
	r.StoreLoadFallback.WithLabelValues(reason).Inc()
}

// ObserveRequest records one HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncRateLimited counts a rejected request.
func (r *Registry) IncRateLimited(scope string) {
	if r == nil {
		return
	}
	r.RateLimited.WithLabelValues(scope).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	if code := domain.GetErrorCode(err); code != "" {
		return code
	}
	return "error"
}
