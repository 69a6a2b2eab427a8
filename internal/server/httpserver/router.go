package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yndnr/corex-go/internal/server/httpserver/handler"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
)

// DefaultCallerHeader carries the caller identifier when RouterConfig
// leaves it empty.
const DefaultCallerHeader = "X-Caller-ID"

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Ledger serves the API operations.
	Ledger handler.Ledger

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics records request metrics and serves MetricsPath. Nil
	// disables both.
	Metrics     *metric.Registry
	MetricsPath string

	// CallerHeader carries the base58 caller identifier.
	CallerHeader string

	// RequestLimiter limits every API request per caller. Nil disables.
	RequestLimiter *Limiter

	// FaucetLimiter additionally limits faucet grants per caller. Nil
	// disables.
	FaucetLimiter *Limiter

	// Ready backs GET /ready.
	Ready func(ctx context.Context) error

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		MetricsPath:  "/metrics",
		CallerHeader: DefaultCallerHeader,
		EnableAudit:  true,
	}
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = DefaultRouterConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.CallerHeader == "" {
		cfg.CallerHeader = DefaultCallerHeader
	}

	h := handler.New(handler.Config{
		Ledger: cfg.Ledger,
		Logger: cfg.Logger,
		Ready:  cfg.Ready,
	})

	mux := http.NewServeMux()
	for _, rt := range h.Routes() {
		mws := []Middleware{Metrics(cfg.Metrics, rt.Pattern)}

		switch rt.Pattern {
		case handler.PatternHealth, handler.PatternReady:
			// Probes are never rate limited.
		case handler.PatternFaucet:
			mws = append(mws,
				RateLimit(cfg.RequestLimiter, cfg.Metrics, "request"),
				RateLimit(cfg.FaucetLimiter, cfg.Metrics, "faucet"),
			)
		default:
			mws = append(mws, RateLimit(cfg.RequestLimiter, cfg.Metrics, "request"))
		}

		mux.Handle(rt.Pattern, Chain(rt.Handler, mws...))
	}

	if cfg.Metrics != nil && cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, cfg.Metrics.Handler())
	}

	// Order: RequestID -> Recover -> Caller -> Audit -> route
	mws := []Middleware{
		RequestID(),
		Recover(cfg.Logger),
		Caller(cfg.CallerHeader),
	}
	if cfg.EnableAudit {
		mws = append(mws, Audit(cfg.Logger))
	}
	return Chain(mux, mws...)
}
