package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/server/httpserver/handler"
	"github.com/yndnr/corex-go/internal/telemetry/logger"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
	"github.com/yndnr/corex-go/pkg/account"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds client supplied request IDs.
const maxRequestIDLen = 64

type contextKey string

const contextKeyStartTime contextKey = "start_time"

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain chains multiple middlewares together. The first middleware is the
// outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID adds a unique request ID to each request.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" || len(requestID) > maxRequestIDLen {
				requestID = "req-" + strings.ToLower(ulid.Make().String())
			}

			w.Header().Set(HeaderRequestID, requestID)

			ctx := logger.WithRequestID(r.Context(), requestID)
			ctx = context.WithValue(ctx, contextKeyStartTime, time.Now())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Caller resolves the calling account from header. A missing or invalid
// value makes the request anonymous.
func Caller(header string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := account.Anonymous
			if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
				if id, err := account.Parse(v); err == nil {
					caller = id
				}
			}

			ctx := handler.WithCaller(r.Context(), caller)
			ctx = logger.WithCaller(ctx, caller.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit rejects requests once the caller exhausts its bucket in l.
// Anonymous callers are keyed by client IP. scope labels the rejection
// metric.
func RateLimit(l *Limiter, metrics *metric.Registry, scope string) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(limiterKey(r)) {
				metrics.IncRateLimited(scope)
				w.Header().Set("Retry-After", l.RetryAfter())
				handler.WriteDomainError(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limiterKey(r *http.Request) string {
	caller := handler.CallerFromContext(r.Context())
	if caller.IsReserved() {
		return "ip:" + getClientIP(r)
	}
	return caller.String()
}

// Metrics records request count and latency under route.
func Metrics(reg *metric.Registry, route string) Middleware {
	return func(next http.Handler) http.Handler {
		if reg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			reg.ObserveRequest(r.Method, route, wrapped.statusCode, time.Since(start))
		})
	}
}

// Audit logs request/response for audit trail.
func Audit(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			startTime, ok := r.Context().Value(contextKeyStartTime).(time.Time)
			if !ok {
				startTime = time.Now()
			}

			// request_id and caller come from the context handler.
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(startTime).Milliseconds(),
				"client_ip", getClientIP(r),
			}

			switch {
			case wrapped.statusCode >= 500:
				log.ErrorContext(r.Context(), "request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.WarnContext(r.Context(), "request completed with client error", attrs...)
			default:
				log.InfoContext(r.Context(), "request completed", attrs...)
			}
		})
	}
}

// Recover recovers from panics and returns a CRX-SYS-5000 error.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"path", r.URL.Path,
					)
					handler.WriteDomainError(w, r, domain.ErrInternal)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap supports http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// net.SplitHostPort handles IPv6 addresses like [::1]:8080.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
