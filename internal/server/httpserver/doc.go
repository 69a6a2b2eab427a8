// Package httpserver provides the HTTP server of the CoreX ledger.
//
// It uses the standard library net/http with Go 1.22 routing patterns:
//
//   - Ledger endpoints: /v1/token, /v1/accounts, /v1/transfer, /v1/mint, ...
//   - Admin endpoints: /admin/v1/checkpoint
//   - Health endpoints: /health, /ready, /metrics
//
// Requests are identified by the caller header (X-Caller-ID by default)
// carrying a base58 account identifier. A missing or invalid header makes
// the request anonymous.
//
// Middleware chain: RequestID, Recover, Caller, Audit, then per route
// Metrics and RateLimit.
package httpserver
