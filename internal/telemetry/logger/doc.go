// Package logger provides structured logging for the CoreX ledger.
//
// It wraps log/slog:
//
//   - JSON (default) or text output
//   - a process-wide level that can change at runtime (config reload)
//   - redaction of secrets and masking of e-mail addresses
//   - request_id and caller attributes taken from the context
//
// Components receive a plain *slog.Logger obtained from Logger.Slog and
// log with the *Context methods so request attributes are attached.
package logger
