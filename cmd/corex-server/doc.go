// Package main provides the entry point for corex-server.
//
// corex-server hosts the CoreX (CRX) ledger: it recovers persisted state,
// seeds genesis on an empty store and serves the HTTP API until SIGINT or
// SIGTERM, checkpointing the state on the way out.
package main
