// Package sqlite provides an SQLite backend for the state store.
//
// The ledger blob lives in a single row of the ledger_state table and is
// replaced with an upsert inside a transaction. The driver is the pure Go
// modernc.org/sqlite, so no cgo toolchain is required.
package sqlite
