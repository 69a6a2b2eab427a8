// Package storage provides the state store of the CoreX ledger.
//
// The engine keeps the current ledger state in a process-wide cache and
// persists it as one encoded blob through a pluggable backend:
//
//   - file:   rotated snapshot files (package snapshot)
//   - badger: a single key in an embedded Badger database
//   - sqlite: a single row in an SQLite database (package sqlite)
//   - memory: process memory only (package memory)
//
// Every Save replaces the whole blob. A Save either completes and updates
// the cache, or fails and leaves both the cache and the persisted blob as
// they were.
//
// Recovery never fails: a missing blob yields the default state, and an
// undecodable one yields the default state plus a logged fallback.
package storage
