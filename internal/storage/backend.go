package storage

import (
	"context"
	"errors"
)

// Backend stores one opaque blob.
//
// Implementations must make Write atomic: after a failed Write, Read
// returns the previously written blob.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Read returns the stored blob. found is false when nothing has been
	// written yet.
	Read(ctx context.Context) (blob []byte, found bool, err error)

	// Write replaces the stored blob.
	Write(ctx context.Context, blob []byte) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Config.Backend.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	ErrUnknownBackend = errors.New("storage: unknown backend")
	ErrClosed         = errors.New("storage: closed")
)
