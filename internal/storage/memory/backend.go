package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("memory: closed")

// Backend keeps the blob in memory.
type Backend struct {
	mu     sync.RWMutex
	blob   []byte
	found  bool
	closed bool

	// failWrites makes Write fail; set with FailWrites.
	failWrites error
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string { return "memory" }

// Read returns a copy of the stored blob.
func (b *Backend) Read(ctx context.Context) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, false, ErrClosed
	}
	if !b.found {
		return nil, false, nil
	}
	return slices.Clone(b.blob), true, nil
}

// Write stores a copy of blob.
func (b *Backend) Write(ctx context.Context, blob []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.failWrites != nil {
		return b.failWrites
	}
	b.blob = slices.Clone(blob)
	b.found = true
	return nil
}

// Close marks the backend closed. The blob is kept so that a test can
// reopen it with Reopen.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Reopen clears the closed flag, simulating a process restart against the
// same storage.
func (b *Backend) Reopen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = false
}

// FailWrites makes every subsequent Write return err. A nil err restores
// normal operation.
func (b *Backend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failWrites = err
}

// Set replaces the stored blob directly, bypassing FailWrites.
func (b *Backend) Set(blob []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blob = slices.Clone(blob)
	b.found = true
}
