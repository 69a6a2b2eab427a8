package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/storage/memory"
	"github.com/yndnr/corex-go/pkg/account"
)

var (
	admin = testID(0xAD)
	alice = testID(0xA1)
	bob   = testID(0xB0)
	carol = testID(0xC0)
)

func testID(b byte) account.ID {
	var id account.ID
	for i := range id {
		id[i] = b
	}
	return id
}

// stepClock advances one millisecond per call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

type fixture struct {
	svc     *LedgerService
	engine  *storage.Engine
	backend *memory.Backend
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend := memory.New()
	engine := storage.NewWithBackend(backend, storage.Config{Logger: logger})
	engine.Recover(context.Background())

	clock := &stepClock{now: time.Unix(1_700_000_000, 0)}
	svc := NewLedgerService(engine, &LedgerServiceConfig{
		StrictAuthority: strict,
		Now:             clock.Now,
		Entropy:         bytes.NewReader(bytes.Repeat([]byte{0x5A}, 1<<16)),
		Logger:          logger,
	})
	return &fixture{svc: svc, engine: engine, backend: backend}
}

// withGenesis seeds admin as authority holding supply tokens.
func (f *fixture) withGenesis(t *testing.T, supply uint64) *fixture {
	t.Helper()
	g := DefaultGenesis(admin)
	g.InitialSupply = domain.NewAmount(supply)
	if _, err := f.svc.Initialize(context.Background(), g); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return f
}

func (f *fixture) state() *domain.LedgerState {
	return f.engine.Load(context.Background())
}

func (f *fixture) balance(id account.ID) domain.Amount {
	return f.svc.BalanceOf(context.Background(), id)
}

// assertConsistent checks the aggregate invariants.
func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	if err := f.state().Verify(); err != nil {
		t.Errorf("state invariants violated: %v", err)
	}
}

func amt(v uint64) domain.Amount { return domain.NewAmount(v) }
