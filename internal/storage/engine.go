package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/storage/memory"
	"github.com/yndnr/corex-go/internal/storage/snapshot"
	"github.com/yndnr/corex-go/internal/storage/sqlite"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
	"github.com/yndnr/corex-go/pkg/crypto/adaptive"
)

// Subdirectories of Config.DataDir.
const (
	SnapshotDir = "snapshots"
	BadgerDir   = "badger"
	SQLiteDir   = "sqlite"
)

// Config configures the storage engine.
type Config struct {
	// Backend selects the persistence backend: file, badger, sqlite or
	// memory.
	Backend string

	// DataDir is the base directory for all storage files.
	DataDir string

	// Snapshot configures the file backend. Dir defaults to
	// DataDir/snapshots.
	Snapshot snapshot.Config

	// Badger configures the badger backend. Dir defaults to DataDir/badger.
	Badger BadgerConfig

	// SQLite configures the sqlite backend. Dir defaults to DataDir/sqlite.
	SQLite sqlite.Config

	// Cipher is the optional encryption cipher.
	Cipher adaptive.Cipher

	// Logger is the structured logger.
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *metric.Registry
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig(dataDir string) Config {
	return Config{
		Backend:  BackendFile,
		DataDir:  dataDir,
		Snapshot: snapshot.DefaultConfig(filepath.Join(dataDir, SnapshotDir)),
		Badger:   DefaultBadgerConfig(),
		SQLite:   sqlite.DefaultConfig(),
		Logger:   slog.Default(),
	}
}

// Recovery outcomes.
const (
	OutcomeRestored = "restored"
	OutcomeEmpty    = "empty"
	OutcomeFallback = "fallback"
)

// RecoveryInfo describes what Recover found.
type RecoveryInfo struct {
	// Outcome is restored, empty or fallback.
	Outcome string

	// Reason is the decode failure reason of a fallback.
	Reason string

	// Err is the error that caused a fallback.
	Err error

	Backend      string
	Accounts     int
	Transactions int
	Elapsed      time.Duration
}

// Engine is the ledger state store: a cached state in front of a Backend.
type Engine struct {
	cfg     Config
	backend Backend
	codec   *Codec
	logger  *slog.Logger
	metrics *metric.Registry

	cache atomic.Pointer[domain.LedgerState]

	recoverOnce sync.Once
	recovery    *RecoveryInfo

	mu     sync.Mutex // serializes writes
	closed bool
}

// New opens the backend named by cfg.Backend.
func New(cfg Config) (*Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, cfg), nil
}

// NewWithBackend creates an engine over an already opened backend.
func NewWithBackend(backend Backend, cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		cfg:     cfg,
		backend: backend,
		codec:   NewCodec(cfg.Cipher),
		logger:  cfg.Logger.With("component", "storage"),
		metrics: cfg.Metrics,
	}
}

func openBackend(cfg Config) (Backend, error) {
	switch cfg.Backend {
	case BackendFile, "":
		sc := cfg.Snapshot
		if sc.Dir == "" {
			sc.Dir = filepath.Join(cfg.DataDir, SnapshotDir)
		}
		sc.Logger = cfg.Logger
		return snapshot.NewManager(sc)

	case BackendBadger:
		bc := cfg.Badger
		if bc.Dir == "" {
			bc.Dir = filepath.Join(cfg.DataDir, BadgerDir)
		}
		b, err := NewBadgerBackend(bc, cfg.Logger)
		if err != nil {
			return nil, err
		}
		if cfg.Metrics != nil {
			if err := b.RegisterMetrics(cfg.Metrics.Prometheus()); err != nil {
				b.Close()
				return nil, err
			}
		}
		return b, nil

	case BackendSQLite:
		sc := cfg.SQLite
		if sc.Dir == "" {
			sc.Dir = filepath.Join(cfg.DataDir, SQLiteDir)
		}
		return sqlite.Open(context.Background(), sc, cfg.Logger)

	case BackendMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Backend returns the underlying backend.
func (e *Engine) Backend() Backend { return e.backend }

// Recover loads the persisted state into the cache. It never fails: a
// missing blob yields the default state and an unreadable one yields the
// default state with Outcome fallback.
//
// Recover runs once; later calls return the first result.
func (e *Engine) Recover(ctx context.Context) *RecoveryInfo {
	e.recoverOnce.Do(func() {
		e.recovery = e.recover(ctx)
	})
	return e.recovery
}

func (e *Engine) recover(ctx context.Context) *RecoveryInfo {
	start := time.Now()
	info := &RecoveryInfo{Backend: e.backend.Name()}

	e.logger.InfoContext(ctx, "starting state recovery", "backend", info.Backend)

	st, err := e.read(ctx)
	switch {
	case err != nil:
		info.Outcome = OutcomeFallback
		info.Err = err
		info.Reason = ReasonReadError
		var de *DecodeError
		if errors.As(err, &de) {
			info.Reason = de.Reason
		}
		st = domain.NewLedgerState()

		e.metrics.IncLoadFallback(info.Reason)
		e.logger.ErrorContext(ctx, "persisted state unreadable, starting from default state",
			"backend", info.Backend,
			"reason", info.Reason,
			"error", err,
		)

	case st == nil:
		info.Outcome = OutcomeEmpty
		st = domain.NewLedgerState()

	default:
		info.Outcome = OutcomeRestored
		if verr := st.Verify(); verr != nil {
			e.logger.WarnContext(ctx, "restored state violates ledger invariants",
				"backend", info.Backend,
				"error", verr,
			)
		}
	}

	e.cache.Store(st)

	info.Accounts = len(st.Accounts)
	info.Transactions = len(st.Transactions)
	info.Elapsed = time.Since(start)

	e.logger.InfoContext(ctx, "state recovery completed",
		"outcome", info.Outcome,
		"accounts", info.Accounts,
		"transactions", info.Transactions,
		"elapsed", info.Elapsed,
	)
	return info
}

// read returns nil, nil when nothing is stored.
func (e *Engine) read(ctx context.Context) (*domain.LedgerState, error) {
	blob, found, err := e.backend.Read(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return e.codec.Decode(blob)
}

// Load returns the cached state, recovering it on first use. The result
// is shared and must not be modified.
func (e *Engine) Load(ctx context.Context) *domain.LedgerState {
	if st := e.cache.Load(); st != nil {
		return st
	}
	e.Recover(ctx)
	return e.cache.Load()
}

// Save persists st and makes it the cached state. On error neither the
// cache nor the persisted blob changes. Errors wrap domain.ErrStoreFailure.
//
// st must not be modified after Save returns.
func (e *Engine) Save(ctx context.Context, st *domain.LedgerState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrStoreFailure.WithCause(ErrClosed)
	}
	if err := e.write(ctx, st); err != nil {
		return err
	}
	e.cache.Store(st)
	return nil
}

func (e *Engine) write(ctx context.Context, st *domain.LedgerState) error {
	start := time.Now()

	blob, err := e.codec.Encode(st)
	if err == nil {
		err = e.backend.Write(ctx, blob)
	}
	e.metrics.ObserveStoreSave(e.backend.Name(), time.Since(start), err)
	if err != nil {
		return domain.ErrStoreFailure.WithCause(err)
	}
	return nil
}

// Checkpoint re-persists the cached state.
func (e *Engine) Checkpoint(ctx context.Context) error {
	st := e.Load(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrStoreFailure.WithCause(ErrClosed)
	}
	return e.write(ctx, st)
}

// Close closes the backend. The cache stays readable.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.backend.Close(); err != nil {
		return fmt.Errorf("storage: close backend: %w", err)
	}
	e.logger.Info("storage engine closed")
	return nil
}
