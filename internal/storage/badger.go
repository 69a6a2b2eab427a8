package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// stateKey holds the encoded ledger state.
var stateKey = []byte("corex/ledger/state")

// BadgerBackend stores the ledger blob in an embedded Badger database.
type BadgerBackend struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger

	lastGCTime atomic.Int64
	gcRuns     atomic.Uint64

	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsLastGCTime   prometheus.Gauge
	metricsGCRuns       prometheus.Counter

	closeOnce sync.Once
	closed    atomic.Bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewBadgerBackend opens the Badger database in cfg.Dir.
func NewBadgerBackend(cfg BadgerConfig, logger *slog.Logger) (*BadgerBackend, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "badger")

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.CacheSize > 0 {
		opts.BlockCacheSize = cfg.CacheSize
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	if cfg.NumMemtables > 0 {
		opts.NumMemtables = cfg.NumMemtables
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	b := &BadgerBackend{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	b.newCollectors()

	b.wg.Add(1)
	go b.gcLoop()

	logger.Info("badger backend started",
		"dir", cfg.Dir,
		"sync_writes", cfg.SyncWrites,
		"gc_interval", cfg.GCInterval)

	return b, nil
}

// Name returns the backend name.
func (b *BadgerBackend) Name() string { return BackendBadger }

// Read returns the stored blob.
func (b *BadgerBackend) Read(ctx context.Context) ([]byte, bool, error) {
	if b.closed.Load() {
		return nil, false, ErrClosed
	}

	var blob []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger: read: %w", err)
	}
	return blob, true, nil
}

// Write replaces the stored blob in a single transaction.
func (b *BadgerBackend) Write(ctx context.Context, blob []byte) error {
	if b.closed.Load() {
		return ErrClosed
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, blob)
	})
	if err != nil {
		return fmt.Errorf("badger: write: %w", err)
	}
	return nil
}

// GC rewrites value log files until nothing is left to reclaim. It
// returns the number of files rewritten.
func (b *BadgerBackend) GC(ctx context.Context) (int, error) {
	start := time.Now()

	runs := 0
	for ctx.Err() == nil {
		err := b.db.RunValueLogGC(b.cfg.GCDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			return runs, fmt.Errorf("badger: gc: %w", err)
		}
		runs++
	}

	b.lastGCTime.Store(time.Now().UnixMilli())
	b.gcRuns.Add(uint64(runs))
	b.metricsGCRuns.Add(float64(runs))

	b.logger.Debug("gc completed",
		"files_rewritten", runs,
		"elapsed", time.Since(start))

	return runs, nil
}

// Stats returns storage statistics.
func (b *BadgerBackend) Stats() BadgerStats {
	lsm, vlog := b.db.Size()
	return BadgerStats{
		TotalSize:    uint64(lsm + vlog),
		LSMSize:      uint64(lsm),
		ValueLogSize: uint64(vlog),
		LastGCTime:   b.lastGCTime.Load(),
		GCRuns:       b.gcRuns.Load(),
	}
}

// Close stops background work and closes the database.
func (b *BadgerBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.closed.Store(true)
		close(b.stopCh)
		b.wg.Wait()

		if cerr := b.db.Close(); cerr != nil {
			err = fmt.Errorf("badger: close db: %w", cerr)
			return
		}
		b.logger.Info("badger backend closed")
	})
	return err
}

// RegisterMetrics registers Badger gauges with registry and starts
// refreshing them.
func (b *BadgerBackend) RegisterMetrics(registry *prometheus.Registry) error {
	for _, c := range []prometheus.Collector{
		b.metricsLSMSize,
		b.metricsValueLogSize,
		b.metricsLastGCTime,
		b.metricsGCRuns,
	} {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("badger: register metrics: %w", err)
		}
	}

	b.updateMetrics()
	b.wg.Add(1)
	go b.metricsLoop()
	return nil
}

// newCollectors builds the Badger collectors. They must exist before the
// GC loop starts because GC updates them without locking.
func (b *BadgerBackend) newCollectors() {
	b.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "corex",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})
	b.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "corex",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})
	b.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "corex",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})
	b.metricsGCRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "corex",
		Subsystem: "badger",
		Name:      "gc_files_rewritten_total",
		Help:      "Value log files rewritten by Badger garbage collection",
	})
}

func (b *BadgerBackend) updateMetrics() {
	stats := b.Stats()
	b.metricsLSMSize.Set(float64(stats.LSMSize))
	b.metricsValueLogSize.Set(float64(stats.ValueLogSize))
	if stats.LastGCTime > 0 {
		b.metricsLastGCTime.Set(float64(stats.LastGCTime) / 1000.0)
	}
}

func (b *BadgerBackend) metricsLoop() {
	defer b.wg.Done()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.updateMetrics()
		case <-b.stopCh:
			return
		}
	}
}

// gcLoop runs periodic garbage collection.
func (b *BadgerBackend) gcLoop() {
	defer b.wg.Done()

	interval, err := time.ParseDuration(b.cfg.GCInterval)
	if err != nil || interval <= 0 {
		b.logger.Error("invalid gc_interval, using default 10m", "value", b.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := b.GC(ctx); err != nil {
				b.logger.Error("auto gc failed", "error", err)
			}
			cancel()

		case <-b.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
