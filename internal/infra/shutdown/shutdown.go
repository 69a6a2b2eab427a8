package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook releases one resource.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	hooks   []namedHook
	trigger chan struct{}
	once    sync.Once
	done    chan struct{}
}

// NewHandler creates a new shutdown handler.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		logger:  slog.Default(),
		trigger: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// WithLogger sets the logger and returns h.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// OnShutdown registers a hook. Hooks run in reverse order of registration.
func (h *Handler) OnShutdown(name string, hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: hook})
}

// Trigger starts the shutdown without a signal.
func (h *Handler) Trigger() {
	h.once.Do(func() { close(h.trigger) })
}

// Wait blocks until a termination signal, Trigger or cancellation of ctx,
// then runs every hook. It returns the joined hook errors.
func (h *Handler) Wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		h.logger.Info("shutdown signal received", "signal", sig.String())
	case <-h.trigger:
		h.logger.Info("shutdown triggered")
	case <-ctx.Done():
		h.logger.Info("shutdown on context cancellation")
	}

	return h.run()
}

func (h *Handler) run() error {
	defer close(h.done)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]namedHook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		hk := hooks[i]
		start := time.Now()
		if err := hk.fn(ctx); err != nil {
			h.logger.Error("shutdown hook failed", "hook", hk.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", hk.name, err))
			continue
		}
		h.logger.Debug("shutdown hook completed", "hook", hk.name, "elapsed", time.Since(start))
	}
	return errors.Join(errs...)
}

// Done returns a channel that closes when every hook has run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
