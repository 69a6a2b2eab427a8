package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one configuration file for changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu        sync.RWMutex
	callbacks []func(string)

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period before callbacks run.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher watches path. The parent directory is watched so that
// editors replacing the file by rename are noticed.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	w.logger.Debug("watching configuration file", "path", w.path)
	return w, nil
}

// OnChange registers a callback receiving the changed file path.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start processes events in a goroutine until Stop.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("configuration file changed", "path", w.path)
			w.notify()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("configuration watcher error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) notify() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(w.path)
	}
}
