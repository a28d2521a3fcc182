package audio

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"sync"
	"time"
)

// DefaultPollInterval is how often sound files are checked for changes.
const DefaultPollInterval = 2 * time.Second

// Watcher polls sound files and calls onChange when one is rewritten.
// Sound files usually live outside any directory worth an inotify watch,
// and there are only ever four of them.
type Watcher struct {
	mu       sync.Mutex
	logger   *slog.Logger
	onChange func(path string)
	paths    map[string]time.Time // path -> last seen modification time
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	running  bool
}

// NewWatcher creates a watcher that reports changed paths to onChange.
func NewWatcher(onChange func(path string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger:   logger,
		onChange: onChange,
		paths:    make(map[string]time.Time),
		interval: DefaultPollInterval,
	}
}

// SetPollInterval changes the interval. It applies from the next Start.
func (w *Watcher) SetPollInterval(interval time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = interval
}

// Watch adds a path, remembering its current modification time.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	var mod time.Time
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths[path] = mod
}

// Reset forgets every watched path.
func (w *Watcher) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths = make(map[string]time.Time)
}

// Paths returns the number of watched paths.
func (w *Watcher) Paths() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Start begins polling until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(ctx, w.interval, w.stop, w.done)
}

// Stop stops polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done
}

func (w *Watcher) loop(ctx context.Context, interval time.Duration, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check calls onChange for every file modified since it was last seen.
func (w *Watcher) check() {
	w.mu.Lock()
	paths := maps.Clone(w.paths)
	w.mu.Unlock()

	for path, last := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.ModTime().After(last) {
			continue
		}

		w.mu.Lock()
		if _, ok := w.paths[path]; ok {
			w.paths[path] = info.ModTime()
		}
		w.mu.Unlock()

		w.logger.Debug("sound file changed", "path", path)
		if w.onChange != nil {
			w.onChange(path)
		}
	}
}
