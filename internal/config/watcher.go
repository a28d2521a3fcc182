package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 100 * time.Millisecond

// ReloadFunc receives the freshly loaded config, or the error that
// prevented loading it.
type ReloadFunc func(cfg *Config, err error)

// Watcher watches the config file and reloads it on change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	filePath string
	onReload ReloadFunc

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewWatcher creates a watcher for the config file at path.
func NewWatcher(path string, onReload ReloadFunc, logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		path = ConfigPath()
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  watcher,
		logger:   logger,
		filePath: path,
		onReload: onReload,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.filePath
}

// Start begins watching. The config directory must exist.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory containing the file (more reliable for
	// editors that replace the file on save)
	if err := w.watcher.Add(filepath.Dir(w.filePath)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	go w.watch()
	w.logger.Debug("config watcher started", "path", w.filePath)
	return nil
}

func (w *Watcher) watch() {
	defer close(w.stopped)
	filename := filepath.Base(w.filePath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDelay, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if !running {
		return
	}

	cfg, err := LoadConfig(w.filePath)
	if err != nil {
		w.logger.Warn("failed to reload config", "path", w.filePath, "error", err)
	} else {
		w.logger.Info("config reloaded", "path", w.filePath)
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	<-w.stopped
	return err
}
