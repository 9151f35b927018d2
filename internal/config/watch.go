package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vmunix/regrabarr/internal/arr"
)

const reloadDebounce = 200 * time.Millisecond

// Watcher keeps the latest valid configuration for a file and reloads it when
// the file changes. An invalid edit is logged and the previous config kept.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	log      *slog.Logger
	onChange func(*Config)

	mu       sync.RWMutex
	current  *Config
	debounce *time.Timer
	done     chan struct{}
	stopped  chan struct{}
}

// NewWatcher loads path and starts watching it. onChange may be nil.
func NewWatcher(path string, logger *slog.Logger, onChange func(*Config)) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are noticed.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		path:     path,
		watcher:  fsw,
		log:      logger.With("component", "config"),
		onChange: onChange,
		current:  cfg,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Current returns the latest valid configuration.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// MovieDefaults returns a source that follows reloads of the radarr section.
func (w *Watcher) MovieDefaults() arr.DefaultsSource { return movieSource{w} }

// SeriesDefaults returns a source that follows reloads of the sonarr section.
func (w *Watcher) SeriesDefaults() arr.DefaultsSource { return seriesSource{w} }

func (w *Watcher) run() {
	defer close(w.stopped)
	target := filepath.Clean(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watch error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Error("config reload failed, keeping previous config", "path", w.path, "error", err)
		return
	}

	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()

	w.log.Info("config reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Stop closes the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.watcher.Close()
	<-w.stopped

	w.mu.Lock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()
	return err
}
