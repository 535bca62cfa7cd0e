package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/symc/pkg/config"
	"mercator-hq/symc/pkg/telemetry/logging"
)

// ErrNotRunning is returned by Ping when the watcher is not running.
var ErrNotRunning = errors.New("watcher is not running")

// Config contains configuration for a Watcher.
type Config struct {
	// Paths are files or directories to watch.
	Paths []string

	// Debounce is the quiet period before the handler runs.
	// Default: 200ms
	Debounce time.Duration

	// Extensions filters files found under watched directories.
	// Explicitly listed files are always watched. Empty matches all files.
	Extensions []string

	// SkipHidden ignores dot files and dot directories.
	SkipHidden bool
}

// ConfigFrom builds a watcher Config from the application configuration.
func ConfigFrom(cfg *config.WatchConfig, paths ...string) *Config {
	return &Config{
		Paths:      paths,
		Debounce:   cfg.Debounce,
		Extensions: cfg.Extensions,
		SkipHidden: true,
	}
}

// Handler is called with the sorted, de-duplicated paths that changed.
type Handler func(ctx context.Context, changed []string) error

// Watcher watches files for changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *logging.Logger
	config  *Config

	// files are explicitly watched files (absolute, cleaned).
	files map[string]bool
	// dirs are watched directory roots (absolute, cleaned).
	dirs []string

	mu      sync.RWMutex
	running bool
	closed  bool
}

// New creates a watcher and registers every configured path.
func New(cfg *Config, logger *logging.Logger) (*Watcher, error) {
	if cfg == nil || len(cfg.Paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if logger == nil {
		logger = logging.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher: fsw,
		logger:  logger.Component("watch"),
		config:  cfg,
		files:   make(map[string]bool),
	}

	for _, path := range cfg.Paths {
		if err := w.addPath(path); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", path, err)
		}
	}

	return w, nil
}

// Run processes events until ctx is cancelled or the watcher is closed,
// calling handler after each burst of changes. Handler errors are logged
// and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("watcher already running")
	}
	if w.closed {
		w.mu.Unlock()
		return errors.New("watcher is closed")
	}
	w.running = true
	w.mu.Unlock()

	debounce := NewDebouncer(w.config.Debounce, func(changed []string) {
		w.logger.InfoContext(ctx, "files changed", "paths", changed)
		if err := handler(ctx, changed); err != nil {
			w.logger.ErrorContext(ctx, "change handler failed", "error", err)
		}
	})

	defer func() {
		debounce.Stop()
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	w.logger.InfoContext(ctx, "file watcher started",
		"paths", w.config.Paths,
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "file watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			// New subdirectories under a watched root are picked up.
			if event.Has(fsnotify.Create) && w.underDir(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectory(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}

			if !w.shouldProcess(event) {
				continue
			}

			w.logger.Debug("file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)
			debounce.Add(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Ping reports whether the watcher is running. It serves as a health check.
func (w *Watcher) Ping(ctx context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.running {
		return ErrNotRunning
	}
	return nil
}

// Close stops the watcher. A running Run returns nil.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Files returns the explicitly watched files, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for file := range w.files {
		files = append(files, file)
	}
	slices.Sort(files)
	return files
}

func (w *Watcher) addPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if info.IsDir() {
		w.dirs = append(w.dirs, abs)
		return w.addDirectory(abs)
	}

	// Watch the parent so renames over the file are seen.
	w.files[abs] = true
	return w.watcher.Add(filepath.Dir(abs))
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (w *Watcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.config.SkipHidden && path != dir && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", path)
		return nil
	})
}

func (w *Watcher) underDir(path string) bool {
	for _, dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldProcess reports whether event concerns a watched file.
func (w *Watcher) shouldProcess(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	if w.files[filepath.Clean(event.Name)] {
		return true
	}
	if !w.underDir(event.Name) {
		return false
	}
	if w.config.SkipHidden && isHidden(event.Name) {
		return false
	}
	return w.hasValidExtension(event.Name)
}

func (w *Watcher) hasValidExtension(path string) bool {
	if len(w.config.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, valid := range w.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
