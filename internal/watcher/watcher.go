// Package watcher provides file system watching with debouncing for catalog
// and definition files.
package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/settingsdef/internal/log"
)

// Change lists the watched files touched during one debounce window.
type Change struct {
	Paths []string
}

// Watcher monitors a set of files for changes and sends notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	targets   map[string]bool // cleaned absolute paths
	dirs      []string
	debounce  time.Duration
	onChange  chan Change
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Paths are the files to watch. They need not exist yet, but their
	// directories must.
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 100 * time.Millisecond,
	}
}

// New creates a new file watcher.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}

	targets := make(map[string]bool, len(cfg.Paths))
	var dirs []string
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		targets[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		targets:   targets,
		dirs:      dirs,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan Change, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directories containing the target files.
// Returns a channel that receives a Change when any target changes.
func (w *Watcher) Start() (<-chan Change, error) {
	// Watch directories rather than files so atomic rename-into-place
	// replacements are still seen.
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "watching directory", "dir", dir)
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending []string
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			name := filepath.Clean(event.Name)
			if abs, err := filepath.Abs(name); err == nil {
				name = abs
			}
			if !slices.Contains(pending, name) {
				pending = append(pending, name)
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) > 0 {
				change := Change{Paths: pending}
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- change:
					log.Debug(log.CatWatcher, "change detected", "files", len(change.Paths))
				default:
					log.Debug(log.CatWatcher, "change dropped, receiver busy")
				}
				pending = nil
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a reload.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	// Writes in place, or create for files renamed into place.
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.targets[filepath.Clean(abs)]
}
