package project

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/basinlabs/basin/internal/config"
)

// debounceDelay batches bursts of filesystem events into one rebuild.
const debounceDelay = 300 * time.Millisecond

// Watcher rebuilds the manifest when project files change and swaps the
// result into the registry. A failed rebuild keeps the previous snapshot.
type Watcher struct {
	cfg     *config.Project
	reg     *Registry
	logger  *slog.Logger
	watcher *fsnotify.Watcher
}

// NewWatcher watches the project's configured directories, recursively.
func NewWatcher(cfg *config.Project, reg *Registry, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, reg: reg, logger: logger, watcher: fw}
	for _, dir := range cfg.Dirs() {
		if err := w.watchTree(dir); err != nil {
			w.logger.Warn("cannot watch directory", "dir", dir, "error", err)
		}
	}
	return w, nil
}

// watchTree registers dir and every non-hidden subdirectory.
func (w *Watcher) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Run processes events until ctx is done. Call in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			// New subdirectories need their own watch.
			if event.Op&fsnotify.Create != 0 {
				_ = w.watchTree(event.Name)
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, w.rebuild)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// rebuild loads a fresh manifest and publishes it. The previous snapshot
// stays current when the load fails.
func (w *Watcher) rebuild() {
	m, err := Load(w.cfg, w.logger)
	if err != nil {
		w.logger.Error("project rebuild failed, keeping previous manifest", "error", err)
		return
	}
	w.reg.Swap(m)
}

// Close stops delivering events.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant reports whether a change to path can affect the manifest.
func relevant(path string) bool {
	switch filepath.Ext(path) {
	case ".sql", ".csv", ".jinja", ".yml", ".yaml", "":
		return true
	}
	return false
}
