package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses bursts of events (editors often write twice).
const watchDebounce = 100 * time.Millisecond

// Watch checks the stub files under paths, then re-checks them after every
// batch of changes. onReport is called with each report. Watch returns nil
// once ctx is done.
func (e *Engine) Watch(ctx context.Context, paths []string, onReport func(*Report)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	explicit := make(map[string]bool)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if info.IsDir() {
			if err := watchDir(watcher, p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
			continue
		}
		// Editors replace files on save, so watch the parent directory.
		explicit[filepath.Clean(p)] = true
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	recheck := func() error {
		files, err := Discover(paths)
		if err != nil {
			e.logger.Warn("discovery failed", "error", err)
			return nil
		}
		report, err := e.Check(ctx, files)
		if err != nil {
			return err
		}
		onReport(report)
		return nil
	}

	if err := recheck(); err != nil {
		return ignoreCanceled(ctx, err)
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDir(watcher, event.Name); err != nil {
						e.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !strings.HasSuffix(event.Name, StubExt) && !explicit[filepath.Clean(event.Name)] {
				continue
			}
			e.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				e.forget(ctx, event.Name)
			}
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			if err := recheck(); err != nil {
				return ignoreCanceled(ctx, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watcher error", "error", err)
		}
	}
}

// forget drops the cached results of a stub file that no longer exists.
func (e *Engine) forget(ctx context.Context, path string) {
	if e.store == nil {
		return
	}
	if _, err := os.Stat(path); err == nil {
		return
	}
	path = filepath.Clean(path)
	if err := e.store.DeleteResults(ctx, path); err != nil {
		e.logger.Warn("failed to drop cached results", "path", path, "error", err)
		return
	}
	e.logger.Debug("dropped cached results", "path", path)
}

func watchDir(watcher *fsnotify.Watcher, dir string) error {
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
		return watcher.Add(path)
	})
}

func ignoreCanceled(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}
