// Package watch reports changes to zodgen input documents.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/zodgen/compiler/load"
)

// DefaultDebounce is the quiet period after the last change before the
// change callback runs.
const DefaultDebounce = 200 * time.Millisecond

// OnChange receives the sorted paths changed since the previous call.
type OnChange func(ctx context.Context, changed []string)

// Watcher watches input files and directory trees. Changes are batched
// until no event arrived for the debounce period. The callback runs on the
// goroutine calling Run, so calls never overlap.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool // inputs named explicitly
	trees    map[string]bool // directories watched for any input document
	debounce time.Duration
	logger   *slog.Logger
	onChange OnChange
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New watches paths, files or directories, and calls onChange from Run.
// Directories are watched recursively; hidden directories are skipped.
func New(paths []string, onChange OnChange, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		files:    make(map[string]bool),
		trees:    make(map[string]bool),
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	for _, p := range paths {
		if err := w.add(filepath.Clean(p)); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.files[path] = true
		if err := w.fs.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	}
	return w.addTree(path)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.trees[path] = true
		return nil
	})
}

// Watched returns the watched directories.
func (w *Watcher) Watched() []string {
	return w.fs.WatchList()
}

// handle reports whether ev changes an input. Directories created inside
// a watched tree are watched too.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	if w.files[name] {
		return true
	}
	if !w.trees[filepath.Dir(name)] {
		return false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") {
				return false
			}
			if err := w.addTree(name); err != nil {
				w.logger.Warn("zodgen: watch directory", "path", name, "error", err)
			}
			return true
		}
	}
	if w.trees[name] {
		delete(w.trees, name)
		return true
	}
	_, ok := load.FormatOf(name)
	return ok
}

// Run delivers changes until ctx is done or the event stream closes, then
// releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.handle(ev) {
				continue
			}
			w.logger.Debug("zodgen: input changed", "path", ev.Name, "op", ev.Op.String())
			pending[filepath.Clean(ev.Name)] = struct{}{}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("zodgen: watch error", "error", err)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			w.onChange(ctx, changed)
		}
	}
}
