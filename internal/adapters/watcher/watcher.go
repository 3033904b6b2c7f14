// Package watcher reports file system changes below a directory tree.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// DefaultIgnore lists directories never watched, as doublestar patterns
// relative to the watched root.
var DefaultIgnore = []string{
	"**/.git",
	"**/.jj",
	"**/node_modules",
}

const eventBuffer = 128

// Watcher implements ports.Watcher with fsnotify. Every directory below the
// root is watched, including ones created later, except those matching an
// ignore pattern.
type Watcher struct {
	logger ports.Logger
	ignore []string

	once   sync.Once
	fsw    *fsnotify.Watcher
	root   string
	events chan ports.WatchEvent
}

// NewWatcher creates a Watcher skipping DefaultIgnore and the extra patterns.
func NewWatcher(logger ports.Logger, ignore ...string) (*Watcher, error) {
	patterns := append(slices.Clone(DefaultIgnore), ignore...)
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, domain.Annotate(domain.ErrInvalidPattern, "pattern", p)
		}
	}

	return &Watcher{
		logger: logger,
		ignore: patterns,
		events: make(chan ports.WatchEvent, eventBuffer),
	}, nil
}

// Start begins watching root. Events stop when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return domain.Because(domain.ErrWatchFailed, err, "root", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		_ = fsw.Close()
		return domain.Because(domain.ErrWatchFailed, err, "root", root)
	}
	w.fsw = fsw
	w.root = abs

	for dir := range w.dirs(abs) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return domain.Because(domain.ErrWatchFailed, err, "root", root, "dir", dir)
		}
	}

	go w.loop(ctx)
	return nil
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	if err != nil {
		return zerr.Wrap(err, "failed to close file watcher")
	}
	return nil
}

// Events yields events until the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

// Ignored reports whether path, absolute or relative to the root, is excluded.
func (w *Watcher) Ignored(path string) bool {
	rel := path
	if filepath.IsAbs(path) && w.root != "" {
		r, err := filepath.Rel(w.root, path)
		if err != nil {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return false
	}

	for _, p := range w.ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) dirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if w.Ignored(path) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.Ignored(ev.Name) {
				continue
			}
			op, ok := convert(ev.Op)
			if !ok {
				continue
			}

			select {
			case w.events <- ports.WatchEvent{Path: ev.Name, Operation: op}:
			case <-ctx.Done():
				return
			}

			if op == ports.OpCreate {
				w.addTree(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher: " + err.Error())
		}
	}
}

// addTree watches a newly created directory and everything below it.
func (w *Watcher) addTree(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	for dir := range w.dirs(path) {
		_ = w.fsw.Add(dir)
	}
}

func convert(op fsnotify.Op) (ports.WatchOp, bool) {
	switch {
	case op.Has(fsnotify.Write):
		return ports.OpWrite, true
	case op.Has(fsnotify.Create):
		return ports.OpCreate, true
	case op.Has(fsnotify.Remove):
		return ports.OpRemove, true
	case op.Has(fsnotify.Rename):
		return ports.OpRename, true
	default:
		return 0, false
	}
}
