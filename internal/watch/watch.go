// Package watch reports settled changes under a directory tree.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 750 * time.Millisecond

var ErrClosed = errors.New("watcher already closed")

// ChangeFunc receives the sorted set of paths that changed since the last
// call. Returning an error stops Run.
type ChangeFunc func(ctx context.Context, paths []string) error

type Options struct {
	Debounce time.Duration
	// Ignore drops events for matching paths.
	Ignore func(path string) bool
	Logger *log.Logger
}

// Watcher watches a directory and all of its sub-directories.
type Watcher struct {
	root   string
	opts   Options
	fs     *fsnotify.Watcher
	closed atomic.Bool
}

func New(root string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: root, opts: opts, fs: fsWatch}
	if err := w.addRecursive(root); err != nil {
		fsWatch.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is done, the callback fails or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	if w.closed.Load() {
		return ErrClosed
	}

	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if e.Op == fsnotify.Chmod || (w.opts.Ignore != nil && w.opts.Ignore(e.Name)) {
				continue
			}
			if e.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(e.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(e.Name); err != nil {
						w.opts.Logger.Warn("watch directory", "path", e.Name, "err", err)
					}
				}
			}
			w.opts.Logger.Debug("change", "op", e.Op.String(), "path", e.Name)
			pending[e.Name] = struct{}{}
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.opts.Logger.Error("watch", "err", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			if err := onChange(ctx, paths); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return w.fs.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p != root {
				w.opts.Logger.Warn("walk", "path", p, "err", err)
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.fs.Add(p)
	})
}
