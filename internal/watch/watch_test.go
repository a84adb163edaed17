package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(_ context.Context, paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
	return nil
}

func (r *recorder) seen(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, call := range r.calls {
		for _, p := range call {
			if filepath.Base(p) == name {
				return true
			}
		}
	}
	return false
}

func start(t *testing.T, root string, opts Options, fn ChangeFunc) {
	t.Helper()
	opts.Debounce = 50 * time.Millisecond
	opts.Logger = log.New(os.Stderr)
	w, err := New(root, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, fn) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
		require.NoError(t, w.Close())
	})
}

func TestWatcherReportsFileChanges(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	start(t, root, Options{}, rec.record)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.png"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return rec.seen("a.png") }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	start(t, root, Options{}, rec.record)

	sub := filepath.Join(root, "mod", "graphics")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// give the watcher time to register the new directories
	require.Eventually(t, func() bool { return rec.seen("mod") }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "ship.png"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return rec.seen("ship.png") }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresMatchingPaths(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	ignore := func(p string) bool { return strings.HasSuffix(p, ".txt") }
	start(t, root, Options{Ignore: ignore}, rec.record)

	require.NoError(t, os.WriteFile(filepath.Join(root, "out.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.png"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return rec.seen("b.png") }, 2*time.Second, 10*time.Millisecond)
	require.False(t, rec.seen("out.txt"))
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	rec := &recorder{}
	start(t, root, Options{}, rec.record)

	for _, name := range []string{"1.png", "2.png", "3.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}
	require.Eventually(t, func() bool { return rec.seen("3.png") }, 2*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.calls, 1)
	require.Equal(t, []string{
		filepath.Join(root, "1.png"),
		filepath.Join(root, "2.png"),
		filepath.Join(root, "3.png"),
	}, rec.calls[0])
}

func TestCloseTwice(t *testing.T) {
	w, err := New(t.TempDir(), Options{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Close(), ErrClosed)
	require.ErrorIs(t, w.Run(context.Background(), nil), ErrClosed)
}
