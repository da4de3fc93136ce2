package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func startWatcher(t *testing.T, paths []string) *recorder {
	t.Helper()
	w, err := New(paths, Options{Debounce: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	rec := &recorder{}
	go func() { done <- w.Run(ctx, rec.handle) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, w.Close())
	})
	return rec
}

func TestWatchCoalescesWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	t.Run("edits", func(t *testing.T) {
		rec := startWatcher(t, []string{path})

		for _, content := range []string{"b", "bc", "bcd"} {
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		}

		require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
		time.Sleep(200 * time.Millisecond)
		assert.Equal(t, []string{path}, rec.snapshot())
	})
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	t.Run("edits", func(t *testing.T) {
		rec := startWatcher(t, []string{path})

		require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
		time.Sleep(200 * time.Millisecond)
		assert.Empty(t, rec.snapshot())

		require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))
		require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	})
}

func TestWatchAtomicReplace(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	t.Run("edits", func(t *testing.T) {
		rec := startWatcher(t, []string{path})

		tmp := filepath.Join(dir, ".config.yaml.swp")
		require.NoError(t, os.WriteFile(tmp, []byte("b"), 0o644))
		require.NoError(t, os.Rename(tmp, path))

		require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
		assert.Equal(t, path, rec.snapshot()[0])
	})
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "no", "config.yaml")}, Options{})
	require.Error(t, err)
}
