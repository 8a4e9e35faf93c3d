package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

func newTestWatcher(t *testing.T, root string, debounce time.Duration) *Watcher {
	t.Helper()
	cfg := &config.CorpusConfig{Root: root, Include: "**/*.json", Exclude: []string{"**/example.json"}}
	w, err := New(cfg, debounce, logger.NewNop())
	require.NoError(t, err)
	return w
}

func TestNewDefaultsDebounce(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), 0)
	defer w.fsw.Close()
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestDocumentID(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, time.Second)
	defer w.fsw.Close()

	tests := []struct {
		path string
		id   string
		ok   bool
	}{
		{filepath.Join(root, "career", "companies.json"), "career/companies.json", true},
		{filepath.Join(root, "profile.json"), "profile.json", true},
		{filepath.Join(root, "example.json"), "", false},
		{filepath.Join(root, "brand", "example.json"), "", false},
		{filepath.Join(root, "notes.md"), "", false},
		{root, "", false},
		{filepath.Join(filepath.Dir(root), "outside.json"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			id, ok := w.documentID(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestHandleAndFlush(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, time.Second)
	defer w.fsw.Close()

	assert.True(t, w.handle(fsnotify.Event{Name: filepath.Join(root, "z.json"), Op: fsnotify.Write}))
	assert.True(t, w.handle(fsnotify.Event{Name: filepath.Join(root, "a.json"), Op: fsnotify.Remove}))
	assert.True(t, w.handle(fsnotify.Event{Name: filepath.Join(root, "z.json"), Op: fsnotify.Write}))
	assert.False(t, w.handle(fsnotify.Event{Name: filepath.Join(root, "a.json"), Op: fsnotify.Chmod}))
	assert.False(t, w.handle(fsnotify.Event{Name: filepath.Join(root, "example.json"), Op: fsnotify.Write}))

	assert.Equal(t, []string{"a.json", "z.json"}, w.flush())
	assert.Nil(t, w.flush())
}

type changeLog struct {
	mu    sync.Mutex
	calls [][]string
	seen  map[string]bool
}

func (c *changeLog) record(_ context.Context, changed []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, changed)
	for _, id := range changed {
		c.seen[id] = true
	}
}

func (c *changeLog) has(ids ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if !c.seen[id] {
			return false
		}
	}
	return true
}

func startWatcher(t *testing.T, w *Watcher, log *changeLog) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	ready := make(chan struct{})
	w.ready = func() { close(ready) }

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, log.record) }()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher did not start")
	}

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestRunReportsDebouncedChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "career"), 0o755))

	w := newTestWatcher(t, root, 100*time.Millisecond)
	log := &changeLog{seen: make(map[string]bool)}
	startWatcher(t, w, log)

	require.NoError(t, os.WriteFile(filepath.Join(root, "career", "companies.json"), []byte(`[]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "profile.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "career", "example.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte(`x`), 0o644))

	assert.Eventually(t, func() bool {
		return log.has("career/companies.json", "profile.json")
	}, 5*time.Second, 20*time.Millisecond)

	assert.False(t, log.has("career/example.json"))
	assert.False(t, log.has("notes.txt"))
}

func TestRunWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w := newTestWatcher(t, root, 50*time.Millisecond)
	log := &changeLog{seen: make(map[string]bool)}
	startWatcher(t, w, log)

	dir := filepath.Join(root, "strategy")
	require.NoError(t, os.Mkdir(dir, 0o755))

	// the directory watch is added asynchronously; rewrite until seen
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "job-search.json"), []byte(`{"a":1}`), 0o644)
		return log.has("strategy/job-search.json")
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRunMissingRoot(t *testing.T) {
	w := newTestWatcher(t, filepath.Join(t.TempDir(), "missing"), time.Second)
	err := w.Run(context.Background(), func(context.Context, []string) {})
	assert.Error(t, err)
}
