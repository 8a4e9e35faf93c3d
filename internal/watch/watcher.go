// Package watch re-runs an action whenever documents under the corpus root change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

// DefaultDebounce is used when no positive debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

// ChangeFunc is called with the sorted, slash-separated ids of the documents
// that changed since the previous call.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher watches the corpus root recursively and debounces changes.
type Watcher struct {
	root     string
	include  string
	exclude  []string
	debounce time.Duration
	logger   *logger.Logger
	fsw      *fsnotify.Watcher
	pending  map[string]fsnotify.Op
	ready    func() // called once the initial watches are in place
}

// New creates a watcher for the corpus described by cfg.
func New(cfg *config.CorpusConfig, debounce time.Duration, log *logger.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.NewDefault()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		root:     cfg.Root,
		include:  cfg.Include,
		exclude:  cfg.Exclude,
		debounce: debounce,
		logger:   log,
		fsw:      fsw,
		pending:  make(map[string]fsnotify.Op),
	}, nil
}

// Run watches until ctx is cancelled. onChange runs on the calling
// goroutine, so two calls never overlap; events arriving meanwhile are
// collected for the next call.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.fsw.Close()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	w.logger.Infow("Watching corpus",
		"root", w.root,
		"debounce", w.debounce,
	)
	if w.ready != nil {
		w.ready()
	}

	// Stop and Reset discard stale ticks, so the timer needs no draining.
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Errorw("Watcher error", "error", err)

		case <-timer.C:
			changed := w.flush()
			if len(changed) > 0 {
				w.logger.Debugw("Corpus changed", "documents", changed)
				onChange(ctx, changed)
			}
		}
	}
}

// handle records a relevant event and reports whether it should (re)arm
// the debounce timer.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warnw("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return false
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	id, ok := w.documentID(event.Name)
	if !ok {
		return false
	}
	w.pending[id] |= event.Op
	return true
}

// documentID maps an absolute path to a document id when the path matches
// the include pattern and no exclude pattern.
func (w *Watcher) documentID(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	id := filepath.ToSlash(rel)

	if match, err := doublestar.Match(w.include, id); err != nil || !match {
		return "", false
	}
	for _, pattern := range w.exclude {
		if match, _ := doublestar.Match(pattern, id); match {
			return "", false
		}
	}
	return id, true
}

func (w *Watcher) flush() []string {
	if len(w.pending) == 0 {
		return nil
	}
	changed := make([]string, 0, len(w.pending))
	for id := range w.pending {
		changed = append(changed, id)
	}
	sort.Strings(changed)
	w.pending = make(map[string]fsnotify.Op)
	return changed
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		base := d.Name()
		if path != root && strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.logger.Debugw("Watching directory", "path", path)
		return nil
	})
}
