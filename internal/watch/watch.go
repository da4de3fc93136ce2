package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before its handler runs.
const DefaultDebounce = 200 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher reports changes to a fixed set of files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]string // cleaned absolute path -> path as given
	debounce time.Duration
	logger   *slog.Logger
}

// New starts watching the directories containing paths.
func New(paths []string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]string, len(paths)),
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls handle with the path as given to New each time a watched file
// settles after a change. Handlers run on the calling goroutine, in path
// order when several files settle together. Run returns nil when ctx is
// done.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			path, watched := w.files[filepath.Clean(event.Name)]
			if !watched || !relevant(event.Op) {
				continue
			}
			w.logger.Debug("config changed", "path", path, "op", event.Op.String())
			pending[path] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			for _, p := range paths {
				handle(p)
			}
		}
	}
}

// relevant ignores chmod-only events and removals; a removed file that is
// recreated reports a create.
func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
