package moveset

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/comalice/combograph/internal/logging"
)

// Reload reports one hot-reload attempt. On failure Err is set and the
// library still serves the previous graph.
type Reload struct {
	Path  string
	Name  string
	Entry *Entry
	Err   error
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is reloaded.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the logger used for reload results.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) { w.logger = logging.OrNop(l) }
}

// Watcher reloads move set files into a Library when they change on disk.
type Watcher struct {
	lib      *Library
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	// Reloads receives every reload attempt. Sends never block; results are
	// dropped when nobody reads.
	Reloads chan Reload

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs and publishes changed files into lib.
func NewWatcher(lib *Library, dirs []string, opts ...WatchOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		lib:      lib,
		watcher:  fw,
		logger:   logging.NewNop(),
		debounce: 100 * time.Millisecond,
		Reloads:  make(chan Reload, 16),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce < time.Millisecond {
		w.debounce = time.Millisecond
	}
	go w.run()
	return w, nil
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Reloads)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	// Editors write files in several steps; reload once the file is quiet.
	pending := make(map[string]time.Time)
	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && isMoveSetFile(event.Name) {
					w.logger.Warn("move set file removed; keeping last graph", "path", event.Name)
				}
				continue
			}
			if !isMoveSetFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now().Add(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		case now := <-tick.C:
			for path, due := range pending {
				if now.Before(due) {
					continue
				}
				delete(pending, path)
				w.reload(path)
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload(path string) {
	r := Reload{Path: path}
	r.Entry, r.Err = w.lib.LoadFile(path)
	if r.Err != nil {
		r.Name, _ = w.lib.NameForPath(path)
		w.logger.Error("move set reload failed", "path", path, "error", r.Err)
	} else {
		r.Name = r.Entry.Set.Name
		w.logger.Info("move set reloaded",
			"name", r.Name,
			"path", path,
			"generation", r.Entry.Generation,
			"nodes", r.Entry.Graph.NodeCount(),
			"edges", r.Entry.Graph.EdgeCount(),
		)
	}

	select {
	case w.Reloads <- r:
	default:
	}
}
