package moveset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/comalice/combograph"
)

// Entry is one built move set. Entries are immutable once published.
type Entry struct {
	Set   *MoveSet
	Graph *combograph.MoveGraph
	Path  string
	// Generation counts how many times this name has been published.
	Generation uint64
}

// Handle is a stable reference to a named move set. Readers call Graph every
// tick and pick up replacements without locking.
type Handle struct {
	name  string
	entry atomic.Pointer[Entry]
}

func (h *Handle) Name() string { return h.name }

// Entry returns the current entry, or nil if nothing was published yet.
func (h *Handle) Entry() *Entry { return h.entry.Load() }

// Graph returns the current graph. Nil means "not loaded", which the engine
// treats as an empty graph.
func (h *Handle) Graph() *combograph.MoveGraph {
	if e := h.entry.Load(); e != nil {
		return e.Graph
	}
	return nil
}

// Library maps move set names to handles. Publishing a new graph under an
// existing name swaps it atomically for every holder of the handle.
type Library struct {
	mu      sync.Mutex
	handles map[string]*Handle
	byPath  map[string]string
}

func NewLibrary() *Library {
	return &Library{
		handles: make(map[string]*Handle),
		byPath:  make(map[string]string),
	}
}

// Handle returns the handle for name, creating an empty one if needed so
// actors can bind before the move set is loaded.
func (l *Library) Handle(name string) *Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handleLocked(name)
}

func (l *Library) handleLocked(name string) *Handle {
	h, ok := l.handles[name]
	if !ok {
		h = &Handle{name: name}
		l.handles[name] = h
	}
	return h
}

// Publish builds ms and swaps it in under ms.Name. On error the previous
// graph stays in place.
func (l *Library) Publish(ms *MoveSet, path string) (*Entry, error) {
	g, err := ms.Build()
	if err != nil {
		return nil, fmt.Errorf("move set %q: %w", ms.Name, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	h := l.handleLocked(ms.Name)
	var gen uint64 = 1
	if prev := h.entry.Load(); prev != nil {
		gen = prev.Generation + 1
	}
	e := &Entry{Set: ms, Graph: g, Path: path, Generation: gen}
	h.entry.Store(e)
	if path != "" {
		l.byPath[path] = ms.Name
	}
	return e, nil
}

// LoadFile loads, builds and publishes one file.
func (l *Library) LoadFile(path string) (*Entry, error) {
	ms, err := Load(path)
	if err != nil {
		return nil, err
	}
	return l.Publish(ms, path)
}

// LoadDir publishes every .yaml/.yml file in dir. It stops at the first error.
func (l *Library) LoadDir(dir string) ([]*Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var entries []*Entry
	for _, f := range files {
		if f.IsDir() || !isMoveSetFile(f.Name()) {
			continue
		}
		e, err := l.LoadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// NameForPath returns the move set last published from path.
func (l *Library) NameForPath(path string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name, ok := l.byPath[path]
	return name, ok
}

// Names lists loaded move sets in sorted order.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.handles))
	for name, h := range l.handles {
		if h.entry.Load() != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func isMoveSetFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
