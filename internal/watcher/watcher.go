// Package watcher implements the recursive filesystem watcher: a
// single fsnotify.Watcher shared across workspace roots, plus a
// dispatcher that maps raw fsnotify events to the interested Watch
// registrations, generalized from a single suffix filter to a
// filter/predicate/ignore-list model.
package watcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ignoredDirs is the hard-coded ignore list preventing noisy
// build-output directories from being watched.
var ignoredDirs = map[string]bool{
	"target":       true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// FilterKind selects how a Watch decides whether an event path is of
// interest.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterGlob
	FilterPredicate
)

// Filter narrows events to the ones a Watch cares about.
type Filter struct {
	Kind      FilterKind
	Glob      string
	Predicate func(path string) bool
}

func (f Filter) match(path string) bool {
	switch f.Kind {
	case FilterNone:
		return true
	case FilterGlob:
		ok, err := filepath.Match(f.Glob, filepath.Base(path))
		return err == nil && ok
	case FilterPredicate:
		return f.Predicate != nil && f.Predicate(path)
	default:
		return false
	}
}

// Event is a filtered, dispatched filesystem change.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watch is one registration against a workspace root.
type Watch struct {
	Root     string
	Filter   Filter
	Callback func(Event)
}

// Dispatcher owns one fsnotify.Watcher covering every registered
// workspace root and fans raw events out to matching Watches.
type Dispatcher struct {
	fsWatcher *fsnotify.Watcher
	watches   map[string][]*Watch // root -> watches
	dirs      map[string]bool     // tracked directories, for add/remove on rename
	done      chan struct{}
	errFn     func(error)
}

// NewDispatcher creates a dispatcher with its own fsnotify.Watcher.
func NewDispatcher() (*Dispatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		fsWatcher: fw,
		watches:   map[string][]*Watch{},
		dirs:      map[string]bool{},
		done:      make(chan struct{}),
	}, nil
}

// OnError registers a callback for watcher errors (e.g. surfaced to the
// status line). Optional; errors are otherwise dropped.
func (d *Dispatcher) OnError(fn func(error)) { d.errFn = fn }

// AddWatch registers w, recursively watching w.Root if not already
// covered by an existing watch.
func (d *Dispatcher) AddWatch(w *Watch) error {
	d.watches[w.Root] = append(d.watches[w.Root], w)
	return d.watchRecursive(w.Root)
}

func (d *Dispatcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if entry.Name() != "." && ignoredDirs[entry.Name()] {
			return filepath.SkipDir
		}
		if d.dirs[path] {
			return nil
		}
		if addErr := d.fsWatcher.Add(path); addErr == nil {
			d.dirs[path] = true
		}
		return nil
	})
}

// Run drains fsnotify events until Stop is called, dispatching each one
// to the Watches registered on the longest root containing the event
// path whose filter matches.
func (d *Dispatcher) Run() {
	for {
		select {
		case ev, ok := <-d.fsWatcher.Events:
			if !ok {
				return
			}
			d.handleEvent(ev)
		case err, ok := <-d.fsWatcher.Errors:
			if !ok {
				return
			}
			if d.errFn != nil {
				d.errFn(err)
			}
		case <-d.done:
			d.drain()
			return
		}
	}
}

// drain flushes any events queued before shutdown so callbacks still
// observe them.
func (d *Dispatcher) drain() {
	for {
		select {
		case ev, ok := <-d.fsWatcher.Events:
			if !ok {
				return
			}
			d.handleEvent(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) handleEvent(ev fsnotify.Event) {
	d.reconcileDirs(ev)

	root := d.rootContaining(ev.Name)
	if root == "" {
		return
	}
	for _, w := range d.watches[root] {
		if w.Filter.match(ev.Name) {
			w.Callback(Event{Path: ev.Name, Op: ev.Op})
		}
	}
}

// reconcileDirs keeps the watched directory set in sync when
// directories are created, removed, or renamed within a watched root.
func (d *Dispatcher) reconcileDirs(ev fsnotify.Event) {
	info, err := os.Stat(ev.Name)
	isDir := err == nil && info.IsDir()

	switch {
	case ev.Op&fsnotify.Create != 0 && isDir:
		if !ignoredDirs[filepath.Base(ev.Name)] {
			// recurse: a created tree (e.g. an unpacked archive) arrives
			// as one Create for its top directory
			_ = d.watchRecursive(ev.Name)
		}
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if d.dirs[ev.Name] {
			_ = d.fsWatcher.Remove(ev.Name)
			delete(d.dirs, ev.Name)
		}
	}
}

// rootContaining returns the longest registered root that is a prefix
// of path, or "" if none matches.
func (d *Dispatcher) rootContaining(path string) string {
	best := ""
	for root := range d.watches {
		if strings.HasPrefix(path, root) && len(root) > len(best) {
			best = root
		}
	}
	return best
}

// Stop signals Run to drain and return, then closes the underlying
// fsnotify.Watcher.
func (d *Dispatcher) Stop() {
	close(d.done)
	_ = d.fsWatcher.Close()
}
