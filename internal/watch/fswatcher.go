package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FSWatcher watches workspace roots recursively and translates filesystem
// notifications into workspace events.
type FSWatcher struct {
	mu sync.Mutex

	// fsWatcher is the underlying file watcher.
	fsWatcher *fsnotify.Watcher

	// roots are the absolute workspace roots being watched.
	roots []string

	// skipDirs are directory names never descended into.
	skipDirs map[string]bool

	// dirs is the set of directories currently registered with fsWatcher.
	dirs map[string]bool

	events chan Event
	errors chan error
	done   chan struct{}
	once   sync.Once
}

// NewFSWatcher creates a watcher over the given roots
func NewFSWatcher(roots []string, skipDirs []string) (*FSWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &FSWatcher{
		fsWatcher: fsWatcher,
		skipDirs:  make(map[string]bool),
		dirs:      make(map[string]bool),
		events:    make(chan Event, 100),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}
	for _, dir := range skipDirs {
		w.skipDirs[dir] = true
	}

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("getting absolute path: %w", err)
		}
		w.roots = append(w.roots, absRoot)

		if err := w.addTree(absRoot); err != nil {
			_ = fsWatcher.Close()
			return nil, err
		}
	}

	go w.run()

	return w, nil
}

// Events implements Source
func (w *FSWatcher) Events() <-chan Event { return w.events }

// Errors implements Source
func (w *FSWatcher) Errors() <-chan error { return w.errors }

// WatchedDirs returns the directories currently being watched
func (w *FSWatcher) WatchedDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		dirs = append(dirs, dir)
	}
	return dirs
}

// Close stops the watcher and releases resources.
func (w *FSWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// addTree registers dir and every non-skipped directory below it.
func (w *FSWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// The directory may have vanished between the event and the walk
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skip(d.Name()) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *FSWatcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dirs[dir] {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	return nil
}

func (w *FSWatcher) forgetDir(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for watched := range w.dirs {
		if watched == dir || strings.HasPrefix(watched, prefix) {
			delete(w.dirs, watched)
		}
	}
	return true
}

func (w *FSWatcher) skip(name string) bool {
	return strings.HasPrefix(name, ".") || w.skipDirs[name]
}

// run processes filesystem events.
func (w *FSWatcher) run() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				slog.Warn("Dropping watcher error", "error", err)
			}
		}
	}
}

// handleEvent maps one fsnotify event to a workspace event.
func (w *FSWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.skip(filepath.Base(path)) {
		return
	}

	var out Event
	switch {
	case event.Has(fsnotify.Create):
		out = Event{Kind: FileCreated, Path: path}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				slog.Warn("Failed to watch new directory", "path", path, "error", err)
			}
			if w.isTopLevel(path) {
				out.Kind = FoldersChanged
			}
		}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		out = Event{Kind: FileDeleted, Path: path}
		if w.forgetDir(path) && w.isTopLevel(path) {
			out.Kind = FoldersChanged
		}

	case event.Has(fsnotify.Write):
		out = Event{Kind: DocumentSaved, Path: path}

	default:
		// chmod only
		return
	}

	select {
	case w.events <- out:
	case <-w.done:
	}
}

// isTopLevel reports whether path is a direct child of a workspace root.
func (w *FSWatcher) isTopLevel(path string) bool {
	parent := filepath.Dir(path)
	for _, root := range w.roots {
		if parent == root {
			return true
		}
	}
	return false
}
