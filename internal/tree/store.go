// Package tree holds the in-memory forest of discovered test files and the
// test functions they contain.
package tree

import (
	"errors"
	"sync"

	"fte/internal/domain"
)

// ErrStaleGeneration is returned when a write belongs to a discovery cycle
// that has been superseded by a newer Clear.
var ErrStaleGeneration = errors.New("tree: stale generation")

// Generation identifies one population of the store. Every Clear starts a new one.
type Generation uint64

// FileHandle is returned by AddFile and used to attach test functions.
type FileHandle struct {
	gen  Generation
	file *domain.TestFile
}

// Path returns the path of the file node behind the handle
func (h FileHandle) Path() string {
	if h.file == nil {
		return ""
	}
	return h.file.Path
}

// Store is a mutable forest keyed by file path. Files and functions keep
// insertion order. Writers pass the generation they were started with so a
// superseded discovery cycle cannot leak nodes into a newer tree.
type Store struct {
	mu         sync.RWMutex
	files      []*domain.TestFile
	byPath     map[string]*domain.TestFile
	generation Generation
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{byPath: make(map[string]*domain.TestFile)}
}

// Clear removes every file and function and starts a new generation
func (s *Store) Clear() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = nil
	s.byPath = make(map[string]*domain.TestFile)
	s.generation++

	return s.generation
}

// Generation returns the current generation
func (s *Store) Generation() Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// AddFile inserts a file node. A node with the same path in the current
// generation is replaced in place and loses its children.
func (s *Store) AddFile(gen Generation, path, displayName, root string) (FileHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return FileHandle{}, ErrStaleGeneration
	}

	file := &domain.TestFile{
		Path: path,
		Name: displayName,
		Root: root,
	}

	if existing, ok := s.byPath[path]; ok {
		for i, f := range s.files {
			if f == existing {
				s.files[i] = file
				break
			}
		}
	} else {
		s.files = append(s.files, file)
	}
	s.byPath[path] = file

	return FileHandle{gen: gen, file: file}, nil
}

// AddFunction appends a test function to the file behind handle
func (s *Store) AddFunction(handle FileHandle, name string, position domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle.file == nil || handle.gen != s.generation || s.byPath[handle.file.Path] != handle.file {
		return ErrStaleGeneration
	}

	handle.file.Functions = append(handle.file.Functions, &domain.TestFunction{
		Name:     name,
		Position: position,
		File:     handle.file,
	})

	return nil
}

// Len returns the number of file nodes
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Files returns a deep copy of the forest. Callers may keep and read the
// copy while discovery keeps mutating the store.
func (s *Store) Files() []*domain.TestFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]*domain.TestFile, 0, len(s.files))
	for _, f := range s.files {
		files = append(files, copyFile(f))
	}

	return files
}

// Functions returns every test function of a snapshot in display order
func (s *Store) Functions() []*domain.TestFunction {
	return Flatten(s.Files())
}

// Lookup finds a test function by file path and name in a fresh snapshot
func (s *Store) Lookup(path, name string) (*domain.TestFunction, bool) {
	for _, fn := range s.Functions() {
		if fn.File.Path == path && fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// Flatten returns the functions of files in display order
func Flatten(files []*domain.TestFile) []*domain.TestFunction {
	var functions []*domain.TestFunction
	for _, f := range files {
		functions = append(functions, f.Functions...)
	}
	return functions
}

func copyFile(f *domain.TestFile) *domain.TestFile {
	file := &domain.TestFile{
		Path:      f.Path,
		Name:      f.Name,
		Root:      f.Root,
		Functions: make([]*domain.TestFunction, 0, len(f.Functions)),
	}
	for _, fn := range f.Functions {
		file.Functions = append(file.Functions, &domain.TestFunction{
			Name:     fn.Name,
			Position: fn.Position,
			File:     file,
		})
	}
	return file
}
