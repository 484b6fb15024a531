// Package watch delivers workspace change notifications to discovery.
package watch

import "sync"

// EventKind is the kind of workspace change
type EventKind int

const (
	// FoldersChanged means a top-level folder of a workspace root was added or removed.
	FoldersChanged EventKind = iota
	// FileCreated means a file or directory was created.
	FileCreated
	// FileDeleted means a file or directory was removed or renamed away.
	FileDeleted
	// DocumentSaved means a file's contents were written.
	DocumentSaved
)

func (k EventKind) String() string {
	switch k {
	case FoldersChanged:
		return "folders-changed"
	case FileCreated:
		return "file-created"
	case FileDeleted:
		return "file-deleted"
	case DocumentSaved:
		return "document-saved"
	}
	return "unknown"
}

// Event is a single workspace change
type Event struct {
	Kind EventKind
	Path string
}

// Source is anything that emits workspace change events.
type Source interface {
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// ChannelSource is a Source fed by Emit. Hosts that receive change
// notifications from elsewhere push them through it.
type ChannelSource struct {
	events chan Event
	errors chan error
	once   sync.Once
}

// NewChannelSource creates a ChannelSource with the given event buffer
func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{
		events: make(chan Event, buffer),
		errors: make(chan error, 1),
	}
}

// Emit delivers an event. It blocks when the buffer is full.
func (s *ChannelSource) Emit(event Event) {
	s.events <- event
}

// Fail delivers an error without blocking; it is dropped if one is already queued.
func (s *ChannelSource) Fail(err error) {
	select {
	case s.errors <- err:
	default:
	}
}

// Events implements Source
func (s *ChannelSource) Events() <-chan Event { return s.events }

// Errors implements Source
func (s *ChannelSource) Errors() <-chan error { return s.errors }

// Close closes the event channel. Emit must not be called afterwards.
func (s *ChannelSource) Close() error {
	s.once.Do(func() {
		close(s.events)
	})
	return nil
}
