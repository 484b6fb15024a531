package ui

import (
	"maps"
	"sync"

	"fte/internal/domain"
	"fte/internal/execution"
)

// Board keeps the last reported status and message of every test.
// It is the explorer's run sink and is safe for concurrent use.
type Board struct {
	mu       sync.RWMutex
	statuses map[domain.TestRef]domain.RunStatus
	messages map[domain.TestRef]string
	onChange func()
}

// NewBoard creates an empty Board. onChange, when set, is called after every update.
func NewBoard(onChange func()) *Board {
	return &Board{
		statuses: make(map[domain.TestRef]domain.RunStatus),
		messages: make(map[domain.TestRef]string),
		onChange: onChange,
	}
}

// Begin implements execution.Recorder
func (b *Board) Begin(_ domain.Run) execution.Session {
	return boardSession{board: b}
}

// Set records the status and message of ref
func (b *Board) Set(ref domain.TestRef, status domain.RunStatus, message string) {
	b.mu.Lock()
	b.statuses[ref] = status
	if status == domain.StatusStarted {
		delete(b.messages, ref)
	} else {
		b.messages[ref] = message
	}
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange()
	}
}

// Status returns the last status of ref, Pending when it never ran
func (b *Board) Status(ref domain.TestRef) domain.RunStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.statuses[ref]
}

// Message returns the last message reported for ref
func (b *Board) Message(ref domain.TestRef) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.messages[ref]
}

// Statuses returns a copy of every known status
func (b *Board) Statuses() map[domain.TestRef]domain.RunStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return maps.Clone(b.statuses)
}

// FileStatus aggregates the statuses of a file's functions
func (b *Board) FileStatus(file *domain.TestFile) domain.RunStatus {
	return fileStatus(file, b.Statuses())
}

type boardSession struct {
	board *Board
}

func (s boardSession) Record(result domain.RunResult) {
	s.board.Set(result.Test, result.Status, result.Message)
}

func (s boardSession) End(domain.RunSummary) {}
