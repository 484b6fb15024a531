package ui

import (
	"context"
	"sync"
)

// runSlot holds at most one background run
type runSlot struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// start runs fn in the background with a context derived from parent and
// calls done once fn has returned. It reports false, and runs nothing, when
// a run is already active.
func (s *runSlot) start(parent context.Context, fn func(ctx context.Context), done func()) bool {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			cancel()
			s.mu.Lock()
			s.cancel = nil
			s.mu.Unlock()
			if done != nil {
				done()
			}
		}()

		fn(ctx)
	}()

	return true
}

// stop cancels the active run, if any
func (s *runSlot) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *runSlot) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// wait blocks until the active run has returned
func (s *runSlot) wait() {
	s.wg.Wait()
}
