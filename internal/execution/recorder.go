package execution

import (
	"log/slog"
	"sync"

	"fte/internal/domain"
	"fte/internal/parser"
)

// Recorder opens run sessions. It is the sink the executor reports to.
type Recorder interface {
	Begin(run domain.Run) Session
}

// Session receives the results of one run. Record is called with a Started
// result and then exactly one terminal result per executed test. End is
// always called, also when the run was cancelled.
type Session interface {
	Record(result domain.RunResult)
	End(summary domain.RunSummary)
}

// MultiRecorder fans every call out to several recorders
type MultiRecorder []Recorder

// Begin implements Recorder
func (m MultiRecorder) Begin(run domain.Run) Session {
	sessions := make(multiSession, 0, len(m))
	for _, rec := range m {
		if rec != nil {
			sessions = append(sessions, rec.Begin(run))
		}
	}
	return sessions
}

type multiSession []Session

func (m multiSession) Record(result domain.RunResult) {
	for _, s := range m {
		s.Record(result)
	}
}

func (m multiSession) End(summary domain.RunSummary) {
	for _, s := range m {
		s.End(summary)
	}
}

// MemoryRecorder keeps every session in memory
type MemoryRecorder struct {
	mu       sync.Mutex
	sessions []*MemorySession
}

// NewMemoryRecorder creates an empty MemoryRecorder
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Begin implements Recorder
func (r *MemoryRecorder) Begin(run domain.Run) Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := &MemorySession{Run: run}
	r.sessions = append(r.sessions, session)
	return session
}

// Sessions returns the sessions opened so far
func (r *MemoryRecorder) Sessions() []*MemorySession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*MemorySession{}, r.sessions...)
}

// MemorySession is a recorded run
type MemorySession struct {
	mu      sync.Mutex
	Run     domain.Run
	results []domain.RunResult
	summary *domain.RunSummary
}

// Record implements Session
func (s *MemorySession) Record(result domain.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
}

// End implements Session
func (s *MemorySession) End(summary domain.RunSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
}

// Results returns every recorded result including Started ones
func (s *MemorySession) Results() []domain.RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RunResult{}, s.results...)
}

// Terminal returns only the terminal results, in report order
func (s *MemorySession) Terminal() []domain.RunResult {
	var terminal []domain.RunResult
	for _, r := range s.Results() {
		if r.Status.IsTerminal() {
			terminal = append(terminal, r)
		}
	}
	return terminal
}

// Summary returns the summary passed to End, if the session ended
func (s *MemorySession) Summary() (domain.RunSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return domain.RunSummary{}, false
	}
	return *s.summary, true
}

// LogRecorder writes run progress to slog
type LogRecorder struct {
	parser *parser.ForgeParser
}

// NewLogRecorder creates a LogRecorder
func NewLogRecorder(p *parser.ForgeParser) *LogRecorder {
	return &LogRecorder{parser: p}
}

// Begin implements Recorder
func (r *LogRecorder) Begin(run domain.Run) Session {
	slog.Info("Run started", "run", run.ID, "tests", len(run.Tests))
	return &logSession{run: run, parser: r.parser}
}

type logSession struct {
	run    domain.Run
	parser *parser.ForgeParser
}

func (s *logSession) Record(result domain.RunResult) {
	if result.Status == domain.StatusStarted {
		slog.Debug("Test started", "run", s.run.ID, "test", result.Test.String())
		return
	}

	attrs := []any{
		"run", s.run.ID,
		"test", result.Test.String(),
		"status", result.Status.String(),
		"duration", result.Duration,
	}
	if counts, ok := s.parser.ParseSuiteCounts(result.Stdout); ok {
		attrs = append(attrs, "suite_passed", counts.Passed, "suite_failed", counts.Failed, "suite_skipped", counts.Skipped)
	}

	if result.Status == domain.StatusPassed {
		slog.Info("Test finished", attrs...)
		return
	}
	slog.Warn("Test finished", append(attrs, "message", result.Message)...)
}

func (s *logSession) End(summary domain.RunSummary) {
	slog.Info("Run finished",
		"run", summary.ID,
		"selected", summary.Selected,
		"passed", summary.Passed(),
		"failed", summary.Failed(),
		"not_found", summary.NotFound(),
		"pending", summary.Pending(),
		"cancelled", summary.Cancelled,
		"duration", summary.Duration,
	)
}
