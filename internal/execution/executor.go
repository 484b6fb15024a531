package execution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fte/internal/config"
	"fte/internal/domain"
	"fte/internal/parser"
)

// NotFoundMessage is reported for selected tests that cannot be resolved to a file and name
const NotFoundMessage = "test file or name could not be resolved"

// Executor runs selected tests one at a time against the external runner
type Executor struct {
	config *config.Config
	runner TestRunner
	parser parser.Parser
}

// NewExecutor creates a new Executor
func NewExecutor(cfg *config.Config, runner TestRunner, p parser.Parser) *Executor {
	return &Executor{
		config: cfg,
		runner: runner,
		parser: p,
	}
}

// Run executes selected in order and reports every result to rec.
// ctx is checked before each test; once it is done the loop stops and the
// remaining tests stay pending without a report. A test already running is
// allowed to finish.
func (e *Executor) Run(ctx context.Context, selected []*domain.TestFunction, rec Recorder) (summary domain.RunSummary) {
	run := domain.Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Tests:     make([]domain.TestRef, 0, len(selected)),
	}
	for _, fn := range selected {
		run.Tests = append(run.Tests, fn.Ref())
	}

	session := rec.Begin(run)

	summary = domain.RunSummary{
		ID:        run.ID,
		StartedAt: run.StartedAt,
		Selected:  len(selected),
	}

	defer func() {
		summary.Duration = time.Since(run.StartedAt)
		session.End(summary)
	}()

	for _, fn := range selected {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		result := e.runOne(ctx, fn, session)
		summary.Results = append(summary.Results, result)
	}

	return summary
}

func (e *Executor) runOne(ctx context.Context, fn *domain.TestFunction, session Session) domain.RunResult {
	ref := fn.Ref()
	start := time.Now()

	session.Record(domain.RunResult{Test: ref, Status: domain.StatusStarted})

	if fn == nil || fn.File == nil || ref.Path == "" || ref.Name == "" {
		result := domain.RunResult{
			Test:     ref,
			Status:   domain.StatusNotFound,
			Message:  NotFoundMessage,
			Duration: time.Since(start),
		}
		session.Record(result)
		return result
	}

	workDir := fn.File.Root
	if workDir == "" {
		workDir = e.config.PrimaryRoot()
	}

	outcome := e.runner.RunTest(ctx, workDir, ref.Name)
	status, message := e.parser.Classify(outcome)

	result := domain.RunResult{
		Test:     ref,
		Status:   status,
		Message:  message,
		Duration: time.Since(start),
		Stdout:   outcome.Stdout,
		Stderr:   outcome.Stderr,
	}
	session.Record(result)

	return result
}
