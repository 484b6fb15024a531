package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fte/internal/config"
	"fte/internal/discovery"
	"fte/internal/domain"
	"fte/internal/execution"
	"fte/internal/storage"
	"fte/internal/tree"
	"fte/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config       *config.Config
	store        *tree.Store
	orchestrator *discovery.Orchestrator
	filter       *discovery.Filter
	executor     *execution.Executor
	storage      storage.Storage
	formatter    *ui.Formatter
	recorder     execution.Recorder
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	store *tree.Store,
	orchestrator *discovery.Orchestrator,
	filter *discovery.Filter,
	executor *execution.Executor,
	st storage.Storage,
	formatter *ui.Formatter,
	recorder execution.Recorder,
) *RunCommand {
	return &RunCommand{
		config:       cfg,
		store:        store,
		orchestrator: orchestrator,
		filter:       filter,
		executor:     executor,
		storage:      st,
		formatter:    formatter,
		recorder:     recorder,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	// Ctrl+C stops the run after the current test
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := rc.orchestrator.Discover(ctx)
	if err != nil {
		return err
	}
	warnUnreadable(report)

	sel := selector(rc.config.Flags)
	if rc.config.Flags.OnlyFailed {
		refs, err := rc.storage.FailedTests()
		if err != nil {
			return fmt.Errorf("failed to load last run: %w", err)
		}
		if len(refs) == 0 {
			color.Green("✓ No failed tests in the last run")
			return nil
		}
		for _, ref := range refs {
			if _, ok := rc.store.Lookup(ref.Path, ref.Name); !ok {
				color.Yellow("! %s failed in the last run but no longer exists, skipping", ref)
			}
		}
		sel.Refs = refs
	}

	selected := tree.Select(rc.store.Files(), sel, rc.filter.Match)

	if len(selected) == 0 {
		color.Yellow("No tests to execute")
		return nil
	}

	summary := rc.executor.Run(ctx, selected, execution.MultiRecorder{
		ui.NewProgressRecorder(),
		rc.recorder,
	})

	// Save results
	if err := rc.storage.Save(summary); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}

	rc.formatter.PrintSummary(summary)

	return runError(summary)
}

// runError turns a run that did not fully pass into a command error
func runError(summary domain.RunSummary) error {
	switch {
	case summary.Cancelled:
		return fmt.Errorf("run cancelled after %d of %d test(s)", len(summary.Results), summary.Selected)
	case !summary.OK():
		return fmt.Errorf("%d of %d test(s) did not pass", summary.Failed()+summary.NotFound(), summary.Selected)
	}
	return nil
}
