package commands

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fte/internal/config"
	"fte/internal/discovery"
	"fte/internal/domain"
	"fte/internal/storage"
	"fte/internal/tree"
	"fte/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config       *config.Config
	store        *tree.Store
	orchestrator *discovery.Orchestrator
	filter       *discovery.Filter
	storage      storage.Storage
	formatter    *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	store *tree.Store,
	orchestrator *discovery.Orchestrator,
	filter *discovery.Filter,
	st storage.Storage,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:       cfg,
		store:        store,
		orchestrator: orchestrator,
		filter:       filter,
		storage:      st,
		formatter:    formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := lc.orchestrator.Discover(cmd.Context())
	if err != nil {
		return err
	}
	warnUnreadable(report)

	files := tree.Prune(lc.store.Files(), selector(lc.config.Flags), lc.filter.Match)
	if len(files) == 0 {
		color.Yellow("No tests found")
		return nil
	}

	lc.formatter.PrintTestList(files, lc.config.Flags.TestCases, lastStatuses(lc.storage))
	return nil
}

// selector builds the tree selection from the filter flags
func selector(flags config.Flags) tree.Selector {
	return tree.Selector{
		File: flags.FileFilter,
		Test: flags.TestFilter,
	}
}

func warnUnreadable(report discovery.CycleReport) {
	if report.Failed > 0 {
		color.Yellow("! %d test file(s) could not be read, see the log for details", report.Failed)
	}
}

// lastStatuses returns the statuses of the last saved run, or nil when there
// is none to show.
func lastStatuses(st storage.Storage) map[domain.TestRef]domain.RunStatus {
	statuses, err := st.LastStatuses()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to load last run", "error", err)
		}
		return nil
	}
	return statuses
}
