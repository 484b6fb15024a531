package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fte/internal/config"
	"fte/internal/metrics"
	"fte/internal/ui"
	"fte/internal/watch"
)

// ExploreCommand handles the explore command
type ExploreCommand struct {
	config   *config.Config
	explorer *ui.Explorer
	metrics  *metrics.Metrics
}

// NewExploreCommand creates a new ExploreCommand
func NewExploreCommand(cfg *config.Config, explorer *ui.Explorer, m *metrics.Metrics) *ExploreCommand {
	return &ExploreCommand{
		config:   cfg,
		explorer: explorer,
		metrics:  m,
	}
}

// Execute runs the command
func (ec *ExploreCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	startMetrics(ctx, ec.config, ec.metrics)

	// The explorer still works without live updates
	var source watch.Source
	watcher, err := watch.NewFSWatcher(ec.config.WorkspaceRoots, ec.config.PathsToIgnore)
	if err != nil {
		slog.Warn("Workspace watcher unavailable", "error", err)
	} else {
		defer watcher.Close()
		source = watcher
	}

	if err := ec.explorer.Run(ctx, source); err != nil {
		return fmt.Errorf("explorer: %w", err)
	}
	return nil
}
