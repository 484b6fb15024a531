package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fte/internal/config"
	"fte/internal/discovery"
	"fte/internal/metrics"
	"fte/internal/storage"
	"fte/internal/tree"
	"fte/internal/ui"
	"fte/internal/watch"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	config       *config.Config
	store        *tree.Store
	orchestrator *discovery.Orchestrator
	filter       *discovery.Filter
	storage      storage.Storage
	formatter    *ui.Formatter
	metrics      *metrics.Metrics

	mu sync.Mutex
}

// NewWatchCommand creates a new WatchCommand
func NewWatchCommand(
	cfg *config.Config,
	store *tree.Store,
	orchestrator *discovery.Orchestrator,
	filter *discovery.Filter,
	st storage.Storage,
	formatter *ui.Formatter,
	m *metrics.Metrics,
) *WatchCommand {
	return &WatchCommand{
		config:       cfg,
		store:        store,
		orchestrator: orchestrator,
		filter:       filter,
		storage:      st,
		formatter:    formatter,
		metrics:      m,
	}
}

// Execute runs the command
func (wc *WatchCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, wc.config, wc.metrics)

	watcher, err := watch.NewFSWatcher(wc.config.WorkspaceRoots, wc.config.PathsToIgnore)
	if err != nil {
		return err
	}
	defer watcher.Close()

	wc.orchestrator.OnCycle(wc.print)

	if _, err := wc.orchestrator.Discover(ctx); err != nil {
		return err
	}

	color.Cyan("Watching %d director(ies) for changes, press Ctrl+C to stop", len(watcher.WatchedDirs()))

	err = wc.orchestrator.Watch(ctx, watcher)
	wc.orchestrator.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// print shows the tree produced by one discovery cycle
func (wc *WatchCommand) print(report discovery.CycleReport) {
	wc.mu.Lock()
	defer wc.mu.Unlock()

	fmt.Println()
	color.New(color.FgHiBlack).Printf("── cycle %d at %s ──\n", report.Generation, time.Now().Format(time.TimeOnly))
	warnUnreadable(report)

	files := tree.Prune(wc.store.Files(), selector(wc.config.Flags), wc.filter.Match)
	if len(files) == 0 {
		color.Yellow("No tests found")
		return
	}
	wc.formatter.PrintTestList(files, true, lastStatuses(wc.storage))
}

// startMetrics serves the prometheus endpoint in the background when an address is configured
func startMetrics(ctx context.Context, cfg *config.Config, m *metrics.Metrics) {
	if cfg.MetricsAddr == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, cfg.MetricsAddr, m); err != nil {
			slog.Error("Metrics server failed", "addr", cfg.MetricsAddr, "error", err)
		}
	}()
}
