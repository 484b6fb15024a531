package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"fte/internal/cli"
	"fte/internal/config"
	"fte/internal/discovery"
	"fte/internal/execution"
	"fte/internal/logging"
	"fte/internal/metrics"
	"fte/internal/parser"
	"fte/internal/storage"
	"fte/internal/tree"
	"fte/internal/ui"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Watch    *WatchCommand
	Explore  *ExploreCommand
	Failures *FailuresCommand
	Init     *InitCommand

	logCloser io.Closer
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	store := tree.NewStore()
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	testParser := discovery.NewParser()
	orchestrator := discovery.NewOrchestrator(cfg, store, scanner, testParser)
	forgeParser := parser.NewForgeParser()
	runner := execution.NewForgeRunner(cfg)
	executor := execution.NewExecutor(cfg, runner, forgeParser)
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, os.Stdout)
	errorViewer := ui.NewErrorViewer(jsonStorage)

	m := metrics.New()
	orchestrator.OnCycle(func(report discovery.CycleReport) {
		m.RecordDiscovery(report.Files, report.Tests, report.Failed)
	})
	recorders := execution.MultiRecorder{
		execution.NewLogRecorder(forgeParser),
		metrics.NewRecorder(m),
	}

	return &Commands{
		Run:      NewRunCommand(cfg, store, orchestrator, filter, executor, jsonStorage, formatter, recorders),
		List:     NewListCommand(cfg, store, orchestrator, filter, jsonStorage, formatter),
		Watch:    NewWatchCommand(cfg, store, orchestrator, filter, jsonStorage, formatter, m),
		Explore:  NewExploreCommand(cfg, ui.NewExplorer(store, orchestrator, executor, jsonStorage, recorders), m),
		Failures: NewFailuresCommand(cfg, jsonStorage, errorViewer),
		Init:     NewInitCommand(cfg),
	}
}

// Close releases the log file opened for the executed command
func (c *Commands) Close() error {
	if c.logCloser == nil {
		return nil
	}
	return c.logCloser.Close()
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	flags.AddPersistentFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		cfg.Flags = flags.ToConfigFlags()
		cfg.Log.Verbose = flags.Verbose
		c.logCloser = logging.Configure(cfg)
		return nil
	}

	// Run command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run Foundry tests one by one",
		Long:  "Discover test functions and run each selected one through `forge test --match-test`",
		RunE:  c.Run.Execute,
	}
	flags.AddFilterFlags(runCmd.Flags())
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only tests that did not pass in the last run")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests",
		Long:  "Scan test/**/*.t.sol and list test files without executing them",
		RunE:  c.List.Execute,
	}
	flags.AddFilterFlags(listCmd.Flags())
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test functions instead of test files")
	rootCmd.AddCommand(listCmd)

	// Watch command
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the test tree in sync with the workspace",
		Long:  "Rediscover tests whenever files or folders in the workspace change and print the tree",
		RunE:  c.Watch.Execute,
	}
	flags.AddFilterFlags(watchCmd.Flags())
	rootCmd.AddCommand(watchCmd)

	// Explore command
	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse and run tests interactively",
		Long:  "Open a terminal tree of discovered tests; run, cancel and inspect them as the workspace changes",
		RunE:  c.Explore.Execute,
	}
	rootCmd.AddCommand(exploreCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Aliases: []string{"faills"},
		Short:   "View test failures interactively",
		Long:    "Display test failures from the last test run in an interactive viewer",
		RunE:    c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)

	// Init command
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.ConfigFileName,
		Long:  "Create " + config.ConfigFileName + " in the workspace with every default setting",
		RunE:  c.Init.Execute,
	}
	initCmd.Flags().BoolVar(&flags.Force, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
