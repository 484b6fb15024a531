package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fte/internal/cli"
	"fte/internal/cli/commands"
	"fte/internal/config"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "fte",
		Short:         "Foundry test explorer",
		Long:          `Discover Foundry test functions in test/**/*.t.sol, keep them in a live tree and run them one by one through forge.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Load config for the current directory: defaults, fte.yaml, .env, FTE_* environment
	cfg, err := config.Load(viper.New(), config.DefaultWorkspacePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Execute root command
	err = rootCmd.Execute()
	_ = cmds.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
