package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fte/internal/config"
)

// InitCommand handles the init command
type InitCommand struct {
	config *config.Config
}

// NewInitCommand creates a new InitCommand
func NewInitCommand(cfg *config.Config) *InitCommand {
	return &InitCommand{config: cfg}
}

// Execute runs the command
func (ic *InitCommand) Execute(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	path := ic.config.GetConfigPath()
	if err := config.WriteDefaults(path, force); err != nil {
		return err
	}

	color.Green("✓ Wrote %s", path)
	return nil
}
