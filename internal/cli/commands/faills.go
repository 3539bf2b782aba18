package commands

import (
	"github.com/spf13/cobra"
	"trun/internal/cli"
	"trun/internal/config"
	"trun/internal/report"
	"trun/internal/ui"
)

// FaillsCommand handles the faills command
type FaillsCommand struct {
	flags *cli.Flags
}

// NewFaillsCommand creates a new FaillsCommand
func NewFaillsCommand(flags *cli.Flags) *FaillsCommand {
	return &FaillsCommand{flags: flags}
}

// Execute runs the command
func (fc *FaillsCommand) Execute(cmd *cobra.Command, args []string) error {
	resultsDir := fc.flags.ResultsDir
	if resultsDir == "" {
		resultsDir = config.DefaultResultsDir
	}

	summary, runDir, err := report.LoadLatest(resultsDir)
	if err != nil {
		return err
	}

	return ui.NewJobViewer(runDir).View(summary)
}
