package commands

import (
	"github.com/spf13/cobra"
	"trun/internal/cli"
	"trun/internal/config"
	"trun/internal/report"
	"trun/internal/ui"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	flags *cli.Flags
}

// NewSummaryCommand creates a new SummaryCommand
func NewSummaryCommand(flags *cli.Flags) *SummaryCommand {
	return &SummaryCommand{flags: flags}
}

// Execute runs the command
func (sc *SummaryCommand) Execute(cmd *cobra.Command, args []string) error {
	resultsDir := sc.flags.ResultsDir
	if resultsDir == "" {
		resultsDir = config.DefaultResultsDir
	}

	summary, _, err := report.LoadLatest(resultsDir)
	if err != nil {
		return err
	}

	ui.NewFormatter().PrintSummary(summary)
	return nil
}
