package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"trun/internal/cli"
	"trun/internal/detect"
	"trun/internal/domain"
	"trun/internal/logging"
)

// DetectCommand handles the detect command
type DetectCommand struct {
	flags *cli.Flags
}

// NewDetectCommand creates a new DetectCommand
func NewDetectCommand(flags *cli.Flags) *DetectCommand {
	return &DetectCommand{flags: flags}
}

// Execute runs the command
func (dc *DetectCommand) Execute(cmd *cobra.Command, args []string) error {
	declared, err := domain.ParseProjectType(dc.flags.Type)
	if err != nil {
		return err
	}

	log := logging.New(dc.flags.Verbose)
	detector := detect.NewDetector(log)
	projectType, err := detector.Detect(dc.flags.ProjectPath, declared)
	if err != nil {
		return err
	}

	color.White("%s", projectType)
	return nil
}
