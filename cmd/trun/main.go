package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"trun/internal/cli"
	"trun/internal/cli/commands"
	"trun/internal/domain"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "trun",
		Short:   "Containerized test-run orchestrator",
		Long:    `Detect a project's runtime, build an isolated test image, start its backing services and run one or more test suites against them, collecting artifacts and a machine-readable summary for every run.`,
		Version: version,
	}

	var flags cli.Flags

	cmds := commands.NewCommands(&flags)
	cmds.Register(rootCmd, &flags)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(domain.ExitCodeFor(err))
	}
}
