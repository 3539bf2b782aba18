package commands

import (
	"github.com/spf13/cobra"
	"trun/internal/cli"
	"trun/internal/config"
)

// Commands holds all CLI commands
type Commands struct {
	Run     *RunCommand
	Detect  *DetectCommand
	Summary *SummaryCommand
	Faills  *FaillsCommand
}

// NewCommands creates all commands
func NewCommands(flags *cli.Flags) *Commands {
	return &Commands{
		Run:     NewRunCommand(flags),
		Detect:  NewDetectCommand(flags),
		Summary: NewSummaryCommand(flags),
		Faills:  NewFaillsCommand(flags),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run containerized test suites",
		Long:  "Detect the project type, build its test image, start backing services and execute the requested test suites in isolated containers",
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().StringVar(&flags.Type, "type", "auto", "Project type (node, react, vue, angular, python, fastapi, django, php, wordpress, laravel, auto)")
	runCmd.Flags().StringVar(&flags.Suite, "suite", "all", "Test suite to run (unit, integration, e2e, performance, load, security, quality, all)")
	runCmd.Flags().StringVar(&flags.Env, "env", "local", "Execution environment (local, ci, k8s)")
	runCmd.Flags().StringVarP(&flags.ProjectPath, "project-path", "p", ".", "Path to the project under test")
	runCmd.Flags().StringVar(&flags.ResultsDir, "results-dir", "", "Host directory for collected results")
	runCmd.Flags().BoolVar(&flags.Parallel, "parallel", true, "Run jobs concurrently")
	runCmd.Flags().BoolVar(&flags.NoParallel, "no-parallel", false, "Run jobs one at a time")
	runCmd.Flags().BoolVar(&flags.Cleanup, "cleanup", true, "Remove containers, network and volumes after the run")
	runCmd.Flags().BoolVar(&flags.NoCleanup, "no-cleanup", false, "Leave run resources in place")
	runCmd.Flags().BoolVar(&flags.Upload, "upload-results", true, "Upload results to the reporting endpoint")
	runCmd.Flags().BoolVar(&flags.NoUpload, "no-upload-results", false, "Skip the results upload")
	runCmd.Flags().IntVar(&flags.TimeoutSeconds, "timeout", config.DefaultTimeoutSeconds, "Global timeout in seconds for the whole job set")
	runCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Log engine commands without executing them")
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(runCmd)

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the project type",
		Long:  "Inspect the project's manifest markers and print the inferred project type without running anything",
		RunE:  c.Detect.Execute,
	}
	detectCmd.Flags().StringVarP(&flags.ProjectPath, "project-path", "p", ".", "Path to the project under test")
	detectCmd.Flags().StringVar(&flags.Type, "type", "auto", "Declared project type (skips detection when not auto)")
	detectCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(detectCmd)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the most recent run summary",
		Long:  "Load the latest run manifest from the results directory and display its stats table",
		RunE:  c.Summary.Execute,
	}
	summaryCmd.Flags().StringVar(&flags.ResultsDir, "results-dir", "", "Host directory holding collected results")
	rootCmd.AddCommand(summaryCmd)

	faillsCmd := &cobra.Command{
		Use:   "faills",
		Short: "View failed jobs interactively",
		Long:  "Display non-succeeded jobs from the most recent run in an interactive viewer",
		RunE:  c.Faills.Execute,
	}
	faillsCmd.Flags().StringVar(&flags.ResultsDir, "results-dir", "", "Host directory holding collected results")
	rootCmd.AddCommand(faillsCmd)
}
