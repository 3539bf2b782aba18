package ui

import (
	"fmt"

	"github.com/fatih/color"
	"trun/internal/domain"
)

// Formatter formats and displays run output
type Formatter struct{}

// NewFormatter creates a new Formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// PrintHeader prints a boxed section header
func (f *Formatter) PrintHeader(title string) {
	color.Cyan("\n╔════════════════════════════════════════════════════════════╗")
	color.Cyan("║ %-58s ║", title)
	color.Cyan("╚════════════════════════════════════════════════════════════╝\n")
}

// PrintSummary displays the run summary as a stats table
func (f *Formatter) PrintSummary(summary *domain.RunSummary) {
	f.PrintHeader("Test Run Summary")

	fmt.Println("┌─────────────────────────────────┬─────────────────────────────┐")

	fmt.Printf("│ %-31s │ ", "Run ID")
	color.White("%-27s │\n", summary.RunID)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Project Type / Suite")
	color.White("%-27s │\n", fmt.Sprintf("%s / %s", summary.ProjectType, summary.Suite))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Total Tests")
	color.White("%-27d │\n", summary.TotalTests)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Passed")
	color.Green("%-27d │\n", summary.Passed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Failed")
	color.Red("%-27d │\n", summary.Failed)
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Success Rate")
	color.White("%-27s │\n", fmt.Sprintf("%.1f%%", summary.SuccessRate*100))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Duration")
	color.White("%-27s │\n", fmt.Sprintf("%.1fs", summary.DurationSeconds))
	fmt.Println("├─────────────────────────────────┼─────────────────────────────┤")

	fmt.Printf("│ %-31s │ ", "Overall Status")
	switch summary.OverallStatus {
	case domain.StatusSuccess:
		color.Green("%-27s │\n", summary.OverallStatus)
	case domain.StatusTimedOut:
		color.Yellow("%-27s │\n", summary.OverallStatus)
	default:
		color.Red("%-27s │\n", summary.OverallStatus)
	}

	fmt.Println("└─────────────────────────────────┴─────────────────────────────┘")

	if len(summary.Jobs) > 0 {
		fmt.Println()
		for _, job := range summary.Jobs {
			switch job.Status {
			case domain.JobSucceeded:
				color.Green("  ✓ %-28s %d/%d passed (%.1fs)", job.ID, job.Passed, job.Tests, job.DurationSeconds)
			case domain.JobTimedOut:
				color.Yellow("  ⏱ %-28s timed out", job.ID)
			default:
				color.Red("  ✗ %-28s %d/%d failed (exit %d)", job.ID, job.Failed, job.Tests, job.ExitCode)
			}
		}
		fmt.Println()
	}
}

// PrintJobList lists resolved jobs without executing them
func (f *Formatter) PrintJobList(jobs []*domain.TestJob) {
	f.PrintHeader("Resolved Test Jobs")
	for i, job := range jobs {
		color.White("%d. %s", i+1, job.ID)
		fmt.Printf("   image: %s\n   command: %v\n", job.Image, job.Command)
	}
	fmt.Println()
}
