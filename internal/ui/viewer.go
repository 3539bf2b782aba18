package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"trun/internal/domain"
)

// JobViewer displays non-succeeded jobs of a run in an interactive TUI:
// job list on the left, parsed counts and the collected console log on
// the right.
type JobViewer struct {
	runDir string
}

// NewJobViewer creates a viewer over the given run's result directory
func NewJobViewer(runDir string) *JobViewer {
	return &JobViewer{runDir: runDir}
}

// View opens the interactive viewer. A run without failed jobs prints
// a one-line confirmation instead.
func (v *JobViewer) View(summary *domain.RunSummary) error {
	var failed []domain.JobSummary
	for _, job := range summary.Jobs {
		if job.Status != domain.JobSucceeded {
			failed = append(failed, job)
		}
	}
	if len(failed) == 0 {
		color.Green("✓ No failed jobs in run %s!", summary.RunID)
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i, job := range failed {
		list.AddItem(fmt.Sprintf("[yellow]%d.[white] %s (%s)", i+1, job.ID, job.Status), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 4, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(fmt.Sprintf(" Failed Jobs — run %s (%d) | ↑↓ navigate, → view log, ← back, Ctrl+C exit ",
			summary.RunID, len(failed)))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(failed) {
			return
		}
		job := failed[index]
		statsView.SetText(fmt.Sprintf(
			"[yellow]Job:[white] %s\n[yellow]Status:[white] %s  [yellow]Exit:[white] %d\n[yellow]Tests:[white] %d passed / %d failed of %d",
			job.ID, job.Status, job.ExitCode, job.Passed, job.Failed, job.Tests))
		detailsView.SetText(v.consoleLog(job.ID))
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})
	list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// consoleLog reads the collected console log for a job, if present
func (v *JobViewer) consoleLog(jobID string) string {
	path := filepath.Join(v.runDir, jobID, "console.log")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("[gray]no console log collected (%s)", path)
	}
	text := string(data)
	// tview treats brackets as color tags
	return strings.ReplaceAll(text, "[", "[[")
}
