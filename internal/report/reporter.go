package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
)

// Reporter aggregates terminal jobs into a RunSummary and persists it
// as the run manifest (summary.json).
type Reporter struct {
	cfg    *config.Config
	parser *Parser
	log    zerolog.Logger
}

// NewReporter creates a new Reporter
func NewReporter(cfg *config.Config, parser *Parser, log zerolog.Logger) *Reporter {
	return &Reporter{cfg: cfg, parser: parser, log: log}
}

// Summarize builds the RunSummary for a finished job set. A job with
// no structured result files contributes its console-derived or
// file-level fallback counts; successRate is 0, never a division
// error, when no tests were counted.
func (r *Reporter) Summarize(jobs []*domain.TestJob, duration time.Duration) *domain.RunSummary {
	summary := &domain.RunSummary{
		RunID:           r.cfg.RunID,
		ProjectType:     r.cfg.ProjectType,
		Suite:           r.cfg.Suite,
		DurationSeconds: duration.Seconds(),
		OverallStatus:   domain.AggregateStatus(jobs),
		Timestamp:       time.Now().Format(time.RFC3339),
	}

	for _, job := range jobs {
		counts := r.parser.ParseJobCounts(r.cfg.JobDir(job.ID), job)
		summary.TotalTests += counts.Tests
		summary.Passed += counts.Passed
		summary.Failed += counts.Failed
		summary.Jobs = append(summary.Jobs, domain.JobSummary{
			ID:              job.ID,
			Suite:           job.Suite,
			Status:          job.Status,
			ExitCode:        job.ExitCode,
			Tests:           counts.Tests,
			Passed:          counts.Passed,
			Failed:          counts.Failed,
			DurationSeconds: job.Duration().Seconds(),
		})
	}

	if summary.TotalTests > 0 {
		summary.SuccessRate = float64(summary.Passed) / float64(summary.TotalTests)
	}
	return summary
}

// Save writes the run manifest into the run directory
func (r *Reporter) Save(summary *domain.RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	path := r.cfg.SummaryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	r.log.Info().Str("path", path).Msg("run manifest saved")
	return nil
}

// Load reads a run manifest from a path
func Load(path string) (*domain.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary file: %w", err)
	}
	var summary domain.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("parse summary: %w", err)
	}
	return &summary, nil
}

// LoadLatest finds the most recent run manifest under the results
// directory. Run IDs are timestamps, so lexical order is time order.
func LoadLatest(resultsDir string) (*domain.RunSummary, string, error) {
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return nil, "", fmt.Errorf("read results dir: %w", err)
	}

	var runs []string
	for _, e := range entries {
		if e.IsDir() {
			runs = append(runs, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))

	for _, run := range runs {
		path := filepath.Join(resultsDir, run, config.DefaultSummaryFile)
		summary, err := Load(path)
		if err != nil {
			continue
		}
		return summary, filepath.Join(resultsDir, run), nil
	}
	return nil, "", fmt.Errorf("no run manifest found under %s", resultsDir)
}
