package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
)

func reporterConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ProjectType: domain.TypePython,
		Suite:       domain.SuiteAll,
		ResultsDir:  t.TempDir(),
		RunID:       "20260829-101500",
	}
}

func summaryJob(id string, suite domain.Suite, status domain.JobStatus, output string) *domain.TestJob {
	job := domain.NewTestJob(id, suite, "trun/python-test", domain.JobTemplate{})
	job.MarkRunning()
	job.Finish(status, 0)
	job.Output = output
	return job
}

func TestReporter_Summarize(t *testing.T) {
	cfg := reporterConfig(t)
	r := NewReporter(cfg, NewParser(), zerolog.Nop())

	t.Run("aggregates per-job counts", func(t *testing.T) {
		jobs := []*domain.TestJob{
			summaryJob("python-unit", domain.SuiteUnit, domain.JobSucceeded, "10 passed in 1.2s"),
			summaryJob("python-integration", domain.SuiteIntegration, domain.JobFailed, "2 failed, 6 passed in 3.1s"),
		}

		summary := r.Summarize(jobs, 90*time.Second)
		if summary.RunID != cfg.RunID {
			t.Errorf("unexpected run id: %s", summary.RunID)
		}
		if summary.TotalTests != 18 || summary.Passed != 16 || summary.Failed != 2 {
			t.Errorf("unexpected totals: %d/%d/%d", summary.TotalTests, summary.Passed, summary.Failed)
		}
		if summary.OverallStatus != domain.StatusPartialFailure {
			t.Errorf("expected partial failure, got %s", summary.OverallStatus)
		}
		if summary.DurationSeconds != 90 {
			t.Errorf("unexpected duration: %f", summary.DurationSeconds)
		}
		want := float64(16) / float64(18)
		if summary.SuccessRate != want {
			t.Errorf("expected success rate %f, got %f", want, summary.SuccessRate)
		}
		if len(summary.Jobs) != 2 {
			t.Fatalf("expected 2 job summaries, got %d", len(summary.Jobs))
		}
		if summary.Jobs[1].Failed != 2 {
			t.Errorf("job summary should carry its own counts, got %+v", summary.Jobs[1])
		}
	})

	t.Run("job without parsed results contributes nothing", func(t *testing.T) {
		jobs := []*domain.TestJob{
			summaryJob("python-unit", domain.SuiteUnit, domain.JobSucceeded, "no recognizable summary"),
		}

		summary := r.Summarize(jobs, time.Second)
		if summary.TotalTests != 0 || summary.Passed != 0 {
			t.Errorf("expected 0/0 totals, got %d/%d", summary.TotalTests, summary.Passed)
		}
		if summary.SuccessRate != 0 {
			t.Errorf("expected 0 success rate, got %f", summary.SuccessRate)
		}
		// status still reflects the job outcome
		if summary.OverallStatus != domain.StatusSuccess {
			t.Errorf("expected success status, got %s", summary.OverallStatus)
		}
	})

	t.Run("zero tests yields zero success rate", func(t *testing.T) {
		summary := r.Summarize(nil, time.Second)
		if summary.SuccessRate != 0 {
			t.Errorf("expected 0 success rate, got %f", summary.SuccessRate)
		}
		if summary.TotalTests != 0 {
			t.Errorf("expected 0 tests, got %d", summary.TotalTests)
		}
	})
}

func TestReporter_SaveAndLoad(t *testing.T) {
	cfg := reporterConfig(t)
	r := NewReporter(cfg, NewParser(), zerolog.Nop())

	jobs := []*domain.TestJob{
		summaryJob("python-unit", domain.SuiteUnit, domain.JobSucceeded, "5 passed in 0.8s"),
	}
	summary := r.Summarize(jobs, 30*time.Second)

	if err := r.Save(summary); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(cfg.SummaryPath())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.RunID != summary.RunID {
		t.Errorf("run id mismatch: %s vs %s", loaded.RunID, summary.RunID)
	}
	if loaded.TotalTests != 5 || loaded.Passed != 5 {
		t.Errorf("unexpected totals after reload: %d/%d", loaded.TotalTests, loaded.Passed)
	}
	if loaded.OverallStatus != domain.StatusSuccess {
		t.Errorf("unexpected status after reload: %s", loaded.OverallStatus)
	}
}

func TestLoadLatest(t *testing.T) {
	t.Run("picks the newest run", func(t *testing.T) {
		resultsDir := t.TempDir()
		for _, runID := range []string{"20260829-090000", "20260829-110000", "20260829-100000"} {
			cfg := &config.Config{
				ProjectType: domain.TypeNode,
				Suite:       domain.SuiteUnit,
				ResultsDir:  resultsDir,
				RunID:       runID,
			}
			r := NewReporter(cfg, NewParser(), zerolog.Nop())
			if err := r.Save(r.Summarize(nil, time.Second)); err != nil {
				t.Fatal(err)
			}
		}

		summary, runDir, err := LoadLatest(resultsDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.RunID != "20260829-110000" {
			t.Errorf("expected newest run, got %s", summary.RunID)
		}
		if filepath.Base(runDir) != "20260829-110000" {
			t.Errorf("unexpected run dir: %s", runDir)
		}
	})

	t.Run("skips runs without a manifest", func(t *testing.T) {
		resultsDir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(resultsDir, "20260829-120000"), 0755); err != nil {
			t.Fatal(err)
		}
		cfg := &config.Config{
			ProjectType: domain.TypeNode,
			Suite:       domain.SuiteUnit,
			ResultsDir:  resultsDir,
			RunID:       "20260829-090000",
		}
		r := NewReporter(cfg, NewParser(), zerolog.Nop())
		if err := r.Save(r.Summarize(nil, time.Second)); err != nil {
			t.Fatal(err)
		}

		summary, _, err := LoadLatest(resultsDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.RunID != "20260829-090000" {
			t.Errorf("expected the run that has a manifest, got %s", summary.RunID)
		}
	})

	t.Run("empty results dir is an error", func(t *testing.T) {
		if _, _, err := LoadLatest(t.TempDir()); err == nil {
			t.Error("expected error for empty results dir")
		}
	})
}
