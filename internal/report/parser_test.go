package report

import (
	"os"
	"path/filepath"
	"testing"

	"trun/internal/domain"
)

func jobWithOutput(status domain.JobStatus, output string) *domain.TestJob {
	job := domain.NewTestJob("node-unit", domain.SuiteUnit, "trun/node-test", domain.JobTemplate{})
	job.MarkRunning()
	job.Finish(status, 0)
	job.Output = output
	return job
}

func writeReport(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParser_ReportFiles(t *testing.T) {
	p := NewParser()

	t.Run("flat report shape", func(t *testing.T) {
		dir := t.TempDir()
		writeReport(t, dir, "test-results/report.json", `{"tests": 40, "passed": 38, "failed": 2}`)

		counts := p.ParseJobCounts(dir, jobWithOutput(domain.JobSucceeded, ""))
		if counts != (Counts{Tests: 40, Passed: 38, Failed: 2}) {
			t.Errorf("unexpected counts: %+v", counts)
		}
	})

	t.Run("pytest-json-report summary shape", func(t *testing.T) {
		dir := t.TempDir()
		writeReport(t, dir, "test-results/report.json", `{"summary": {"total": 12, "passed": 10, "failed": 2}}`)

		counts := p.ParseJobCounts(dir, jobWithOutput(domain.JobSucceeded, ""))
		if counts != (Counts{Tests: 12, Passed: 10, Failed: 2}) {
			t.Errorf("unexpected counts: %+v", counts)
		}
	})

	t.Run("multiple report files are summed", func(t *testing.T) {
		dir := t.TempDir()
		writeReport(t, dir, "test-results/report.json", `{"tests": 5, "passed": 5, "failed": 0}`)
		writeReport(t, dir, "coverage/report.json", `{"tests": 3, "passed": 2, "failed": 1}`)

		counts := p.ParseJobCounts(dir, jobWithOutput(domain.JobSucceeded, ""))
		if counts != (Counts{Tests: 8, Passed: 7, Failed: 1}) {
			t.Errorf("unexpected counts: %+v", counts)
		}
	})

	t.Run("malformed report falls back to console", func(t *testing.T) {
		dir := t.TempDir()
		writeReport(t, dir, "test-results/report.json", `{not json`)

		counts := p.ParseJobCounts(dir, jobWithOutput(domain.JobSucceeded, "3 passed in 0.5s"))
		if counts != (Counts{Tests: 3, Passed: 3}) {
			t.Errorf("unexpected counts: %+v", counts)
		}
	})
}

func TestParser_Console(t *testing.T) {
	p := NewParser()
	dir := t.TempDir()

	tests := []struct {
		name   string
		output string
		want   Counts
	}{
		{
			"phpunit all green",
			"OK (25 tests, 74 assertions)",
			Counts{Tests: 25, Passed: 25},
		},
		{
			"phpunit with failures",
			"Tests: 30, Assertions: 90, Failures: 2, Errors: 1.",
			Counts{Tests: 30, Passed: 27, Failed: 3},
		},
		{
			"pytest passed and failed",
			"==== 2 failed, 18 passed in 4.32s ====",
			Counts{Tests: 20, Passed: 18, Failed: 2},
		},
		{
			"pytest all passed",
			"==== 18 passed in 4.32s ====",
			Counts{Tests: 18, Passed: 18},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := p.ParseJobCounts(dir, jobWithOutput(domain.JobSucceeded, tt.output))
			if counts != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, counts)
			}
		})
	}
}

func TestParser_NoRecognizableResults(t *testing.T) {
	p := NewParser()
	dir := t.TempDir()

	// A job with no report.json and no parseable console summary
	// contributes nothing to the counts, regardless of its status.
	tests := []struct {
		name   string
		status domain.JobStatus
		output string
	}{
		{"succeeded job", domain.JobSucceeded, "no recognizable summary"},
		{"failed job", domain.JobFailed, "segmentation fault"},
		{"timed out job", domain.JobTimedOut, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := p.ParseJobCounts(dir, jobWithOutput(tt.status, tt.output))
			if counts != (Counts{}) {
				t.Errorf("expected 0/0 counts, got %+v", counts)
			}
		})
	}
}
