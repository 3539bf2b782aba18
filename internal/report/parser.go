package report

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"trun/internal/domain"
)

// Counts are the parsed test-case totals for one job
type Counts struct {
	Tests  int
	Passed int
	Failed int
}

// Parser extracts test counts from collected artifacts. It prefers
// structured report.json files and falls back to console-summary
// lines; a job yielding neither counts as 0/0.
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// reportFile is the structured result format jobs write into their
// output path. The nested summary shape covers pytest-json-report.
type reportFile struct {
	Tests   int `json:"tests"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Summary *struct {
		Total  int `json:"total"`
		Passed int `json:"passed"`
		Failed int `json:"failed"`
	} `json:"summary"`
}

// ParseJobCounts computes the counts for one job from its artifact
// directory, falling back to its console output.
func (p *Parser) ParseJobCounts(jobDir string, job *domain.TestJob) Counts {
	if counts, ok := p.parseReportFiles(jobDir); ok {
		return counts
	}
	if counts, ok := p.parseConsole(job.Output); ok {
		return counts
	}
	// No structured results and no recognizable console summary: the
	// job contributes 0/0. Its status alone drives the overall outcome.
	return Counts{}
}

// parseReportFiles sums every report.json found under the job dir
func (p *Parser) parseReportFiles(jobDir string) (Counts, bool) {
	var counts Counts
	found := false

	_ = filepath.WalkDir(jobDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "report.json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var rf reportFile
		if err := json.Unmarshal(data, &rf); err != nil {
			return nil
		}
		if rf.Summary != nil {
			counts.Tests += rf.Summary.Total
			counts.Passed += rf.Summary.Passed
			counts.Failed += rf.Summary.Failed
		} else {
			counts.Tests += rf.Tests
			counts.Passed += rf.Passed
			counts.Failed += rf.Failed
		}
		found = true
		return nil
	})
	return counts, found
}

var (
	okPattern      = regexp.MustCompile(`OK\s*\(\s*(\d+)\s+tests`)
	testsPattern   = regexp.MustCompile(`Tests:\s*(\d+)`)
	failurePattern = regexp.MustCompile(`Failures:\s*(\d+)`)
	errorPattern   = regexp.MustCompile(`Errors:\s*(\d+)`)
	pytestPassed   = regexp.MustCompile(`(\d+)\s+passed`)
	pytestFailed   = regexp.MustCompile(`(\d+)\s+failed`)
)

// parseConsole understands phpunit- and pytest-style summary lines
func (p *Parser) parseConsole(output string) (Counts, bool) {
	if output == "" {
		return Counts{}, false
	}

	// OK (N tests, ...) - all passed
	if m := okPattern.FindStringSubmatch(output); len(m) >= 2 {
		total := atoi(m[1])
		return Counts{Tests: total, Passed: total}, true
	}

	// Tests: N, Assertions: ..., Failures: F, Errors: E
	if m := testsPattern.FindStringSubmatch(output); len(m) >= 2 {
		total := atoi(m[1])
		failed := 0
		if fm := failurePattern.FindStringSubmatch(output); len(fm) >= 2 {
			failed += atoi(fm[1])
		}
		if em := errorPattern.FindStringSubmatch(output); len(em) >= 2 {
			failed += atoi(em[1])
		}
		passed := 0
		if total >= failed {
			passed = total - failed
		}
		if passed > 0 || failed > 0 {
			return Counts{Tests: total, Passed: passed, Failed: failed}, true
		}
	}

	// pytest: "N passed", "M failed"
	passed, failed := 0, 0
	if m := pytestPassed.FindStringSubmatch(output); len(m) >= 2 {
		passed = atoi(m[1])
	}
	if m := pytestFailed.FindStringSubmatch(output); len(m) >= 2 {
		failed = atoi(m[1])
	}
	if passed > 0 || failed > 0 {
		return Counts{Tests: passed + failed, Passed: passed, Failed: failed}, true
	}

	return Counts{}, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
