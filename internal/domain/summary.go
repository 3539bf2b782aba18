package domain

// OverallStatus is the aggregate outcome of one run
type OverallStatus string

const (
	StatusSuccess        OverallStatus = "Success"
	StatusPartialFailure OverallStatus = "PartialFailure"
	StatusFailed         OverallStatus = "Failed"
	StatusTimedOut       OverallStatus = "TimedOut"
)

// JobSummary is the per-job slice of the run manifest
type JobSummary struct {
	ID              string    `json:"id"`
	Suite           Suite     `json:"suite"`
	Status          JobStatus `json:"status"`
	ExitCode        int       `json:"exit_code"`
	Tests           int       `json:"tests"`
	Passed          int       `json:"passed"`
	Failed          int       `json:"failed"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// RunSummary is the persisted run manifest (summary.json)
type RunSummary struct {
	RunID           string        `json:"run_id"`
	ProjectType     ProjectType   `json:"project_type"`
	Suite           Suite         `json:"suite"`
	TotalTests      int           `json:"total_tests"`
	Passed          int           `json:"passed"`
	Failed          int           `json:"failed"`
	SuccessRate     float64       `json:"success_rate"`
	DurationSeconds float64       `json:"duration_seconds"`
	OverallStatus   OverallStatus `json:"overall_status"`
	Jobs            []JobSummary  `json:"jobs"`
	Timestamp       string        `json:"timestamp"`
}

// AggregateStatus derives the overall status from terminal jobs.
// TimedOut takes precedence over Failed; PartialFailure when some but
// not all jobs failed; Success only when every job succeeded.
func AggregateStatus(jobs []*TestJob) OverallStatus {
	if len(jobs) == 0 {
		return StatusSuccess
	}
	var succeeded, failed, timedOut int
	for _, j := range jobs {
		switch j.Status {
		case JobSucceeded:
			succeeded++
		case JobTimedOut:
			timedOut++
		default:
			failed++
		}
	}
	switch {
	case timedOut > 0:
		return StatusTimedOut
	case failed == 0:
		return StatusSuccess
	case succeeded > 0:
		return StatusPartialFailure
	default:
		return StatusFailed
	}
}
