package domain

import "time"

// JobStatus is the lifecycle state of a TestJob
type JobStatus string

const (
	JobQueued    JobStatus = "Queued"
	JobRunning   JobStatus = "Running"
	JobSucceeded JobStatus = "Succeeded"
	JobFailed    JobStatus = "Failed"
	JobTimedOut  JobStatus = "TimedOut"
)

// TestJob is one container invocation running a test command for a
// project type/suite pairing. Status transitions are one-directional:
// Queued -> Running -> {Succeeded | Failed | TimedOut}. A terminal
// status is immutable once set.
type TestJob struct {
	ID          string
	Suite       Suite
	Image       string
	Command     []string
	WorkDir     string
	OutputPaths []string
	Status      JobStatus
	ExitCode    int
	Output      string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewTestJob creates a job in the Queued state
func NewTestJob(id string, suite Suite, image string, tmpl JobTemplate) *TestJob {
	return &TestJob{
		ID:          id,
		Suite:       suite,
		Image:       image,
		Command:     tmpl.Command,
		WorkDir:     tmpl.WorkDir,
		OutputPaths: tmpl.OutputPaths,
		Status:      JobQueued,
	}
}

// Terminal reports whether the job has reached a final state
func (j *TestJob) Terminal() bool {
	switch j.Status {
	case JobSucceeded, JobFailed, JobTimedOut:
		return true
	}
	return false
}

// MarkRunning transitions Queued -> Running. No-op on any other state.
func (j *TestJob) MarkRunning() {
	if j.Status != JobQueued {
		return
	}
	j.Status = JobRunning
	j.StartedAt = time.Now()
}

// Finish sets a terminal status and exit code. A job that is already
// terminal keeps its first outcome.
func (j *TestJob) Finish(status JobStatus, exitCode int) {
	if j.Terminal() {
		return
	}
	j.Status = status
	j.ExitCode = exitCode
	j.FinishedAt = time.Now()
}

// Duration returns the wall time the job spent running
func (j *TestJob) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}
