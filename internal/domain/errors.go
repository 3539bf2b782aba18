package domain

import (
	"errors"
	"fmt"
)

// Exit codes. Precondition failures (detection, build, service health)
// sit outside the 0-2 outcome range so CI can tell "tests failed" from
// "tests never ran".
const (
	ExitOK            = 0
	ExitJobFailure    = 1
	ExitTimeout       = 2
	ExitDetection     = 10
	ExitBuild         = 11
	ExitServiceHealth = 12
)

// DetectionError means no manifest file of any kind was found
type DetectionError struct {
	Root string
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("no project manifest found under %s", e.Root)
}

// BuildError means the test-runner image could not be built
type BuildError struct {
	Type ProjectType
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build image for %s: %v", e.Type, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ServiceHealthError means a backing service exhausted its retry budget
type ServiceHealthError struct {
	Service  string
	Attempts int
	Err      error
}

func (e *ServiceHealthError) Error() string {
	return fmt.Sprintf("service %s not healthy after %d attempts: %v", e.Service, e.Attempts, e.Err)
}

func (e *ServiceHealthError) Unwrap() error { return e.Err }

// RunFailedError carries a non-success aggregate outcome to the exit code
type RunFailedError struct {
	Status OverallStatus
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("run finished with status %s", e.Status)
}

// CollectionError is a per-path artifact copy failure. Warning only.
type CollectionError struct {
	JobID string
	Path  string
	Err   error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("collect %s from job %s: %v", e.Path, e.JobID, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// UploadError is a result-upload failure. Warning only.
type UploadError struct {
	Endpoint string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload results to %s: %v", e.Endpoint, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// CleanupError is a teardown step failure. Warning only.
type CleanupError struct {
	Resource string
	Err      error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup %s: %v", e.Resource, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

// ExitCodeFor maps an error returned by the run command to the process
// exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var de *DetectionError
	if errors.As(err, &de) {
		return ExitDetection
	}
	var be *BuildError
	if errors.As(err, &be) {
		return ExitBuild
	}
	var se *ServiceHealthError
	if errors.As(err, &se) {
		return ExitServiceHealth
	}
	var re *RunFailedError
	if errors.As(err, &re) {
		if re.Status == StatusTimedOut {
			return ExitTimeout
		}
		return ExitJobFailure
	}
	return ExitJobFailure
}
