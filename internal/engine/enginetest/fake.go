// Package enginetest provides a recording fake of the container
// engine for tests.
package enginetest

import (
	"context"
	"sync"
	"time"

	"trun/internal/engine"
)

// Call is one recorded engine invocation
type Call struct {
	Op   string
	Args []string
}

// Fake implements engine.Engine, recording every call. Error fields
// and the RunJobFn hook steer behavior per test.
type Fake struct {
	mu    sync.Mutex
	calls []Call

	BuildErr         error
	NetworkErr       error
	RemoveNetworkErr error
	StartErr         error
	ExecErr          error
	StopErr          error
	RemoveErr        error
	CopyErr          error
	VolumesErr       error

	Exists    bool
	ExistsErr error

	RunJobFn func(ctx context.Context, run engine.JobRun) (string, int, error)
}

var _ engine.Engine = (*Fake)(nil)

func (f *Fake) record(op string, args ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: op, Args: args})
}

// Calls returns a snapshot of recorded calls
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Count returns how many times an operation was invoked
func (f *Fake) Count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *Fake) BuildImage(ctx context.Context, tag, contextDir string, useCache bool) error {
	f.record("build", tag, contextDir)
	return f.BuildErr
}

func (f *Fake) CreateNetwork(ctx context.Context, name string) error {
	f.record("network-create", name)
	return f.NetworkErr
}

func (f *Fake) RemoveNetwork(ctx context.Context, name string) error {
	f.record("network-rm", name)
	return f.RemoveNetworkErr
}

func (f *Fake) StartService(ctx context.Context, name, image, network string) error {
	f.record("service-start", name, image, network)
	return f.StartErr
}

func (f *Fake) RunJob(ctx context.Context, run engine.JobRun) (string, int, error) {
	f.record("job-run", run.Name, run.Image)
	if f.RunJobFn != nil {
		return f.RunJobFn(ctx, run)
	}
	return "", 0, nil
}

func (f *Fake) Exec(ctx context.Context, container string, command []string) error {
	f.record("exec", container)
	return f.ExecErr
}

func (f *Fake) Stop(ctx context.Context, container string, grace time.Duration) error {
	f.record("stop", container)
	return f.StopErr
}

func (f *Fake) Remove(ctx context.Context, container string) error {
	f.record("rm", container)
	return f.RemoveErr
}

func (f *Fake) CopyFrom(ctx context.Context, container, src, dst string) error {
	f.record("cp", container, src, dst)
	return f.CopyErr
}

func (f *Fake) ContainerExists(ctx context.Context, container string) (bool, error) {
	f.record("inspect", container)
	return f.Exists, f.ExistsErr
}

func (f *Fake) RemoveVolumes(ctx context.Context, prefix string) error {
	f.record("volume-rm", prefix)
	return f.VolumesErr
}
