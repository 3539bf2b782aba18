// Package engine drives the container engine CLI. The orchestrator
// only needs a thin slice of it: build an image from a path, start and
// stop named containers on a named network, run a job to completion,
// and copy files out of a container's filesystem.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// JobRun describes one blocking test-job container invocation
type JobRun struct {
	Name    string
	Image   string
	Network string
	WorkDir string
	Command []string
	Env     []string
}

// Engine abstracts the container engine so tests can record commands
// instead of issuing them.
type Engine interface {
	BuildImage(ctx context.Context, tag, contextDir string, useCache bool) error
	CreateNetwork(ctx context.Context, name string) error
	RemoveNetwork(ctx context.Context, name string) error
	StartService(ctx context.Context, name, image, network string) error
	RunJob(ctx context.Context, run JobRun) (output string, exitCode int, err error)
	Exec(ctx context.Context, container string, command []string) error
	Stop(ctx context.Context, container string, grace time.Duration) error
	Remove(ctx context.Context, container string) error
	CopyFrom(ctx context.Context, container, src, dst string) error
	ContainerExists(ctx context.Context, container string) (bool, error)
	RemoveVolumes(ctx context.Context, prefix string) error
}

// Docker shells out to the docker CLI. With dryRun set, every mutating
// call logs the command it would have issued and reports synthetic
// success without touching the engine.
type Docker struct {
	bin    string
	dryRun bool
	log    zerolog.Logger
}

// NewDocker creates a Docker engine wrapper
func NewDocker(log zerolog.Logger, dryRun bool) *Docker {
	return &Docker{bin: "docker", dryRun: dryRun, log: log}
}

func (d *Docker) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, d.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w: %s", d.bin, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (d *Docker) skipDry(args ...string) bool {
	if !d.dryRun {
		return false
	}
	d.log.Info().Str("cmd", d.bin+" "+strings.Join(args, " ")).Msg("dry-run: skipping engine command")
	return true
}

// BuildImage builds the test image from a context directory
func (d *Docker) BuildImage(ctx context.Context, tag, contextDir string, useCache bool) error {
	args := []string{"build", "-t", tag}
	if !useCache {
		args = append(args, "--no-cache")
	}
	args = append(args, contextDir)
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// CreateNetwork creates the run-exclusive bridge network
func (d *Docker) CreateNetwork(ctx context.Context, name string) error {
	args := []string{"network", "create", name}
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// RemoveNetwork removes the run network
func (d *Docker) RemoveNetwork(ctx context.Context, name string) error {
	args := []string{"network", "rm", name}
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// StartService starts a long-lived backing-service container
func (d *Docker) StartService(ctx context.Context, name, image, network string) error {
	args := []string{"run", "-d", "--name", name, "--network", network, image}
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// RunJob runs a job container to completion and returns its combined
// output and exit code. A non-zero exit is not an error; engine-level
// failures and context cancellation are.
func (d *Docker) RunJob(ctx context.Context, run JobRun) (string, int, error) {
	args := []string{"run", "--name", run.Name}
	if run.Network != "" {
		args = append(args, "--network", run.Network)
	}
	if run.WorkDir != "" {
		args = append(args, "-w", run.WorkDir)
	}
	for _, e := range run.Env {
		args = append(args, "-e", e)
	}
	args = append(args, run.Image)
	args = append(args, run.Command...)

	if d.skipDry(args...) {
		return "", 0, nil
	}

	cmd := exec.CommandContext(ctx, d.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return string(out), -1, ctx.Err()
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return string(out), ee.ExitCode(), nil
		}
		return string(out), -1, err
	}
	return string(out), 0, nil
}

// Exec runs a command inside a running container
func (d *Docker) Exec(ctx context.Context, container string, command []string) error {
	args := append([]string{"exec", container}, command...)
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// Stop stops a container, giving it the grace period between SIGTERM
// and the forced kill.
func (d *Docker) Stop(ctx context.Context, container string, grace time.Duration) error {
	args := []string{"stop", "-t", strconv.Itoa(int(grace.Seconds())), container}
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// Remove deletes a stopped container
func (d *Docker) Remove(ctx context.Context, container string) error {
	args := []string{"rm", "-f", container}
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// CopyFrom copies a path out of a container's filesystem to the host
func (d *Docker) CopyFrom(ctx context.Context, container, src, dst string) error {
	args := []string{"cp", container + ":" + src, dst}
	if d.skipDry(args...) {
		return nil
	}
	_, err := d.run(ctx, args...)
	return err
}

// ContainerExists reports whether a named container is still known to
// the engine. Always false in dry-run mode: nothing was created.
func (d *Docker) ContainerExists(ctx context.Context, container string) (bool, error) {
	if d.dryRun {
		return false, nil
	}
	cmd := exec.CommandContext(ctx, d.bin, "container", "inspect", container)
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveVolumes removes every named volume whose name carries the
// run prefix.
func (d *Docker) RemoveVolumes(ctx context.Context, prefix string) error {
	if d.skipDry("volume", "ls", "-q", "--filter", "name="+prefix) {
		return nil
	}
	out, err := d.run(ctx, "volume", "ls", "-q", "--filter", "name="+prefix)
	if err != nil {
		return err
	}
	var firstErr error
	for _, name := range strings.Fields(out) {
		if _, err := d.run(ctx, "volume", "rm", name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
