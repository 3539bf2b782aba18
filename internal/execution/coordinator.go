package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine"
	"trun/internal/ui"
)

// Coordinator resolves the requested suite into jobs and supervises
// their execution. Job-level failures never propagate as errors; they
// are captured as job status so one failing suite cannot prevent
// artifact collection for the others.
type Coordinator struct {
	cfg      *config.Config
	engine   engine.Engine
	log      zerolog.Logger
	progress *ui.ProgressBar
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(cfg *config.Config, eng engine.Engine, log zerolog.Logger) *Coordinator {
	return &Coordinator{cfg: cfg, engine: eng, log: log}
}

// SetProgress sets the progress bar updated as jobs reach terminal state
func (c *Coordinator) SetProgress(progress *ui.ProgressBar) {
	c.progress = progress
}

// ResolveJobs expands (projectType, suite) into the ordered job set.
// "all" fans out to one job per suite the runtime declares.
func ResolveJobs(cfg *config.Config, rt domain.RuntimeSpec, image string) ([]*domain.TestJob, error) {
	templates := rt.Templates(cfg.Suite)
	if len(templates) == 0 {
		return nil, fmt.Errorf("project type %s has no %s suite", rt.Type, cfg.Suite)
	}

	jobs := make([]*domain.TestJob, 0, len(templates))
	for _, tmpl := range templates {
		id := fmt.Sprintf("%s-%s", rt.Type, tmpl.Suite)
		jobs = append(jobs, domain.NewTestJob(id, tmpl.Suite, image, tmpl))
	}
	return jobs, nil
}

// Run executes the job set, sequentially or with one worker per job,
// under a single global timeout. Every job reaches a terminal state
// before Run returns: jobs still running (or never started) when the
// deadline fires are transitioned to TimedOut.
func (c *Coordinator) Run(ctx context.Context, jobs []*domain.TestJob) {
	if len(jobs) == 0 {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	queue := make(chan *domain.TestJob, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	workerCount := 1
	if c.cfg.Parallel {
		workerCount = len(jobs)
	}
	c.log.Info().Int("jobs", len(jobs)).Int("workers", workerCount).
		Int("timeout_s", c.cfg.TimeoutSeconds).Msg("starting job execution")

	var mu sync.Mutex
	var completed, passed, failed int

	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if runCtx.Err() != nil {
					job.MarkRunning()
					job.Finish(domain.JobTimedOut, -1)
				} else {
					c.runJob(runCtx, job)
				}

				mu.Lock()
				completed++
				if job.Status == domain.JobSucceeded {
					passed++
				} else {
					failed++
				}
				if c.progress != nil {
					c.progress.Update(completed, passed, failed)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if c.progress != nil {
		c.progress.Finish()
	}
}

// runJob drives one container invocation and records its outcome on
// the job. On timeout the container gets the bounded stop grace before
// a forced kill.
func (c *Coordinator) runJob(ctx context.Context, job *domain.TestJob) {
	job.MarkRunning()
	container := c.cfg.ContainerName(job.ID)
	c.log.Info().Str("job", job.ID).Str("image", job.Image).Msg("job started")

	output, exitCode, err := c.engine.RunJob(ctx, engine.JobRun{
		Name:    container,
		Image:   job.Image,
		Network: c.cfg.NetworkName(),
		WorkDir: job.WorkDir,
		Command: job.Command,
		Env:     []string{"TRUN_RUN_ID=" + c.cfg.RunID},
	})
	job.Output = output

	switch {
	case err != nil && ctx.Err() != nil:
		job.Finish(domain.JobTimedOut, -1)
		c.stopTimedOut(container)
		c.log.Warn().Str("job", job.ID).Msg("job timed out")
	case err != nil:
		job.Finish(domain.JobFailed, -1)
		c.log.Error().Str("job", job.ID).Err(err).Msg("job failed to run")
	case exitCode == 0:
		job.Finish(domain.JobSucceeded, 0)
		c.log.Info().Str("job", job.ID).Dur("duration", job.Duration()).Msg("job succeeded")
	default:
		job.Finish(domain.JobFailed, exitCode)
		c.log.Warn().Str("job", job.ID).Int("exit_code", exitCode).Msg("job failed")
	}
}

// stopTimedOut stops a timed-out job container on a fresh context: the
// run context is already past its deadline.
func (c *Coordinator) stopTimedOut(container string) {
	grace := config.StopGraceSeconds * time.Second
	stopCtx, cancel := context.WithTimeout(context.Background(), grace+5*time.Second)
	defer cancel()
	if err := c.engine.Stop(stopCtx, container, grace); err != nil {
		c.log.Warn().Str("container", container).Err(err).Msg("failed to stop timed-out container")
	}
}
