package collect

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine"
)

// Collector copies artifacts out of terminal job containers into the
// host-side run directory. Collection is best-effort per job: one
// failure never prevents collecting the others or computing a partial
// summary.
type Collector struct {
	cfg    *config.Config
	engine engine.Engine
	log    zerolog.Logger
}

// NewCollector creates a new Collector
func NewCollector(cfg *config.Config, eng engine.Engine, log zerolog.Logger) *Collector {
	return &Collector{cfg: cfg, engine: eng, log: log}
}

// Collect gathers artifacts for every terminal job, regardless of
// status: failed and timed-out jobs may hold partial artifacts worth
// keeping. Returned errors are warnings only.
func (c *Collector) Collect(ctx context.Context, jobs []*domain.TestJob) []error {
	var warnings []error
	for _, job := range jobs {
		if !job.Terminal() {
			continue
		}
		warnings = append(warnings, c.collectJob(ctx, job)...)
	}
	return warnings
}

func (c *Collector) collectJob(ctx context.Context, job *domain.TestJob) []error {
	var warnings []error

	jobDir := c.cfg.JobDir(job.ID)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		warnings = append(warnings, &domain.CollectionError{JobID: job.ID, Path: jobDir, Err: err})
		c.log.Warn().Str("job", job.ID).Err(err).Msg("failed to create job artifact dir")
		return warnings
	}

	if job.Output != "" {
		logPath := jobDir + "/console.log"
		if err := os.WriteFile(logPath, []byte(job.Output), 0644); err != nil {
			warnings = append(warnings, &domain.CollectionError{JobID: job.ID, Path: logPath, Err: err})
			c.log.Warn().Str("job", job.ID).Err(err).Msg("failed to write console log")
		}
	}

	container := c.cfg.ContainerName(job.ID)
	for _, path := range job.OutputPaths {
		exists, err := c.engine.ContainerExists(ctx, container)
		if err != nil {
			cerr := &domain.CollectionError{JobID: job.ID, Path: path, Err: err}
			warnings = append(warnings, cerr)
			c.log.Warn().Err(cerr).Msg("collection warning")
			continue
		}
		if !exists {
			// Container already removed; nothing to retry.
			c.log.Debug().Str("job", job.ID).Str("path", path).Msg("container gone, skipping artifact")
			continue
		}

		if err := c.engine.CopyFrom(ctx, container, path, jobDir); err != nil {
			cerr := &domain.CollectionError{JobID: job.ID, Path: path, Err: err}
			warnings = append(warnings, cerr)
			c.log.Warn().Err(cerr).Msg("collection warning")
			continue
		}
		c.log.Debug().Str("job", job.ID).Str("path", path).Msg("artifact collected")
	}
	return warnings
}
