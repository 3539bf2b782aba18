package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"trun/internal/cli"
	"trun/internal/collect"
	"trun/internal/config"
	"trun/internal/detect"
	"trun/internal/domain"
	"trun/internal/engine"
	"trun/internal/execution"
	"trun/internal/image"
	"trun/internal/lifecycle"
	"trun/internal/logging"
	"trun/internal/report"
	"trun/internal/services"
	"trun/internal/ui"
	"trun/internal/upload"
)

// RunCommand handles the run command
type RunCommand struct {
	flags *cli.Flags
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(flags *cli.Flags) *RunCommand {
	return &RunCommand{flags: flags}
}

// Execute drives the full orchestration flow: detect, build, launch
// services, run jobs, collect, summarize, upload, teardown. Teardown
// runs exactly once on every exit path.
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg, err := config.Build(rc.flags.ToConfigFlags())
	if err != nil {
		return err
	}
	log := logging.New(cfg.Verbose)
	formatter := ui.NewFormatter()

	// runId is a fresh timestamp; a prior run's directory is never
	// overwritten.
	if _, err := os.Stat(cfg.RunDir()); err == nil {
		return fmt.Errorf("run directory already exists: %s", cfg.RunDir())
	}

	eng := engine.NewDocker(log, cfg.DryRun)
	lm := lifecycle.NewManager(cfg, eng, log)
	ctx, stop := lm.Context(context.Background())
	defer stop()
	defer lm.Teardown()

	formatter.PrintHeader("Containerized Test Run")
	color.White("Run ID: %s | Suite: %s | Parallel: %t | Timeout: %ds\n",
		cfg.RunID, cfg.Suite, cfg.Parallel, cfg.TimeoutSeconds)
	if cfg.DryRun {
		color.Yellow("Dry run: no containers will be created\n")
	}

	start := time.Now()

	// Detect
	detector := detect.NewDetector(log)
	projectType, err := detector.Detect(cfg.ProjectPath, cfg.ProjectType)
	if err != nil {
		return err
	}
	rt, ok := domain.RuntimeFor(projectType)
	if !ok {
		return fmt.Errorf("no runtime configured for project type %s", projectType)
	}
	color.White("Project type: %s\n", projectType)

	// Build image
	builder := image.NewBuilder(cfg, eng, log)
	img, err := builder.Build(ctx, rt)
	if err != nil {
		return err
	}

	// Run network
	if err := eng.CreateNetwork(ctx, cfg.NetworkName()); err != nil {
		return fmt.Errorf("create run network: %w", err)
	}
	lm.TrackNetwork()

	// Backing services
	specs := rt.ServicesFor(cfg.Suite)
	for _, spec := range specs {
		lm.Track(cfg.ContainerName(spec.Name))
	}
	launcher := services.NewLauncher(cfg, eng, log)
	if _, err := launcher.Start(ctx, specs); err != nil {
		return err
	}

	// Jobs
	jobs, err := execution.ResolveJobs(cfg, rt, img)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		lm.Track(cfg.ContainerName(job.ID))
	}
	if cfg.DryRun {
		formatter.PrintJobList(jobs)
	}

	coordinator := execution.NewCoordinator(cfg, eng, log)
	coordinator.SetProgress(ui.NewProgressBar(len(jobs)))
	coordinator.Run(ctx, jobs)

	// Collect artifacts. The run context may already be cancelled or
	// past its deadline; collection gets its own bounded context so
	// partial artifacts survive timeouts and interrupts.
	collectCtx, cancelCollect := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelCollect()
	collector := collect.NewCollector(cfg, eng, log)
	for _, warn := range collector.Collect(collectCtx, jobs) {
		color.Yellow("warning: %v", warn)
	}

	// Summarize
	reporter := report.NewReporter(cfg, report.NewParser(), log)
	summary := reporter.Summarize(jobs, time.Since(start))
	if err := reporter.Save(summary); err != nil {
		log.Warn().Err(err).Msg("failed to persist run manifest")
	}
	formatter.PrintSummary(summary)

	// Upload. Failures are warnings; they never flip the exit code.
	if uploadWanted(cfg, ctx) {
		uploader := upload.NewUploader(cfg.ReportURL, log)
		if err := uploader.Upload(collectCtx, cfg.RunDir(), cfg.RunID); err != nil {
			log.Warn().Err(err).Msg("upload warning")
			color.Yellow("warning: %v", err)
		}
	}

	lm.Teardown()

	if summary.OverallStatus != domain.StatusSuccess {
		return &domain.RunFailedError{Status: summary.OverallStatus}
	}
	return nil
}

// uploadWanted reports whether the results upload should run. An
// interrupted run skips it so teardown does not wait on the network;
// the partial artifacts and manifest stay on disk.
func uploadWanted(cfg *config.Config, runCtx context.Context) bool {
	return cfg.UploadResults && runCtx.Err() == nil
}
