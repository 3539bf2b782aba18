package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine"
)

// ServiceStatus is one service's probe outcome
type ServiceStatus struct {
	Spec     domain.ServiceSpec
	State    domain.ServiceState
	Attempts int
	Err      error
}

// Launcher starts the declared backing services and blocks until every
// one is Healthy or at least one is Failed. A Failed service is a hard
// precondition failure: tests against an unready dependency produce
// misleading results.
type Launcher struct {
	cfg    *config.Config
	engine engine.Engine
	log    zerolog.Logger

	// injectable for tests
	proberFn func(domain.ServiceSpec, string) Prober
	sleepFn  func(context.Context, time.Duration) error
}

// NewLauncher creates a new Launcher
func NewLauncher(cfg *config.Config, eng engine.Engine, log zerolog.Logger) *Launcher {
	l := &Launcher{cfg: cfg, engine: eng, log: log}
	l.proberFn = func(spec domain.ServiceSpec, container string) Prober {
		return proberFor(spec, cfg, eng, container)
	}
	l.sleepFn = sleepCtx
	return l
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start launches all services on the run network and probes them
// concurrently. Returns ServiceHealthError when any service exhausts
// its retry budget. In dry-run mode every service is reported Healthy
// without probing: nothing was started.
func (l *Launcher) Start(ctx context.Context, specs []domain.ServiceSpec) ([]ServiceStatus, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	statuses := make([]ServiceStatus, len(specs))
	for i, spec := range specs {
		statuses[i] = ServiceStatus{Spec: spec, State: domain.ServicePending}

		container := l.cfg.ContainerName(spec.Name)
		l.log.Info().Str("service", spec.Name).Str("container", container).Msg("starting service")
		if err := l.engine.StartService(ctx, container, spec.Image, l.cfg.NetworkName()); err != nil {
			statuses[i].State = domain.ServiceFailed
			statuses[i].Err = err
			return statuses, &domain.ServiceHealthError{Service: spec.Name, Attempts: 0, Err: err}
		}
	}

	if l.cfg.DryRun {
		for i := range statuses {
			statuses[i].State = domain.ServiceHealthy
		}
		l.log.Info().Int("services", len(specs)).Msg("dry-run: services assumed healthy")
		return statuses, nil
	}

	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func(st *ServiceStatus) {
			defer wg.Done()
			l.probe(ctx, st)
		}(&statuses[i])
	}
	wg.Wait()

	for _, st := range statuses {
		if st.State != domain.ServiceHealthy {
			return statuses, &domain.ServiceHealthError{
				Service:  st.Spec.Name,
				Attempts: st.Attempts,
				Err:      st.Err,
			}
		}
	}
	return statuses, nil
}

// probe runs the retry loop for one service. Terminates within
// MaxRetries * RetryInterval regardless of outcome.
func (l *Launcher) probe(ctx context.Context, st *ServiceStatus) {
	spec := st.Spec
	retries := spec.MaxRetries
	if retries < 1 {
		retries = 1
	}
	prober := l.proberFn(spec, l.cfg.ContainerName(spec.Name))

	// The budget caps the whole loop: a check that hangs for its full
	// per-attempt window must not stretch probing past
	// MaxRetries * RetryInterval.
	probeCtx, cancel := context.WithTimeout(ctx, spec.ReadyBudget())
	defer cancel()

	for attempt := 1; attempt <= retries; attempt++ {
		st.Attempts = attempt

		checkCtx, cancelCheck := context.WithTimeout(probeCtx, spec.RetryInterval)
		err := prober.Check(checkCtx)
		cancelCheck()
		if err == nil {
			st.State = domain.ServiceHealthy
			l.log.Info().Str("service", spec.Name).Int("attempt", attempt).Msg("service healthy")
			return
		}
		st.Err = err
		l.log.Debug().Str("service", spec.Name).Int("attempt", attempt).Err(err).Msg("health check failed")

		if attempt == retries {
			break
		}
		if err := l.sleepFn(probeCtx, spec.RetryInterval); err != nil {
			st.Err = err
			break
		}
	}
	st.State = domain.ServiceFailed
}
