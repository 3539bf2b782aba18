package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine/enginetest"
)

type scriptedProber struct {
	failures int
	checks   int
}

func (p *scriptedProber) Check(ctx context.Context) error {
	p.checks++
	if p.checks <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

type proberFunc func(context.Context) error

func (f proberFunc) Check(ctx context.Context) error { return f(ctx) }

func testConfig(dryRun bool) *config.Config {
	return &config.Config{
		RunID:  "20260829-101500",
		DryRun: dryRun,
	}
}

func testSpec(name string, retries int) domain.ServiceSpec {
	return domain.ServiceSpec{
		Name:          name,
		Image:         name + ":latest",
		Probe:         domain.ProbeTCP,
		ProbeTarget:   "127.0.0.1:1",
		MaxRetries:    retries,
		RetryInterval: 10 * time.Millisecond,
	}
}

func newTestLauncher(cfg *config.Config, fake *enginetest.Fake, probers map[string]*scriptedProber) *Launcher {
	l := NewLauncher(cfg, fake, zerolog.Nop())
	l.proberFn = func(spec domain.ServiceSpec, container string) Prober {
		return probers[spec.Name]
	}
	l.sleepFn = func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	}
	return l
}

func TestLauncher_Start(t *testing.T) {
	t.Run("no services is a no-op", func(t *testing.T) {
		fake := &enginetest.Fake{}
		l := newTestLauncher(testConfig(false), fake, nil)

		statuses, err := l.Start(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if statuses != nil {
			t.Errorf("expected no statuses, got %v", statuses)
		}
		if fake.Count("service-start") != 0 {
			t.Error("no containers should start")
		}
	})

	t.Run("healthy after retries", func(t *testing.T) {
		fake := &enginetest.Fake{}
		probers := map[string]*scriptedProber{
			"mysql": {failures: 2},
			"redis": {},
		}
		l := newTestLauncher(testConfig(false), fake, probers)

		specs := []domain.ServiceSpec{testSpec("mysql", 5), testSpec("redis", 5)}
		statuses, err := l.Start(context.Background(), specs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, st := range statuses {
			if st.State != domain.ServiceHealthy {
				t.Errorf("%s should be healthy, got %s", st.Spec.Name, st.State)
			}
		}
		if got := statuses[0].Attempts; got != 3 {
			t.Errorf("mysql should take 3 attempts, got %d", got)
		}
		if got := statuses[1].Attempts; got != 1 {
			t.Errorf("redis should take 1 attempt, got %d", got)
		}
		if fake.Count("service-start") != 2 {
			t.Errorf("expected 2 container starts, got %d", fake.Count("service-start"))
		}
	})

	t.Run("retry budget exhausted", func(t *testing.T) {
		fake := &enginetest.Fake{}
		probers := map[string]*scriptedProber{
			"mysql": {failures: 100},
		}
		l := newTestLauncher(testConfig(false), fake, probers)

		statuses, err := l.Start(context.Background(), []domain.ServiceSpec{testSpec("mysql", 3)})

		var she *domain.ServiceHealthError
		if !errors.As(err, &she) {
			t.Fatalf("expected ServiceHealthError, got %v", err)
		}
		if she.Service != "mysql" {
			t.Errorf("expected failing service mysql, got %s", she.Service)
		}
		if she.Attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", she.Attempts)
		}
		if statuses[0].State != domain.ServiceFailed {
			t.Errorf("expected failed state, got %s", statuses[0].State)
		}
	})

	t.Run("container start failure is immediate", func(t *testing.T) {
		fake := &enginetest.Fake{StartErr: errors.New("image pull failed")}
		l := newTestLauncher(testConfig(false), fake, nil)

		_, err := l.Start(context.Background(), []domain.ServiceSpec{testSpec("mysql", 3)})

		var she *domain.ServiceHealthError
		if !errors.As(err, &she) {
			t.Fatalf("expected ServiceHealthError, got %v", err)
		}
		if she.Attempts != 0 {
			t.Errorf("start failure should report zero attempts, got %d", she.Attempts)
		}
	})

	t.Run("hanging checks stay within the ready budget", func(t *testing.T) {
		fake := &enginetest.Fake{}
		l := NewLauncher(testConfig(false), fake, zerolog.Nop())
		l.proberFn = func(spec domain.ServiceSpec, container string) Prober {
			return proberFunc(func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			})
		}

		spec := testSpec("mysql", 4)
		spec.RetryInterval = 50 * time.Millisecond
		budget := spec.ReadyBudget()

		start := time.Now()
		statuses, err := l.Start(context.Background(), []domain.ServiceSpec{spec})
		elapsed := time.Since(start)

		var she *domain.ServiceHealthError
		if !errors.As(err, &she) {
			t.Fatalf("expected ServiceHealthError, got %v", err)
		}
		if statuses[0].State != domain.ServiceFailed {
			t.Errorf("expected failed state, got %s", statuses[0].State)
		}
		if elapsed > budget+100*time.Millisecond {
			t.Errorf("probing took %v, budget is %v", elapsed, budget)
		}
	})

	t.Run("dry run assumes healthy without probing", func(t *testing.T) {
		fake := &enginetest.Fake{}
		probers := map[string]*scriptedProber{
			"mysql": {failures: 100},
		}
		l := newTestLauncher(testConfig(true), fake, probers)

		statuses, err := l.Start(context.Background(), []domain.ServiceSpec{testSpec("mysql", 3)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if statuses[0].State != domain.ServiceHealthy {
			t.Errorf("dry run should report healthy, got %s", statuses[0].State)
		}
		if probers["mysql"].checks != 0 {
			t.Errorf("dry run should never probe, got %d checks", probers["mysql"].checks)
		}
	})
}
