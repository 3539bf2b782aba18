package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/domain"
	"trun/internal/engine"
)

// Manager owns the teardown routine and the interrupt handling around
// a run. Teardown executes exactly once whether reached via normal
// completion, an aborting error, or a signal; the sync.Once is the
// one-shot teardown token.
type Manager struct {
	cfg    *config.Config
	engine engine.Engine
	log    zerolog.Logger

	once sync.Once

	mu             sync.Mutex
	containers     []string
	networkCreated bool
}

// NewManager creates a new Manager
func NewManager(cfg *config.Config, eng engine.Engine, log zerolog.Logger) *Manager {
	return &Manager{cfg: cfg, engine: eng, log: log}
}

// Context returns a context cancelled on SIGINT/SIGTERM. Cancellation
// propagates to every blocking operation (health polling, job join)
// as cooperative cancellation.
func (m *Manager) Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Track records a container for teardown
func (m *Manager) Track(container string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.containers = append(m.containers, container)
}

// TrackNetwork records that the run network was created
func (m *Manager) TrackNetwork() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networkCreated = true
}

// Teardown stops and removes the run's containers, network and
// volumes. Safe to call from any exit path; only the first call does
// the work. Best-effort throughout: a failure to remove one resource
// is logged and does not prevent attempting the rest.
func (m *Manager) Teardown() {
	m.once.Do(m.teardown)
}

func (m *Manager) teardown() {
	// The run context may already be cancelled; teardown gets its own.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	m.mu.Lock()
	containers := append([]string(nil), m.containers...)
	networkCreated := m.networkCreated
	m.mu.Unlock()

	m.log.Info().Int("containers", len(containers)).Bool("cleanup", m.cfg.CleanupAfter).Msg("tearing down run resources")

	grace := config.StopGraceSeconds * time.Second
	for _, name := range containers {
		if err := m.engine.Stop(ctx, name, grace); err != nil {
			m.warn(&domain.CleanupError{Resource: "container " + name, Err: err})
		}
	}

	if !m.cfg.CleanupAfter {
		m.log.Info().Msg("cleanup disabled, leaving containers and network in place")
		return
	}

	for _, name := range containers {
		if err := m.engine.Remove(ctx, name); err != nil {
			m.warn(&domain.CleanupError{Resource: "container " + name, Err: err})
		}
	}
	if networkCreated {
		if err := m.engine.RemoveNetwork(ctx, m.cfg.NetworkName()); err != nil {
			m.warn(&domain.CleanupError{Resource: "network " + m.cfg.NetworkName(), Err: err})
		}
	}
	if err := m.engine.RemoveVolumes(ctx, "trun-"+m.cfg.RunID); err != nil {
		m.warn(&domain.CleanupError{Resource: "volumes", Err: err})
	}
}

func (m *Manager) warn(err *domain.CleanupError) {
	m.log.Warn().Err(err).Msg("cleanup warning")
}
