package lifecycle

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"trun/internal/config"
	"trun/internal/engine/enginetest"
)

func testConfig(cleanup bool) *config.Config {
	return &config.Config{
		RunID:        "20260829-101500",
		CleanupAfter: cleanup,
	}
}

func TestManager_Teardown(t *testing.T) {
	t.Run("stops and removes tracked resources", func(t *testing.T) {
		fake := &enginetest.Fake{}
		m := NewManager(testConfig(true), fake, zerolog.Nop())
		m.Track("trun-20260829-101500-mysql")
		m.Track("trun-20260829-101500-node-unit")
		m.TrackNetwork()

		m.Teardown()

		if fake.Count("stop") != 2 {
			t.Errorf("expected 2 stops, got %d", fake.Count("stop"))
		}
		if fake.Count("rm") != 2 {
			t.Errorf("expected 2 removals, got %d", fake.Count("rm"))
		}
		if fake.Count("network-rm") != 1 {
			t.Errorf("expected network removal, got %d", fake.Count("network-rm"))
		}
		if fake.Count("volume-rm") != 1 {
			t.Errorf("expected volume removal, got %d", fake.Count("volume-rm"))
		}
	})

	t.Run("runs exactly once", func(t *testing.T) {
		fake := &enginetest.Fake{}
		m := NewManager(testConfig(true), fake, zerolog.Nop())
		m.Track("trun-20260829-101500-mysql")
		m.TrackNetwork()

		m.Teardown()
		m.Teardown()
		m.Teardown()

		if fake.Count("stop") != 1 {
			t.Errorf("repeat teardown must be a no-op, got %d stops", fake.Count("stop"))
		}
		if fake.Count("network-rm") != 1 {
			t.Errorf("repeat teardown must be a no-op, got %d network removals", fake.Count("network-rm"))
		}
	})

	t.Run("cleanup disabled stops but keeps resources", func(t *testing.T) {
		fake := &enginetest.Fake{}
		m := NewManager(testConfig(false), fake, zerolog.Nop())
		m.Track("trun-20260829-101500-mysql")
		m.TrackNetwork()

		m.Teardown()

		if fake.Count("stop") != 1 {
			t.Errorf("containers still stop without cleanup, got %d", fake.Count("stop"))
		}
		if fake.Count("rm") != 0 {
			t.Errorf("containers must survive for debugging, got %d removals", fake.Count("rm"))
		}
		if fake.Count("network-rm") != 0 {
			t.Errorf("network must survive for debugging, got %d removals", fake.Count("network-rm"))
		}
		if fake.Count("volume-rm") != 0 {
			t.Errorf("volumes must survive for debugging, got %d removals", fake.Count("volume-rm"))
		}
	})

	t.Run("one failure does not stop the rest", func(t *testing.T) {
		fake := &enginetest.Fake{
			StopErr:   errors.New("no such container"),
			RemoveErr: errors.New("no such container"),
		}
		m := NewManager(testConfig(true), fake, zerolog.Nop())
		m.Track("trun-20260829-101500-mysql")
		m.Track("trun-20260829-101500-redis")
		m.TrackNetwork()

		m.Teardown()

		if fake.Count("stop") != 2 {
			t.Errorf("every container gets a stop attempt, got %d", fake.Count("stop"))
		}
		if fake.Count("rm") != 2 {
			t.Errorf("every container gets a removal attempt, got %d", fake.Count("rm"))
		}
		if fake.Count("network-rm") != 1 {
			t.Errorf("network removal still attempted, got %d", fake.Count("network-rm"))
		}
		if fake.Count("volume-rm") != 1 {
			t.Errorf("volume removal still attempted, got %d", fake.Count("volume-rm"))
		}
	})

	t.Run("untracked network is left alone", func(t *testing.T) {
		fake := &enginetest.Fake{}
		m := NewManager(testConfig(true), fake, zerolog.Nop())

		m.Teardown()

		if fake.Count("network-rm") != 0 {
			t.Errorf("never-created network must not be removed, got %d", fake.Count("network-rm"))
		}
	})
}
