package timeline

import (
	"sync"

	"gamechat-service/internal/models"
	"gamechat-service/internal/observability"
)

// Manager owns the active room projection for one client context. Switching
// rooms discards the previous materializer atomically and bumps a generation
// token; deliveries tagged with a stale generation are dropped so no late
// callback can mutate a discarded context.
type Manager struct {
	mu         sync.Mutex
	scheme     Scheme
	generation uint64
	active     *Materializer
}

// NewManager creates a manager with no active room.
func NewManager(scheme Scheme) *Manager {
	return &Manager{scheme: scheme}
}

// Activate switches the active room, discarding any previous state, and
// returns the materializer with its generation token.
func (m *Manager) Activate(roomKey string) (*Materializer, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.active = NewMaterializer(roomKey, m.scheme)
	return m.active, m.generation
}

// Deactivate discards the active context, e.g. on sign-out.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.active = nil
}

// Generation returns the current context generation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Deliver applies the event to the active materializer if gen is still
// current. It reports whether the event was applied; stale deliveries are
// discarded silently.
func (m *Manager) Deliver(gen uint64, ev models.RecordEvent) bool {
	m.mu.Lock()
	active := m.active
	current := m.generation
	m.mu.Unlock()

	if active == nil || gen != current {
		observability.IncTimelineDiscard("stale_generation")
		return false
	}
	active.Apply(ev)
	return true
}

// Snapshot materializes the active room. The second return is false when no
// room is active.
func (m *Manager) Snapshot() (BucketedList, bool) {
	m.mu.Lock()
	active := m.active
	m.mu.Unlock()

	if active == nil {
		return BucketedList{}, false
	}
	return active.Materialize(), true
}
