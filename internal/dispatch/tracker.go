package dispatch

import (
	"sync"

	"gamechat-service/internal/models"
)

// Tracker holds the process-wide session state. Authentication and
// connectivity change notifications update it; the dispatcher reads it on
// every navigation decision.
type Tracker struct {
	mu    sync.Mutex
	state models.SessionState
}

// NewTracker starts in the signed-out default state.
func NewTracker() *Tracker {
	return &Tracker{state: models.SignedOutSession()}
}

// Update replaces the session state.
func (t *Tracker) Update(state models.SessionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

// SetConnected flips the connectivity flag.
func (t *Tracker) SetConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Connected = connected
}

// SignOut resets to the signed-out defaults.
func (t *Tracker) SignOut() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = models.SignedOutSession()
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() models.SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
