package conversation

import (
	"sync"
	"time"
)

// SessionManager holds per-user conversation states. Each entry is an
// independent unit of state; no data is shared between users.
type SessionManager struct {
	sessions map[string]State
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]State),
	}
}

// Get retrieves the current state for a user.
func (sm *SessionManager) Get(userID string) (State, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	state, exists := sm.sessions[userID]
	return state, exists
}

// Put stores the state for a user.
func (sm *SessionManager) Put(userID string, state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[userID] = state
}

// Clear removes a user's session.
func (sm *SessionManager) Clear(userID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}

// Len reports the number of active sessions.
func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// PruneExpired discards sessions idle longer than maxIdle and reports how
// many were removed. Discarded sessions leave no partial data behind.
func (sm *SessionManager) PruneExpired(maxIdle time.Duration, now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for userID, state := range sm.sessions {
		if now.Sub(state.UpdatedAt) > maxIdle {
			delete(sm.sessions, userID)
			removed++
		}
	}
	return removed
}
