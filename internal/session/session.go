// Package session scopes all mutable portal state to one logged-in
// operator. Each session owns its inventory store, at most one in-flight
// review queue or allocation run, and the parsed upload awaiting a column
// mapping. Nothing here survives a process restart.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"inventoryportal/internal/ingest"
	"inventoryportal/internal/inventory"
	"inventoryportal/internal/review"
	"inventoryportal/internal/tabular"
)

// PendingUpload is a parsed generic inventory report waiting for the
// operator to confirm its column mapping.
type PendingUpload struct {
	Filename string
	Table    *tabular.Table
	Proposed ingest.ColumnMapping
}

// Session is one operator's working state. Handlers must hold the lock
// while touching its fields; the portal assumes a single active operator
// per session but the HTTP layer serves requests concurrently.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	Store   *inventory.Store
	Queue   *review.Queue
	Run     *review.AllocationRun
	Pending *PendingUpload
}

// Lock takes the session lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Manager tracks live sessions by id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create starts a fresh session with an empty store.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Store:     inventory.NewStore(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get resolves a session id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
