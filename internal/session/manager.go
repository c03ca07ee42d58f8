package session

import (
	"log/slog"
	"sync"
)

// Store persists session state across process restarts. Optional: the
// manager works purely in memory when no store is attached.
type Store interface {
	// Save writes the state for its session ID.
	Save(state *State) error

	// Load returns the state for a session ID, or nil when absent.
	Load(id string) (*State, error)

	// Delete removes a session.
	Delete(id string) error

	// Close releases the store.
	Close() error
}

// Manager hands out isolated per-session state keyed by session ID.
// Concurrent requests for different sessions never observe each
// other's facets.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*State
	store    Store
	logger   *slog.Logger
}

// NewManager creates a manager. store may be nil for memory-only
// operation.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*State),
		store:    store,
		logger:   logger,
	}
}

// Get returns the state for the session, loading it from the store or
// creating it fresh on first sight.
func (m *Manager) Get(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	if m.store != nil {
		s, err := m.store.Load(id)
		if err != nil {
			m.logger.Warn("session load failed, starting fresh",
				"session", id, "error", err)
		} else if s != nil {
			m.sessions[id] = s
			return s
		}
	}
	s := NewState(id)
	m.sessions[id] = s
	return s
}

// Put records updated state and persists it when a store is attached.
func (m *Manager) Put(s *State) {
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(s); err != nil {
			m.logger.Warn("session save failed", "session", s.ID, "error", err)
		}
	}
}

// Reset drops a session entirely.
func (m *Manager) Reset(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(id); err != nil {
			m.logger.Warn("session delete failed", "session", id, "error", err)
		}
	}
}

// Close releases the backing store.
func (m *Manager) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
