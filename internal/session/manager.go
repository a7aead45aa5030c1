package session

import (
	"log/slog"
	"sync"

	"github.com/ugaemi/citycourier-server/internal/game"
	"github.com/ugaemi/citycourier-server/internal/ws"
)

// Manager tracks the sessions of every connected client. A client owns at
// most one session at a time.
type Manager struct {
	opts     Options
	sessions map[string]*Session // session ID -> session
	byClient map[string]string   // client ID -> session ID
	mu       sync.RWMutex
}

// NewManager creates a manager whose sessions all use opts.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		sessions: make(map[string]*Session),
		byClient: make(map[string]string),
	}
}

// Create builds a session for client, replacing a finished one. It returns
// ErrRunInProgress while the client's current session is still running.
func (m *Manager) Create(driver *game.Driver, client *ws.Client) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byClient[client.ID]; ok {
		if prev := m.sessions[id]; prev != nil {
			if prev.IsRunning() {
				return nil, ErrRunInProgress
			}
			delete(m.sessions, id)
		}
	}

	s := New(driver, client, m.opts)
	m.sessions[s.ID] = s
	m.byClient[client.ID] = s.ID

	slog.Info("session created", "session", s.ID, "client", client.ID)
	return s, nil
}

// Get returns a session by its ID.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// FindByClientID returns the client's current session, if any.
func (m *Manager) FindByClientID(clientID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byClient[clientID]
	if !ok {
		return nil
	}
	return m.sessions[id]
}

// Remove stops and forgets a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		if m.byClient[s.ClientID()] == id {
			delete(m.byClient, s.ClientID())
		}
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Stop()
	slog.Info("session removed", "session", id)
}

// Count returns the number of tracked sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
