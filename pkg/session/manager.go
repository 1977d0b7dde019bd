package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

//ErrNotFound is returned when a session ID is unknown
var ErrNotFound = errors.New("session not found")

//Manager keeps the sessions of the process, keyed by ID
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return s, nil
}

func (m *Manager) GetOrCreate(id string) *Session {
	if s, err := m.Get(id); err == nil {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	//someone might have created it between both locks
	if s, ok := m.sessions[id]; ok {
		return s
	}

	s := New()
	m.sessions[id] = s
	return s
}

//Create starts a new empty session under a random ID
func (m *Manager) Create() (string, *Session) {
	id := uuid.NewString()
	return id, m.GetOrCreate(id)
}

//Reset clears given session, creating it if it does not exist yet
func (m *Manager) Reset(id string) *Session {
	s := m.GetOrCreate(id)
	s.Reset()
	return s
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}

	delete(m.sessions, id)
	return nil
}

//IDs returns the sorted IDs of all sessions
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
