package session

import (
	"sync"

	"github.com/hyperjump/juris/internal/ingest"
	"github.com/hyperjump/juris/internal/llm"
	"github.com/hyperjump/juris/pkg/utils"
	"go.uber.org/zap"
)

// Manager keeps sessions in memory, keyed by ID.
type Manager struct {
	pipeline  *ingest.Pipeline
	generator llm.Generator
	logger    *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty manager whose sessions share p and g.
func NewManager(p *ingest.Pipeline, g llm.Generator, logger *zap.Logger) *Manager {
	return &Manager{
		pipeline:  p,
		generator: g,
		logger:    utils.OrNop(logger),
		sessions:  make(map[string]*Session),
	}
}

// Create starts a new session.
func (m *Manager) Create() *Session {
	s := New(m.pipeline, m.generator, m.logger)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.logger.Debug("session created", zap.String("session", s.ID()))
	return s
}

// Get returns the session with id, or ErrNotFound.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes the session with id, or returns ErrNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
