package memory

import (
	"context"
	"sync"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu sync.RWMutex
	// order holds session IDs oldest first.
	order    []string
	sessions map[string]domain.Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.Session),
	}
}

// SaveSession stores or updates a session.
func (s *SessionStore) SaveSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		s.order = append(s.order, session.ID)
	}
	s.sessions[session.ID] = *session
	return nil
}

// CurrentSession returns the most recently created session.
func (s *SessionStore) CurrentSession(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return nil, domain.ErrNotFound
	}
	session := s.sessions[s.order[len(s.order)-1]]
	return &session, nil
}

// ListSessions returns all sessions, newest first.
func (s *SessionStore) ListSessions(_ context.Context) ([]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Session, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.sessions[s.order[i]])
	}
	return result, nil
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	for i, sid := range s.order {
		if sid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
