package memory

import (
	"context"
	"sync"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Ensure MessageStore implements the interface.
var _ driven.MessageStore = (*MessageStore)(nil)

// MessageStore is an in-memory implementation of driven.MessageStore.
// Messages keep their insertion order per session.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[string][]domain.Message
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string][]domain.Message),
	}
}

// SaveMessage stores or updates a message.
func (s *MessageStore) SaveMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[msg.SessionID]
	for i := range msgs {
		if msgs[i].ID == msg.ID {
			msgs[i] = msg.Clone()
			return nil
		}
	}
	s.messages[msg.SessionID] = append(msgs, msg.Clone())
	return nil
}

// ListMessages returns a session's messages, oldest first.
func (s *MessageStore) ListMessages(_ context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	result := make([]domain.Message, len(msgs))
	for i, m := range msgs {
		result[i] = m.Clone()
	}
	return result, nil
}

// DeleteMessages removes a session's transcript.
func (s *MessageStore) DeleteMessages(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.messages, sessionID)
	return nil
}
