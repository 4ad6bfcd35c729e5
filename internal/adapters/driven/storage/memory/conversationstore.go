package memory

import "github.com/studybridge/zoe-cli/internal/core/ports/driven"

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore combines the in-memory session and message stores.
// Used by service tests and when transcript persistence is disabled.
type ConversationStore struct {
	*SessionStore
	*MessageStore
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		SessionStore: NewSessionStore(),
		MessageStore: NewMessageStore(),
	}
}
