package driven

import (
	"context"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// SessionStore persists conversation sessions.
// Backed by SQLite for durable storage.
type SessionStore interface {
	// SaveSession stores or updates a session.
	SaveSession(ctx context.Context, session *domain.Session) error

	// CurrentSession returns the most recently created session.
	// Returns domain.ErrNotFound when none exists.
	CurrentSession(ctx context.Context) (*domain.Session, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	// DeleteSession removes a session and its transcript.
	DeleteSession(ctx context.Context, id string) error
}

// MessageStore persists conversation transcripts.
type MessageStore interface {
	// SaveMessage stores or updates a message.
	SaveMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages returns a session's messages, oldest first.
	ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// DeleteMessages removes a session's transcript.
	DeleteMessages(ctx context.Context, sessionID string) error
}

// UploadStore records completed document uploads.
type UploadStore interface {
	// SaveUpload stores an upload record.
	SaveUpload(ctx context.Context, up *domain.Upload) error

	// ListUploads returns a session's uploads, newest first.
	ListUploads(ctx context.Context, sessionID string) ([]domain.Upload, error)
}

// ConversationStore groups the persistence the chat service needs.
type ConversationStore interface {
	SessionStore
	MessageStore
}
