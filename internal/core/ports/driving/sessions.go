package driving

import (
	"context"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// SessionService manages the conversation session lifecycle.
type SessionService interface {
	// Current returns the active session, creating one when none exists.
	Current(ctx context.Context) (*domain.Session, error)

	// Reset rotates to a fresh session and returns it. Earlier sessions
	// and their transcripts remain until history is cleared.
	Reset(ctx context.Context) (*domain.Session, error)

	// History returns the stored transcript for a session, oldest
	// first. An empty id means the current session.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)

	// List returns all stored sessions, newest first.
	List(ctx context.Context) ([]domain.Session, error)

	// ClearHistory deletes the stored transcript for a session. An
	// empty id means the current session.
	ClearHistory(ctx context.Context, sessionID string) error
}
