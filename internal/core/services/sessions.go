package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService manages the conversation session lifecycle. The
// session identifier is generated locally, reused across turns and
// restarts, and rotated only on explicit reset.
type SessionService struct {
	sessions driven.SessionStore
	messages driven.MessageStore
	settings driving.SettingsService
}

// NewSessionService creates a new session service.
func NewSessionService(
	sessions driven.SessionStore,
	messages driven.MessageStore,
	settings driving.SettingsService,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		messages: messages,
		settings: settings,
	}
}

// Current returns the active session, creating one when none exists.
func (s *SessionService) Current(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.CurrentSession(ctx)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s.create(ctx)
}

// Reset rotates to a fresh session and returns it.
func (s *SessionService) Reset(ctx context.Context) (*domain.Session, error) {
	return s.create(ctx)
}

// History returns the stored transcript for a session, oldest first.
func (s *SessionService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	id, err := s.resolveID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListMessages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return msgs, nil
}

// List returns all stored sessions, newest first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ClearHistory deletes the stored transcript for a session.
func (s *SessionService) ClearHistory(ctx context.Context, sessionID string) error {
	id, err := s.resolveID(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := s.messages.DeleteMessages(ctx, id); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	logger.Info("Cleared transcript for session %s", id)
	return nil
}

func (s *SessionService) create(ctx context.Context) (*domain.Session, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		Audience:  settings.Chat.Audience,
		Locale:    settings.Chat.Locale,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	logger.Info("Opened chat session %s (%s)", session.ID, session.Audience)
	return session, nil
}

// resolveID maps an empty session ID to the current session.
func (s *SessionService) resolveID(ctx context.Context, sessionID string) (string, error) {
	if sessionID != "" {
		return sessionID, nil
	}
	session, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}
