package mcp

import (
	"context"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
// Phase returns the configured phases in order, holding the last, so
// tests can script a turn's progression without goroutines.
type mockChatService struct {
	messages   []domain.Message
	reply      *domain.Message
	phases     []domain.TurnPhase
	phaseIdx   int
	notice     *driving.Notice
	session    *domain.Session
	updates    chan struct{}
	sent       []string
	cancelled  bool
	sendErr    error
	sessionErr error
}

func (m *mockChatService) Send(_ context.Context, input string, _ []domain.Attachment) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, input)
	m.messages = append(m.messages, domain.Message{Role: domain.RoleUser, Content: input})
	if m.reply != nil {
		m.messages = append(m.messages, *m.reply)
	}
	return nil
}

func (m *mockChatService) Retry(_ context.Context) error {
	return nil
}

func (m *mockChatService) Cancel() {
	m.cancelled = true
}

func (m *mockChatService) Messages() []domain.Message {
	return m.messages
}

func (m *mockChatService) Phase() domain.TurnPhase {
	if len(m.phases) == 0 {
		return domain.TurnIdle
	}
	phase := m.phases[m.phaseIdx]
	if m.phaseIdx < len(m.phases)-1 {
		m.phaseIdx++
	}
	return phase
}

func (m *mockChatService) PendingInput() (string, []domain.Attachment) {
	return "", nil
}

func (m *mockChatService) Notice() *driving.Notice {
	return m.notice
}

func (m *mockChatService) Updates() <-chan struct{} {
	if m.updates == nil {
		m.updates = make(chan struct{}, 8)
	}
	return m.updates
}

func (m *mockChatService) Session(_ context.Context) (*domain.Session, error) {
	return m.session, m.sessionErr
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session  *domain.Session
	sessions []domain.Session
	history  []domain.Message
	err      error
}

func (m *mockSessionService) Current(_ context.Context) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) Reset(_ context.Context) (*domain.Session, error) {
	return m.session, m.err
}

func (m *mockSessionService) History(_ context.Context, _ string) ([]domain.Message, error) {
	return m.history, m.err
}

func (m *mockSessionService) List(_ context.Context) ([]domain.Session, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) ClearHistory(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	uploads []domain.Upload
	err     error
}

func (m *mockDocumentService) Upload(_ context.Context, _ []string) ([]domain.Upload, error) {
	return m.uploads, m.err
}

func (m *mockDocumentService) Watch(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) AllowedTypes() []string {
	return domain.AllowedDocumentTypes()
}

func (m *mockDocumentService) Uploads(_ context.Context) ([]domain.Upload, error) {
	return m.uploads, m.err
}

// mockTranscriptionService is a mock implementation of driving.TranscriptionService.
type mockTranscriptionService struct {
	text string
	err  error
}

func (m *mockTranscriptionService) TranscribeFile(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}
