package cli

import (
	"context"
	"time"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
)

// setupTestServices swaps all command services for mocks and returns a
// cleanup function restoring the originals.
func setupTestServices() func() {
	oldChat := chatService
	oldSession := sessionService
	oldDocument := documentService
	oldTranscription := transcriptionService
	oldSettings := settingsService
	oldAuth := authService

	chatService = newMockChatService()
	sessionService = &mockSessionService{}
	documentService = &mockDocumentService{}
	transcriptionService = &mockTranscriptionService{}
	settingsService = newMockSettingsService()
	authService = &mockAuthService{}

	return func() {
		chatService = oldChat
		sessionService = oldSession
		documentService = oldDocument
		transcriptionService = oldTranscription
		settingsService = oldSettings
		authService = oldAuth
	}
}

// testSession is the session the mocks hand out by default.
func testSession() *domain.Session {
	return &domain.Session{
		ID:        "11111111-2222-3333-4444-555555555555",
		Audience:  domain.AudienceStudent,
		Locale:    "en",
		CreatedAt: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
	}
}

// mockChatService implements driving.ChatService for command tests.
// Tests script a turn through SendFunc, mutating the mock's state and
// calling signal before returning.
type mockChatService struct {
	SendFunc  func(ctx context.Context, input string, attachments []domain.Attachment) error
	RetryFunc func(ctx context.Context) error

	messages  []domain.Message
	phase     domain.TurnPhase
	notice    *driving.Notice
	updates   chan struct{}
	cancelled bool
}

func newMockChatService() *mockChatService {
	return &mockChatService{
		phase:   domain.TurnIdle,
		updates: make(chan struct{}, 8),
	}
}

func (m *mockChatService) signal() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

func (m *mockChatService) Send(ctx context.Context, input string, attachments []domain.Attachment) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, input, attachments)
	}
	m.messages = append(m.messages,
		domain.Message{Role: domain.RoleUser, Content: input, Attachments: attachments},
		domain.Message{Role: domain.RoleAssistant, Content: "mock reply"},
	)
	m.phase = domain.TurnCompleted
	m.signal()
	return nil
}

func (m *mockChatService) Retry(ctx context.Context) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx)
	}
	return nil
}

func (m *mockChatService) Cancel() {
	m.cancelled = true
}

func (m *mockChatService) Messages() []domain.Message {
	out := make([]domain.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *mockChatService) Phase() domain.TurnPhase {
	return m.phase
}

func (m *mockChatService) PendingInput() (string, []domain.Attachment) {
	return "", nil
}

func (m *mockChatService) Notice() *driving.Notice {
	return m.notice
}

func (m *mockChatService) Updates() <-chan struct{} {
	return m.updates
}

func (m *mockChatService) Session(_ context.Context) (*domain.Session, error) {
	return testSession(), nil
}

// mockSessionService implements driving.SessionService for command tests.
type mockSessionService struct {
	CurrentFunc func(ctx context.Context) (*domain.Session, error)
	ResetFunc   func(ctx context.Context) (*domain.Session, error)
	HistoryFunc func(ctx context.Context, sessionID string) ([]domain.Message, error)
	ListFunc    func(ctx context.Context) ([]domain.Session, error)
	ClearFunc   func(ctx context.Context, sessionID string) error
}

func (m *mockSessionService) Current(ctx context.Context) (*domain.Session, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return testSession(), nil
}

func (m *mockSessionService) Reset(ctx context.Context) (*domain.Session, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return testSession(), nil
}

func (m *mockSessionService) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *mockSessionService) List(ctx context.Context) ([]domain.Session, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockSessionService) ClearHistory(ctx context.Context, sessionID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, sessionID)
	}
	return nil
}

// mockDocumentService implements driving.DocumentService for command tests.
type mockDocumentService struct {
	UploadFunc  func(ctx context.Context, paths []string) ([]domain.Upload, error)
	WatchFunc   func(ctx context.Context, dir string) error
	UploadsFunc func(ctx context.Context) ([]domain.Upload, error)
}

func (m *mockDocumentService) Upload(ctx context.Context, paths []string) ([]domain.Upload, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, paths)
	}
	uploads := make([]domain.Upload, 0, len(paths))
	for _, p := range paths {
		uploads = append(uploads, domain.Upload{
			ID:        "up-" + p,
			Name:      p,
			MIMEType:  "application/pdf",
			Size:      2048,
			URL:       "https://storage.example.com/" + p,
			CreatedAt: time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC),
		})
	}
	return uploads, nil
}

func (m *mockDocumentService) Watch(ctx context.Context, dir string) error {
	if m.WatchFunc != nil {
		return m.WatchFunc(ctx, dir)
	}
	return nil
}

func (m *mockDocumentService) AllowedTypes() []string {
	return domain.AllowedDocumentTypes()
}

func (m *mockDocumentService) Uploads(ctx context.Context) ([]domain.Upload, error) {
	if m.UploadsFunc != nil {
		return m.UploadsFunc(ctx)
	}
	return nil, nil
}

// mockTranscriptionService implements driving.TranscriptionService for
// command tests.
type mockTranscriptionService struct {
	TranscribeFunc func(ctx context.Context, path string) (string, error)
}

func (m *mockTranscriptionService) TranscribeFile(ctx context.Context, path string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, path)
	}
	return "transcribed text", nil
}

// mockSettingsService implements driving.SettingsService for command
// tests, applying changes to an in-memory copy.
type mockSettingsService struct {
	settings domain.AppSettings

	GetErr  error
	SaveErr error
	SetErr  error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	out := m.settings
	return &out, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetAudience(audience domain.Audience) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.settings.Chat.Audience = audience
	return nil
}

func (m *mockSettingsService) SetLocale(locale string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.settings.Chat.Locale = locale
	return nil
}

func (m *mockSettingsService) SetSound(enabled bool) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.settings.Chat.Sound = enabled
	return nil
}

func (m *mockSettingsService) SetHistory(enabled bool) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.settings.Chat.History = enabled
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockAuthService implements driving.AuthService for command tests.
type mockAuthService struct {
	LoginFunc func(ctx context.Context, email, password string) error

	authenticated bool
	identity      string
	loggedOut     bool
	LogoutErr     error
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	m.authenticated = true
	m.identity = email
	return nil
}

func (m *mockAuthService) Logout() error {
	if m.LogoutErr != nil {
		return m.LogoutErr
	}
	m.loggedOut = true
	m.authenticated = false
	m.identity = ""
	return nil
}

func (m *mockAuthService) Identity() string {
	return m.identity
}

func (m *mockAuthService) IsAuthenticated() bool {
	return m.authenticated
}
