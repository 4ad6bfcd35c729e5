package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/messages"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/styles"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/views/chat"
	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation. In-flight turns derive
	// their lifetime from it, so it must outlive the program.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// chatView is the conversation view.
	chatView *chat.View

	// stagedUploads holds documents uploaded before the program
	// started, attached to the first message sent.
	stagedUploads []domain.Upload

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	chatView := chat.NewView(
		s,
		nil,
		ports.Chat,
		ports.Sessions,
		ports.Documents,
		ports.Transcription,
		ports.Settings,
	)

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		chatView: chatView,
	}, nil
}

// WithContext sets the context for the app and the conversation view.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithStagedUploads stages already-uploaded documents on the first
// message of the conversation.
func (a *App) WithStagedUploads(uploads []domain.Upload) *App {
	a.stagedUploads = uploads
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("Zoe - StudyBridge Assistant"),
		a.chatView.Init(),
		a.listenForUpdates(),
		a.deliverStagedUploads(),
	)
}

// deliverStagedUploads hands pre-uploaded documents to the conversation
// view. Returns nil when nothing was staged.
func (a *App) deliverStagedUploads() tea.Cmd {
	if len(a.stagedUploads) == 0 {
		return nil
	}
	uploads := a.stagedUploads
	return func() tea.Msg {
		return messages.AttachmentsUploaded{Uploads: uploads}
	}
}

// listenForUpdates blocks on the chat service's coalesced signal channel
// and surfaces each signal as a ConversationUpdated message. Update
// re-arms it after every delivery, so the loop runs for the program's
// whole lifetime.
func (a *App) listenForUpdates() tea.Cmd {
	updates := a.ports.Chat.Updates()
	return func() tea.Msg {
		select {
		case <-a.ctx.Done():
			return nil
		case <-updates:
			return messages.ConversationUpdated{}
		}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ConversationUpdated:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, tea.Batch(cmd, a.listenForUpdates())

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to the conversation view.
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
// It renders the conversation view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.chatView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// ChatView returns the conversation view.
func (a *App) ChatView() *chat.View {
	return a.chatView
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}
