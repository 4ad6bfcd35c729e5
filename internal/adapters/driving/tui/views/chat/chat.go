// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/components/composer"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/components/status"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/components/transcript"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/keymap"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/messages"
	"github.com/studybridge/zoe-cli/internal/adapters/driving/tui/styles"
	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
)

// pickerPurpose says what the prompted file path is for.
type pickerPurpose string

const (
	pickAttachment pickerPurpose = "attachment"
	pickRecording  pickerPurpose = "recording"
)

// picker is an inline overlay prompting for a local file path.
type picker struct {
	purpose pickerPurpose
	input   textinput.Model
	visible bool
}

func newPicker(purpose pickerPurpose) *picker {
	ti := textinput.New()
	switch purpose {
	case pickAttachment:
		ti.Placeholder = "Path to document (pdf, docx, jpg, png, webp)..."
	case pickRecording:
		ti.Placeholder = "Path to recording (m4a, mp3, wav, ogg, webm)..."
	}
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 50

	return &picker{purpose: purpose, input: ti, visible: true}
}

// View represents the conversation view with transcript, composer, and
// status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	composer   *composer.Composer
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService          driving.ChatService
	sessionService       driving.SessionService
	documentService      driving.DocumentService
	transcriptionService driving.TranscriptionService
	ctx                  context.Context

	session            *domain.Session
	pendingAttachments []domain.Attachment
	picker             *picker
	restoredRetry      bool
	historyOff         bool
	width              int
	height             int
	ready              bool
	err                error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	sessionService driving.SessionService,
	documentService driving.DocumentService,
	transcriptionService driving.TranscriptionService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:               s,
		keymap:               km,
		composer:             composer.New(s),
		transcript:           transcript.New(s),
		statusbar:            status.NewBar(s, km),
		chatService:          chatService,
		sessionService:       sessionService,
		documentService:      documentService,
		transcriptionService: transcriptionService,
		ctx:                  context.Background(),
		width:                80,
		height:               24,
	}

	// The advisory only reflects the setting at startup; the TUI does
	// not expose a toggle.
	if settingsService != nil {
		if appSettings, err := settingsService.Get(); err == nil {
			v.historyOff = !appSettings.Chat.History
		}
	}

	return v
}

// WithContext sets the context for the view. Turn lifetimes are tied to
// it, so it must outlive the in-flight reply.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.composer.Init(), v.loadSession())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ConversationUpdated:
		v.refresh()
		return v, nil

	case messages.SessionLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.session = msg.Session
		v.refresh()
		return v, nil

	case messages.SessionReset:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.session = msg.Session
		v.composer.Reset()
		v.composer.ClearAttachments()
		v.pendingAttachments = nil
		v.restoredRetry = false
		v.refresh()
		v.statusbar.SetMessage("Started a fresh session")
		return v, nil

	case messages.SendFinished:
		v.refresh()
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
		}
		return v, nil

	case messages.RetryFinished:
		v.refresh()
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
		}
		return v, nil

	case messages.AttachmentsUploaded:
		v.handleAttachmentsUploaded(msg)
		return v, nil

	case messages.TranscriptionCompleted:
		if msg.Err != nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.composer.SetValue(msg.Text)
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("Transcribed: review and send")
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to composer so the cursor keeps blinking.
	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// If the path picker is visible, it owns the keyboard.
	if v.picker != nil && v.picker.visible {
		return v.handlePickerKey(msg)
	}

	phase := domain.TurnIdle
	if v.chatService != nil {
		phase = v.chatService.Phase()
	}

	// Esc cancels the in-flight reply.
	if msg.Type == tea.KeyEsc {
		if phase == domain.TurnAwaitingResponse || phase == domain.TurnStreaming {
			v.chatService.Cancel()
		}
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		return v.handleEnter(phase)
	}

	keyStr := msg.String()

	// Page keys move a whole window; plain up/down move one line.
	switch keyStr {
	case "pgup":
		v.transcript.PageUp()
		return v, nil
	case "pgdown":
		v.transcript.PageDown()
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Attach):
		if v.documentService == nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(ErrNoDocumentService.Error())
			return v, nil
		}
		v.picker = newPicker(pickAttachment)
		return v, textinput.Blink

	case keymap.Matches(keyStr, v.keymap.Record):
		if v.transcriptionService == nil {
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(ErrNoTranscriptionService.Error())
			return v, nil
		}
		v.picker = newPicker(pickRecording)
		return v, textinput.Blink

	case keymap.Matches(keyStr, v.keymap.NewSession):
		return v, v.resetSession()

	case keymap.Matches(keyStr, v.keymap.ScrollUp):
		v.transcript.ScrollUp()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.ScrollDown):
		v.transcript.ScrollDown()
		return v, nil
	}

	// Everything else goes to the composer.
	var cmd tea.Cmd
	v.composer, cmd = v.composer.Update(msg)
	return v, cmd
}

// handleEnter submits the composed message, or resubmits preserved input
// when the last turn hit an authentication failure.
func (v *View) handleEnter(phase domain.TurnPhase) (*View, tea.Cmd) {
	if v.chatService == nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(ErrNoChatService.Error())
		return v, nil
	}

	text := strings.TrimSpace(v.composer.Value())

	// Unchanged preserved input resubmits with its original attachments.
	// Edited input falls through to a fresh send, which supersedes the
	// failed turn.
	if phase == domain.TurnAwaitingRetry {
		pending, _ := v.chatService.PendingInput()
		if text == "" || text == strings.TrimSpace(pending) {
			v.clearComposer()
			v.statusbar.SetState(status.StateWaiting)
			return v, v.retryMessage()
		}
	}

	if text == "" {
		return v, nil
	}

	attachments := v.pendingAttachments
	v.clearComposer()
	v.statusbar.SetState(status.StateWaiting)

	return v, v.sendMessage(text, attachments)
}

// handlePickerKey processes keyboard input while the path picker is open.
func (v *View) handlePickerKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.picker = nil
		return v, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(v.picker.input.Value())
		purpose := v.picker.purpose
		v.picker = nil
		if path == "" {
			return v, nil
		}
		switch purpose {
		case pickAttachment:
			v.statusbar.SetMessage("Uploading " + filepath.Base(path) + "...")
			return v, v.uploadAttachment(path)
		case pickRecording:
			v.statusbar.SetMessage("Transcribing " + filepath.Base(path) + "...")
			return v, v.transcribeRecording(path)
		}
		return v, nil

	default:
	}

	var cmd tea.Cmd
	v.picker.input, cmd = v.picker.input.Update(msg)
	return v, cmd
}

// handleAttachmentsUploaded stages uploaded documents on the next message.
func (v *View) handleAttachmentsUploaded(msg messages.AttachmentsUploaded) {
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	for _, up := range msg.Uploads {
		v.pendingAttachments = append(v.pendingAttachments, up.Attachment())
		v.composer.AddAttachment(up.Name)
	}

	v.statusbar.SetState(status.StateReady)
	if len(msg.Uploads) == 1 {
		v.statusbar.SetMessage("Attached " + msg.Uploads[0].Name)
	} else {
		v.statusbar.SetMessage(fmt.Sprintf("Attached %d documents", len(msg.Uploads)))
	}
}

// clearComposer empties the composer and the staged attachments.
func (v *View) clearComposer() {
	v.composer.Reset()
	v.composer.ClearAttachments()
	v.pendingAttachments = nil
	v.restoredRetry = false
}

// loadSession returns a command that loads the active session.
func (v *View) loadSession() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.SessionLoaded{Err: ErrNoChatService}
		}
		session, err := v.chatService.Session(v.ctx)
		return messages.SessionLoaded{Session: session, Err: err}
	}
}

// sendMessage returns a command that submits user input. The reply
// streams in the background; completion arrives via update signals.
func (v *View) sendMessage(text string, attachments []domain.Attachment) tea.Cmd {
	return func() tea.Msg {
		err := v.chatService.Send(v.ctx, text, attachments)
		return messages.SendFinished{Err: err}
	}
}

// retryMessage returns a command that resubmits preserved input.
func (v *View) retryMessage() tea.Cmd {
	return func() tea.Msg {
		err := v.chatService.Retry(v.ctx)
		return messages.RetryFinished{Err: err}
	}
}

// resetSession returns a command that rotates to a fresh session and
// rebinds the conversation to it.
func (v *View) resetSession() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionReset{Err: ErrNoSessionService}
		}
		session, err := v.sessionService.Reset(v.ctx)
		if err != nil {
			return messages.SessionReset{Err: err}
		}
		if v.chatService != nil {
			if rebound, err := v.chatService.Session(v.ctx); err == nil {
				session = rebound
			}
		}
		return messages.SessionReset{Session: session}
	}
}

// uploadAttachment returns a command that uploads one document.
func (v *View) uploadAttachment(path string) tea.Cmd {
	return func() tea.Msg {
		uploads, err := v.documentService.Upload(v.ctx, []string{path})
		return messages.AttachmentsUploaded{Uploads: uploads, Err: err}
	}
}

// transcribeRecording returns a command that transcribes one recording
// into the composer.
func (v *View) transcribeRecording(path string) tea.Cmd {
	return func() tea.Msg {
		text, err := v.transcriptionService.TranscribeFile(v.ctx, path)
		return messages.TranscriptionCompleted{Text: text, Err: err}
	}
}

// refresh re-reads conversation state after an update signal.
func (v *View) refresh() {
	if v.chatService == nil {
		return
	}

	v.transcript.SetMessages(v.chatService.Messages())

	switch v.chatService.Phase() {
	case domain.TurnAwaitingResponse:
		v.statusbar.SetState(status.StateWaiting)

	case domain.TurnStreaming:
		v.statusbar.SetState(status.StateStreaming)

	case domain.TurnFailed:
		if notice := v.chatService.Notice(); notice != nil {
			v.statusbar.SetState(status.StateNotice)
			v.statusbar.SetMessage(notice.Text)
		} else {
			v.statusbar.SetState(status.StateReady)
			v.statusbar.SetMessage(v.historyAdvisory())
		}

	case domain.TurnAwaitingRetry:
		v.statusbar.SetState(status.StateRetry)
		v.statusbar.SetMessage("Sign-in expired: press enter to retry")
		v.restorePendingInput()

	case domain.TurnIdle, domain.TurnCompleted:
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage(v.historyAdvisory())
	}
}

// restorePendingInput copies preserved input back into the composer once
// per retry phase, so it can be edited before resubmitting.
func (v *View) restorePendingInput() {
	if v.restoredRetry {
		return
	}

	pending, attachments := v.chatService.PendingInput()
	if pending == "" && len(attachments) == 0 {
		return
	}

	v.composer.SetValue(pending)
	names := make([]string, 0, len(attachments))
	for _, att := range attachments {
		names = append(names, att.Name)
	}
	v.composer.SetAttachments(names)
	v.pendingAttachments = attachments
	v.restoredRetry = true
}

// historyAdvisory returns the standing reminder shown while transcript
// storage is off.
func (v *View) historyAdvisory() string {
	if v.historyOff {
		return "History off: this conversation will not be saved"
	}
	return ""
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := v.styles.Title.Render("Zoe")
	if v.session != nil {
		context := fmt.Sprintf("%s, %s", v.session.Audience.Description(), v.session.Locale)
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, header, "  ", v.styles.Subtitle.Render(context))
	}
	sections = append(sections, header, "")

	sections = append(sections, v.transcript.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.picker != nil && v.picker.visible {
		sections = append(sections, v.renderPicker(), "")
	} else {
		sections = append(sections, v.composer.View(), "")
	}

	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPicker renders the file path prompt overlay.
func (v *View) renderPicker() string {
	title := "Attach a document"
	if v.picker.purpose == pickRecording {
		title = "Transcribe a recording"
	}

	content := v.styles.Subtitle.Render(title) + "\n" +
		v.picker.input.View() + "\n" +
		v.styles.Help.Render("[enter] confirm  [esc] cancel")

	return v.styles.Border.Padding(0, 1).Render(content)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.composer.SetWidth(width)
	v.statusbar.SetWidth(width)
	// Reserve space for the header, composer, status bar and spacing.
	v.transcript.SetDimensions(width, height-8)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Session returns the session shown in the header.
func (v *View) Session() *domain.Session {
	return v.session
}

// Input returns the current composer text.
func (v *View) Input() string {
	return v.composer.Value()
}

// SetInput sets the composer text.
func (v *View) SetInput(text string) {
	v.composer.SetValue(text)
}

// PendingAttachments returns the attachments staged on the next message.
func (v *View) PendingAttachments() []domain.Attachment {
	return v.pendingAttachments
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}
