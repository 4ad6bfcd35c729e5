package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// User-facing advisory texts.
const (
	noticeOffline     = "The assistant is unreachable. Zoe answered from offline guidance."
	noticeRateLimited = "You're sending messages quickly. Wait a moment, then try again."
	noteAuthExpired   = "Sign-in expired: message not sent"
)

// ChatService owns the conversation and the turn lifecycle. One
// goroutine per turn consumes the assistant's event stream; user
// interfaces read snapshots and listen on Updates for change signals.
//
// Turn rules:
//   - A new Send supersedes any open stream: its context is cancelled
//     and late events from it are dropped.
//   - The notification chime fires at most once per turn, on the first
//     delta.
//   - Unrecoverable failures substitute exactly one offline reply so
//     the conversation always continues.
//   - Expired authentication preserves the user's input for an
//     explicit retry and never substitutes a reply.
type ChatService struct {
	assistant driven.AssistantStream
	offline   driven.OfflineResponder
	notifier  driven.NotificationSink
	store     driven.ConversationStore
	tokens    driven.TokenProvider
	settings  driving.SettingsService

	mu      sync.Mutex
	session *domain.Session
	msgs    []domain.Message
	phase   domain.TurnPhase
	notice  *driving.Notice

	pendingInput       string
	pendingAttachments []domain.Attachment

	// turnSeq increments whenever a turn opens or is superseded so
	// goroutines serving older turns drop their events.
	turnSeq    uint64
	cancelTurn context.CancelFunc
	turn       turnState

	updates chan struct{}
}

// turnState is the bookkeeping for the turn currently consuming a stream.
type turnState struct {
	userIdx  int // index of the turn's user message in msgs
	replyIdx int // index of the open assistant message, -1 until opened
	begun    bool
	sound    bool
	history  bool
}

// NewChatService creates a new chat service.
func NewChatService(
	assistant driven.AssistantStream,
	offline driven.OfflineResponder,
	notifier driven.NotificationSink,
	store driven.ConversationStore,
	tokens driven.TokenProvider,
	settings driving.SettingsService,
) *ChatService {
	return &ChatService{
		assistant: assistant,
		offline:   offline,
		notifier:  notifier,
		store:     store,
		tokens:    tokens,
		settings:  settings,
		phase:     domain.TurnIdle,
		updates:   make(chan struct{}, 1),
	}
}

// Send submits user input and opens a turn. The reply streams on a
// background goroutine; progress is signalled on Updates.
func (s *ChatService) Send(ctx context.Context, input string, attachments []domain.Attachment) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureConversationLocked(ctx); err != nil {
		return err
	}

	if s.phase.Busy() {
		logger.Info("New message supersedes the open stream")
		s.supersedeLocked()
	}

	s.msgs = append(s.msgs, domain.Message{
		ID:          uuid.NewString(),
		SessionID:   s.session.ID,
		Role:        domain.RoleUser,
		Content:     input,
		Attachments: attachments,
		CreatedAt:   time.Now().UTC(),
	})

	s.pendingInput = ""
	s.pendingAttachments = nil
	s.notice = nil

	s.openTurnLocked(ctx, len(s.msgs)-1)
	return nil
}

// Retry re-submits the input preserved by an authentication failure.
// The marked user message is reused rather than duplicated.
func (s *ChatService) Retry(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.TurnAwaitingRetry {
		return domain.ErrNothingToRetry
	}

	userIdx := s.newestUserLocked()
	if userIdx < 0 {
		return domain.ErrNothingToRetry
	}

	logger.Info("Retrying message %s", s.msgs[userIdx].ID)

	s.msgs[userIdx].ErrorNote = ""
	s.pendingInput = ""
	s.pendingAttachments = nil
	s.notice = nil

	s.openTurnLocked(ctx, userIdx)
	return nil
}

// Cancel aborts the in-flight turn, keeping whatever content already
// arrived. Safe to call at any time.
func (s *ChatService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.Busy() {
		return
	}

	logger.Info("Cancelling open stream")
	s.supersedeLocked()
	s.phase = domain.TurnIdle
	s.signalLocked()
}

// Messages returns a snapshot of the conversation, oldest first.
func (s *ChatService) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Message, len(s.msgs))
	for i, m := range s.msgs {
		out[i] = m.Clone()
	}
	return out
}

// Phase returns the current turn phase.
func (s *ChatService) Phase() domain.TurnPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// PendingInput returns the input preserved for retry.
func (s *ChatService) PendingInput() (string, []domain.Attachment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atts := make([]domain.Attachment, len(s.pendingAttachments))
	copy(atts, s.pendingAttachments)
	return s.pendingInput, atts
}

// Notice returns the latest non-blocking advisory, if any.
func (s *ChatService) Notice() *driving.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notice == nil {
		return nil
	}
	n := *s.notice
	return &n
}

// Updates returns the coalesced change-signal channel.
func (s *ChatService) Updates() <-chan struct{} {
	return s.updates
}

// Session returns the active conversation session, loading or creating
// it as needed.
func (s *ChatService) Session(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureConversationLocked(ctx); err != nil {
		return nil, err
	}
	session := *s.session
	return &session, nil
}

// ensureConversationLocked binds the service to the current stored
// session, replaying its transcript on first load. A rotated session
// resets the in-memory conversation.
func (s *ChatService) ensureConversationLocked(ctx context.Context) error {
	current, err := s.store.CurrentSession(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		current, err = s.createSessionLocked(ctx)
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	if s.session != nil && s.session.ID == current.ID {
		return nil
	}

	// The session was rotated (or loaded for the first time); any open
	// stream belongs to the old conversation.
	s.supersedeLocked()
	s.session = current
	s.msgs = nil
	s.phase = domain.TurnIdle
	s.notice = nil
	s.pendingInput = ""
	s.pendingAttachments = nil

	if s.historyEnabled() {
		stored, err := s.store.ListMessages(ctx, current.ID)
		if err != nil {
			logger.Warn("Could not replay transcript: %v", err)
			return nil
		}
		s.msgs = stored
		logger.Debug("Replayed %d stored messages for session %s", len(stored), current.ID)
	}
	return nil
}

func (s *ChatService) createSessionLocked(ctx context.Context) (*domain.Session, error) {
	chatCfg := s.chatSettings()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Audience:  chatCfg.Audience,
		Locale:    chatCfg.Locale,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	logger.Info("Opened chat session %s (%s)", session.ID, session.Audience)
	return session, nil
}

// openTurnLocked starts streaming a reply for the user message at
// userIdx. Callers hold the mutex.
func (s *ChatService) openTurnLocked(ctx context.Context, userIdx int) {
	chatCfg := s.chatSettings()

	s.turnSeq++
	seq := s.turnSeq
	turnCtx, cancel := context.WithCancel(ctx)
	s.cancelTurn = cancel
	s.turn = turnState{
		userIdx:  userIdx,
		replyIdx: -1,
		sound:    chatCfg.Sound,
		history:  chatCfg.History,
	}
	s.phase = domain.TurnAwaitingResponse

	req := driven.ChatRequest{
		SessionID:   s.session.ID,
		Audience:    s.session.Audience,
		Locale:      s.session.Locale,
		Messages:    s.snapshotLocked(),
		Attachments: s.msgs[userIdx].Clone().Attachments,
	}

	go s.consume(turnCtx, seq, req)
	s.signalLocked()
}

// supersedeLocked cancels the open stream and invalidates its events.
func (s *ChatService) supersedeLocked() {
	if s.cancelTurn != nil {
		s.cancelTurn()
		s.cancelTurn = nil
	}
	s.turnSeq++
}

// consume drains one turn's event stream. It runs on its own
// goroutine; every state mutation re-checks that the turn has not been
// superseded in the meantime.
func (s *ChatService) consume(ctx context.Context, seq uint64, req driven.ChatRequest) {
	events, err := s.assistant.StreamChat(ctx, req)
	if err != nil {
		s.failTurn(ctx, seq, err)
		return
	}

	for ev := range events {
		switch ev.Kind {
		case driven.EventDelta:
			s.appendDelta(seq, ev.Delta)
		case driven.EventSources:
			s.replaceSources(seq, ev.Sources)
		case driven.EventDone:
			s.completeTurn(seq)
			return
		case driven.EventError:
			s.failTurn(ctx, seq, ev.Err)
			return
		}
	}

	// The stream ended without a completion sentinel.
	s.failTurn(ctx, seq, fmt.Errorf("%w: reply ended early", domain.ErrStreamClosed))
}

// appendDelta grows the open assistant message, creating it on the
// first delta. The first delta also moves the phase to streaming and
// rings the notification exactly once for the turn.
func (s *ChatService) appendDelta(seq uint64, delta string) {
	s.mu.Lock()
	if seq != s.turnSeq {
		s.mu.Unlock()
		return
	}

	chime := false
	if !s.turn.begun {
		s.turn.begun = true
		chime = s.turn.sound
		s.phase = domain.TurnStreaming
	}

	s.openReplyLocked()
	s.msgs[s.turn.replyIdx].Content += delta
	s.signalLocked()
	s.mu.Unlock()

	if chime {
		s.notifier.Chime()
	}
}

// replaceSources swaps the citation set on the turn's assistant
// message. Arrivals replace outright, they never merge.
func (s *ChatService) replaceSources(seq uint64, sources []domain.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.turnSeq {
		return
	}

	s.openReplyLocked()
	s.msgs[s.turn.replyIdx].Sources = append([]domain.Source(nil), sources...)
	s.signalLocked()
}

// completeTurn closes the turn after a clean stream.
func (s *ChatService) completeTurn(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.turnSeq {
		return
	}

	s.phase = domain.TurnCompleted
	s.cancelTurn = nil
	logger.Debug("Turn completed, %d messages in conversation", len(s.msgs))
	s.persistTurnLocked()
	s.signalLocked()
}

// failTurn classifies a terminal failure and resolves the turn.
//
// Expired authentication keeps the user's message visible with an
// inline note, restores the input for an explicit retry and never
// substitutes a reply. Everything else substitutes exactly one offline
// reply so the conversation continues, with a non-blocking notice.
func (s *ChatService) failTurn(ctx context.Context, seq uint64, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.turnSeq {
		return
	}
	// The stream's lifetime is tied to the caller's. When the caller
	// goes away mid-turn, resolve quietly instead of substituting.
	if ctx.Err() != nil {
		s.phase = domain.TurnIdle
		s.cancelTurn = nil
		s.signalLocked()
		return
	}

	s.cancelTurn = nil
	logger.Warn("Turn failed: %v", cause)

	if errors.Is(cause, domain.ErrAuthExpired) {
		s.tokens.Invalidate()

		user := &s.msgs[s.turn.userIdx]
		user.ErrorNote = noteAuthExpired
		s.pendingInput = user.Content
		s.pendingAttachments = append([]domain.Attachment(nil), user.Attachments...)
		s.dropEmptyReplyLocked()
		s.phase = domain.TurnAwaitingRetry
		s.persistTurnLocked()
		s.signalLocked()
		return
	}

	notice := noticeOffline
	rateLimited := errors.Is(cause, domain.ErrRateLimited)
	if rateLimited {
		notice = noticeRateLimited
	}

	prompt := s.msgs[s.turn.userIdx].Content
	reply := s.offline.Respond(prompt, s.session.Audience)

	s.openReplyLocked()
	s.msgs[s.turn.replyIdx].Content = reply
	s.msgs[s.turn.replyIdx].Sources = nil

	s.pendingInput = ""
	s.pendingAttachments = nil
	s.notice = &driving.Notice{Text: notice, RateLimited: rateLimited}
	s.phase = domain.TurnFailed
	s.persistTurnLocked()
	s.signalLocked()
}

// openReplyLocked makes sure the turn has an assistant message to
// write into.
func (s *ChatService) openReplyLocked() {
	if s.turn.replyIdx >= 0 {
		return
	}
	s.msgs = append(s.msgs, domain.Message{
		ID:        uuid.NewString(),
		SessionID: s.session.ID,
		Role:      domain.RoleAssistant,
		CreatedAt: time.Now().UTC(),
	})
	s.turn.replyIdx = len(s.msgs) - 1
}

// dropEmptyReplyLocked removes an assistant message the turn opened
// but never wrote to.
func (s *ChatService) dropEmptyReplyLocked() {
	idx := s.turn.replyIdx
	if idx < 0 || s.msgs[idx].Content != "" {
		return
	}
	s.msgs = append(s.msgs[:idx], s.msgs[idx+1:]...)
	s.turn.replyIdx = -1
}

// persistTurnLocked writes the turn's messages to the store at the
// turn boundary. Persistence failures are logged, never fatal.
func (s *ChatService) persistTurnLocked() {
	if !s.turn.history {
		return
	}

	// The turn context may already be cancelled; history writes get
	// their own short deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.SaveMessage(ctx, &s.msgs[s.turn.userIdx]); err != nil {
		logger.Warn("Could not persist user message: %v", err)
	}
	if s.turn.replyIdx >= 0 {
		if err := s.store.SaveMessage(ctx, &s.msgs[s.turn.replyIdx]); err != nil {
			logger.Warn("Could not persist assistant message: %v", err)
		}
	}
}

func (s *ChatService) snapshotLocked() []domain.Message {
	out := make([]domain.Message, len(s.msgs))
	for i, m := range s.msgs {
		out[i] = m.Clone()
	}
	return out
}

func (s *ChatService) newestUserLocked() int {
	for i := len(s.msgs) - 1; i >= 0; i-- {
		if s.msgs[i].Role == domain.RoleUser {
			return i
		}
	}
	return -1
}

// signalLocked coalesces a change signal onto the updates channel.
func (s *ChatService) signalLocked() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func (s *ChatService) chatSettings() domain.ChatSettings {
	if settings, err := s.settings.Get(); err == nil {
		return settings.Chat
	}
	return domain.DefaultAppSettings().Chat
}

func (s *ChatService) historyEnabled() bool {
	return s.chatSettings().History
}
