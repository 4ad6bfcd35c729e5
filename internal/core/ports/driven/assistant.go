package driven

import (
	"context"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// StreamEventKind discriminates decoded records on the assistant stream.
type StreamEventKind string

// Stream event kinds.
const (
	// EventDelta carries a text fragment to append to the open
	// assistant message.
	EventDelta StreamEventKind = "delta"

	// EventSources carries a replacement citation set for the newest
	// assistant message.
	EventSources StreamEventKind = "sources"

	// EventDone marks clean stream termination.
	EventDone StreamEventKind = "done"

	// EventError marks terminal failure for the turn.
	EventError StreamEventKind = "error"
)

// StreamEvent is one decoded record from the assistant's response
// stream. The adapter owns all wire-shape fallbacks; the service only
// ever sees typed events. Malformed records never become events, they
// are logged and skipped inside the adapter.
type StreamEvent struct {
	// Kind discriminates the event.
	Kind StreamEventKind

	// Delta is the text fragment for EventDelta.
	Delta string

	// Sources is the citation set for EventSources.
	Sources []domain.Source

	// Err is the terminal failure for EventError, classified against
	// the domain sentinels (ErrAuthExpired, ErrRateLimited,
	// ErrAssistantUnavailable).
	Err error
}

// ChatRequest is one outbound chat call.
type ChatRequest struct {
	// SessionID correlates the request with the conversation.
	SessionID string

	// Audience the reply should be written for.
	Audience domain.Audience

	// Locale is the BCP 47 language tag for the reply.
	Locale string

	// Messages is the conversation so far, oldest first, ending with
	// the user message this turn answers.
	Messages []domain.Message

	// Attachments uploaded for the newest user message, sent as
	// request metadata.
	Attachments []domain.Attachment
}

// AssistantStream opens streaming chat completions with the backend.
type AssistantStream interface {
	// StreamChat sends the conversation and returns a channel of
	// decoded events. The channel closes after EventDone or EventError,
	// or when ctx is cancelled. A non-nil error means the request never
	// produced a stream; it is classified against the domain sentinels.
	StreamChat(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error)
}

// OfflineResponder produces a locally generated assistant reply when
// the backend cannot. Deterministic, so conversation always continues.
type OfflineResponder interface {
	// Respond returns a canned reply for the prompt.
	Respond(prompt string, audience domain.Audience) string
}

// NotificationSink receives the audible cue for an incoming reply.
// Implementations are called from the streaming goroutine and must not
// block.
type NotificationSink interface {
	// Chime plays the reply notification once.
	Chime()
}
