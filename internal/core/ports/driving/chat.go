package driving

import (
	"context"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// Notice is a non-blocking advisory surfaced after a failed turn. The
// UIs display it without interrupting the conversation.
type Notice struct {
	// Text is the human-readable advisory.
	Text string

	// RateLimited is true when the backend throttled the request.
	RateLimited bool
}

// ChatService drives the conversation with the assistant.
type ChatService interface {
	// Send submits user input, superseding any open stream. The call
	// returns once the turn is opened; the reply streams in the
	// background and state changes are signalled on Updates.
	Send(ctx context.Context, input string, attachments []domain.Attachment) error

	// Retry re-submits the input preserved by an authentication
	// failure. Only valid in the awaiting_retry phase.
	Retry(ctx context.Context) error

	// Cancel aborts the in-flight turn, if any.
	Cancel()

	// Messages returns a snapshot of the conversation, oldest first.
	Messages() []domain.Message

	// Phase returns the current turn phase.
	Phase() domain.TurnPhase

	// PendingInput returns the input and attachments preserved for
	// retry after an authentication failure.
	PendingInput() (string, []domain.Attachment)

	// Notice returns the latest non-blocking advisory, if any. It is
	// cleared by the next Send.
	Notice() *Notice

	// Updates returns a channel that coalesces change signals. UIs
	// drain it to know when to re-read Messages, Phase and Notice.
	Updates() <-chan struct{}

	// Session returns the active conversation session.
	Session(ctx context.Context) (*domain.Session, error)
}
