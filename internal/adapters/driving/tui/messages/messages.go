// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// ConversationUpdated signals that the conversation state changed and
// views should re-read messages, phase and notice from the service.
type ConversationUpdated struct{}

// SessionLoaded carries the active session after initial binding.
type SessionLoaded struct {
	Session *domain.Session
	Err     error
}

// SessionReset signals the conversation rotated to a fresh session.
type SessionReset struct {
	Session *domain.Session
	Err     error
}

// SendFinished reports the synchronous outcome of submitting input.
// The reply itself streams in the background and arrives through
// ConversationUpdated signals.
type SendFinished struct {
	Err error
}

// RetryFinished reports the outcome of re-submitting preserved input.
type RetryFinished struct {
	Err error
}

// AttachmentsUploaded carries uploaded files ready to be staged on the
// next message.
type AttachmentsUploaded struct {
	Uploads []domain.Upload
	Err     error
}

// TranscriptionCompleted carries transcribed recording text for the
// composer.
type TranscriptionCompleted struct {
	Text string
	Err  error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
