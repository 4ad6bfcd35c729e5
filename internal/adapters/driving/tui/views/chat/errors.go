package chat

import "errors"

// Error definitions for the chat view.
var (
	// ErrNoChatService indicates that no chat service was provided.
	ErrNoChatService = errors.New("chat service is required")

	// ErrNoSessionService indicates that no session service was provided.
	ErrNoSessionService = errors.New("session service is required")

	// ErrNoDocumentService indicates the attach feature is unavailable.
	ErrNoDocumentService = errors.New("document uploads are not available")

	// ErrNoTranscriptionService indicates the record feature is unavailable.
	ErrNoTranscriptionService = errors.New("voice transcription is not available")
)
