package mcp

import (
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat drives the conversation with the assistant.
	Chat driving.ChatService

	// Sessions exposes stored sessions and their transcripts.
	Sessions driving.SessionService

	// Documents exposes the session's upload records.
	Documents driving.DocumentService

	// Transcription converts local recordings to text.
	Transcription driving.TranscriptionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Sessions, Documents and Transcription are optional
	return nil
}
