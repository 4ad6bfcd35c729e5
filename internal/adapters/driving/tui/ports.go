// Package tui provides the interactive conversation interface for Zoe.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat drives the conversation with the assistant.
	Chat driving.ChatService

	// Sessions manages the conversation session lifecycle.
	Sessions driving.SessionService

	// Documents uploads files attached to questions. Optional; when
	// nil the attach key reports the feature as unavailable.
	Documents driving.DocumentService

	// Transcription converts voice recordings to composer text.
	// Optional; when nil the record key reports the feature as
	// unavailable.
	Transcription driving.TranscriptionService

	// Settings exposes application settings for advisory display.
	// Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	chat driving.ChatService,
	sessions driving.SessionService,
) *Ports {
	return &Ports{
		Chat:     chat,
		Sessions: sessions,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
