package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure TranscriptionService implements the interface.
var _ driving.TranscriptionService = (*TranscriptionService)(nil)

// TranscriptionService validates audio recordings and hands them to
// the transcription backend.
type TranscriptionService struct {
	transcriber driven.Transcriber
}

// NewTranscriptionService creates a new transcription service.
func NewTranscriptionService(transcriber driven.Transcriber) *TranscriptionService {
	return &TranscriptionService{
		transcriber: transcriber,
	}
}

// TranscribeFile validates and transcribes the recording at path.
func (s *TranscriptionService) TranscribeFile(ctx context.Context, path string) (string, error) {
	name := filepath.Base(path)

	mimeType, ok := domain.AudioMIMEType(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", name, err)
	}
	if err := domain.ValidateAudio(name, mimeType, info.Size()); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	logger.Debug("Transcribing %s (%s, %d bytes)", name, mimeType, info.Size())
	text, err := s.transcriber.Transcribe(ctx, file, name, mimeType)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", name, err)
	}

	return strings.TrimSpace(text), nil
}
