package driven

import (
	"context"
	"io"
)

// Transcriber converts recorded audio to text.
type Transcriber interface {
	// Transcribe sends an audio recording and returns the recognised
	// text. The name and MIME type describe the recording; callers
	// validate both against the audio allow-list first.
	Transcribe(ctx context.Context, audio io.Reader, name, mimeType string) (string, error)
}
