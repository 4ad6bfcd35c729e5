package driving

import "context"

// TranscriptionService converts local audio recordings to text.
type TranscriptionService interface {
	// TranscribeFile validates and transcribes the recording at path.
	TranscribeFile(ctx context.Context, path string) (string, error)
}
