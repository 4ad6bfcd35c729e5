package driving

import (
	"context"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// DocumentService manages uploads to the platform bucket.
type DocumentService interface {
	// Upload validates the given local files and stores them, returning
	// a record per file. Files upload concurrently; the first failure
	// aborts the batch.
	Upload(ctx context.Context, paths []string) ([]domain.Upload, error)

	// Watch auto-uploads valid files created under dir until ctx is
	// cancelled. Invalid files are logged and skipped.
	Watch(ctx context.Context, dir string) error

	// AllowedTypes returns the accepted document MIME types, sorted.
	AllowedTypes() []string

	// Uploads returns the current session's upload records, newest first.
	Uploads(ctx context.Context) ([]domain.Upload, error)
}
