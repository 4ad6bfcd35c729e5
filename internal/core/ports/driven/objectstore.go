package driven

import (
	"context"
	"io"
)

// ObjectStore stores uploaded files in the platform bucket.
type ObjectStore interface {
	// Upload stores an object under the given path within the bucket.
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader, size int64) error

	// PublicURL returns the public URL a stored object is served from.
	PublicURL(objectPath string) string
}

// DirectoryWatcher reports files created under a directory.
type DirectoryWatcher interface {
	// Watch emits absolute paths of files created under dir until ctx
	// is cancelled. The channel closes when watching stops.
	Watch(ctx context.Context, dir string) (<-chan string, error)
}
