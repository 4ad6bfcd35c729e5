package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// uploadConcurrency bounds parallel uploads in one batch.
const uploadConcurrency = 4

// DocumentService validates local files against the platform
// allow-list and uploads them to the storage bucket, recording each
// upload under the active session.
type DocumentService struct {
	objects  driven.ObjectStore
	uploads  driven.UploadStore
	watcher  driven.DirectoryWatcher
	sessions driving.SessionService
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	objects driven.ObjectStore,
	uploads driven.UploadStore,
	watcher driven.DirectoryWatcher,
	sessions driving.SessionService,
) *DocumentService {
	return &DocumentService{
		objects:  objects,
		uploads:  uploads,
		watcher:  watcher,
		sessions: sessions,
	}
}

// Upload validates and stores the given files concurrently. The first
// failure cancels the remaining uploads.
func (s *DocumentService) Upload(ctx context.Context, paths []string) ([]domain.Upload, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files given", domain.ErrInvalidInput)
	}

	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	logger.Section("Document Upload")
	logger.Info("Uploading %d file(s) for session %s", len(paths), session.ID)

	results := make([]domain.Upload, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			up, err := s.uploadOne(gctx, session.ID, path)
			if err != nil {
				return err
			}
			results[i] = *up
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// uploadOne validates and stores a single file. The stored object is
// named by a fresh UUID under the session scope so paths never collide
// or leak local file names.
func (s *DocumentService) uploadOne(ctx context.Context, sessionID, path string) (*domain.Upload, error) {
	name := filepath.Base(path)

	mimeType, ok := domain.DocumentMIMEType(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if err := domain.ValidateUpload(name, mimeType, info.Size()); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer file.Close() //nolint:errcheck // read-only handle

	id := uuid.NewString()
	objectPath := fmt.Sprintf("%s/%s%s", sessionID, id, domain.ObjectExtension(mimeType))

	logger.Debug("Uploading %s (%d bytes) as %s", name, info.Size(), objectPath)
	if err := s.objects.Upload(ctx, objectPath, mimeType, file, info.Size()); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	up := &domain.Upload{
		ID:        id,
		SessionID: sessionID,
		Name:      name,
		MIMEType:  mimeType,
		Size:      info.Size(),
		URL:       s.objects.PublicURL(objectPath),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.uploads.SaveUpload(ctx, up); err != nil {
		logger.Warn("Could not record upload %s: %v", name, err)
	}

	logger.Info("Uploaded %s -> %s", name, up.URL)
	return up, nil
}

// Watch auto-uploads valid files created under dir until ctx is
// cancelled. Files that fail validation are logged and skipped so the
// watch outlives bad drops.
func (s *DocumentService) Watch(ctx context.Context, dir string) error {
	if s.watcher == nil {
		return fmt.Errorf("%w: no directory watcher configured", domain.ErrInvalidInput)
	}

	paths, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Section("Watching " + dir)
	for path := range paths {
		if _, ok := domain.DocumentMIMEType(path); !ok {
			logger.Debug("Ignoring %s: not an accepted document type", path)
			continue
		}
		if _, err := s.Upload(ctx, []string{path}); err != nil {
			logger.Warn("Auto-upload failed for %s: %v", path, err)
		}
	}
	return nil
}

// AllowedTypes returns the accepted document MIME types, sorted.
func (s *DocumentService) AllowedTypes() []string {
	return domain.AllowedDocumentTypes()
}

// Uploads returns the current session's upload records, newest first.
func (s *DocumentService) Uploads(ctx context.Context) ([]domain.Upload, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.uploads.ListUploads(ctx, session.ID)
}
