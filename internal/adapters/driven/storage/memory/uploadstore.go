package memory

import (
	"context"
	"sync"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// Ensure UploadStore implements the interface.
var _ driven.UploadStore = (*UploadStore)(nil)

// UploadStore is an in-memory implementation of driven.UploadStore.
type UploadStore struct {
	mu      sync.RWMutex
	uploads map[string][]domain.Upload
}

// NewUploadStore creates a new in-memory upload store.
func NewUploadStore() *UploadStore {
	return &UploadStore{
		uploads: make(map[string][]domain.Upload),
	}
}

// SaveUpload stores an upload record.
func (s *UploadStore) SaveUpload(_ context.Context, up *domain.Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[up.SessionID] = append(s.uploads[up.SessionID], *up)
	return nil
}

// ListUploads returns a session's uploads, newest first.
func (s *UploadStore) ListUploads(_ context.Context, sessionID string) ([]domain.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ups := s.uploads[sessionID]
	result := make([]domain.Upload, 0, len(ups))
	for i := len(ups) - 1; i >= 0; i-- {
		result = append(result, ups[i])
	}
	return result, nil
}
