package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure StorageService implements the interface.
var _ driven.ObjectStore = (*StorageService)(nil)

// DefaultUploadTimeout bounds one object upload.
const DefaultUploadTimeout = 120 * time.Second

// StorageConfig holds configuration for the object storage client.
type StorageConfig struct {
	// StorageBase is the platform storage base URL (required).
	StorageBase string

	// Bucket is the upload bucket name (required).
	Bucket string

	// Timeout bounds one upload (default: 120s).
	Timeout time.Duration
}

// StorageService uploads files to the platform's object storage and
// resolves their public URLs.
type StorageService struct {
	client  *http.Client
	baseURL string
	bucket  string
	tokens  driven.TokenProvider
}

// NewStorageService creates a new platform object storage client.
func NewStorageService(cfg StorageConfig, tokens driven.TokenProvider) (*StorageService, error) {
	if cfg.StorageBase == "" {
		return nil, fmt.Errorf("platform: storage base URL is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("platform: storage bucket is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultUploadTimeout
	}

	return &StorageService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.StorageBase, "/"),
		bucket:  cfg.Bucket,
		tokens:  tokens,
	}, nil
}

// Upload stores an object under the given path within the bucket.
func (s *StorageService) Upload(ctx context.Context, objectPath, contentType string, body io.Reader, size int64) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("upload token: %w", err)
	}

	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	req.ContentLength = size

	logger.Debug("Uploading object %s (%d bytes)", objectPath, size)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send upload request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side only

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp)
	}
	return nil
}

// PublicURL returns the public URL a stored object is served from.
func (s *StorageService) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
}
