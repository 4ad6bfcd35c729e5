package platform

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

func newTestStorage(t *testing.T, serverURL string) *StorageService {
	t.Helper()
	svc, err := NewStorageService(
		StorageConfig{StorageBase: serverURL, Bucket: "chat-uploads"},
		&staticTokens{token: "tok-123"},
	)
	require.NoError(t, err)
	return svc
}

func TestStorageService_Upload(t *testing.T) {
	var gotPath, gotType, gotAuth string
	var gotBody []byte
	var gotLength int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotLength = r.ContentLength

		var err error
		gotBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newTestStorage(t, server.URL)
	body := "fake pdf bytes"
	err := svc.Upload(context.Background(), "sess-1/doc-9.pdf", "application/pdf", strings.NewReader(body), int64(len(body)))

	require.NoError(t, err)
	assert.Equal(t, "/object/chat-uploads/sess-1/doc-9.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, int64(len(body)), gotLength)
	assert.Equal(t, []byte(body), gotBody)
}

func TestStorageService_Upload_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := newTestStorage(t, server.URL)
	err := svc.Upload(context.Background(), "sess-1/doc.pdf", "application/pdf", strings.NewReader("x"), 1)

	assert.True(t, errors.Is(err, domain.ErrAssistantUnavailable))
}

func TestStorageService_Upload_AuthExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := newTestStorage(t, server.URL)
	err := svc.Upload(context.Background(), "sess-1/doc.pdf", "application/pdf", strings.NewReader("x"), 1)

	assert.True(t, errors.Is(err, domain.ErrAuthExpired))
}

func TestStorageService_PublicURL(t *testing.T) {
	svc := newTestStorage(t, "https://api.studybridge.io/storage/v1")

	url := svc.PublicURL("sess-1/doc-9.pdf")

	assert.Equal(t, "https://api.studybridge.io/storage/v1/object/public/chat-uploads/sess-1/doc-9.pdf", url)
}

func TestNewStorageService_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  StorageConfig
	}{
		{name: "missing base URL", cfg: StorageConfig{Bucket: "chat-uploads"}},
		{name: "missing bucket", cfg: StorageConfig{StorageBase: "https://api.studybridge.io/storage/v1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStorageService(tt.cfg, &staticTokens{token: "t"})
			require.Error(t, err)
		})
	}
}
