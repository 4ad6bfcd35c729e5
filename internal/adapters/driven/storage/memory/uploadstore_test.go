package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

func TestUploadStore_ListUploads_Empty(t *testing.T) {
	store := NewUploadStore()

	ups, err := store.ListUploads(context.Background(), "none")

	require.NoError(t, err)
	assert.Empty(t, ups)
}

func TestUploadStore_SaveUpload_NewestFirst(t *testing.T) {
	store := NewUploadStore()
	ctx := context.Background()

	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, store.SaveUpload(ctx, &domain.Upload{
			ID:        id,
			SessionID: "s1",
			Name:      id + ".pdf",
			MIMEType:  "application/pdf",
			CreatedAt: time.Now().UTC(),
		}))
	}

	ups, err := store.ListUploads(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, ups, 3)
	assert.Equal(t, "u3", ups[0].ID)
	assert.Equal(t, "u1", ups[2].ID)
}

func TestUploadStore_SaveUpload_IsolatesSessions(t *testing.T) {
	store := NewUploadStore()
	ctx := context.Background()

	require.NoError(t, store.SaveUpload(ctx, &domain.Upload{ID: "u1", SessionID: "s1"}))
	require.NoError(t, store.SaveUpload(ctx, &domain.Upload{ID: "u2", SessionID: "s2"}))

	ups, err := store.ListUploads(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, ups, 1)
	assert.Equal(t, "u2", ups[0].ID)
}
