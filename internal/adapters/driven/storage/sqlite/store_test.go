package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "zoe-test-*")
	require.NoError(t, err)

	// Create store in temp directory
	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestSession creates a test session to satisfy foreign key constraints.
func createTestSession(t *testing.T, store *Store, sessionID string) {
	t.Helper()
	ctx := context.Background()
	session := &domain.Session{
		ID:        sessionID,
		Audience:  domain.AudienceStudent,
		Locale:    "en",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	err := store.SessionStore().SaveSession(ctx, session)
	require.NoError(t, err)
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	// Test with invalid path (should fail to create directory)
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "zoe-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "chat.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "zoe-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	// Create store in a nested directory that doesn't exist yet
	nestedDir := filepath.Join(tempDir, "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify all directories were created
	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	// Verify schema_migrations table exists
	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Greater(t, count, 0, "should have at least one migration")

	// Verify all expected tables exist
	tables := []string{
		"sessions",
		"messages",
		"uploads",
	}

	for _, table := range tables {
		var tableExists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&tableExists)
		require.NoError(t, err)
		assert.Equal(t, 1, tableExists, "table %s should exist", table)
	}
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "zoe-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store1, err := NewStore(tempDir)
	require.NoError(t, err)

	var version1 int
	err = store1.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version1)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	// Reopening must not re-run applied migrations
	store2, err := NewStore(tempDir)
	require.NoError(t, err)
	defer store2.Close()

	var version2 int
	err = store2.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version2)
	require.NoError(t, err)
	assert.Equal(t, version1, version2)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	// Verify foreign keys are enabled
	var fkEnabled int
	err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	require.NoError(t, err)
	assert.Equal(t, 1, fkEnabled, "foreign keys should be enabled")
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Close()
	assert.NoError(t, err)

	// Verify connection is closed
	err = store.db.Ping()
	assert.Error(t, err)
}

func TestStore_Path(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	path := store.Path()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "chat.db")
	assert.FileExists(t, path)
}

func TestStore_InterfaceGetters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.SessionStore())
	assert.NotNil(t, store.MessageStore())
	assert.NotNil(t, store.UploadStore())
	assert.NotNil(t, store.ConversationStore())
}

// ==================== SessionStore Tests ====================

func TestSessionStore_SaveAndCurrent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	created := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	session := &domain.Session{
		ID:        "sess-1",
		Audience:  domain.AudienceAgent,
		Locale:    "es",
		CreatedAt: created,
	}

	err := store.SessionStore().SaveSession(ctx, session)
	require.NoError(t, err)

	got, err := store.SessionStore().CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
	assert.Equal(t, domain.AudienceAgent, got.Audience)
	assert.Equal(t, "es", got.Locale)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestSessionStore_SaveSession_Upsert(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	session := &domain.Session{
		ID:        "sess-1",
		Audience:  domain.AudienceStudent,
		Locale:    "en",
		CreatedAt: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, store.SessionStore().SaveSession(ctx, session))

	// Change the locale and save again under the same ID
	session.Locale = "fr"
	require.NoError(t, store.SessionStore().SaveSession(ctx, session))

	sessions, err := store.SessionStore().ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "fr", sessions[0].Locale)
}

func TestSessionStore_SaveSession_InvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.SessionStore().SaveSession(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.SessionStore().SaveSession(ctx, &domain.Session{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_CurrentSession_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SessionStore().CurrentSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_CurrentSession_ReturnsNewest(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	old := &domain.Session{
		ID:        "sess-old",
		Audience:  domain.AudienceStudent,
		CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	newer := &domain.Session{
		ID:        "sess-new",
		Audience:  domain.AudienceStudent,
		CreatedAt: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SessionStore().SaveSession(ctx, old))
	require.NoError(t, store.SessionStore().SaveSession(ctx, newer))

	got, err := store.SessionStore().CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-new", got.ID)
}

func TestSessionStore_ListSessions_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"sess-a", "sess-b", "sess-c"} {
		session := &domain.Session{
			ID:        id,
			Audience:  domain.AudienceStudent,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.SessionStore().SaveSession(ctx, session))
	}

	sessions, err := store.SessionStore().ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "sess-c", sessions[0].ID)
	assert.Equal(t, "sess-b", sessions[1].ID)
	assert.Equal(t, "sess-a", sessions[2].ID)
}

func TestSessionStore_DeleteSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	err := store.SessionStore().DeleteSession(ctx, "sess-1")
	require.NoError(t, err)

	_, err = store.SessionStore().CurrentSession(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again reports not found
	err = store.SessionStore().DeleteSession(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_DeleteSession_CascadesTranscript(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	msg := &domain.Message{
		ID:        "msg-1",
		SessionID: "sess-1",
		Role:      domain.RoleUser,
		Content:   "What documents do I need?",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.MessageStore().SaveMessage(ctx, msg))

	up := &domain.Upload{
		ID:        "up-1",
		SessionID: "sess-1",
		Name:      "passport.pdf",
		MIMEType:  "application/pdf",
		Size:      2048,
		URL:       "https://storage.test/object/public/chat-uploads/sess-1/up-1.pdf",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.UploadStore().SaveUpload(ctx, up))

	require.NoError(t, store.SessionStore().DeleteSession(ctx, "sess-1"))

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	uploads, err := store.UploadStore().ListUploads(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, uploads)
}

// ==================== MessageStore Tests ====================

func TestMessageStore_SaveMessage_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	created := time.Date(2026, 3, 10, 9, 31, 0, 0, time.UTC)
	msg := &domain.Message{
		ID:        "msg-1",
		SessionID: "sess-1",
		Role:      domain.RoleAssistant,
		Content:   "You'll need a passport and an offer letter.",
		Attachments: []domain.Attachment{
			{Name: "passport.pdf", MIMEType: "application/pdf", Size: 2048, URL: "https://example.test/passport.pdf"},
		},
		Sources: []domain.Source{
			{ID: "kb-1", Title: "UK student visas", Category: "visas", SourceURL: "https://example.test/kb-1", SourceType: "article", Similarity: 0.92},
		},
		ErrorNote: "",
		CreatedAt: created,
	}

	require.NoError(t, store.MessageStore().SaveMessage(ctx, msg))

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	got := msgs[0]
	assert.Equal(t, "msg-1", got.ID)
	assert.Equal(t, domain.RoleAssistant, got.Role)
	assert.Equal(t, msg.Content, got.Content)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "passport.pdf", got.Attachments[0].Name)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, "UK student visas", got.Sources[0].Title)
	assert.InDelta(t, 0.92, got.Sources[0].Similarity, 0.0001)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestMessageStore_ListMessages_OldestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	// All three share a timestamp; insertion order must still hold
	created := time.Date(2026, 3, 10, 9, 31, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		msg := &domain.Message{
			ID:        "msg-" + string(rune('a'+i)),
			SessionID: "sess-1",
			Role:      domain.RoleUser,
			Content:   content,
			CreatedAt: created,
		}
		require.NoError(t, store.MessageStore().SaveMessage(ctx, msg))
	}

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestMessageStore_SaveMessage_UpdateKeepsPosition(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	created := time.Now().UTC().Truncate(time.Second)
	for i, content := range []string{"first", "second", "third"} {
		msg := &domain.Message{
			ID:        "msg-" + string(rune('a'+i)),
			SessionID: "sess-1",
			Role:      domain.RoleUser,
			Content:   content,
			CreatedAt: created,
		}
		require.NoError(t, store.MessageStore().SaveMessage(ctx, msg))
	}

	// Rewriting the middle message must not move it
	updated := &domain.Message{
		ID:        "msg-b",
		SessionID: "sess-1",
		Role:      domain.RoleUser,
		Content:   "second (edited)",
		ErrorNote: "sign in again to retry",
		CreatedAt: created,
	}
	require.NoError(t, store.MessageStore().SaveMessage(ctx, updated))

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second (edited)", msgs[1].Content)
	assert.Equal(t, "sign in again to retry", msgs[1].ErrorNote)
	assert.Equal(t, "third", msgs[2].Content)
}

func TestMessageStore_SaveMessage_PreservesEmptySources(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	// nil and empty slices are different: an empty sources set is a
	// deliberate replacement, nil means no sources record arrived.
	withNil := &domain.Message{
		ID:        "msg-nil",
		SessionID: "sess-1",
		Role:      domain.RoleAssistant,
		Content:   "reply",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	withEmpty := &domain.Message{
		ID:        "msg-empty",
		SessionID: "sess-1",
		Role:      domain.RoleAssistant,
		Content:   "reply",
		Sources:   []domain.Source{},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.MessageStore().SaveMessage(ctx, withNil))
	require.NoError(t, store.MessageStore().SaveMessage(ctx, withEmpty))

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Nil(t, msgs[0].Sources)
	assert.NotNil(t, msgs[1].Sources)
	assert.Empty(t, msgs[1].Sources)
}

func TestMessageStore_SaveMessage_InvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.MessageStore().SaveMessage(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.MessageStore().SaveMessage(ctx, &domain.Message{SessionID: "sess-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.MessageStore().SaveMessage(ctx, &domain.Message{ID: "msg-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMessageStore_SaveMessage_UnknownSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	msg := &domain.Message{
		ID:        "msg-1",
		SessionID: "sess-missing",
		Role:      domain.RoleUser,
		Content:   "hello",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	// Foreign keys reject messages for sessions that were never saved
	err := store.MessageStore().SaveMessage(ctx, msg)
	assert.Error(t, err)
}

func TestMessageStore_DeleteMessages(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	msg := &domain.Message{
		ID:        "msg-1",
		SessionID: "sess-1",
		Role:      domain.RoleUser,
		Content:   "hello",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.MessageStore().SaveMessage(ctx, msg))

	require.NoError(t, store.MessageStore().DeleteMessages(ctx, "sess-1"))

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	// Deleting an empty transcript is not an error
	assert.NoError(t, store.MessageStore().DeleteMessages(ctx, "sess-1"))
}

func TestMessageStore_ListMessages_ScopedToSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")
	createTestSession(t, store, "sess-2")

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.MessageStore().SaveMessage(ctx, &domain.Message{
		ID: "msg-1", SessionID: "sess-1", Role: domain.RoleUser, Content: "one", CreatedAt: created,
	}))
	require.NoError(t, store.MessageStore().SaveMessage(ctx, &domain.Message{
		ID: "msg-2", SessionID: "sess-2", Role: domain.RoleUser, Content: "two", CreatedAt: created,
	}))

	msgs, err := store.MessageStore().ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "one", msgs[0].Content)
}

// ==================== UploadStore Tests ====================

func TestUploadStore_SaveUpload_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	created := time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC)
	up := &domain.Upload{
		ID:        "up-1",
		SessionID: "sess-1",
		Name:      "offer-letter.pdf",
		MIMEType:  "application/pdf",
		Size:      4096,
		URL:       "https://storage.test/object/public/chat-uploads/sess-1/up-1.pdf",
		CreatedAt: created,
	}

	require.NoError(t, store.UploadStore().SaveUpload(ctx, up))

	uploads, err := store.UploadStore().ListUploads(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, uploads, 1)

	got := uploads[0]
	assert.Equal(t, "up-1", got.ID)
	assert.Equal(t, "offer-letter.pdf", got.Name)
	assert.Equal(t, "application/pdf", got.MIMEType)
	assert.Equal(t, int64(4096), got.Size)
	assert.Equal(t, up.URL, got.URL)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestUploadStore_ListUploads_NewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")

	base := time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC)
	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		up := &domain.Upload{
			ID:        "up-" + string(rune('a'+i)),
			SessionID: "sess-1",
			Name:      name,
			MIMEType:  "application/pdf",
			Size:      100,
			URL:       "https://example.test/" + name,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.UploadStore().SaveUpload(ctx, up))
	}

	uploads, err := store.UploadStore().ListUploads(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, uploads, 3)
	assert.Equal(t, "c.pdf", uploads[0].Name)
	assert.Equal(t, "b.pdf", uploads[1].Name)
	assert.Equal(t, "a.pdf", uploads[2].Name)
}

func TestUploadStore_ListUploads_ScopedToSession(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestSession(t, store, "sess-1")
	createTestSession(t, store, "sess-2")

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.UploadStore().SaveUpload(ctx, &domain.Upload{
		ID: "up-1", SessionID: "sess-1", Name: "mine.pdf", MIMEType: "application/pdf",
		Size: 1, URL: "https://example.test/mine.pdf", CreatedAt: created,
	}))
	require.NoError(t, store.UploadStore().SaveUpload(ctx, &domain.Upload{
		ID: "up-2", SessionID: "sess-2", Name: "theirs.pdf", MIMEType: "application/pdf",
		Size: 1, URL: "https://example.test/theirs.pdf", CreatedAt: created,
	}))

	uploads, err := store.UploadStore().ListUploads(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	assert.Equal(t, "mine.pdf", uploads[0].Name)
}

func TestUploadStore_SaveUpload_InvalidInput(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.UploadStore().SaveUpload(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.UploadStore().SaveUpload(ctx, &domain.Upload{SessionID: "sess-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.UploadStore().SaveUpload(ctx, &domain.Upload{ID: "up-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ==================== ConversationStore Tests ====================

func TestConversationStore_CombinesSessionsAndMessages(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	conv := store.ConversationStore()

	session := &domain.Session{
		ID:        "sess-1",
		Audience:  domain.AudienceStudent,
		Locale:    "en",
		CreatedAt: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, conv.SaveSession(ctx, session))

	msg := &domain.Message{
		ID:        "msg-1",
		SessionID: "sess-1",
		Role:      domain.RoleUser,
		Content:   "hello",
		CreatedAt: time.Date(2026, 3, 10, 9, 31, 0, 0, time.UTC),
	}
	require.NoError(t, conv.SaveMessage(ctx, msg))

	current, err := conv.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", current.ID)

	msgs, err := conv.ListMessages(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)
}
