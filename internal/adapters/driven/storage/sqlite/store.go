package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/studybridge/zoe-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to
// all conversation store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.zoe/data/chat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".zoe", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chat.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// MessageStore returns a MessageStore interface backed by this store.
func (s *Store) MessageStore() driven.MessageStore {
	return &messageStore{store: s}
}

// UploadStore returns an UploadStore interface backed by this store.
func (s *Store) UploadStore() driven.UploadStore {
	return &uploadStore{store: s}
}

// ConversationStore returns a ConversationStore interface backed by this store.
func (s *Store) ConversationStore() driven.ConversationStore {
	return &conversationStore{
		sessionStore: sessionStore{store: s},
		messageStore: messageStore{store: s},
	}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// SaveSession stores or updates a session.
func (s *sessionStore) SaveSession(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidInput
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, audience, locale, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			audience = excluded.audience,
			locale = excluded.locale
	`, session.ID, string(session.Audience), session.Locale,
		session.CreatedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// CurrentSession returns the most recently created session.
func (s *sessionStore) CurrentSession(ctx context.Context) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, audience, locale, created_at
		FROM sessions ORDER BY created_at DESC LIMIT 1
	`)

	session, err := scanSession(row)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns all sessions, newest first.
func (s *sessionStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, audience, locale, created_at
		FROM sessions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session //nolint:prealloc // size unknown from query
	for rows.Next() {
		var session domain.Session
		var audience, createdAt string
		if err := rows.Scan(&session.ID, &audience, &session.Locale, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		session.Audience = domain.Audience(audience)
		session.CreatedAt = parseStoredTime(createdAt)
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes a session. Messages and uploads cascade.
func (s *sessionStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Message Store ====================

// messageStore implements driven.MessageStore.
type messageStore struct {
	store *Store
}

var _ driven.MessageStore = (*messageStore)(nil)

// SaveMessage stores or updates a message. New messages take the next
// position in their session; updates keep the original position so a
// retried turn never reorders the transcript.
func (s *messageStore) SaveMessage(ctx context.Context, msg *domain.Message) error {
	if msg == nil || msg.ID == "" || msg.SessionID == "" {
		return domain.ErrInvalidInput
	}

	attachmentsJSON, err := json.Marshal(msg.Attachments)
	if err != nil {
		return fmt.Errorf("marshalling attachments: %w", err)
	}
	sourcesJSON, err := json.Marshal(msg.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO messages
			(id, session_id, role, content, attachments, sources, error_note, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM messages WHERE session_id = ?),
			?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			attachments = excluded.attachments,
			sources = excluded.sources,
			error_note = excluded.error_note
	`, msg.ID, msg.SessionID, string(msg.Role), msg.Content,
		string(attachmentsJSON), string(sourcesJSON), msg.ErrorNote,
		msg.SessionID, msg.CreatedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// ListMessages returns a session's messages, oldest first.
func (s *messageStore) ListMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, attachments, sources, error_note, created_at
		FROM messages WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []domain.Message //nolint:prealloc // size unknown from query
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return msgs, nil
}

// DeleteMessages removes a session's transcript.
func (s *messageStore) DeleteMessages(ctx context.Context, sessionID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM messages WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	return nil
}

// ==================== Upload Store ====================

// uploadStore implements driven.UploadStore.
type uploadStore struct {
	store *Store
}

var _ driven.UploadStore = (*uploadStore)(nil)

// SaveUpload stores an upload record.
func (s *uploadStore) SaveUpload(ctx context.Context, up *domain.Upload) error {
	if up == nil || up.ID == "" || up.SessionID == "" {
		return domain.ErrInvalidInput
	}

	if up.CreatedAt.IsZero() {
		up.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO uploads (id, session_id, name, mime_type, size, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			mime_type = excluded.mime_type,
			size = excluded.size,
			url = excluded.url
	`, up.ID, up.SessionID, up.Name, up.MIMEType, up.Size, up.URL,
		up.CreatedAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("saving upload: %w", err)
	}
	return nil
}

// ListUploads returns a session's uploads, newest first.
func (s *uploadStore) ListUploads(ctx context.Context, sessionID string) ([]domain.Upload, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, session_id, name, mime_type, size, url, created_at
		FROM uploads WHERE session_id = ?
		ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer rows.Close()

	var uploads []domain.Upload //nolint:prealloc // size unknown from query
	for rows.Next() {
		var up domain.Upload
		var createdAt string
		if err := rows.Scan(&up.ID, &up.SessionID, &up.Name, &up.MIMEType,
			&up.Size, &up.URL, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		up.CreatedAt = parseStoredTime(createdAt)
		uploads = append(uploads, up)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}

	return uploads, nil
}

// ==================== Conversation Store ====================

// conversationStore bundles session and message persistence behind the
// single interface the chat service depends on.
type conversationStore struct {
	sessionStore
	messageStore
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// ==================== Helper Functions ====================

// scanSession scans a single session row.
func scanSession(row *sql.Row) (*domain.Session, error) {
	var session domain.Session
	var audience, createdAt string

	if err := row.Scan(&session.ID, &audience, &session.Locale, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	session.Audience = domain.Audience(audience)
	session.CreatedAt = parseStoredTime(createdAt)

	return &session, nil
}

// scanMessage scans a message from *sql.Rows.
func scanMessage(rows *sql.Rows) (*domain.Message, error) {
	var msg domain.Message
	var role, createdAt string
	var attachmentsJSON, sourcesJSON sql.NullString

	if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content,
		&attachmentsJSON, &sourcesJSON, &msg.ErrorNote, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning message: %w", err)
	}

	msg.Role = domain.Role(role)
	msg.CreatedAt = parseStoredTime(createdAt)

	if attachmentsJSON.Valid && attachmentsJSON.String != "" && attachmentsJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(attachmentsJSON.String), &msg.Attachments); err != nil {
			return nil, fmt.Errorf("unmarshaling attachments: %w", err)
		}
	}
	if sourcesJSON.Valid && sourcesJSON.String != "" && sourcesJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(sourcesJSON.String), &msg.Sources); err != nil {
			return nil, fmt.Errorf("unmarshaling sources: %w", err)
		}
	}

	return &msg, nil
}

// parseStoredTime parses an RFC3339 timestamp, returning zero time on error.
func parseStoredTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
