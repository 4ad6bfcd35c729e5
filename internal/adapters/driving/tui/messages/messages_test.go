package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// TestConversationUpdated tests the ConversationUpdated message type
func TestConversationUpdated(t *testing.T) {
	msg := ConversationUpdated{}
	// ConversationUpdated is an empty signal, just verify it can be created
	assert.NotNil(t, msg)
}

// TestSessionLoaded tests the SessionLoaded message type
func TestSessionLoaded(t *testing.T) {
	t.Run("with session", func(t *testing.T) {
		session := &domain.Session{
			ID:       "sess-1",
			Audience: domain.AudienceStudent,
			Locale:   "en",
		}
		msg := SessionLoaded{Session: session, Err: nil}

		require.NotNil(t, msg.Session)
		assert.Equal(t, "sess-1", msg.Session.ID)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("store unavailable")
		msg := SessionLoaded{Session: nil, Err: err}

		assert.Nil(t, msg.Session)
		assert.Error(t, msg.Err)
		assert.Equal(t, "store unavailable", msg.Err.Error())
	})
}

// TestSessionReset tests the SessionReset message type
func TestSessionReset(t *testing.T) {
	t.Run("with fresh session", func(t *testing.T) {
		session := &domain.Session{ID: "sess-2", Audience: domain.AudienceAgent, Locale: "pt-BR"}
		msg := SessionReset{Session: session, Err: nil}

		require.NotNil(t, msg.Session)
		assert.Equal(t, "sess-2", msg.Session.ID)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := SessionReset{Err: errors.New("reset failed")}

		assert.Nil(t, msg.Session)
		assert.Error(t, msg.Err)
	})
}

// TestSendFinished tests the SendFinished message type
func TestSendFinished(t *testing.T) {
	t.Run("successful send", func(t *testing.T) {
		msg := SendFinished{Err: nil}
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("backend not configured")
		msg := SendFinished{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "backend not configured", msg.Err.Error())
	})
}

// TestRetryFinished tests the RetryFinished message type
func TestRetryFinished(t *testing.T) {
	t.Run("successful retry", func(t *testing.T) {
		msg := RetryFinished{Err: nil}
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := RetryFinished{Err: errors.New("nothing to retry")}
		assert.Error(t, msg.Err)
	})
}

// TestAttachmentsUploaded tests the AttachmentsUploaded message type
func TestAttachmentsUploaded(t *testing.T) {
	t.Run("with uploads", func(t *testing.T) {
		uploads := []domain.Upload{
			{ID: "up-1", Name: "transcript.pdf", MIMEType: "application/pdf", Size: 2048},
			{ID: "up-2", Name: "passport.jpg", MIMEType: "image/jpeg", Size: 4096},
		}
		msg := AttachmentsUploaded{Uploads: uploads, Err: nil}

		require.Len(t, msg.Uploads, 2)
		assert.Equal(t, "transcript.pdf", msg.Uploads[0].Name)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("file too large")
		msg := AttachmentsUploaded{Uploads: nil, Err: err}

		assert.Nil(t, msg.Uploads)
		assert.Error(t, msg.Err)
	})
}

// TestTranscriptionCompleted tests the TranscriptionCompleted message type
func TestTranscriptionCompleted(t *testing.T) {
	t.Run("with transcript", func(t *testing.T) {
		msg := TranscriptionCompleted{Text: "how long does a visa take", Err: nil}

		assert.Equal(t, "how long does a visa take", msg.Text)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("unsupported file type")
		msg := TranscriptionCompleted{Text: "", Err: err}

		assert.Equal(t, "", msg.Text)
		assert.Error(t, msg.Err)
	})
}

// TestErrorOccurred tests the ErrorOccurred message type
func TestErrorOccurred(t *testing.T) {
	t.Run("with standard error", func(t *testing.T) {
		err := errors.New("something went wrong")
		msg := ErrorOccurred{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "something went wrong", msg.Err.Error())
	})

	t.Run("with nil error", func(t *testing.T) {
		msg := ErrorOccurred{Err: nil}
		assert.Nil(t, msg.Err)
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("base error")
		wrappedErr := errors.Join(baseErr, errors.New("additional context"))
		msg := ErrorOccurred{Err: wrappedErr}

		assert.Error(t, msg.Err)
		assert.Contains(t, msg.Err.Error(), "base error")
	})
}

// TestQuit tests the Quit message type
func TestQuit(t *testing.T) {
	msg := Quit{}
	// Quit is an empty struct, just verify it can be created
	assert.NotNil(t, msg)
}
