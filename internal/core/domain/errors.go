package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyMessage indicates the user submitted blank or whitespace-only input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTurnInProgress indicates a response is already being streamed
	// and the operation cannot start another one.
	ErrTurnInProgress = errors.New("turn in progress")

	// ErrNothingToRetry indicates a retry was requested with no failed
	// turn awaiting one.
	ErrNothingToRetry = errors.New("nothing to retry")

	// Assistant Errors.

	// ErrAssistantUnavailable indicates the assistant backend could not
	// be reached or returned an unusable response. Conversation continues
	// with a locally generated reply.
	ErrAssistantUnavailable = errors.New("assistant unavailable")

	// ErrRateLimited indicates the backend rejected the request because
	// the client sent too many in a short window.
	ErrRateLimited = errors.New("rate limited")

	// ErrStreamClosed indicates the response stream ended before the
	// completion sentinel arrived.
	ErrStreamClosed = errors.New("stream closed")

	// Authentication Errors.

	// ErrAuthRequired indicates no credentials are configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the session token has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Upload Errors.

	// ErrFileTooLarge indicates a file exceeds the upload size ceiling.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFileType indicates a file's type is not on the upload allow-list.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
