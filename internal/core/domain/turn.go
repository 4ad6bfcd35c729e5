package domain

const unknownDescription = "Unknown"

// TurnPhase tracks the lifecycle of one request/response exchange:
// the user message just sent plus the assistant reply being produced
// for it. At most one turn is active at a time; sending again while a
// stream is open supersedes the older turn.
type TurnPhase string

// Turn phases.
const (
	// TurnIdle means no exchange is in flight.
	TurnIdle TurnPhase = "idle"

	// TurnAwaitingResponse means the request was sent and nothing has
	// arrived yet.
	TurnAwaitingResponse TurnPhase = "awaiting_response"

	// TurnStreaming means assistant deltas are arriving.
	TurnStreaming TurnPhase = "streaming"

	// TurnCompleted means the stream finished cleanly.
	TurnCompleted TurnPhase = "completed"

	// TurnFailed means the turn ended in an unrecoverable error and a
	// locally generated reply was substituted.
	TurnFailed TurnPhase = "failed"

	// TurnAwaitingRetry means the turn failed on expired authentication.
	// The user's input is preserved for an explicit retry.
	TurnAwaitingRetry TurnPhase = "awaiting_retry"
)

// IsValid returns true if the phase is recognised.
func (p TurnPhase) IsValid() bool {
	switch p {
	case TurnIdle, TurnAwaitingResponse, TurnStreaming,
		TurnCompleted, TurnFailed, TurnAwaitingRetry:
		return true
	default:
		return false
	}
}

// Busy returns true while a stream is (or may be) open and new sends
// must supersede it.
func (p TurnPhase) Busy() bool {
	return p == TurnAwaitingResponse || p == TurnStreaming
}

// String returns the string representation.
func (p TurnPhase) String() string {
	return string(p)
}

// Description returns a human-readable description of the phase.
func (p TurnPhase) Description() string {
	switch p {
	case TurnIdle:
		return "Idle"
	case TurnAwaitingResponse:
		return "Waiting for response"
	case TurnStreaming:
		return "Streaming"
	case TurnCompleted:
		return "Completed"
	case TurnFailed:
		return "Failed"
	case TurnAwaitingRetry:
		return "Awaiting retry"
	default:
		return unknownDescription
	}
}
