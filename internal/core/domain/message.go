package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

// Message roles.
const (
	// RoleUser is a message submitted by the person at the terminal.
	RoleUser Role = "user"

	// RoleAssistant is a reply from the StudyBridge assistant, either
	// streamed from the backend or substituted locally.
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is a single conversation entry.
type Message struct {
	// ID uniquely identifies the message (UUID).
	ID string

	// SessionID links the message to its conversation session.
	SessionID string

	// Role identifies the author.
	Role Role

	// Content is the message text. Assistant content grows as stream
	// deltas arrive and is final once the turn closes.
	Content string

	// Attachments are files uploaded alongside a user message.
	Attachments []Attachment

	// Sources are the citations backing an assistant reply. A sources
	// record replaces any earlier set outright.
	Sources []Source

	// ErrorNote marks a user message whose turn failed recoverably
	// (authentication expiry). Empty otherwise.
	ErrorNote string

	// CreatedAt is when the message entered the conversation.
	CreatedAt time.Time
}

// Clone returns a deep copy so callers can snapshot conversation state
// without aliasing the slices the service keeps appending to.
func (m Message) Clone() Message {
	out := m
	if m.Attachments != nil {
		out.Attachments = make([]Attachment, len(m.Attachments))
		copy(out.Attachments, m.Attachments)
	}
	if m.Sources != nil {
		out.Sources = make([]Source, len(m.Sources))
		copy(out.Sources, m.Sources)
	}
	return out
}

// Source is citation metadata attached to an assistant reply.
type Source struct {
	// ID uniquely identifies the cited record in the knowledge base.
	ID string

	// Title is the human-readable name of the cited record.
	Title string

	// Category groups the record (e.g. "visas", "universities").
	Category string

	// SourceURL points at the original document, if public.
	SourceURL string

	// SourceType describes the record kind (e.g. "article", "faq").
	SourceType string

	// Similarity is the retrieval score; higher means a closer match.
	Similarity float64
}

// Attachment is uploaded-file metadata carried on a user message.
type Attachment struct {
	// Name is the original file name.
	Name string

	// MIMEType is the detected content type.
	MIMEType string

	// Size is the file size in bytes.
	Size int64

	// URL is the public object-storage URL after upload.
	URL string
}
