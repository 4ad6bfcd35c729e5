package domain

import "time"

// Audience identifies which StudyBridge portal experience the person
// belongs to. It shapes the assistant's tone and the offline responder's
// canned answers.
type Audience string

// Available audiences.
const (
	// AudienceStudent is an applicant researching programmes.
	AudienceStudent Audience = "student"

	// AudienceAgent is a recruitment agent managing applicants.
	AudienceAgent Audience = "agent"

	// AudiencePartner is a partner institution representative.
	AudiencePartner Audience = "partner"

	// AudienceAdmin is a platform administrator.
	AudienceAdmin Audience = "admin"
)

// IsValid returns true if the audience is recognised.
func (a Audience) IsValid() bool {
	switch a {
	case AudienceStudent, AudienceAgent, AudiencePartner, AudienceAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a Audience) String() string {
	return string(a)
}

// Description returns a human-readable description of the audience.
func (a Audience) Description() string {
	switch a {
	case AudienceStudent:
		return "Student (applicant)"
	case AudienceAgent:
		return "Agent (recruitment partner)"
	case AudiencePartner:
		return "Partner (institution)"
	case AudienceAdmin:
		return "Admin (platform staff)"
	default:
		return unknownDescription
	}
}

// Session is the conversation correlation token. It is generated on the
// client, reused across turns until explicitly reset, and persisted
// locally so conversations survive restarts. It is not a security
// credential; authentication travels separately as a bearer token.
type Session struct {
	// ID is the client-generated UUID sent with every chat request.
	ID string

	// Audience the session was opened for.
	Audience Audience

	// Locale is the BCP 47 language tag for assistant replies.
	Locale string

	// CreatedAt is when the session was first opened.
	CreatedAt time.Time
}
