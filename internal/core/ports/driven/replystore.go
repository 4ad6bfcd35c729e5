package driven

// ReplyStore provides access to offline reply templates.
// Implementations may load replies from user-editable files or embed
// them in the binary.
type ReplyStore interface {
	// Load returns the reply template for the given name.
	// If the reply is not found, implementations should return a
	// sensible default or an error, depending on whether the reply is
	// required.
	Load(name string) (string, error)

	// Reload clears any cached replies, forcing fresh loads on next
	// access. Useful when replies may have been edited on disk.
	Reload()
}

// Well-known reply names used by the offline responder.
const (
	// ReplyGreeting answers plain greetings.
	ReplyGreeting = "greeting"

	// ReplyVisas covers visa and document questions.
	ReplyVisas = "visas"

	// ReplyUniversities covers institution and course questions.
	ReplyUniversities = "universities"

	// ReplyCosts covers fees, budgets, and scholarships.
	ReplyCosts = "costs"

	// ReplyDefault answers everything else.
	ReplyDefault = "default"
)

// ReplyStoreAware is an optional interface for responders that can use
// custom replies. Responders implementing it can have their canned
// replies customised by injecting a ReplyStore after construction.
type ReplyStoreAware interface {
	// SetReplyStore sets the reply store for loading customisable
	// replies. If not set, the responder should use hardcoded defaults.
	SetReplyStore(store ReplyStore)
}
