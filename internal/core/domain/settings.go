package domain

// ChatSettings holds conversation behaviour configuration.
type ChatSettings struct {
	// Audience selects the portal experience replies are written for.
	Audience Audience

	// Locale is the BCP 47 language tag requested for assistant replies.
	Locale string

	// Sound toggles the audible notification on the first reply delta.
	Sound bool

	// History toggles persisting conversations to the local store.
	// When off, transcripts live only for the lifetime of the process.
	History bool
}

// BackendSettings holds the managed backend endpoints.
type BackendSettings struct {
	// FunctionsBase is the base URL for serverless functions
	// (chat streaming, audio transcription).
	FunctionsBase string

	// StorageBase is the base URL for object storage.
	StorageBase string

	// AuthBase is the base URL for the token service.
	AuthBase string

	// Bucket is the object-storage bucket documents are uploaded to.
	Bucket string
}

// IsConfigured returns true if the backend endpoints are set.
func (b BackendSettings) IsConfigured() bool {
	return b.FunctionsBase != "" && b.StorageBase != "" && b.AuthBase != ""
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Chat holds conversation behaviour settings.
	Chat ChatSettings

	// Backend holds managed backend endpoints.
	Backend BackendSettings
}

// DefaultAppSettings returns settings with sensible defaults. The
// backend endpoints point at the hosted platform; self-hosted
// deployments override them via `zoe settings backend`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chat: ChatSettings{
			Audience: AudienceStudent,
			Locale:   "en",
			Sound:    true,
			History:  true,
		},
		Backend: BackendSettings{
			FunctionsBase: "https://api.studybridge.io/functions/v1",
			StorageBase:   "https://api.studybridge.io/storage/v1",
			AuthBase:      "https://api.studybridge.io/auth/v1",
			Bucket:        "chat-uploads",
		},
	}
}

// AllAudiences returns all available audiences.
func AllAudiences() []Audience {
	return []Audience{
		AudienceStudent,
		AudienceAgent,
		AudiencePartner,
		AudienceAdmin,
	}
}
