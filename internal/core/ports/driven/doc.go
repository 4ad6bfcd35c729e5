// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AssistantStream: Streaming chat completions from the backend
//   - OfflineResponder: Locally generated replies when the backend fails
//   - NotificationSink: Audible cue on the first reply delta
//   - SessionStore / MessageStore / UploadStore: Local persistence
//   - ConfigStore: Application configuration
//   - TokenProvider: Bearer tokens for backend calls
//
// # Optional Interfaces
//
// These serve specific commands and can be absent elsewhere:
//
//   - Transcriber: Audio-to-text for `zoe transcribe`
//   - ObjectStore: Document uploads for `zoe docs`
//   - DirectoryWatcher: Auto-upload for `zoe docs watch`
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
