// Package platform provides driven adapters backed by the StudyBridge
// platform API.
//
// The platform exposes three HTTP surfaces, each implemented here as a
// separate service:
//
//   - AssistantService: streaming chat completions from the ai-chatbot
//     function, decoded record by record into typed stream events
//   - TranscriberService: audio-to-text via the audio-transcribe function
//   - StorageService: file uploads to the platform object storage bucket
//
// All services authenticate with bearer tokens obtained from a
// [driven.TokenProvider]. Transport failures are classified against the
// domain sentinels by HTTP status: 401 maps to [domain.ErrAuthExpired],
// 429 to [domain.ErrRateLimited], and everything else to
// [domain.ErrAssistantUnavailable].
package platform
