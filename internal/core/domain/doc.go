// Package domain defines the core business entities for Zoe.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: One conversation entry (user input or assistant reply)
//   - Source: Citation metadata attached to an assistant reply
//   - Attachment: Uploaded file metadata carried on a user message
//   - Session: The client-generated conversation correlation token
//   - TurnPhase: Lifecycle of a single request/response exchange
//   - Upload: A validated local file headed for object storage
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
