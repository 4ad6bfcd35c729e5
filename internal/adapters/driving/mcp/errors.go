// Package mcp provides an MCP (Model Context Protocol) server adapter for Zoe.
// It enables AI assistants like Claude to converse with the StudyBridge platform.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
