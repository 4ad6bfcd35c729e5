package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for Zoe resources.
	uriScheme = "zoe://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the active session.
	s.inner.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "The active conversation session",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	// Static resource for the session's document uploads.
	s.inner.AddResource(&mcp.Resource{
		URI:         uriScheme + "uploads",
		Name:        "uploads",
		Description: "Documents uploaded in the current session",
		MIMEType:    "application/json",
	}, s.handleUploadsResource)

	// Template for stored session transcripts.
	s.inner.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "sessions/{sessionId}/transcript",
		Name:        "session-transcript",
		Description: "Stored transcript of a conversation session",
		MIMEType:    "application/json",
	}, s.handleTranscriptResource)
}

// handleSessionResource returns the active session.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	session, err := s.ports.Chat.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	// Build simplified session info.
	type sessionInfo struct {
		ID        string `json:"id"`
		Audience  string `json:"audience"`
		Locale    string `json:"locale"`
		StartedAt string `json:"started_at"`
	}

	info := sessionInfo{
		ID:        session.ID,
		Audience:  string(session.Audience),
		Locale:    session.Locale,
		StartedAt: session.CreatedAt.UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleUploadsResource returns the current session's upload records.
func (s *Server) handleUploadsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	uploads, err := s.ports.Documents.Uploads(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}

	// Build simplified upload list.
	type uploadInfo struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		MIMEType string `json:"mime_type"`
		Size     int64  `json:"size"`
		URL      string `json:"url"`
	}

	infos := make([]uploadInfo, len(uploads))
	for i := range uploads {
		infos[i] = uploadInfo{
			ID:       uploads[i].ID,
			Name:     uploads[i].Name,
			MIMEType: uploads[i].MIMEType,
			Size:     uploads[i].Size,
			URL:      uploads[i].URL,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling uploads: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTranscriptResource returns the stored transcript of a session.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sessions == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract sessionId from URI: zoe://sessions/{sessionId}/transcript
	sessionID := extractSessionID(req.Params.URI)
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	msgs, err := s.ports.Sessions.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading transcript: %w", err)
	}

	// Build simplified message list.
	type messageInfo struct {
		ID      string `json:"id"`
		Role    string `json:"role"`
		Content string `json:"content"`
		SentAt  string `json:"sent_at"`
	}

	infos := make([]messageInfo, len(msgs))
	for i := range msgs {
		infos[i] = messageInfo{
			ID:      msgs[i].ID,
			Role:    string(msgs[i].Role),
			Content: msgs[i].Content,
			SentAt:  msgs[i].CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like zoe://sessions/{sessionId}/transcript.
func extractSessionID(uri string) string {
	const prefix = uriScheme + "sessions/"
	const suffix = "/transcript"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
