package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/studybridge/zoe-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the study-abroad question to ask the assistant"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput represents a single knowledge-base citation.
type SourceOutput struct {
	Title      string  `json:"title"`
	Category   string  `json:"category,omitempty"`
	URL        string  `json:"url,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}

// TranscribeInput is the input schema for the transcribe tool.
type TranscribeInput struct {
	Path string `json:"path" jsonschema:"path to a local audio recording (m4a, mp3, wav, ogg, webm)"`
}

// TranscribeOutput is the output schema for the transcribe tool.
type TranscribeOutput struct {
	Text string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.inner, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the StudyBridge assistant about programmes, visas and costs, waiting for the complete reply",
	}, s.handleAsk)

	mcp.AddTool(s.inner, &mcp.Tool{
		Name:        "transcribe",
		Description: "Transcribe a local audio recording to text",
	}, s.handleTranscribe)
}

// handleAsk handles the ask tool invocation. The reply streams in the
// background, so the handler blocks on the chat service's update
// signals until the turn reaches a terminal phase.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, errors.New("question must not be empty")
	}

	before := len(s.ports.Chat.Messages())

	if err := s.ports.Chat.Send(ctx, question, nil); err != nil {
		return nil, AskOutput{}, fmt.Errorf("sending question: %w", err)
	}

	if err := s.waitForReply(ctx); err != nil {
		return nil, AskOutput{}, err
	}

	// The reply is the newest assistant message appended by this turn.
	msgs := s.ports.Chat.Messages()
	for i := len(msgs) - 1; i >= before; i-- {
		if msgs[i].Role != domain.RoleAssistant {
			continue
		}

		output := AskOutput{Answer: msgs[i].Content}
		for _, src := range msgs[i].Sources {
			output.Sources = append(output.Sources, SourceOutput{
				Title:      src.Title,
				Category:   src.Category,
				URL:        src.SourceURL,
				Similarity: src.Similarity,
			})
		}
		return nil, output, nil
	}

	return nil, AskOutput{}, errors.New("no reply received")
}

// waitForReply blocks until the in-flight turn reaches a terminal
// phase. A turn that ends idle was cancelled or superseded.
func (s *Server) waitForReply(ctx context.Context) error {
	updates := s.ports.Chat.Updates()

	for {
		switch s.ports.Chat.Phase() {
		case domain.TurnCompleted:
			return nil
		case domain.TurnIdle:
			return errors.New("turn was cancelled")
		case domain.TurnFailed:
			if notice := s.ports.Chat.Notice(); notice != nil {
				return fmt.Errorf("turn failed: %s", notice.Text)
			}
			return errors.New("turn failed")
		case domain.TurnAwaitingRetry:
			return errors.New("sign-in expired: run `zoe auth login` and ask again")
		case domain.TurnAwaitingResponse, domain.TurnStreaming:
		}

		select {
		case <-ctx.Done():
			s.ports.Chat.Cancel()
			return ctx.Err()
		case <-updates:
		}
	}
}

// handleTranscribe handles the transcribe tool invocation.
func (s *Server) handleTranscribe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TranscribeInput,
) (*mcp.CallToolResult, TranscribeOutput, error) {
	if s.ports.Transcription == nil {
		return nil, TranscribeOutput{}, errors.New("transcription is not available")
	}

	if strings.TrimSpace(input.Path) == "" {
		return nil, TranscribeOutput{}, errors.New("path must not be empty")
	}

	text, err := s.ports.Transcription.TranscribeFile(ctx, input.Path)
	if err != nil {
		return nil, TranscribeOutput{}, fmt.Errorf("transcribing recording: %w", err)
	}

	return nil, TranscribeOutput{Text: text}, nil
}
