package platform

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driven.AssistantStream = (*AssistantService)(nil)

// Default configuration values.
const (
	DefaultChatTimeout = 120 * time.Second

	chatEndpoint = "/ai-chatbot"

	// doneSentinel terminates a successful stream.
	doneSentinel = "[DONE]"

	// Proactive throttle: spaces outbound chat calls so scripted use
	// stays polite. The backend's own limit is reported via 429.
	chatRequestRate = rate.Limit(1)
	chatBurst       = 3
)

// AssistantConfig holds configuration for the platform assistant client.
type AssistantConfig struct {
	// FunctionsBase is the platform functions base URL (required).
	FunctionsBase string

	// Timeout bounds an entire chat stream (default: 120s).
	Timeout time.Duration
}

// AssistantService streams chat completions from the platform's
// ai-chatbot function. Responses arrive as newline-delimited
// `data: <payload>` records ending with a `[DONE]` sentinel; the
// service decodes them into typed events so callers never see the wire
// format.
type AssistantService struct {
	client  *http.Client
	baseURL string
	tokens  driven.TokenProvider
	limiter *rate.Limiter

	// holdUntil is the reactive hold-off recorded from a Retry-After
	// header. The token bucket spaces ordinary calls; this engages only
	// after the backend reported its own limit.
	mu        sync.Mutex
	holdUntil time.Time
}

// NewAssistantService creates a new platform assistant client.
func NewAssistantService(cfg AssistantConfig, tokens driven.TokenProvider) (*AssistantService, error) {
	if cfg.FunctionsBase == "" {
		return nil, fmt.Errorf("platform: functions base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultChatTimeout
	}

	return &AssistantService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.FunctionsBase, "/"),
		tokens:  tokens,
		limiter: rate.NewLimiter(chatRequestRate, chatBurst),
	}, nil
}

// chatRequest is the ai-chatbot request format.
type chatRequest struct {
	SessionID string        `json:"session_id"`
	Audience  string        `json:"audience,omitempty"`
	Locale    string        `json:"locale,omitempty"`
	Messages  []chatMessage `json:"messages"`
	Metadata  *chatMetadata `json:"metadata,omitempty"`
}

// chatMessage is the wire message format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatMetadata carries per-request extras.
type chatMetadata struct {
	Attachments []chatAttachment `json:"attachments,omitempty"`
}

// chatAttachment is uploaded-file metadata for the newest user message.
type chatAttachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// newChatRequest maps the port request onto the wire format.
func newChatRequest(req driven.ChatRequest) chatRequest {
	messages := make([]chatMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	out := chatRequest{
		SessionID: req.SessionID,
		Audience:  string(req.Audience),
		Locale:    req.Locale,
		Messages:  messages,
	}

	if len(req.Attachments) > 0 {
		attachments := make([]chatAttachment, len(req.Attachments))
		for i, att := range req.Attachments {
			attachments[i] = chatAttachment{
				Name: att.Name,
				Type: att.MIMEType,
				Size: att.Size,
				URL:  att.URL,
			}
		}
		out.Metadata = &chatMetadata{Attachments: attachments}
	}

	return out
}

// StreamChat sends the conversation and returns a channel of decoded
// events. The channel closes after the done sentinel, an error record,
// or when ctx is cancelled.
func (s *AssistantService) StreamChat(ctx context.Context, req driven.ChatRequest) (<-chan driven.StreamEvent, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if err := s.waitForHold(ctx); err != nil {
		return nil, err
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("chat token: %w", err)
	}

	body, err := json.Marshal(newChatRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+chatEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	logger.Debug("Chat request for session %s (%d messages)", req.SessionID, len(req.Messages))

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close() //nolint:errcheck // nothing useful to do
		s.recordHold(resp)
		return nil, classifyStatus(resp)
	}

	events := make(chan driven.StreamEvent)
	go s.consume(ctx, resp.Body, events)
	return events, nil
}

// consume scans the response body record by record until the done
// sentinel, an error record, exhaustion, or cancellation. Records that
// fail to decode are logged and skipped.
func (s *AssistantService) consume(ctx context.Context, body io.ReadCloser, events chan<- driven.StreamEvent) {
	defer close(events)
	defer body.Close() //nolint:errcheck // read side only

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == doneSentinel {
			send(ctx, events, driven.StreamEvent{Kind: driven.EventDone})
			return
		}

		event, ok := decodeRecord([]byte(data))
		if !ok {
			logger.Debug("Skipping undecodable stream record: %.80s", data)
			continue
		}
		if !send(ctx, events, event) {
			return
		}
		if event.Kind == driven.EventError {
			return
		}
	}

	// The sentinel never arrived. Closing without a done event lets the
	// caller treat the stream as truncated.
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		logger.Warn("Chat stream ended early: %v", err)
	}
}

// send delivers an event unless ctx is cancelled first.
func send(ctx context.Context, events chan<- driven.StreamEvent, event driven.StreamEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// waitForHold blocks until a reactive hold-off from an earlier 429 has
// elapsed, or ctx is cancelled.
func (s *AssistantService) waitForHold(ctx context.Context) error {
	s.mu.Lock()
	holdUntil := s.holdUntil
	s.mu.Unlock()

	wait := time.Until(holdUntil)
	if wait <= 0 {
		return nil
	}

	logger.Debug("Holding chat request %s for the backend's rate limit", wait.Round(time.Second))
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// recordHold notes the backend's Retry-After so the next StreamChat
// call waits it out before dialling again.
func (s *AssistantService) recordHold(resp *http.Response) {
	if resp.StatusCode != http.StatusTooManyRequests {
		return
	}
	seconds, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return
	}
	s.mu.Lock()
	s.holdUntil = time.Now().Add(time.Duration(seconds) * time.Second)
	s.mu.Unlock()
}

// classifyStatus maps a non-2xx response onto the domain sentinels.
// The status code is the only transport-level classifier.
func classifyStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
	detail := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: status 401", domain.ErrAuthExpired)
	case http.StatusTooManyRequests:
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
			return fmt.Errorf("%w: retry after %ds", domain.ErrRateLimited, seconds)
		}
		return fmt.Errorf("%w: status 429", domain.ErrRateLimited)
	default:
		if detail == "" {
			return fmt.Errorf("%w: status %d", domain.ErrAssistantUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("%w: status %d: %s", domain.ErrAssistantUnavailable, resp.StatusCode, detail)
	}
}
