package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure TranscriberService implements the interface.
var _ driven.Transcriber = (*TranscriberService)(nil)

// Default configuration values.
const (
	DefaultTranscribeTimeout = 60 * time.Second

	transcribeEndpoint = "/audio-transcribe"

	// audioFormField is the multipart field the function reads.
	audioFormField = "audio"
)

// TranscriberConfig holds configuration for the transcriber client.
type TranscriberConfig struct {
	// FunctionsBase is the platform functions base URL (required).
	FunctionsBase string

	// Timeout bounds one transcription call (default: 60s).
	Timeout time.Duration
}

// TranscriberService converts audio recordings to text via the
// platform's audio-transcribe function.
type TranscriberService struct {
	client  *http.Client
	baseURL string
	tokens  driven.TokenProvider
}

// NewTranscriberService creates a new platform transcriber client.
func NewTranscriberService(cfg TranscriberConfig, tokens driven.TokenProvider) (*TranscriberService, error) {
	if cfg.FunctionsBase == "" {
		return nil, fmt.Errorf("platform: functions base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTranscribeTimeout
	}

	return &TranscriberService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.FunctionsBase, "/"),
		tokens:  tokens,
	}, nil
}

// transcribeResponse is the audio-transcribe response format.
type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the recording as a multipart form and returns the
// recognised text.
func (s *TranscriberService) Transcribe(ctx context.Context, audio io.Reader, name, mimeType string) (string, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("transcribe token: %w", err)
	}

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, audioFormField, name))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+transcribeEndpoint, &form)
	if err != nil {
		return "", fmt.Errorf("create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	logger.Debug("Transcribe request for %s (%s)", name, mimeType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send transcribe request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side only

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", classifyStatus(resp)
	}

	var decoded transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode transcribe response: %w", err)
	}

	return decoded.Text, nil
}
