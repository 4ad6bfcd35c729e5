// Package auth provides bearer-token management for the StudyBridge
// platform: password login, transparent refresh, and on-disk caching
// of the session credentials.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/studybridge/zoe-cli/internal/core/domain"
	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/core/ports/driving"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure SessionProvider implements both sides: token supply for the
// platform adapters and account management for the CLI.
var (
	_ driven.TokenProvider = (*SessionProvider)(nil)
	_ driving.AuthService  = (*SessionProvider)(nil)
)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRefreshBuffer refreshes tokens this long before expiry so
	// a stream never starts with a token about to die.
	DefaultRefreshBuffer = 5 * time.Minute

	tokenEndpoint = "/token"

	grantPassword     = "password"
	grantRefreshToken = "refresh_token"

	credentialsFileMode = 0o600
	credentialsDirMode  = 0o700
)

// errGrantRejected marks a 4xx response from the token endpoint: the
// credentials themselves were refused, not the transport.
var errGrantRejected = errors.New("grant rejected")

// Config holds configuration for the session provider.
type Config struct {
	// AuthBase is the platform auth base URL (required).
	AuthBase string

	// CredentialsPath is the on-disk credentials cache (required),
	// written with owner-only permissions.
	CredentialsPath string

	// Timeout bounds one token endpoint call (default: 30s).
	Timeout time.Duration
}

// credentials is the on-disk shape of the credentials cache.
type credentials struct {
	Email string       `json:"email"`
	Token oauth2.Token `json:"token"`
}

// SessionProvider exchanges account credentials for platform session
// tokens and keeps them fresh. Tokens are cached in memory and on
// disk; refresh happens transparently inside Token.
type SessionProvider struct {
	client        *http.Client
	baseURL       string
	path          string
	refreshBuffer time.Duration

	mu     sync.RWMutex
	creds  *credentials
	loaded bool
}

// NewSessionProvider creates a new session provider.
func NewSessionProvider(cfg Config) (*SessionProvider, error) {
	if cfg.AuthBase == "" {
		return nil, fmt.Errorf("auth: base URL is required")
	}
	if cfg.CredentialsPath == "" {
		return nil, fmt.Errorf("auth: credentials path is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &SessionProvider{
		client:        &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimRight(cfg.AuthBase, "/"),
		path:          cfg.CredentialsPath,
		refreshBuffer: DefaultRefreshBuffer,
	}, nil
}

// Token returns a valid access token, refreshing the cached one when
// it is expired or about to expire.
func (p *SessionProvider) Token(ctx context.Context) (string, error) {
	// Fast path: cached token still fresh.
	p.mu.RLock()
	if p.loaded && p.creds != nil && p.fresh(p.creds.Token) {
		token := p.creds.Token.AccessToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(); err != nil {
		return "", err
	}
	if p.creds == nil {
		return "", domain.ErrAuthRequired
	}
	// Double-check after acquiring the write lock.
	if p.fresh(p.creds.Token) {
		return p.creds.Token.AccessToken, nil
	}
	if p.creds.Token.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token cached", domain.ErrAuthExpired)
	}
	if err := p.refreshLocked(ctx); err != nil {
		return "", err
	}
	return p.creds.Token.AccessToken, nil
}

// Invalidate discards the cached access token so the next Token call
// forces a refresh. The refresh token is kept.
func (p *SessionProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.creds == nil {
		return
	}
	p.creds.Token.AccessToken = ""
	p.creds.Token.Expiry = time.Time{}
	logger.Debug("Session token invalidated")
}

// IsAuthenticated reports whether credentials are cached.
func (p *SessionProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.loadLocked(); err != nil {
		return false
	}
	return p.creds != nil &&
		(p.creds.Token.AccessToken != "" || p.creds.Token.RefreshToken != "")
}

// Login exchanges the account's email and password for session tokens
// and caches them for later runs.
func (p *SessionProvider) Login(ctx context.Context, email, password string) error {
	token, err := p.grant(ctx, grantPassword, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = &credentials{Email: email, Token: *token}
	p.loaded = true

	logger.Info("Signed in as %s", email)
	return p.persistLocked()
}

// Logout discards the cached session tokens.
func (p *SessionProvider) Logout() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.creds = nil
	p.loaded = true

	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// Identity returns the signed-in account's email, or "" when logged
// out.
func (p *SessionProvider) Identity() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.loadLocked(); err != nil || p.creds == nil {
		return ""
	}
	return p.creds.Email
}

// fresh reports whether the access token is usable for at least the
// refresh buffer.
func (p *SessionProvider) fresh(token oauth2.Token) bool {
	if token.AccessToken == "" {
		return false
	}
	if token.Expiry.IsZero() {
		return true
	}
	return time.Until(token.Expiry) > p.refreshBuffer
}

// refreshLocked exchanges the refresh token for a new session token
// and persists it. A rejected grant means the session is dead and the
// user must sign in again; transport failures are reported separately
// so callers can fall back instead of demanding a login.
func (p *SessionProvider) refreshLocked(ctx context.Context) error {
	logger.Debug("Refreshing session token")

	token, err := p.grant(ctx, grantRefreshToken, map[string]string{
		"refresh_token": p.creds.Token.RefreshToken,
	})
	if err != nil {
		if errors.Is(err, errGrantRejected) {
			return fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrTokenRefreshFailed, err)
	}

	// Some backends rotate refresh tokens, some do not.
	if token.RefreshToken == "" {
		token.RefreshToken = p.creds.Token.RefreshToken
	}
	p.creds.Token = *token

	if err := p.persistLocked(); err != nil {
		logger.Warn("Could not persist refreshed credentials: %v", err)
	}
	return nil
}

// authResponse is the token endpoint response format.
type authResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// grant calls the token endpoint with the given grant type and JSON
// payload.
func (p *SessionProvider) grant(ctx context.Context, grantType string, payload map[string]string) (*oauth2.Token, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal grant request: %w", err)
	}

	url := fmt.Sprintf("%s%s?grant_type=%s", p.baseURL, tokenEndpoint, grantType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create grant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send grant request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read side only

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: status %d: %s", errGrantRejected, resp.StatusCode, strings.TrimSpace(string(detail)))
		}
		return nil, fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded authResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode grant response: %w", err)
	}
	if decoded.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	token := &oauth2.Token{
		AccessToken:  decoded.AccessToken,
		TokenType:    decoded.TokenType,
		RefreshToken: decoded.RefreshToken,
	}
	if decoded.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second)
	}
	return token, nil
}

// loadLocked reads the credentials file once. A missing file means
// logged out, not an error.
func (p *SessionProvider) loadLocked() error {
	if p.loaded {
		return nil
	}

	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		p.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	var creds credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}

	p.creds = &creds
	p.loaded = true
	return nil
}

// persistLocked writes the credentials file with owner-only
// permissions.
func (p *SessionProvider) persistLocked() error {
	data, err := json.MarshalIndent(p.creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), credentialsDirMode); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, credentialsFileMode); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
