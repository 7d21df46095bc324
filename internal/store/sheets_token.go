package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// expirySkew refreshes tokens slightly before they actually expire so
// in-flight requests never carry a token that dies mid-call.
const expirySkew = 30 * time.Second

// TokenSource owns the OAuth access/refresh token pair for the spreadsheet
// backend. Token returns a valid access token, refreshing transparently when
// the current one is expired; when the refresh grant itself is rejected it
// fails with ErrReauthRequired so callers can prompt for a new sign-in
// instead of retrying forever.
type TokenSource struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiry       time.Time

	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// TokenConfig carries the OAuth client settings for a TokenSource.
type TokenConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	// AccessToken and Expiry seed the holder when a session already exists
	AccessToken string
	Expiry      time.Time
}

// NewTokenSource creates a token holder from an existing session.
func NewTokenSource(cfg TokenConfig) *TokenSource {
	return &TokenSource{
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
		expiry:       cfg.Expiry,
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Token returns a valid access token, refreshing first when needed.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.accessToken != "" && time.Until(t.expiry) > expirySkew {
		return t.accessToken, nil
	}
	if t.refreshToken == "" {
		return "", ErrReauthRequired
	}
	if err := t.refresh(ctx); err != nil {
		return "", err
	}
	return t.accessToken, nil
}

// Connected reports whether the holder currently has any credentials at all.
func (t *TokenSource) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accessToken != "" || t.refreshToken != ""
}

// Clear drops all credentials, e.g. on sign-out.
func (t *TokenSource) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accessToken = ""
	t.refreshToken = ""
	t.expiry = time.Time{}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
}

// refresh exchanges the refresh token for a new access token. Caller holds
// the mutex.
func (t *TokenSource) refresh(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", t.refreshToken)
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	// An invalid refresh grant means the stored session is dead; surface
	// that distinctly so the caller re-authenticates instead of retrying.
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized || body.Error == "invalid_grant" {
		t.accessToken = ""
		return ErrReauthRequired
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh failed with status %d", resp.StatusCode)
	}

	t.accessToken = body.AccessToken
	if body.RefreshToken != "" {
		t.refreshToken = body.RefreshToken
	}
	t.expiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return nil
}
