package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNoCredentials is returned when the client id or secret is missing.
var ErrNoCredentials = errors.New("igdb credentials not configured")

// tokenLeeway is subtracted from the reported expiry so a token is refreshed
// before the API starts rejecting it.
const tokenLeeway = 30 * time.Second

// TokenSource obtains and caches Twitch OAuth app access tokens for the IGDB
// API. Safe for concurrent use.
type TokenSource struct {
	clientID     string
	clientSecret string
	authURL      string
	httpClient   *http.Client

	mu     sync.RWMutex
	token  string
	expiry time.Time
}

// NewTokenSource creates a token source for the Twitch client-credentials
// grant.
func NewTokenSource(clientID, clientSecret, authURL string, httpClient *http.Client) *TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TokenSource{
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		authURL:      strings.TrimSpace(authURL),
		httpClient:   httpClient,
	}
}

// Token returns a valid access token, refreshing when the cached one is
// missing or near expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	if ts.clientID == "" || ts.clientSecret == "" {
		return "", ErrNoCredentials
	}

	ts.mu.RLock()
	token, expiry := ts.token, ts.expiry
	ts.mu.RUnlock()
	if token != "" && time.Now().Before(expiry.Add(-tokenLeeway)) {
		return token, nil
	}
	return ts.refresh(ctx)
}

// Invalidate drops the cached token if it matches the one a caller saw
// rejected. A token refreshed by another goroutine in the meantime survives.
func (ts *TokenSource) Invalidate(token string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.token == token {
		ts.token = ""
		ts.expiry = time.Time{}
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (ts *TokenSource) refresh(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	// Another goroutine may have refreshed while we waited on the lock.
	if ts.token != "" && time.Now().Before(ts.expiry.Add(-tokenLeeway)) {
		return ts.token, nil
	}

	form := url.Values{}
	form.Set("client_id", ts.clientID)
	form.Set("client_secret", ts.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	requestStart := time.Now()
	resp, err := ts.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("request access token (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned %d (latency=%v)", resp.StatusCode, latency)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return "", errors.New("token response missing access token")
	}

	ts.token = payload.AccessToken
	ts.expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	return ts.token, nil
}
