package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// gameFields is the Apicalypse field list requested for every game query.
const gameFields = "fields name, summary, first_release_date, rating, total_rating, " +
	"aggregated_rating, url, cover.image_id, genres.name, themes.name, " +
	"player_perspectives.name, involved_companies.developer, " +
	"involved_companies.publisher, involved_companies.company.name, " +
	"websites.category, websites.url, videos.name, videos.video_id, " +
	"screenshots.image_id;"

// Client queries the IGDB v4 API using Apicalypse request bodies.
type Client struct {
	baseURL    string
	clientID   string
	tokens     *TokenSource
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an IGDB client. The token source supplies bearer tokens and is
// asked to refresh when the API rejects one.
func New(baseURL, clientID string, tokens *TokenSource, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("igdb base url required")
	}
	if tokens == nil {
		return nil, errors.New("igdb token source required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		clientID:   strings.TrimSpace(clientID),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchGames runs a fuzzy title search.
func (c *Client) SearchGames(ctx context.Context, title string, limit int) ([]Game, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}
	body := fmt.Sprintf("search %q; %s limit %d;", title, gameFields, limit)
	return c.queryGames(ctx, body)
}

// GameByID fetches a single game by its numeric id.
func (c *Client) GameByID(ctx context.Context, id string) (*Game, error) {
	numeric, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid game id %q", id)
	}
	body := fmt.Sprintf("%s where id = %d;", gameFields, numeric)
	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("game %d not found", numeric)
	}
	return &games[0], nil
}

func (c *Client) queryGames(ctx context.Context, body string) ([]Game, error) {
	data, err := c.post(ctx, "/games", body)
	if err != nil {
		return nil, err
	}
	var games []Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("decode games response: %w", err)
	}
	return games, nil
}

// post sends an Apicalypse body. A 401 invalidates the cached token and the
// request is retried once with a fresh one.
func (c *Client) post(ctx context.Context, endpoint, body string) ([]byte, error) {
	data, unauthorized, err := c.postOnce(ctx, endpoint, body)
	if !unauthorized {
		return data, err
	}
	data, unauthorized, err = c.postOnce(ctx, endpoint, body)
	if unauthorized {
		return nil, errors.New("igdb rejected a freshly issued token")
	}
	return data, err
}

func (c *Client) postOnce(ctx context.Context, endpoint, body string) ([]byte, bool, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, false, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate(token)
		return nil, true, fmt.Errorf("igdb returned 401 (latency=%v)", latency)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("igdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, false, fmt.Errorf("read response: %w", err)
	}
	return data, false, nil
}
