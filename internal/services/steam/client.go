package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// Steam appdetails returns at most a handful of movies but dozens of
	// screenshots; anything past these caps is noise in the catalog.
	maxScreenshots   = 10
	maxMicrotrailers = 2

	userAgent = "ludex/0.1"
)

// SearchItem is a single storefront search match.
type SearchItem struct {
	AppID     string
	Name      string
	TinyImage string
}

// Details is the subset of a storefront appdetails payload the catalog keeps.
type Details struct {
	AppID            string
	Name             string
	ShortDescription string
	Developers       []string
	Publishers       []string
	Genres           []string
	ReleaseDate      string
	HeaderImage      string
	Screenshots      []string
	Microtrailers    []string
}

// Client provides access to the Steam storefront APIs.
type Client struct {
	baseURL    string
	retries    int
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

// WithRetries sets how many times transient failures are retried.
func WithRetries(retries int) Option {
	return func(c *Client) {
		if retries >= 0 {
			c.retries = retries
		}
	}
}

// New creates a storefront client.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("steam base url required")
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		retries:    2,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type storeSearchResponse struct {
	Items []struct {
		ID        json.Number `json:"id"`
		Name      string      `json:"name"`
		TinyImage string      `json:"tiny_image"`
	} `json:"items"`
}

// Search queries the storesearch JSON API.
func (c *Client) Search(ctx context.Context, title string) ([]SearchItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/api/storesearch/")
	if err != nil {
		return nil, fmt.Errorf("parse storesearch url: %w", err)
	}
	params := url.Values{}
	params.Set("term", title)
	params.Set("l", "english")
	params.Set("cc", "US")
	endpoint.RawQuery = params.Encode()

	body, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}

	var payload storeSearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode storesearch response: %w", err)
	}

	items := make([]SearchItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		id := item.ID.String()
		if id == "" || item.Name == "" {
			continue
		}
		items = append(items, SearchItem{AppID: id, Name: item.Name, TinyImage: item.TinyImage})
	}
	return items, nil
}

type appDetailsEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Name             string   `json:"name"`
		ShortDescription string   `json:"short_description"`
		Developers       []string `json:"developers"`
		Publishers       []string `json:"publishers"`
		Genres           []struct {
			Description string `json:"description"`
		} `json:"genres"`
		ReleaseDate struct {
			Date string `json:"date"`
		} `json:"release_date"`
		HeaderImage string `json:"header_image"`
		Screenshots []struct {
			PathFull string `json:"path_full"`
		} `json:"screenshots"`
		Movies []struct {
			Name string `json:"name"`
			Webm struct {
				Low string `json:"480"`
				Max string `json:"max"`
			} `json:"webm"`
		} `json:"movies"`
	} `json:"data"`
}

// AppDetails fetches the appdetails payload for a storefront app id.
// Screenshots are capped, and movie URLs are rewritten to their microtrailer
// variants with at most two kept.
func (c *Client) AppDetails(ctx context.Context, appID string) (*Details, error) {
	appID = strings.TrimSpace(appID)
	if _, err := strconv.ParseInt(appID, 10, 64); err != nil {
		return nil, fmt.Errorf("invalid app id %q", appID)
	}
	endpoint, err := url.Parse(c.baseURL + "/api/appdetails")
	if err != nil {
		return nil, fmt.Errorf("parse appdetails url: %w", err)
	}
	params := url.Values{}
	params.Set("appids", appID)
	params.Set("l", "english")
	endpoint.RawQuery = params.Encode()

	body, err := c.get(ctx, endpoint.String())
	if err != nil {
		return nil, err
	}

	var payload map[string]appDetailsEnvelope
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode appdetails response: %w", err)
	}
	envelope, ok := payload[appID]
	if !ok || !envelope.Success {
		return nil, fmt.Errorf("appdetails for %s unavailable", appID)
	}

	data := envelope.Data
	details := &Details{
		AppID:            appID,
		Name:             data.Name,
		ShortDescription: data.ShortDescription,
		Developers:       data.Developers,
		Publishers:       data.Publishers,
		ReleaseDate:      data.ReleaseDate.Date,
		HeaderImage:      data.HeaderImage,
	}
	for _, genre := range data.Genres {
		if genre.Description != "" {
			details.Genres = append(details.Genres, genre.Description)
		}
	}
	for _, shot := range data.Screenshots {
		if shot.PathFull == "" {
			continue
		}
		details.Screenshots = append(details.Screenshots, shot.PathFull)
		if len(details.Screenshots) >= maxScreenshots {
			break
		}
	}
	for _, movie := range data.Movies {
		source := movie.Webm.Max
		if source == "" {
			source = movie.Webm.Low
		}
		micro := MicrotrailerURL(source)
		if micro == "" {
			continue
		}
		details.Microtrailers = append(details.Microtrailers, micro)
		if len(details.Microtrailers) >= maxMicrotrailers {
			break
		}
	}
	return details, nil
}

// get performs a GET with retry on transient failures. Rate-limit responses
// back off longer than ordinary errors.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * 500 * time.Millisecond
			if errors.Is(lastErr, errRateLimited) {
				delay = time.Duration(attempt) * 2 * time.Second
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.getOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

var errRateLimited = errors.New("storefront rate limited")

func (c *Client) getOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("storefront returned 429 (latency=%v): %w", latency, errRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront returned %d (latency=%v)", resp.StatusCode, latency)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// StorePageURL returns the public store page for an app id.
func StorePageURL(appID string) string {
	return "https://store.steampowered.com/app/" + appID + "/"
}

// SteamDBURL returns the SteamDB page for an app id.
func SteamDBURL(appID string) string {
	return "https://steamdb.info/app/" + appID + "/"
}

// SearchPageURL returns the public storefront search page for a title.
func SearchPageURL(title string) string {
	return "https://store.steampowered.com/search/?term=" + url.QueryEscape(title)
}
