package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

const (
	defaultBaseURL = "https://api.spotify.com"
	_maxBodySize   = 1 * 1024 * 1024 // 1 MB
)

// TokenSource hands out bearer tokens for API calls
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// APIError is a non-2xx answer from the Web API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify api: status %d", e.Status)
	}
	return fmt.Sprintf("spotify api: status %d: %s", e.Status, e.Message)
}

var _ domain.PlaybackController = (*Client)(nil)

// Client is a minimal Spotify Web API client. It also serves as the
// playback controller behind the buttons.
type Client struct {
	logger  *zap.Logger
	tokens  TokenSource
	http    *http.Client
	baseURL string
}

// NewClient creates a Web API client authenticated through tokens
func NewClient(logger *zap.Logger, tokens *TokenStore) *Client {
	return newClient(logger, tokens, defaultBaseURL)
}

func newClient(logger *zap.Logger, tokens TokenSource, baseURL string) *Client {
	return &Client{
		logger: logger,
		tokens: tokens,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CurrentlyPlaying returns the playback state, or nil when nothing is playing (204)
func (c *Client) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	var out CurrentlyPlaying
	found, err := c.do(ctx, http.MethodGet, "/v1/me/player/currently-playing?additional_types=episode", nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return &out, nil
}

// Player calls GET /v1/me/player and reports whether a device is active
func (c *Client) Player(ctx context.Context) (bool, error) {
	var out struct {
		IsPlaying bool `json:"is_playing"`
	}
	return c.do(ctx, http.MethodGet, "/v1/me/player", nil, &out)
}

// Next skips to the next track
func (c *Client) Next(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/v1/me/player/next", nil, nil)
	return err
}

// Previous goes back to the previous track
func (c *Client) Previous(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/v1/me/player/previous", nil, nil)
	return err
}

// Play resumes playback, or starts contextURI when not empty
func (c *Client) Play(ctx context.Context, contextURI string) error {
	var body any
	if contextURI != "" {
		body = playRequest{ContextURI: contextURI}
	}
	_, err := c.do(ctx, http.MethodPut, "/v1/me/player/play", body, nil)
	return err
}

// Pause pauses playback
func (c *Client) Pause(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPut, "/v1/me/player/pause", nil, nil)
	return err
}

// Playlists fetches a page of the current user's playlists.
// pageURL is the absolute "next" link of a previous page, or empty for the first page.
func (c *Client) Playlists(ctx context.Context, pageURL string) (domain.PlaylistPage, error) {
	path := "/v1/me/playlists?limit=50"
	if pageURL != "" {
		path = pageURL
	}
	var out playlistPage
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return domain.PlaylistPage{}, err
	}

	page := domain.PlaylistPage{Next: out.Next}
	for _, p := range out.Items {
		if p.URI == "" {
			continue
		}
		page.Items = append(page.Items, domain.Playlist{Name: p.Name, URI: p.URI})
	}
	return page, nil
}

// do performs an authenticated request. It reports false when the API answered
// 204 No Content; out is left untouched in that case.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (bool, error) {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return false, err
	}

	url := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		url = c.baseURL + path
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxBodySize))
	if err != nil {
		return false, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Message = eb.Error.Message
		}
		return false, apiErr
	}

	c.logger.Debug("Spotify API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}
	return true, nil
}
