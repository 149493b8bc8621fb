// Package catalog resolves item attributes from the IGDB games catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bonuspoints/thelist/internal/contract"
)

// gameFields is the apicalypse field list requested for every game.
const gameFields = "name,url,cover.url,first_release_date,genres.name,game_engines.name," +
	"involved_companies.company.name,platforms.name,rating,aggregated_rating,total_rating"

// DefaultRateLimitWait is how long the client sleeps after a 429 before its single retry.
const DefaultRateLimitWait = 60 * time.Second

// Client talks to the IGDB API with a Twitch client-credentials token.
type Client struct {
	clientID      string
	clientSecret  string
	baseURL       string
	authURL       string
	rateLimitWait time.Duration
	httpClient    *http.Client

	mu      sync.Mutex
	token   string
	expires time.Time
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

// WithBaseURL sets the catalog API root, e.g. https://api.igdb.com/v4.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimSpace(u); u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAuthURL sets the OAuth token endpoint.
func WithAuthURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimSpace(u); u != "" {
			c.authURL = u
		}
	}
}

// WithRateLimitWait sets the pause before retrying a rate-limited request.
func WithRateLimitWait(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.rateLimitWait = d
		}
	}
}

// NewClient creates an IGDB client.
func NewClient(clientID, clientSecret string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	clientSecret = strings.TrimSpace(clientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("catalog client id and secret required")
	}
	c := &Client{
		clientID:      clientID,
		clientSecret:  clientSecret,
		baseURL:       contract.DefaultCatalogURL,
		authURL:       contract.DefaultAuthURL,
		rateLimitWait: DefaultRateLimitWait,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns a valid bearer token, logging in when there is none or it expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && (c.expires.IsZero() || time.Now().Before(c.expires)) {
		return c.token, nil
	}

	endpoint, err := url.Parse(c.authURL)
	if err != nil {
		return "", fmt.Errorf("parse auth url: %w", err)
	}
	params := endpoint.Query()
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("grant_type", "client_credentials")
	endpoint.RawQuery = params.Encode()

	resp, err := c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	})
	if err != nil {
		return "", fmt.Errorf("catalog login: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("catalog login returned no access token")
	}
	c.token = payload.AccessToken
	c.expires = time.Time{}
	if payload.ExpiresIn > 0 {
		// Refresh a minute early.
		c.expires = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	}
	return c.token, nil
}

// invalidate drops the cached token so the next call logs in again.
func (c *Client) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.token = ""
	}
}

// Games fetches the games with the given IGDB ids. Ids unknown to the catalog are simply absent.
func (c *Client) Games(ctx context.Context, ids []int64) ([]Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	body := fmt.Sprintf("fields %s; where id=(%s); limit %d;", gameFields, strings.Join(parts, ","), len(ids))

	games, err := c.queryGames(ctx, body)
	var status *StatusError
	if errors.As(err, &status) && status.Code == http.StatusUnauthorized {
		// The token was revoked before its expiry; log in again once.
		games, err = c.queryGames(ctx, body)
	}
	return games, err
}

func (c *Client) queryGames(ctx context.Context, body string) ([]Game, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/games", bytes.NewBufferString(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Client-ID", c.clientID)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "text/plain")
		return req, nil
	})
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) && status.Code == http.StatusUnauthorized {
			c.invalidate(token)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode games response: %w", err)
	}
	return games, nil
}

// StatusError reports a non-success HTTP status from the catalog.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog request %s returned %d", e.URL, e.Code)
}

// do executes the request built by build. A 429 response is retried once after the rate-limit wait.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		requestStart := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request (latency=%v): %w", time.Since(requestStart), err)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusTooManyRequests || attempt > 0 {
			return nil, &StatusError{Code: resp.StatusCode, URL: req.URL.Host + req.URL.Path}
		}
		contract.LogWarn("Reached catalog rate limit, retrying", fmt.Errorf("waiting %s", c.rateLimitWait))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.rateLimitWait):
		}
	}
}
