// ABOUTME: HTTP client for the remote gym and sync API.
// ABOUTME: Authenticates with a bearer token and reports non-2xx replies as StatusError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Remote is the server contract consumed by the sync layer.
type Remote interface {
	ListGyms(ctx context.Context) ([]Gym, error)
	CreateGym(ctx context.Context, req CreateGymRequest) (Gym, error)
	UpdateGym(ctx context.Context, id, name string) (Gym, error)
	DeleteGym(ctx context.Context, id string) error
	GetProfileMappings(ctx context.Context, gymID string) ([]ProfileMapping, error)
	SetProfileMapping(ctx context.Context, gymID, exerciseID, profileID string) (ProfileMapping, error)
	GetBootstrap(ctx context.Context) (Bootstrap, error)
	GetSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, currentGymID *string) (Settings, error)
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client calls the remote API over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

var _ Remote = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client. Its transport is wrapped for auth.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for baseURL that sends token as a bearer credential.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *c.http
	wrapped.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
	c.http = &wrapped

	return c, nil
}

// ListGyms returns every gym of the user.
func (c *Client) ListGyms(ctx context.Context) ([]Gym, error) {
	var gyms []Gym
	if err := c.do(ctx, http.MethodGet, "/v1/gyms", nil, &gyms); err != nil {
		return nil, err
	}
	return gyms, nil
}

// CreateGym creates a gym; the server assigns its ID.
func (c *Client) CreateGym(ctx context.Context, req CreateGymRequest) (Gym, error) {
	var gym Gym
	err := c.do(ctx, http.MethodPost, "/v1/gyms", req, &gym)
	return gym, err
}

// UpdateGym renames a gym.
func (c *Client) UpdateGym(ctx context.Context, id, name string) (Gym, error) {
	var gym Gym
	err := c.do(ctx, http.MethodPut, "/v1/gyms/"+url.PathEscape(id), UpdateGymRequest{Name: name}, &gym)
	return gym, err
}

// DeleteGym deletes a gym.
func (c *Client) DeleteGym(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/gyms/"+url.PathEscape(id), nil, nil)
}

// GetProfileMappings lists the profile mappings of a gym.
func (c *Client) GetProfileMappings(ctx context.Context, gymID string) ([]ProfileMapping, error) {
	var mappings []ProfileMapping
	path := "/v1/gyms/" + url.PathEscape(gymID) + "/profile-mappings"
	if err := c.do(ctx, http.MethodGet, path, nil, &mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// SetProfileMapping records the profile used for an exercise at a gym.
func (c *Client) SetProfileMapping(ctx context.Context, gymID, exerciseID, profileID string) (ProfileMapping, error) {
	var mapping ProfileMapping
	path := "/v1/gyms/" + url.PathEscape(gymID) + "/profile-mappings"
	err := c.do(ctx, http.MethodPut, path, ProfileMapping{ExerciseID: exerciseID, ProfileID: profileID}, &mapping)
	return mapping, err
}

// GetBootstrap fetches the full snapshot for seeding the local store.
func (c *Client) GetBootstrap(ctx context.Context) (Bootstrap, error) {
	var snap Bootstrap
	err := c.do(ctx, http.MethodGet, "/v1/sync/bootstrap", nil, &snap)
	return snap, err
}

// GetSettings fetches the user's settings.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var s Settings
	err := c.do(ctx, http.MethodGet, "/v1/settings", nil, &s)
	return s, err
}

// UpdateSettings sets the current gym. Nil clears it.
func (c *Client) UpdateSettings(ctx context.Context, currentGymID *string) (Settings, error) {
	var s Settings
	err := c.do(ctx, http.MethodPut, "/v1/settings", Settings{CurrentGymID: currentGymID}, &s)
	return s, err
}

// do sends a JSON request and decodes a JSON reply into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
