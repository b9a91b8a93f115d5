package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"soturidash/internal/logging"
)

// ErrUnexpectedStatus is returned for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")

const requestTimeout = 10 * time.Second

// Client performs authenticated requests against the backend
type Client struct {
	endpoints Endpoints
	creds     CredentialStore
	http      *http.Client
}

// NewClient creates a new backend client. A missing token is not an error:
// requests are then sent without an Authorization header.
func NewClient(endpoints Endpoints, creds CredentialStore) *Client {
	if creds == nil {
		creds = StaticCredentials("")
	}
	return &Client{
		endpoints: endpoints,
		creds:     creds,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// Endpoints returns the endpoints the client talks to
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// GetJSON fetches path and decodes the JSON body into v
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// GetString fetches path and returns the body as text
func (c *Client) GetString(ctx context.Context, path string) (string, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.HTTPPath(path), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if err := authorize(req.Header, c.creds); err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("get %s: %w %d", path, ErrUnexpectedStatus, resp.StatusCode)
	}
	logging.Component("transport").WithField("path", path).Debug("GET ok")
	return resp.Body, nil
}

// authorize sets the bearer token, if one is stored
func authorize(h http.Header, creds CredentialStore) error {
	token, err := creds.Token()
	if errors.Is(err, ErrNoToken) {
		return nil
	}
	if err != nil {
		return err
	}
	h.Set("Authorization", "Bearer "+token)
	return nil
}
