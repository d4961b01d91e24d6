// Package apiclient talks to the GreenPlate REST API on behalf of the browser.
//
// Every call takes the incoming request's context, so a browser that aborts
// its request also aborts the upstream call. Failures are never retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
)

// maxBodySize bounds what is read from any API response.
const maxBodySize = 4 << 20

type Client struct {
	base *url.URL
	http *http.Client
}

// New builds the client from API_URL and API_TIMEOUT.
func New(cfg *config.Config) (*Client, error) {
	return NewClient(cfg.APIURL, &http.Client{Timeout: cfg.APITimeout})
}

func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API base URL %q is not absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: u, http: httpClient}, nil
}

// BaseURL returns the configured API base, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get decodes the JSON response of GET path into out.
// sess is optional; when set its token is sent as a bearer token.
func (c *Client) Get(ctx context.Context, path string, sess *session.Session, out any) error {
	return c.do(ctx, http.MethodGet, path, sess, nil, out, "")
}

func (c *Client) Post(ctx context.Context, path string, sess *session.Session, body, out any) error {
	return c.do(ctx, http.MethodPost, path, sess, body, out, "")
}

func (c *Client) Delete(ctx context.Context, path string, sess *session.Session) error {
	return c.do(ctx, http.MethodDelete, path, sess, nil, nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, sess *session.Session, body, out any, fallback string) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal body: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw, fallback)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// Health checks the API's /health endpoint, which lives at the API root rather than under the base path.
func (c *Client) Health(ctx context.Context) error {
	u := c.base.ResolveReference(&url.URL{Path: "/health"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("health: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: "GET /health", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: "API is not healthy"}
	}
	return nil
}
