// Package client talks to the transcription backend. It implements the fetch,
// subscribe and command interfaces the feed engine runs on, plus the tag catalog
// used by the presentation layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"scribefeed/app/feed"
)

const maxResponseSize = 8 * 1024 * 1024 // jobs list for a busy workspace fits with a wide margin

// Config defines the backend location and access.
type Config struct {
	BaseURL string        // e.g. https://api.example.com
	APIKey  string        // optional bearer token
	Timeout time.Duration // per-request timeout, default 10s
}

// Client is a thin typed wrapper over the backend HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
	dialer  *websocket.Dialer

	tagsMu      sync.RWMutex
	tagsCache   []Tag
	tagsFetched time.Time
}

// New makes a client for the backend at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("base url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
	}, nil
}

// FetchJobs pulls the full job snapshot.
func (c *Client) FetchJobs(ctx context.Context) ([]feed.Job, error) {
	var data struct {
		Jobs []feed.Job `json:"jobs"`
	}
	if err := c.getJSON(ctx, "/api/v1/jobs", &data); err != nil {
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}
	return data.Jobs, nil
}

// Invoke executes a single bulk command against one job.
func (c *Client) Invoke(ctx context.Context, id string, cmd feed.Command) error {
	jobPath := "/api/v1/jobs/" + url.PathEscape(id)
	switch cmd.Kind {
	case feed.CommandDelete:
		return c.call(ctx, http.MethodDelete, jobPath, nil)
	case feed.CommandPause:
		return c.call(ctx, http.MethodPost, jobPath+"/pause", nil)
	case feed.CommandResume:
		return c.call(ctx, http.MethodPost, jobPath+"/resume", nil)
	case feed.CommandTag:
		return c.call(ctx, http.MethodPost, jobPath+"/tags", map[string]string{"tag": cmd.Tag})
	case feed.CommandRename:
		return c.call(ctx, http.MethodPost, jobPath+"/rename", map[string]string{"name": cmd.Name})
	default:
		return fmt.Errorf("unsupported command %q", cmd.Kind)
	}
}

// getJSON makes a GET request and decodes the response into res.
func (c *Client) getJSON(ctx context.Context, path string, res any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with close error

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respSnippet(resp.Body))
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(res); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// call makes a request with an optional JSON payload and expects a 2xx status.
func (c *Client) call(ctx context.Context, method, path string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with close error

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respSnippet(resp.Body))
	}
	return nil
}

func (c *Client) auth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// respSnippet extracts a short error description from the response body. The backend
// reports errors as {"error": "..."}, anything else is returned as trimmed text.
func respSnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(data) == 0 {
		return "no details"
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
