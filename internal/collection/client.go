package collection

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/muurk/todolist/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response body is read
	maxBodySize = 4 << 20
)

// Client talks to a remote REST collection of {id, title} records.
//
// Every operation is a single round trip: there is no retry and no cache.
type Client struct {
	// BaseURL is the collection URL (e.g., "https://example.mockapi.io/api/v1/todos")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request when non-empty
	UserAgent string
}

// NewClient creates a new collection client for the given collection URL
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// RecordURL returns the URL of a single record
func (c *Client) RecordURL(id string) string {
	return JoinURL(c.BaseURL, id)
}

// List fetches every record in the collection, in server order
func (c *Client) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := c.do(ctx, http.MethodGet, c.BaseURL, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Create posts a new record; the server assigns its id
func (c *Client) Create(ctx context.Context, title string) (*Record, error) {
	var created Record
	if err := c.do(ctx, http.MethodPost, c.BaseURL, titleBody{Title: title}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the title of the record with the given id
func (c *Client) Update(ctx context.Context, id string, title string) (*Record, error) {
	if id == "" {
		return nil, NewValidationError("record id is required")
	}
	var updated Record
	if err := c.do(ctx, http.MethodPut, c.RecordURL(id), titleBody{Title: title}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record with the given id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return NewValidationError("record id is required")
	}
	return c.do(ctx, http.MethodDelete, c.RecordURL(id), nil, nil)
}

// do performs one request. A nil out skips body parsing.
func (c *Client) do(ctx context.Context, method string, target string, in interface{}, out interface{}) error {
	host := hostOf(target)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return NewParseError("failed to encode request body", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return NewValidationError("invalid request: " + err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogHTTPRequest(method, target)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(method+" request failed", err, host)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogHTTPResponse(method, target, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return NewHTTPError(resp.StatusCode, host)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return NewNetworkError("failed to read response body", err, host)
	}
	logging.LogBody("Response body", data)

	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}

	return nil
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
