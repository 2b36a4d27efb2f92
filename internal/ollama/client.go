package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the loopback address the server listens on by default.
const DefaultBaseURL = "http://127.0.0.1:11434"

const (
	tagsPath     = "/api/tags"
	generatePath = "/api/generate"
	pullPath     = "/api/pull"
	deletePath   = "/api/delete"

	// DefaultHealthTimeout bounds a single reachability probe.
	DefaultHealthTimeout = 2 * time.Second

	maxErrorBody = 4 << 10
)

// Client talks to the model server REST API. It is safe for concurrent use.
type Client struct {
	baseURL       string
	http          *http.Client
	healthTimeout time.Duration
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Generation requests can
// run for minutes, so the client should not carry a global timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithHealthTimeout overrides the reachability probe timeout.
func WithHealthTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.healthTimeout = d
		}
	}
}

// NewClient returns a client for the server at baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       baseURL,
		http:          &http.Client{},
		healthTimeout: DefaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping reports whether the tag listing endpoint answers with a success status
// within the health timeout. Transport failures are reported as false.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tagsPath, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return isSuccess(resp.StatusCode)
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/x-ndjson")
	return req, nil
}

// send performs the request and returns the response only when the status is
// a success. The caller owns the returned body.
func (c *Client) send(op string, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &HTTPError{Op: op, URL: req.URL.String(), Err: err}
	}
	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			Op:         op,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       errorMessage(data),
		}
	}
	return resp, nil
}

// errorMessage extracts {"error": "..."} from a server reply and falls back to
// the raw text.
func errorMessage(data []byte) string {
	if msg := gjson.GetBytes(data, "error"); msg.Type == gjson.String {
		return msg.String()
	}
	return strings.TrimSpace(string(data))
}

// invalidJSONBody describes a success reply that could not be parsed, keeping
// a bounded excerpt of what came back.
func invalidJSONBody(data []byte) string {
	msg := errorMessage(data)
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		return "empty reply, expected JSON"
	}
	return "reply is not JSON: " + msg
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
