// ABOUTME: Council backend HTTP client construction and request plumbing.
// ABOUTME: Explicit configuration (base URL, token, timeout), no ambient globals.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout bounds simple request/response calls. Streaming requests
// are exempt: a deliberation can legitimately run for minutes.
const defaultTimeout = 30 * time.Second

// Config carries everything a Client needs. BaseURL is required.
type Config struct {
	// BaseURL is the backend root, e.g. "http://localhost:8001/api".
	BaseURL string
	// Token, when set, is sent as a bearer token on every request.
	Token string
	// Timeout bounds non-streaming calls. Zero means defaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the underlying client (used in tests).
	HTTPClient *http.Client
	// Logger receives structured diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Client talks to one council backend.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	httpc   *http.Client
	logger  *slog.Logger
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		// No client-level Timeout: it would also cap how long a
		// streaming response body may stay open. Simple calls get
		// their deadline per-request instead.
		httpc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: timeout,
		httpc:   httpc,
		logger:  logger.With("component", "client"),
	}, nil
}

// APIError is a non-success response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// newRequest builds a JSON request against the backend. A nil body sends no
// payload.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// doJSON runs a simple request/response call under the client timeout and
// decodes the response into out (skipped when out is nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// readAPIError extracts an error message from a non-success response body.
// The backend reports errors as {"detail": ...} or {"error": ...}.
func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Detail != "" {
			apiErr.Message = body.Detail
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
