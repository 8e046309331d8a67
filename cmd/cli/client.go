package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/iho/goraffle/internal/adapter/http/middleware"
)

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Code, e.Status)
}

type clientOptions struct {
	baseURL        string
	timeout        time.Duration
	token          string
	caller         string
	role           string
	idempotencyKey string
}

type apiClient struct {
	http *http.Client
	opts *clientOptions
}

func newAPIClient(opts *clientOptions) *apiClient {
	return &apiClient{
		http: &http.Client{Timeout: opts.timeout},
		opts: opts,
	}
}

func (c *apiClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *apiClient) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.opts.baseURL, "/")+path, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	if method == http.MethodPost {
		key := c.opts.idempotencyKey
		if key == "" {
			key = ulid.Make().String()
		}
		req.Header.Set(middleware.IdempotencyKeyHeader, key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &decoded) == nil && decoded.Error != "" {
			apiErr.Code = decoded.Error
			apiErr.Message = decoded.Message
		} else {
			apiErr.Message = truncate(strings.TrimSpace(string(raw)), 200)
		}
		return nil, apiErr
	}

	return raw, nil
}

// authorize prefers a bearer token; without one it asserts the caller
// through the headers the server trusts when auth is disabled.
func (c *apiClient) authorize(req *http.Request) {
	if c.opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.token)
		return
	}
	if c.opts.caller != "" {
		req.Header.Set(middleware.CallerIdentityHeader, c.opts.caller)
	}
	if c.opts.role != "" {
		req.Header.Set(middleware.CallerRoleHeader, c.opts.role)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func printJSON(w io.Writer, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, werr := fmt.Fprintln(w, string(raw))
		return werr
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
