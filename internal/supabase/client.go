// Package supabase provides a thin REST client for the hosted Supabase
// backend: password-based auth, admin user management, and table CRUD.
// The service never stores anything locally; every operation here is a
// single HTTP call against the project's REST surface.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trackr/trackr/internal/metrics"
)

const (
	// ClientTimeout is the total request timeout.
	ClientTimeout = 30 * time.Second
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second
)

// Client performs REST calls against one Supabase project.
// Construct it once in main and hand it to the services that need it.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	recorder metrics.Recorder
}

// New creates a Client for the given project URL and API key.
func New(baseURL, apiKey string) (*Client, error) {
	return NewWithRecorder(baseURL, apiKey, metrics.NewNoop())
}

// NewWithRecorder creates a Client that reports request metrics to rec.
func NewWithRecorder(baseURL, apiKey string, rec metrics.Recorder) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("supabase: API key is required")
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		http:     newHTTPClient(),
		recorder: rec,
	}, nil
}

// newHTTPClient creates an HTTP client configured for collaborator calls.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: ClientTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// BaseURL returns the project URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the project's REST endpoint is reachable.
// Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/rest/v1/", nil, nil, nil, nil)
}

// APIError is a non-2xx response from the collaborator.
// Message carries the upstream error text so endpoints can pass it through.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// do executes one request against the project.
// A nil out skips response decoding; a nil body sends no payload.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, out any) error {
	area := metrics.AreaRest
	if strings.HasPrefix(path, "/auth/") {
		area = metrics.AreaAuth
	}
	start := time.Now()
	err := c.roundTrip(ctx, method, path, query, headers, body, out)
	c.recorder.ObserveUpstreamDuration(area, time.Since(start))
	if err != nil {
		c.recorder.IncUpstreamRequest(area, metrics.OutcomeError)
	} else {
		c.recorder.IncUpstreamRequest(area, metrics.OutcomeSuccess)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("supabase: build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(raw, resp.StatusCode),
		}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("supabase: decode response: %w", err)
		}
	}

	return nil
}

// extractErrorMessage pulls the human-readable message out of an error body.
// Supabase services are inconsistent about the field name.
func extractErrorMessage(raw []byte, status int) string {
	var payload struct {
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Msg != "":
			return payload.Msg
		case payload.Message != "":
			return payload.Message
		case payload.ErrorDesc != "":
			return payload.ErrorDesc
		case payload.Error != "":
			return payload.Error
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(status)
}
