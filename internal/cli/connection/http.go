package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/corex-go/internal/infra/buildinfo"
)

// CallerHeader carries the caller identifier.
const CallerHeader = "X-Caller-ID"

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL string
	caller  string
	client  *http.Client
}

// NewHTTPClient creates a new HTTP client. caller may be empty for
// anonymous requests.
func NewHTTPClient(server, caller string) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &HTTPClient{
		baseURL: baseURL,
		caller:  caller,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.addHeaders(req)
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.addHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

// addHeaders adds the caller and common headers.
func (c *HTTPClient) addHeaders(req *http.Request) {
	if c.caller != "" {
		req.Header.Set(CallerHeader, c.caller)
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent("corex-cli"))
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Caller returns the identifier sent with every request.
func (c *HTTPClient) Caller() string {
	return c.caller
}

// APIError is an error envelope returned by the server.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	Details   json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// envelope mirrors the server response envelope.
type envelope struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Details   json.RawMessage `json:"details"`
}

// ParseResponse decodes the envelope data of resp into target. target may
// be nil.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
			apiErr.RequestID = env.RequestID
			apiErr.Details = env.Details
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("parse response: %w", decodeErr)
	}

	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}

// Do returns the transport error of a request, or decodes its response
// into target.
func Do(resp *http.Response, err error, target any) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return ParseResponse(resp, target)
}
