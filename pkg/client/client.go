// Package client is a Go client for the site gateway API. It also provides
// the voice capture session and lead form flows that drive the transcribe
// and lead endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a structured error returned by the gateway.
type APIError struct {
	StatusCode int              `json:"-"`
	Code       string           `json:"code"`
	Message    string           `json:"error"`
	Details    []FieldViolation `json:"details,omitempty"`
}

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Lead is a lead submission.
type Lead struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	NMLSID    string `json:"nmlsId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HealthStatus is the gateway's health report.
type HealthStatus struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	GeminiConfigured bool   `json:"geminiConfigured"`
	MockPersistence  bool   `json:"mockPersistence"`
	APIBase          string `json:"apiBase,omitempty"`
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client talks to the gateway API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health fetches the gateway health report.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transcribe sends a captured clip and returns the transcribed text.
func (c *Client) Transcribe(ctx context.Context, clip *AudioClip) (string, error) {
	body := map[string]any{
		"audio": map[string]string{
			"mimeType": clip.MIMEType,
			"data":     clip.Data,
		},
	}
	var out struct {
		Transcription string `json:"transcription"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/transcribe", body, &out); err != nil {
		return "", err
	}
	return out.Transcription, nil
}

// SubmitLead submits a lead and returns the assigned ID.
func (c *Client) SubmitLead(ctx context.Context, lead Lead) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/leads", lead, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// GenerateContent forwards a raw generation request and returns the raw
// provider response.
func (c *Client) GenerateContent(ctx context.Context, request json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/generate-content", request, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jerr := json.Unmarshal(respBody, apiErr); jerr != nil || apiErr.Code == "" {
			apiErr.Code = "UNKNOWN"
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
