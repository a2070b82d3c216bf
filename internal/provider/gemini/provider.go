// Package gemini adapts the Gemini API client to the gateway's upstream
// contract: credential short-circuit, error classification, and response
// shaping for the generation and transcription paths.
package gemini

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	geminiapi "github.com/voicelend/site-gateway/internal/api/gemini"
	"github.com/voicelend/site-gateway/internal/domain"
)

// transcriptionModel is the fixed model used for the transcription path.
// Clients never choose it; only the generation path accepts a model.
const transcriptionModel = "gemini-1.5-flash"

// transcriptionPrompt instructs the model to return only the transcript.
const transcriptionPrompt = "Transcribe the following audio recording. " +
	"Return only the transcribed text with no commentary or formatting."

// ProviderOption configures the provider.
type ProviderOption func(*Provider)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = httpClient
	}
}

// Provider implements domain.Upstream over the Gemini API client. A
// missing credential leaves the client nil; every call then short-circuits
// with SERVICE_UNAVAILABLE without touching the network. Credentials are
// checked once at startup, not per request.
type Provider struct {
	client     *geminiapi.Client
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new Gemini provider. An empty apiKey is allowed and
// produces an unconfigured provider.
func New(apiKey string, logger *slog.Logger, opts ...ProviderOption) *Provider {
	p := &Provider{logger: logger}

	for _, opt := range opts {
		opt(p)
	}

	if apiKey == "" {
		return p
	}

	var clientOpts []geminiapi.ClientOption
	if p.baseURL != "" {
		clientOpts = append(clientOpts, geminiapi.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		clientOpts = append(clientOpts, geminiapi.WithHTTPClient(p.httpClient))
	}
	p.client = geminiapi.NewClient(apiKey, clientOpts...)
	return p
}

// NewWithClient creates a provider around an existing API client. Used in
// tests to point the provider at a stub server.
func NewWithClient(client *geminiapi.Client, logger *slog.Logger) *Provider {
	return &Provider{client: client, logger: logger}
}

// Configured reports whether the underlying client exists.
func (p *Provider) Configured() bool {
	return p.client != nil
}

// GenerateContent forwards a validated generation request and returns the
// provider's response body verbatim.
func (p *Provider) GenerateContent(ctx context.Context, req *domain.GenerateRequest) ([]byte, error) {
	if p.client == nil {
		return nil, domain.ErrServiceUnavailable()
	}

	result, err := p.client.GenerateContent(ctx, toAPIRequest(req))
	if err != nil {
		return nil, p.classify(ctx, err, domain.ErrGeneration())
	}

	return result.Raw, nil
}

// Transcribe sends a single audio part and extracts the transcribed text.
// The audio payload is not retained after the call returns.
func (p *Provider) Transcribe(ctx context.Context, audio *domain.AudioPayload) (*domain.TranscriptionResult, error) {
	if p.client == nil {
		return nil, domain.ErrServiceUnavailable()
	}

	req := &geminiapi.GenerateContentRequest{
		Model: transcriptionModel,
		Contents: []geminiapi.Content{
			{
				Parts: []geminiapi.Part{
					{Text: transcriptionPrompt},
					{InlineData: &geminiapi.InlineData{
						MIMEType: audio.MIMEType,
						Data:     audio.Data,
					}},
				},
			},
		},
	}

	result, err := p.client.GenerateContent(ctx, req)
	if err != nil {
		return nil, p.classify(ctx, err, domain.ErrTranscription())
	}

	return &domain.TranscriptionResult{Text: result.Response.Text()}, nil
}

// classify maps an upstream failure into the gateway taxonomy: 4xx
// provider errors pass through with the provider's message since the
// caller can act on them; everything else gets the masked fallback so
// internal tokens or paths never reach the client.
func (p *Provider) classify(ctx context.Context, err error, masked *domain.GatewayError) error {
	var apiErr *geminiapi.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		return domain.ErrUpstream(apiErr.Code, apiErr.Message)
	}

	p.logger.ErrorContext(ctx, "upstream call failed",
		slog.String("error", err.Error()),
	)
	return masked
}

// toAPIRequest converts a normalized gateway request to the wire shape.
func toAPIRequest(req *domain.GenerateRequest) *geminiapi.GenerateContentRequest {
	contents := make([]geminiapi.Content, len(req.Contents))
	for i, c := range req.Contents {
		parts := make([]geminiapi.Part, len(c.Parts))
		for j, part := range c.Parts {
			parts[j] = geminiapi.Part{Text: part.Text}
			if part.InlineData != nil {
				parts[j].InlineData = &geminiapi.InlineData{
					MIMEType: part.InlineData.MIMEType,
					Data:     part.InlineData.Data,
				}
			}
		}
		contents[i] = geminiapi.Content{Role: c.Role, Parts: parts}
	}

	apiReq := &geminiapi.GenerateContentRequest{
		Model:    req.Model,
		Contents: contents,
	}

	if req.Config != nil {
		apiReq.GenerationConfig = &geminiapi.GenerationConfig{
			Temperature:     req.Config.Temperature,
			TopP:            req.Config.TopP,
			TopK:            req.Config.TopK,
			MaxOutputTokens: req.Config.MaxOutputTokens,
		}
	}

	return apiReq
}
