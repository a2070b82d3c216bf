package domain

import "context"

// Upstream is the contract the HTTP handlers depend on for AI calls.
// Implementations translate validated gateway requests into provider
// calls and classify provider failures into GatewayError values.
type Upstream interface {
	// Configured reports whether the provider client was constructed with
	// a usable credential. When false, calls short-circuit with
	// SERVICE_UNAVAILABLE without touching the network.
	Configured() bool

	// GenerateContent forwards a validated generation request and returns
	// the provider's response body verbatim.
	GenerateContent(ctx context.Context, req *GenerateRequest) ([]byte, error)

	// Transcribe sends a single audio part and extracts the transcribed text.
	Transcribe(ctx context.Context, audio *AudioPayload) (*TranscriptionResult, error)
}

// GenerateRequest is the normalized generation request produced by the
// validator. Both array and single-object "contents" wire shapes collapse
// into the Contents slice.
type GenerateRequest struct {
	Model    string          `json:"model"`
	Contents []Content       `json:"contents"`
	Config   *GenerateConfig `json:"config,omitempty"`
}

// Content is one content block of a generation request.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part carries either bounded text or inline audio data, never both.
type Part struct {
	Text       string        `json:"text,omitempty"`
	InlineData *AudioPayload `json:"inlineData,omitempty"`
}

// AudioPayload is a base64-encoded audio blob tagged with its MIME type.
type AudioPayload struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerateConfig holds the optional generation parameters the gateway
// accepts and range-checks.
type GenerateConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}
