package validate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/voicelend/site-gateway/internal/domain"
)

func audioBody(mime string, size int) string {
	return fmt.Sprintf(`{"audio":{"mimeType":%q,"data":%q}}`, mime, strings.Repeat("A", size))
}

func gatewayErr(t *testing.T, err error) *domain.GatewayError {
	t.Helper()
	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *domain.GatewayError, got %T: %v", err, err)
	}
	return gerr
}

// =============================================================================
// Transcribe Tests
// =============================================================================

func TestTranscribe_Valid(t *testing.T) {
	audio, err := Transcribe([]byte(audioBody("audio/webm", 2048)))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if audio.MIMEType != "audio/webm" {
		t.Errorf("MIMEType = %q, want audio/webm", audio.MIMEType)
	}
}

func TestTranscribe_RejectsUnknownMIMEType(t *testing.T) {
	_, err := Transcribe([]byte(audioBody("video/mp4", 2048)))

	gerr := gatewayErr(t, err)
	if gerr.Code != domain.ErrorCodeValidation {
		t.Errorf("Code = %q, want VALIDATION_ERROR", gerr.Code)
	}
	if len(gerr.Details) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(gerr.Details))
	}
	if gerr.Details[0].Path != "audio.mimeType" {
		t.Errorf("violation path = %q, want audio.mimeType", gerr.Details[0].Path)
	}
}

func TestTranscribe_MissingAudio(t *testing.T) {
	_, err := Transcribe([]byte(`{}`))

	gerr := gatewayErr(t, err)
	if gerr.Code != domain.ErrorCodeValidation {
		t.Errorf("Code = %q, want VALIDATION_ERROR", gerr.Code)
	}
}

func TestTranscribe_MalformedJSON(t *testing.T) {
	_, err := Transcribe([]byte(`{not json`))

	gerr := gatewayErr(t, err)
	if gerr.Code != domain.ErrorCodeParse {
		t.Errorf("Code = %q, want PARSE_ERROR", gerr.Code)
	}
}

func TestTranscribe_SizeBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "below minimum", size: MinAudioEncodedBytes - 1, wantErr: true},
		{name: "at minimum", size: MinAudioEncodedBytes, wantErr: false},
		{name: "at ceiling", size: MaxAudioEncodedBytes, wantErr: false},
		{name: "one byte over ceiling", size: MaxAudioEncodedBytes + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transcribe([]byte(audioBody("audio/wav", tt.size)))

			if tt.wantErr {
				gerr := gatewayErr(t, err)
				if gerr.Code != domain.ErrorCodeValidation {
					t.Errorf("Code = %q, want VALIDATION_ERROR", gerr.Code)
				}
			} else if err != nil {
				t.Errorf("Transcribe() error = %v, want nil", err)
			}
		})
	}
}

// =============================================================================
// Generate Tests
// =============================================================================

func TestGenerate_Valid(t *testing.T) {
	body := `{"model":"gemini-1.5-flash","contents":[{"parts":[{"text":"hello"}]}]}`

	req, err := Generate([]byte(body))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if req.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q", req.Model)
	}
	if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected normalized shape: %+v", req.Contents)
	}
}

func TestGenerate_SingleObjectContentsNormalized(t *testing.T) {
	// The upstream API accepts both an array and a bare object; both must
	// normalize to the same internal shape.
	body := `{"model":"gemini-1.5-flash","contents":{"parts":[{"text":"hello"}]}}`

	req, err := Generate([]byte(body))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(req.Contents) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(req.Contents))
	}
	if req.Contents[0].Parts[0].Text != "hello" {
		t.Errorf("part text = %q", req.Contents[0].Parts[0].Text)
	}
}

func TestGenerate_ModelPattern(t *testing.T) {
	tests := []struct {
		model string
		valid bool
	}{
		{"gemini-1.5-flash", true},
		{"models/gemini-1.5-pro", true},
		{"gemini-2.0-flash-exp", true},
		{"gpt-4", false},
		{"", false},
		{"gemini-1.5-flash; rm -rf /", false},
		{"../../etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			body := fmt.Sprintf(`{"model":%q,"contents":[{"parts":[{"text":"hi"}]}]}`, tt.model)
			_, err := Generate([]byte(body))

			if tt.valid && err != nil {
				t.Errorf("Generate() error = %v, want nil", err)
			}
			if !tt.valid {
				gerr := gatewayErr(t, err)
				if gerr.Code != domain.ErrorCodeValidation {
					t.Errorf("Code = %q, want VALIDATION_ERROR", gerr.Code)
				}
			}
		})
	}
}

func TestGenerate_PartMustHaveOneOf(t *testing.T) {
	t.Run("empty part", func(t *testing.T) {
		body := `{"model":"gemini-1.5-flash","contents":[{"parts":[{}]}]}`
		_, err := Generate([]byte(body))

		gerr := gatewayErr(t, err)
		if len(gerr.Details) == 0 || !strings.Contains(gerr.Details[0].Message, "must have one of") {
			t.Errorf("expected 'must have one of' violation, got %+v", gerr.Details)
		}
	})

	t.Run("both text and inline data", func(t *testing.T) {
		body := `{"model":"gemini-1.5-flash","contents":[{"parts":[{"text":"x","inlineData":{"mimeType":"audio/webm","data":"` +
			strings.Repeat("A", 200) + `"}}]}]}`
		_, err := Generate([]byte(body))

		gerr := gatewayErr(t, err)
		if gerr.Code != domain.ErrorCodeValidation {
			t.Errorf("Code = %q, want VALIDATION_ERROR", gerr.Code)
		}
	})
}

func TestGenerate_ConfigRanges(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr bool
	}{
		{name: "valid config", config: `{"temperature":1.0,"topP":0.9,"topK":40,"maxOutputTokens":2048}`, wantErr: false},
		{name: "temperature too high", config: `{"temperature":2.5}`, wantErr: true},
		{name: "negative temperature", config: `{"temperature":-0.1}`, wantErr: true},
		{name: "topP above one", config: `{"topP":1.5}`, wantErr: true},
		{name: "zero topK", config: `{"topK":0}`, wantErr: true},
		{name: "excessive output tokens", config: `{"maxOutputTokens":100000}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := fmt.Sprintf(`{"model":"gemini-1.5-flash","contents":[{"parts":[{"text":"hi"}]}],"config":%s}`, tt.config)
			_, err := Generate([]byte(body))

			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Generate() error = %v, want nil", err)
			}
		})
	}
}

// =============================================================================
// Lead Tests
// =============================================================================

func TestLead_Valid(t *testing.T) {
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","company":"Analytical Mortgage","nmlsId":"123456"}`

	lead, err := Lead([]byte(body))
	if err != nil {
		t.Fatalf("Lead() error = %v", err)
	}
	if lead.NMLSID == nil || *lead.NMLSID != "123456" {
		t.Errorf("NMLSID = %v, want 123456", lead.NMLSID)
	}
}

func TestLead_EmptyNMLSBecomesNil(t *testing.T) {
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","company":"Analytical Mortgage","nmlsId":""}`

	lead, err := Lead([]byte(body))
	if err != nil {
		t.Fatalf("Lead() error = %v", err)
	}
	if lead.NMLSID != nil {
		t.Errorf("NMLSID = %q, want nil", *lead.NMLSID)
	}
}

func TestLead_RequiredFields(t *testing.T) {
	body := `{"firstName":"Ada"}`

	_, err := Lead([]byte(body))
	gerr := gatewayErr(t, err)
	if gerr.Code != domain.ErrorCodeValidation {
		t.Fatalf("Code = %q, want VALIDATION_ERROR", gerr.Code)
	}

	paths := make(map[string]bool)
	for _, v := range gerr.Details {
		paths[v.Path] = true
	}
	for _, want := range []string{"lastName", "email", "company"} {
		if !paths[want] {
			t.Errorf("missing violation for %s, got %+v", want, gerr.Details)
		}
	}
}

func TestLead_InvalidEmail(t *testing.T) {
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"not-an-email","company":"Acme"}`

	_, err := Lead([]byte(body))
	gerr := gatewayErr(t, err)
	if len(gerr.Details) != 1 || gerr.Details[0].Path != "email" {
		t.Errorf("expected single email violation, got %+v", gerr.Details)
	}
}
