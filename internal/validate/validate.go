// Package validate rejects malformed requests before any upstream call is
// made. Validation failures are an expected error class, distinct from
// upstream failures: every function here returns a structured list of
// field-level violations wrapped in a VALIDATION_ERROR, never a panic and
// never a raw error that could be confused with an upstream fault.
package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/voicelend/site-gateway/internal/domain"
)

// Payload bounds. The transport body ceiling on the AI endpoints sits
// above MaxAudioEncodedBytes, so an oversized payload is rejected here
// with a field violation rather than cut off mid-read.
const (
	MaxAudioEncodedBytes = 10 << 20 // 10MB of base64 text
	MinAudioEncodedBytes = 100
	MaxTextLength        = 32768
	MaxContents          = 16
	MaxParts             = 16
)

// AllowedAudioMIMETypes is the enumerated set accepted on both AI paths.
var AllowedAudioMIMETypes = []string{
	"audio/webm",
	"audio/ogg",
	"audio/wav",
	"audio/mp4",
	"audio/mpeg",
}

// modelPattern restricts the generation model identifier. Only Gemini
// model names are forwarded, with or without the "models/" prefix.
var modelPattern = regexp.MustCompile(`^(models/)?gemini-[a-zA-Z0-9.-]+$`)

var validate = newValidator()

// newValidator builds a validator that reports violations using the JSON
// field names clients actually submitted.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// contentsField accepts both the array and single-object wire shapes for
// "contents" (a documented upstream API quirk) and normalizes them to a
// slice before any further checking.
type contentsField []domain.Content

func (c *contentsField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var single domain.Content
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*c = contentsField{single}
		return nil
	}

	var many []domain.Content
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*c = contentsField(many)
	return nil
}

type generateBody struct {
	Model    string                 `json:"model"`
	Contents contentsField          `json:"contents"`
	Config   *domain.GenerateConfig `json:"config"`
}

type transcribeBody struct {
	Audio *domain.AudioPayload `json:"audio"`
}

// Generate parses and validates a content-generation request body. On
// success it returns the typed, normalized request; on failure the error
// is a *domain.GatewayError carrying either PARSE_ERROR or a
// VALIDATION_ERROR with field-level violations.
func Generate(data []byte) (*domain.GenerateRequest, error) {
	var body generateBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, domain.ErrParse("request body is not valid JSON")
	}

	var violations []domain.FieldViolation

	if body.Model == "" {
		violations = append(violations, violation("model", "model is required"))
	} else if !modelPattern.MatchString(body.Model) {
		violations = append(violations, violation("model", "model must match a supported Gemini model name"))
	}

	if len(body.Contents) == 0 {
		violations = append(violations, violation("contents", "at least one content block is required"))
	} else if len(body.Contents) > MaxContents {
		violations = append(violations, violation("contents", fmt.Sprintf("at most %d content blocks are allowed", MaxContents)))
	} else {
		for i, content := range body.Contents {
			violations = append(violations, checkContent(fmt.Sprintf("contents[%d]", i), content)...)
		}
	}

	violations = append(violations, checkConfig(body.Config)...)

	if len(violations) > 0 {
		return nil, domain.ErrValidation(violations)
	}

	return &domain.GenerateRequest{
		Model:    body.Model,
		Contents: []domain.Content(body.Contents),
		Config:   body.Config,
	}, nil
}

// Transcribe parses and validates a transcription request body: exactly
// one audio object with an allowed MIME type and bounded encoded size.
func Transcribe(data []byte) (*domain.AudioPayload, error) {
	var body transcribeBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, domain.ErrParse("request body is not valid JSON")
	}

	if body.Audio == nil {
		return nil, domain.ErrValidation([]domain.FieldViolation{
			violation("audio", "audio object is required"),
		})
	}

	violations := checkAudio("audio", body.Audio)
	if len(violations) > 0 {
		return nil, domain.ErrValidation(violations)
	}

	return body.Audio, nil
}

// leadBody mirrors the lead form. All fields except nmlsId and message
// are required; the regulatory ID is normalized to nil when empty.
type leadBody struct {
	FirstName string  `json:"firstName" validate:"required,max=100"`
	LastName  string  `json:"lastName" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	Company   string  `json:"company" validate:"required,max=200"`
	NMLSID    *string `json:"nmlsId" validate:"omitempty,max=20"`
	Message   *string `json:"message" validate:"omitempty,max=5000"`
}

// Lead parses and validates a lead submission body and returns the
// normalized lead with the NMLS field coerced to nil when empty.
func Lead(data []byte) (*domain.Lead, error) {
	var body leadBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, domain.ErrParse("request body is not valid JSON")
	}

	if err := validate.Struct(&body); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, domain.ErrValidation([]domain.FieldViolation{
				violation("", "request could not be validated"),
			})
		}

		violations := make([]domain.FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			violations = append(violations, violation(fe.Field(), tagMessage(fe)))
		}
		return nil, domain.ErrValidation(violations)
	}

	lead := &domain.Lead{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Company:   body.Company,
		NMLSID:    body.NMLSID,
		Message:   body.Message,
	}
	lead.NormalizeNMLS()
	return lead, nil
}

func checkContent(path string, content domain.Content) []domain.FieldViolation {
	var violations []domain.FieldViolation

	if len(content.Parts) == 0 {
		return append(violations, violation(path+".parts", "at least one part is required"))
	}
	if len(content.Parts) > MaxParts {
		return append(violations, violation(path+".parts", fmt.Sprintf("at most %d parts are allowed", MaxParts)))
	}

	for i, part := range content.Parts {
		partPath := fmt.Sprintf("%s.parts[%d]", path, i)
		hasText := part.Text != ""
		hasData := part.InlineData != nil

		switch {
		case hasText && hasData:
			violations = append(violations, violation(partPath, "part must have one of text or inlineData, not both"))
		case !hasText && !hasData:
			violations = append(violations, violation(partPath, "part must have one of text or inlineData"))
		case hasText && len(part.Text) > MaxTextLength:
			violations = append(violations, violation(partPath+".text", fmt.Sprintf("text must not exceed %d characters", MaxTextLength)))
		case hasData:
			violations = append(violations, checkAudio(partPath+".inlineData", part.InlineData)...)
		}
	}

	return violations
}

func checkAudio(path string, audio *domain.AudioPayload) []domain.FieldViolation {
	var violations []domain.FieldViolation

	if !allowedMIME(audio.MIMEType) {
		violations = append(violations, violation(path+".mimeType",
			fmt.Sprintf("mimeType must be one of: %s", strings.Join(AllowedAudioMIMETypes, ", "))))
	}

	switch n := len(audio.Data); {
	case n == 0:
		violations = append(violations, violation(path+".data", "data is required"))
	case n < MinAudioEncodedBytes:
		violations = append(violations, violation(path+".data",
			fmt.Sprintf("encoded audio must be at least %d bytes", MinAudioEncodedBytes)))
	case n > MaxAudioEncodedBytes:
		violations = append(violations, violation(path+".data",
			fmt.Sprintf("encoded audio must not exceed %d bytes", MaxAudioEncodedBytes)))
	}

	return violations
}

func checkConfig(cfg *domain.GenerateConfig) []domain.FieldViolation {
	if cfg == nil {
		return nil
	}

	var violations []domain.FieldViolation
	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 2) {
		violations = append(violations, violation("config.temperature", "temperature must be between 0 and 2"))
	}
	if cfg.TopP != nil && (*cfg.TopP < 0 || *cfg.TopP > 1) {
		violations = append(violations, violation("config.topP", "topP must be between 0 and 1"))
	}
	if cfg.TopK != nil && (*cfg.TopK < 1 || *cfg.TopK > 100) {
		violations = append(violations, violation("config.topK", "topK must be between 1 and 100"))
	}
	if cfg.MaxOutputTokens != nil && (*cfg.MaxOutputTokens < 1 || *cfg.MaxOutputTokens > 8192) {
		violations = append(violations, violation("config.maxOutputTokens", "maxOutputTokens must be between 1 and 8192"))
	}
	return violations
}

func allowedMIME(mime string) bool {
	for _, m := range AllowedAudioMIMETypes {
		if mime == m {
			return true
		}
	}
	return false
}

func violation(path, message string) domain.FieldViolation {
	return domain.FieldViolation{Path: path, Message: message}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
