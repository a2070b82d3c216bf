// Package domain provides canonical types and error taxonomy for the gateway.
package domain

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies the category of a gateway error as surfaced to clients.
type ErrorCode string

const (
	// ErrorCodeValidation indicates client-supplied data failed schema validation.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrorCodeServiceUnavailable indicates the upstream AI credential is
	// missing or the client was never constructed.
	ErrorCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// ErrorCodeRateLimited indicates a rate-limit window ceiling was exceeded.
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"

	// ErrorCodeCORS indicates the request origin is not on the allow-list.
	ErrorCodeCORS ErrorCode = "CORS_ERROR"

	// ErrorCodeParse indicates the request body was not valid JSON.
	ErrorCodeParse ErrorCode = "PARSE_ERROR"

	// ErrorCodePayloadTooLarge indicates the request body exceeded the size ceiling.
	ErrorCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"

	// ErrorCodeUpstream indicates a client-class upstream failure whose
	// message is safe to pass through.
	ErrorCodeUpstream ErrorCode = "UPSTREAM_ERROR"

	// ErrorCodeGeneration indicates a masked failure on the generation path.
	ErrorCodeGeneration ErrorCode = "GENERATION_ERROR"

	// ErrorCodeTranscription indicates a masked failure on the transcription path.
	ErrorCodeTranscription ErrorCode = "TRANSCRIPTION_ERROR"

	// ErrorCodeUnauthorized indicates a missing or invalid admin credential.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrorCodeInternal is the catch-all for anything else, always with
	// internal detail stripped.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// FieldViolation is a single field-level validation failure.
type FieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// GatewayError is the canonical error returned by gateway components.
// Validation failures carry field-level Details; upstream failures carry
// the status code chosen by the call wrapper's classification policy.
type GatewayError struct {
	// Code is the client-visible error code.
	Code ErrorCode `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Details holds field-level violations for validation errors.
	Details []FieldViolation `json:"details,omitempty"`

	// StatusCode is the suggested HTTP status code; zero means use the
	// default for the code.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatusCode returns the appropriate HTTP status code for this error.
func (e *GatewayError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}

	switch e.Code {
	case ErrorCodeValidation, ErrorCodeParse:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeCORS:
		return http.StatusForbidden
	case ErrorCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithStatusCode sets a specific HTTP status code.
func (e *GatewayError) WithStatusCode(code int) *GatewayError {
	e.StatusCode = code
	return e
}

// Convenience constructors for the taxonomy.

// ErrValidation creates a validation error carrying field-level violations.
func ErrValidation(violations []FieldViolation) *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeValidation,
		Message: "request validation failed",
		Details: violations,
	}
}

// ErrServiceUnavailable creates a service unavailable error. The operator
// sees the real cause in logs; the client sees a generic message.
func ErrServiceUnavailable() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeServiceUnavailable,
		Message: "AI service is not configured",
	}
}

// ErrRateLimited creates a rate limit error.
func ErrRateLimited() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeRateLimited,
		Message: "too many requests, please slow down",
	}
}

// ErrParse creates a malformed-JSON error.
func ErrParse(message string) *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeParse,
		Message: message,
	}
}

// ErrPayloadTooLarge creates a body-size-ceiling error.
func ErrPayloadTooLarge() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodePayloadTooLarge,
		Message: "request body exceeds the size limit",
	}
}

// ErrCORS creates an origin-not-allowed error.
func ErrCORS() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeCORS,
		Message: "origin not allowed",
	}
}

// ErrUpstream creates a passthrough error for client-class upstream
// failures. The message is the provider's own, safe to expose.
func ErrUpstream(statusCode int, message string) *GatewayError {
	return &GatewayError{
		Code:       ErrorCodeUpstream,
		Message:    message,
		StatusCode: statusCode,
	}
}

// ErrGeneration creates a masked error for server-class failures on the
// generation path.
func ErrGeneration() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeGeneration,
		Message: "content generation failed",
	}
}

// ErrTranscription creates a masked error for server-class failures on the
// transcription path.
func ErrTranscription() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeTranscription,
		Message: "transcription failed",
	}
}

// ErrUnauthorized creates an invalid-credential error.
func ErrUnauthorized(message string) *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeUnauthorized,
		Message: message,
	}
}

// ErrInternal creates a catch-all internal error with detail stripped.
func ErrInternal() *GatewayError {
	return &GatewayError{
		Code:    ErrorCodeInternal,
		Message: "internal server error",
	}
}
