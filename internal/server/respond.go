package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/voicelend/site-gateway/internal/domain"
)

// Body size ceilings. The AI ceiling leaves headroom above the validator's
// base64 bound so an at-ceiling payload fails validation with a field
// violation rather than a transport-level rejection.
const (
	MaxAIBodyBytes      = 12 << 20 // generous envelope around 10MB of base64 audio
	MaxDefaultBodyBytes = 1 << 20
)

// errorBody is the stable error shape every failure response uses.
type errorBody struct {
	Error   string                  `json:"error"`
	Code    domain.ErrorCode        `json:"code"`
	Details []domain.FieldViolation `json:"details,omitempty"`
}

// BodyLimit caps the request body size for a route group.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// readBody drains the request body, translating the MaxBytesReader cutoff
// into the gateway taxonomy.
func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, domain.ErrPayloadTooLarge()
		}
		return nil, domain.ErrParse("failed to read request body")
	}
	return data, nil
}

// writeJSON writes a success response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError converts any error into the stable error body. Errors that
// are not GatewayErrors are masked as INTERNAL_ERROR so internal detail
// never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	AddError(r.Context(), err)

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		gerr = domain.ErrInternal()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(gerr.HTTPStatusCode())
	json.NewEncoder(w).Encode(errorBody{
		Error:   gerr.Message,
		Code:    gerr.Code,
		Details: gerr.Details,
	})
}
