// Package auth validates the elevated credential required by the lead
// read endpoint. Public endpoints carry no authentication; only operators
// holding the admin key may read or list leads.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
)

// Admin validates bearer keys against a single stored hash.
type Admin struct {
	keyHash string
}

// NewAdmin creates an admin authenticator from a sha256 hex key hash. An
// empty hash produces a disabled authenticator that rejects everything.
func NewAdmin(keyHash string) *Admin {
	return &Admin{keyHash: strings.ToLower(keyHash)}
}

// Enabled reports whether an admin credential is configured at all.
func (a *Admin) Enabled() bool {
	return a.keyHash != ""
}

// ValidateKey checks a presented key against the stored hash.
func (a *Admin) ValidateKey(apiKey string) error {
	if !a.Enabled() {
		return fmt.Errorf("admin access is not configured")
	}

	hash := HashKey(apiKey)

	// Constant-time comparison to prevent timing attacks
	if subtle.ConstantTimeCompare([]byte(hash), []byte(a.keyHash)) != 1 {
		return fmt.Errorf("invalid API key")
	}
	return nil
}

// ExtractKey extracts the bearer key from the Authorization header.
func ExtractKey(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid Authorization header format")
	}

	if strings.ToLower(parts[0]) != "bearer" {
		return "", fmt.Errorf("unsupported authorization scheme")
	}

	return parts[1], nil
}

// HashKey creates a sha256 hex hash of an API key for storage.
func HashKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(hash[:])
}
