package domain

import "time"

// Lead is a prospective customer's contact-form submission.
// NMLSID is the optional regulatory-license field; an empty submission is
// normalized to nil before persistence, never stored as an empty string.
type Lead struct {
	ID        string    `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Company   string    `json:"company" db:"company"`
	NMLSID    *string   `json:"nmlsId" db:"nmls_id"`
	Message   *string   `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// NormalizeNMLS coerces an empty or missing regulatory ID to an explicit
// nil so downstream storage never sees an empty string.
func (l *Lead) NormalizeNMLS() {
	if l.NMLSID != nil && *l.NMLSID == "" {
		l.NMLSID = nil
	}
}

// TranscriptionResult is the text extracted from an upstream transcription
// call. The audio payload that produced it is never retained.
type TranscriptionResult struct {
	Text string
}

// Interaction records metadata about a single proxied AI call. Payloads
// are deliberately absent: the gateway stores no audio and no prompt text.
type Interaction struct {
	ID        string    `json:"id" db:"id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	Model     string    `json:"model" db:"model"`
	Status    string    `json:"status" db:"status"`
	ErrorCode string    `json:"errorCode" db:"error_code"`
	Duration  int64     `json:"durationNs" db:"duration_ns"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Interaction status values.
const (
	InteractionStatusSuccess = "success"
	InteractionStatusError   = "error"
)
