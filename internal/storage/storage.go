// Package storage defines the persistence contracts for leads and
// interaction records. The SQL store backs production; the memory store
// is the explicit mock path used when no database is configured.
package storage

import (
	"context"
	"errors"

	"github.com/voicelend/site-gateway/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// LeadStore persists lead submissions. Inserts are public; reads require
// the elevated credential enforced at the HTTP layer.
type LeadStore interface {
	// CreateLead inserts a lead and fills in ID and timestamps. Identical
	// submissions produce independent records; no deduplication happens.
	CreateLead(ctx context.Context, lead *domain.Lead) error

	// ListLeads returns leads ordered newest first.
	ListLeads(ctx context.Context, limit int) ([]*domain.Lead, error)
}

// InteractionStore records per-call AI proxy metadata. Implementations
// must never be handed audio or prompt payloads.
type InteractionStore interface {
	RecordInteraction(ctx context.Context, in *domain.Interaction) error
	ListInteractions(ctx context.Context, limit int) ([]*domain.Interaction, error)
}

// Store is the combined persistence surface the gateway wires up.
type Store interface {
	LeadStore
	InteractionStore

	// Mock reports whether this is the degraded no-database path, so the
	// health endpoint and logs can distinguish real writes from mock ones.
	Mock() bool

	Close() error
}
