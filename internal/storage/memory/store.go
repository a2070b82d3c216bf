// Package memory implements the mock persistence path: an in-memory store
// used when no database credential is configured. Writes succeed after a
// synthetic delay with a fabricated identifier, and are logged loudly as
// mock submissions so they are never mistaken for real ones.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voicelend/site-gateway/internal/domain"
	"github.com/voicelend/site-gateway/internal/storage"
)

// mockDelay simulates the latency of a real database round trip so local
// demos exercise the same in-flight UI states as production.
const mockDelay = 300 * time.Millisecond

// Store is the in-memory mock implementation of storage.Store.
type Store struct {
	mu           sync.RWMutex
	leads        []*domain.Lead
	interactions []*domain.Interaction
	logger       *slog.Logger
	delay        time.Duration
}

var _ storage.Store = (*Store)(nil)

// New creates a new mock store.
func New(logger *slog.Logger) *Store {
	return &Store{logger: logger, delay: mockDelay}
}

// NewWithDelay creates a mock store with a custom synthetic delay. Tests
// pass zero to avoid slow sleeps.
func NewWithDelay(logger *slog.Logger, delay time.Duration) *Store {
	return &Store{logger: logger, delay: delay}
}

func (s *Store) CreateLead(ctx context.Context, lead *domain.Lead) error {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	lead.ID = uuid.New().String()
	lead.CreatedAt = now
	lead.UpdatedAt = now

	stored := *lead
	s.leads = append(s.leads, &stored)

	s.logger.Warn("MOCK lead submission recorded, no database configured",
		slog.String("lead_id", lead.ID),
		slog.String("email", lead.Email),
	)
	return nil
}

func (s *Store) ListLeads(ctx context.Context, limit int) ([]*domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Lead, 0, len(s.leads))
	// Newest first
	for i := len(s.leads) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		lead := *s.leads[i]
		result = append(result, &lead)
	}
	return result, nil
}

func (s *Store) RecordInteraction(ctx context.Context, in *domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = uuid.New().String()
	in.CreatedAt = time.Now()

	stored := *in
	s.interactions = append(s.interactions, &stored)
	return nil
}

func (s *Store) ListInteractions(ctx context.Context, limit int) ([]*domain.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Interaction, 0, len(s.interactions))
	for i := len(s.interactions) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		in := *s.interactions[i]
		result = append(result, &in)
	}
	return result, nil
}

func (s *Store) Mock() bool { return true }

func (s *Store) Close() error { return nil }
