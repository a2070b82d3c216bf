// Package recorder captures per-call AI proxy metadata. Recording is
// best-effort: a storage failure is logged and never surfaces to the
// client. Audio and prompt payloads are never handed to the store.
package recorder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/voicelend/site-gateway/internal/domain"
	"github.com/voicelend/site-gateway/internal/storage"
)

// Recorder writes interaction metadata through an InteractionStore.
type Recorder struct {
	store  storage.InteractionStore
	logger *slog.Logger
}

// New creates a recorder. A nil store disables recording.
func New(store storage.InteractionStore, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record logs one proxied AI call. callErr nil means success; a
// *domain.GatewayError contributes its code to the record.
func (r *Recorder) Record(ctx context.Context, endpoint, model string, start time.Time, callErr error) {
	if r == nil || r.store == nil {
		return
	}

	in := &domain.Interaction{
		Endpoint: endpoint,
		Model:    model,
		Status:   domain.InteractionStatusSuccess,
		Duration: time.Since(start).Nanoseconds(),
	}

	if callErr != nil {
		in.Status = domain.InteractionStatusError
		var gerr *domain.GatewayError
		if errors.As(callErr, &gerr) {
			in.ErrorCode = string(gerr.Code)
		} else {
			in.ErrorCode = string(domain.ErrorCodeInternal)
		}
	}

	if err := r.store.RecordInteraction(ctx, in); err != nil {
		r.logger.Warn("failed to record interaction",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
	}
}
