package server

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/voicelend/site-gateway/internal/config"
	"github.com/voicelend/site-gateway/internal/domain"
)

// Two independent fixed windows protect the upstream quota: a coarse
// limiter over all API traffic and a stricter one on transcription, which
// is materially more expensive upstream. Client identity is the network
// address; there is no account layer in this system. Counters are
// per-process and reset on restart, an accepted simplification for a
// marketing-site gateway.

// GlobalRateLimit bounds all /api traffic per client IP.
func GlobalRateLimit(w config.WindowConfig) func(http.Handler) http.Handler {
	return limit(w)
}

// TranscribeRateLimit additionally bounds the transcription endpoint.
func TranscribeRateLimit(w config.WindowConfig) func(http.Handler) http.Handler {
	return limit(w)
}

func limit(w config.WindowConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		w.Requests,
		time.Duration(w.WindowSeconds)*time.Second,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(rateLimitExceeded),
	)
}

// rateLimitExceeded writes the gateway error shape instead of httprate's
// plain-text default. httprate has already set the X-RateLimit-* and
// Retry-After headers so well-behaved clients can back off.
func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, domain.ErrRateLimited())
}
