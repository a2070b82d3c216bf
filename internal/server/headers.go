package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"github.com/voicelend/site-gateway/internal/config"
	"github.com/voicelend/site-gateway/internal/domain"
)

// geminiOrigin is the upstream origin the CSP permits for connect-src, so
// a frontend calling the provider directly in development still works.
const geminiOrigin = "https://generativelanguage.googleapis.com"

// CORSMiddleware enforces the explicit origin allow-list. Requests with no
// Origin header (curl, server-to-server) pass through untouched; browser
// requests from an origin outside the list are rejected with CORS_ERROR
// rather than silently stripped of CORS headers.
func CORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return func(next http.Handler) http.Handler {
		return corsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !allowed[origin] && !allowed["*"] {
				writeError(w, r, domain.ErrCORS())
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// SecurityHeadersMiddleware sets a restrictive content-security policy and
// the standard hardening headers on every response. Script, style and
// connect sources are limited to self plus the third-party origins the
// site actually uses.
func SecurityHeadersMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	connectSrc := []string{"'self'", geminiOrigin}
	if cfg.Server.PublicAPIBase != "" {
		connectSrc = append(connectSrc, cfg.Server.PublicAPIBase)
	}

	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: blob:",
		"media-src 'self' blob:",
		"connect-src " + strings.Join(connectSrc, " "),
		"frame-ancestors 'none'",
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
