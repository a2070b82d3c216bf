// Package config loads gateway configuration from config.yaml and the
// environment. The resulting struct is built once at startup and injected
// into every component that needs it; nothing reads the environment ad hoc.
package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Database  DatabaseConfig  `koanf:"database"`
	Admin     AdminConfig     `koanf:"admin"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Sentry    SentryConfig    `koanf:"sentry"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
	// StaticDir is the built frontend bundle served in production.
	// Empty disables static serving.
	StaticDir string `koanf:"static_dir"`
	// RequestTimeoutSeconds bounds each inbound request.
	RequestTimeoutSeconds int `koanf:"request_timeout_seconds"`
	// PublicAPIBase is an externally-reachable base URL advertised to the
	// frontend via /api/health instead of same-origin.
	PublicAPIBase string `koanf:"public_api_base"`
}

type GeminiConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

type CORSConfig struct {
	// AllowedOrigins is the explicit origin allow-list. Requests with no
	// Origin header (non-browser clients) are always permitted.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type RateLimitConfig struct {
	// Global applies to all /api traffic.
	Global WindowConfig `koanf:"global"`
	// Transcribe applies only to the transcription endpoint, which is
	// materially more expensive upstream.
	Transcribe WindowConfig `koanf:"transcribe"`
}

type WindowConfig struct {
	Requests      int `koanf:"requests"`
	WindowSeconds int `koanf:"window_seconds"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"` // sqlite, postgres; empty selects the mock store
	DSN    string `koanf:"dsn"`
}

type AdminConfig struct {
	// APIKeyHash is the sha256 hex hash of the elevated credential
	// required to read leads. Empty disables the read endpoint.
	APIKeyHash string `koanf:"api_key_hash"`
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

type SentryConfig struct {
	// DSN is recognized for parity with the deployment environment; the
	// error-tracking collaborator is external and only logged about here.
	DSN string `koanf:"dsn"`
}

// IsPlaceholder reports whether the credential looks like an unfilled
// template value rather than a real key.
func (g GeminiConfig) IsPlaceholder() bool {
	key := strings.ToLower(g.APIKey)
	return strings.Contains(key, "your_") || strings.Contains(key, "changeme") ||
		strings.Contains(key, "placeholder")
}

// Configured reports whether a usable Gemini credential is present.
func (g GeminiConfig) Configured() bool {
	return g.APIKey != "" && !g.IsPlaceholder()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func Load() (*Config, error) {
	return LoadFile("config.yaml")
}

// LoadFile loads configuration from the given YAML file (if present) with
// environment variables layered on top under the VLG_ prefix, double
// underscores mapping to nesting (VLG_GEMINI__API_KEY -> gemini.api_key).
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("VLG_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "VLG_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("server.request_timeout_seconds") {
		k.Set("server.request_timeout_seconds", 30)
	}
	if !k.Exists("ratelimit.global.requests") {
		k.Set("ratelimit.global.requests", 100)
	}
	if !k.Exists("ratelimit.global.window_seconds") {
		k.Set("ratelimit.global.window_seconds", 900)
	}
	if !k.Exists("ratelimit.transcribe.requests") {
		k.Set("ratelimit.transcribe.requests", 10)
	}
	if !k.Exists("ratelimit.transcribe.window_seconds") {
		k.Set("ratelimit.transcribe.window_seconds", 60)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Substitute environment variables in secrets
	cfg.Gemini.APIKey = substituteEnvVars(cfg.Gemini.APIKey)
	cfg.Database.DSN = substituteEnvVars(cfg.Database.DSN)
	cfg.Admin.APIKeyHash = substituteEnvVars(cfg.Admin.APIKeyHash)

	return &cfg, nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
