package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		os.Unsetenv("VLG_SERVER__PORT")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 8080 {
			t.Errorf("Load() port = %v, want 8080", cfg.Server.Port)
		}
		if cfg.RateLimit.Global.Requests != 100 {
			t.Errorf("global ratelimit requests = %v, want 100", cfg.RateLimit.Global.Requests)
		}
		if cfg.RateLimit.Global.WindowSeconds != 900 {
			t.Errorf("global ratelimit window = %v, want 900", cfg.RateLimit.Global.WindowSeconds)
		}
		if cfg.RateLimit.Transcribe.Requests != 10 {
			t.Errorf("transcribe ratelimit requests = %v, want 10", cfg.RateLimit.Transcribe.Requests)
		}
		if cfg.RateLimit.Transcribe.WindowSeconds != 60 {
			t.Errorf("transcribe ratelimit window = %v, want 60", cfg.RateLimit.Transcribe.WindowSeconds)
		}
	})

	t.Run("env var port override", func(t *testing.T) {
		t.Setenv("VLG_SERVER__PORT", "9000")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Server.Port != 9000 {
			t.Errorf("Load() port = %v, want 9000", cfg.Server.Port)
		}
	})

	t.Run("env var gemini key", func(t *testing.T) {
		t.Setenv("VLG_GEMINI__API_KEY", "test-key-123")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Gemini.APIKey != "test-key-123" {
			t.Errorf("Load() gemini key = %q, want %q", cfg.Gemini.APIKey, "test-key-123")
		}
		if !cfg.Gemini.Configured() {
			t.Error("expected gemini to be configured")
		}
	})
}

func TestGeminiConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "empty key", key: "", want: false},
		{name: "real key", key: "AIzaSyExample", want: true},
		{name: "template placeholder", key: "your_gemini_api_key_here", want: false},
		{name: "changeme placeholder", key: "changeme", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GeminiConfig{APIKey: tt.key}
			if got := g.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple substitution", input: "${TEST_VAR}", want: "test-value"},
		{name: "substitution in string", input: "prefix-${TEST_VAR}-suffix", want: "prefix-test-value-suffix"},
		{name: "no substitution", input: "plain-string", want: "plain-string"},
		{name: "missing var becomes empty", input: "${NOT_SET_ANYWHERE}", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteEnvVars(tt.input); got != tt.want {
				t.Errorf("substituteEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
