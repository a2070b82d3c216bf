package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// HTTP Client Tests
// =============================================================================

func TestClientTranscribe(t *testing.T) {
	var gotBody map[string]map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transcribe" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"transcription":"hello","success":true}`))
	}))
	defer server.Close()

	c := New(server.URL)
	text, err := c.Transcribe(context.Background(), &AudioClip{MIMEType: "audio/webm", Data: "AAAA"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q", text)
	}
	if gotBody["audio"]["mimeType"] != "audio/webm" || gotBody["audio"]["data"] != "AAAA" {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestClientSubmitLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"lead-9","success":true}`))
	}))
	defer server.Close()

	c := New(server.URL)
	id, err := c.SubmitLead(context.Background(), Lead{FirstName: "Dana", LastName: "Smith", Email: "d@example.com", Company: "x"})
	if err != nil {
		t.Fatalf("SubmitLead() error = %v", err)
	}
	if id != "lead-9" {
		t.Errorf("id = %q", id)
	}
}

func TestClientHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","timestamp":"2026-01-01T00:00:00Z","geminiConfigured":true,"mockPersistence":false}`))
	}))
	defer server.Close()

	c := New(server.URL)
	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if health.Status != "ok" || !health.GeminiConfigured || health.MockPersistence {
		t.Errorf("health = %+v", health)
	}
}

func TestClientParsesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"request validation failed","code":"VALIDATION_ERROR","details":[{"path":"email","message":"must be a valid email address"}]}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.SubmitLead(context.Background(), Lead{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if len(apiErr.Details) != 1 || apiErr.Details[0].Path != "email" {
		t.Errorf("details = %+v", apiErr.Details)
	}
}

func TestClientNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Health(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Code != "UNKNOWN" || apiErr.Message != "bad gateway" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClientGenerateContent(t *testing.T) {
	raw := `{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-content" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(raw))
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.GenerateContent(context.Background(), json.RawMessage(`{"model":"gemini-1.5-flash","contents":[]}`))
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if string(resp) != raw {
		t.Errorf("resp = %s", resp)
	}
}
