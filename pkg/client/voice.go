package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SessionState is the voice capture session's current phase.
type SessionState string

const (
	// StateIdle means no capture is in progress.
	StateIdle SessionState = "idle"
	// StateRecording means an audio source is actively capturing.
	StateRecording SessionState = "recording"
	// StateTranscribing means a captured clip is in flight to the gateway.
	StateTranscribing SessionState = "transcribing"
)

// ErrNotIdle is returned when a capture is started while one is in progress.
var ErrNotIdle = errors.New("capture already in progress")

// ErrNotRecording is returned when Stop or Cancel is called without an
// active capture.
var ErrNotRecording = errors.New("no capture in progress")

// AudioClip is a captured recording ready for transcription.
type AudioClip struct {
	MIMEType string
	Data     string // base64-encoded audio bytes
}

// AudioSource captures audio between Start and Stop. Close releases the
// underlying device and must be safe to call after a failed Start or Stop.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() (*AudioClip, error)
	Close() error
}

// Transcriber converts a captured clip to text. *Client satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, clip *AudioClip) (string, error)
}

// VoiceSession drives one microphone through capture and transcription,
// accumulating a transcript across takes. The session always returns to
// idle after Stop or Cancel, whatever the outcome, and the audio source in
// use is closed exactly once. Clip data is never retained after the
// transcription call returns.
type VoiceSession struct {
	mu          sync.Mutex
	state       SessionState
	transcript  string
	source      AudioSource
	transcriber Transcriber
}

// NewVoiceSession creates an idle session using the given transcriber.
func NewVoiceSession(transcriber Transcriber) *VoiceSession {
	return &VoiceSession{
		state:       StateIdle,
		transcriber: transcriber,
	}
}

// State returns the current phase.
func (s *VoiceSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the accumulated transcript.
func (s *VoiceSession) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// ClearTranscript discards the accumulated transcript.
func (s *VoiceSession) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = ""
}

// Start begins capturing from the given source. The session takes
// ownership of the source until Stop or Cancel closes it. A source that
// fails to start is closed immediately and the session stays idle.
func (s *VoiceSession) Start(ctx context.Context, source AudioSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrNotIdle
	}

	if err := source.Start(ctx); err != nil {
		source.Close()
		return fmt.Errorf("failed to start capture: %w", err)
	}

	s.source = source
	s.state = StateRecording
	return nil
}

// Stop ends the capture, transcribes the clip, and appends the text to the
// transcript. The source is closed before the transcription call so the
// device is released while the network round trip runs. On any failure the
// transcript is left untouched and the session returns to idle.
func (s *VoiceSession) Stop(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return "", ErrNotRecording
	}

	source := s.source
	s.source = nil
	s.state = StateTranscribing
	s.mu.Unlock()

	clip, stopErr := source.Stop()
	source.Close()

	if stopErr != nil {
		s.toIdle()
		return "", fmt.Errorf("failed to stop capture: %w", stopErr)
	}

	text, err := s.transcriber.Transcribe(ctx, clip)
	if err != nil {
		s.toIdle()
		return "", err
	}

	s.mu.Lock()
	if s.transcript == "" {
		s.transcript = text
	} else if text != "" {
		s.transcript += " " + text
	}
	s.state = StateIdle
	s.mu.Unlock()

	return text, nil
}

// Cancel abandons the capture without transcribing. The source is closed
// and the transcript is left untouched.
func (s *VoiceSession) Cancel() error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return ErrNotRecording
	}

	source := s.source
	s.source = nil
	s.state = StateIdle
	s.mu.Unlock()

	source.Stop()
	return source.Close()
}

func (s *VoiceSession) toIdle() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}
