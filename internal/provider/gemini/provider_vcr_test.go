package gemini

import (
	"context"
	"os"
	"testing"

	"github.com/voicelend/site-gateway/internal/domain"
	"github.com/voicelend/site-gateway/internal/testutil"
)

func TestTranscribe_Recorded(t *testing.T) {
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("VCR_MODE") == "record" {
		t.Skip("Skipping test: GEMINI_API_KEY not set")
	}

	rec, cleanup := testutil.NewVCRRecorder(t, "gemini_transcribe")
	defer cleanup()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = "test-key"
	}

	p := New(apiKey, testLogger(), WithHTTPClient(testutil.VCRHTTPClient(rec)))

	result, err := p.Transcribe(context.Background(), &domain.AudioPayload{
		MIMEType: "audio/webm",
		Data:     "c29tZSBhdWRpbw==",
	})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if result.Text == "" {
		t.Error("expected transcribed text in response")
	}
}
