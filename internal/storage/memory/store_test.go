package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/voicelend/site-gateway/internal/domain"
)

func newTestStore() *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWithDelay(logger, 0)
}

func TestCreateLead_FabricatesID(t *testing.T) {
	store := newTestStore()

	lead := &domain.Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Acme"}
	if err := store.CreateLead(context.Background(), lead); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	if lead.ID == "" {
		t.Error("expected fabricated ID")
	}
	if lead.CreatedAt.IsZero() || lead.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateLead_IdenticalSubmissionsAreIndependent(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	lead1 := &domain.Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Acme"}
	lead2 := &domain.Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Acme"}

	if err := store.CreateLead(ctx, lead1); err != nil {
		t.Fatalf("first CreateLead() error = %v", err)
	}
	if err := store.CreateLead(ctx, lead2); err != nil {
		t.Fatalf("second CreateLead() error = %v", err)
	}

	if lead1.ID == lead2.ID {
		t.Error("identical submissions must produce independent records")
	}

	leads, err := store.ListLeads(ctx, 0)
	if err != nil {
		t.Fatalf("ListLeads() error = %v", err)
	}
	if len(leads) != 2 {
		t.Errorf("expected 2 leads, got %d", len(leads))
	}
}

func TestCreateLead_NilNMLSPreserved(t *testing.T) {
	store := newTestStore()

	lead := &domain.Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Acme", NMLSID: nil}
	if err := store.CreateLead(context.Background(), lead); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}

	leads, _ := store.ListLeads(context.Background(), 1)
	if leads[0].NMLSID != nil {
		t.Errorf("NMLSID = %v, want nil", *leads[0].NMLSID)
	}
}

func TestCreateLead_CancelledContext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := New(logger) // real delay so cancellation wins

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lead := &domain.Lead{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Company: "Acme"}
	if err := store.CreateLead(ctx, lead); err == nil {
		t.Error("expected context error")
	}
}

func TestListLeads_NewestFirst(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	first := &domain.Lead{FirstName: "First", LastName: "Lead", Email: "a@example.com", Company: "Acme"}
	second := &domain.Lead{FirstName: "Second", LastName: "Lead", Email: "b@example.com", Company: "Acme"}
	store.CreateLead(ctx, first)
	store.CreateLead(ctx, second)

	leads, err := store.ListLeads(ctx, 1)
	if err != nil {
		t.Fatalf("ListLeads() error = %v", err)
	}
	if len(leads) != 1 || leads[0].FirstName != "Second" {
		t.Errorf("expected newest lead first, got %+v", leads)
	}
}

func TestRecordInteraction(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	in := &domain.Interaction{
		Endpoint: "transcribe",
		Model:    "gemini-1.5-flash",
		Status:   domain.InteractionStatusSuccess,
		Duration: 1500,
	}
	if err := store.RecordInteraction(ctx, in); err != nil {
		t.Fatalf("RecordInteraction() error = %v", err)
	}

	got, err := store.ListInteractions(ctx, 10)
	if err != nil {
		t.Fatalf("ListInteractions() error = %v", err)
	}
	if len(got) != 1 || got[0].Endpoint != "transcribe" {
		t.Errorf("unexpected interactions: %+v", got)
	}
}

func TestMock(t *testing.T) {
	if !newTestStore().Mock() {
		t.Error("memory store must report itself as the mock path")
	}
}
