package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/voicelend/site-gateway/internal/config"
	"github.com/voicelend/site-gateway/internal/domain"
	"github.com/voicelend/site-gateway/internal/recorder"
	"github.com/voicelend/site-gateway/internal/storage"
	"github.com/voicelend/site-gateway/internal/validate"
)

// Handler implements the gateway's API endpoints.
type Handler struct {
	cfg      *config.Config
	upstream domain.Upstream
	store    storage.Store
	recorder *recorder.Recorder
	logger   *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(cfg *config.Config, upstream domain.Upstream, store storage.Store, rec *recorder.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		upstream: upstream,
		store:    store,
		recorder: rec,
		logger:   logger,
	}
}

type healthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	GeminiConfigured bool   `json:"geminiConfigured"`
	MockPersistence  bool   `json:"mockPersistence"`
	APIBase          string `json:"apiBase,omitempty"`
}

// Health reports liveness and which degraded paths are active.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		GeminiConfigured: h.upstream.Configured(),
		MockPersistence:  h.store.Mock(),
		APIBase:          h.cfg.Server.PublicAPIBase,
	})
}

// GenerateContent validates a generation request and forwards the
// provider's response verbatim. Validation failures never reach the
// upstream wrapper.
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := validate.Generate(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	AddLogField(r.Context(), "model", req.Model)

	start := time.Now()
	raw, err := h.upstream.GenerateContent(r.Context(), req)
	h.recorder.Record(r.Context(), "generate-content", req.Model, start, err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

type transcribeResponse struct {
	Transcription string `json:"transcription"`
	Success       bool   `json:"success"`
}

// Transcribe validates a transcription request, forwards the audio, and
// returns only the extracted text. The audio payload is not retained
// after this handler returns.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	audio, err := validate.Transcribe(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	AddLogField(r.Context(), "mime_type", audio.MIMEType)

	start := time.Now()
	result, err := h.upstream.Transcribe(r.Context(), audio)
	h.recorder.Record(r.Context(), "transcribe", "", start, err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, transcribeResponse{
		Transcription: result.Text,
		Success:       true,
	})
}

type createLeadResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// CreateLead validates and persists a lead submission. When the mock
// store is active the write still succeeds, with a fabricated ID.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	lead, err := validate.Lead(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.CreateLead(r.Context(), lead); err != nil {
		h.logger.Error("lead persistence failed",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, r, domain.ErrInternal())
		return
	}

	AddLogField(r.Context(), "lead_id", lead.ID)
	writeJSON(w, http.StatusCreated, createLeadResponse{ID: lead.ID, Success: true})
}

type listLeadsResponse struct {
	Leads []*domain.Lead `json:"leads"`
}

// ListLeads returns recent leads. Reachable only through AdminMiddleware.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit := 100
	leads, err := h.store.ListLeads(r.Context(), limit)
	if err != nil {
		h.logger.Error("lead listing failed", slog.String("error", err.Error()))
		writeError(w, r, domain.ErrInternal())
		return
	}

	if leads == nil {
		leads = []*domain.Lead{}
	}
	writeJSON(w, http.StatusOK, listLeadsResponse{Leads: leads})
}
