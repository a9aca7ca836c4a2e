package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/config"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/convstate"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/observability"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/pipeline"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/protocol"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/transcript"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/tts"
)

const maxRequestBody = 1 << 20

// Responder runs one full roleplay exchange, emitting wire events in order.
type Responder interface {
	Respond(ctx context.Context, req protocol.StreamRequest, emit pipeline.Emitter) error
}

type Server struct {
	cfg       config.Config
	responder Responder
	store     convstate.Store
	synth     tts.Synthesizer
	metrics   *observability.Metrics
}

func New(cfg config.Config, responder Responder, store convstate.Store, synth tts.Synthesizer, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:       cfg,
		responder: responder,
		store:     store,
		synth:     synth,
		metrics:   metrics,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/roleplay/stream", s.handleStream)
	r.Post("/v1/voice/preview", s.handlePreview)
	r.Get("/v1/conversations/{id}", s.handleGetConversation)
	r.Delete("/v1/conversations/{id}", s.handleDeleteConversation)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ready",
		"ttsProvider":  s.ttsProviderName(),
		"storeBacking": s.storeBacking(),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	req, err := protocol.ParseStreamRequest(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// Filtered utterances answer before the stream opens: the rep keeps
	// talking and nothing downstream is spent.
	if res := transcript.Validate(req.Transcript); !res.Valid {
		s.metrics.StreamEvents.WithLabelValues("rejected").Inc()
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if s.responder == nil {
		respondError(w, http.StatusInternalServerError, "brain_not_configured", "response generation is not configured")
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", err.Error())
		return
	}

	if err := s.responder.Respond(r.Context(), req, sse); err != nil {
		if errors.Is(err, pipeline.ErrTranscriptRejected) {
			return
		}
		log.Printf("httpapi: stream call=%s: %v", req.CallID, err)
	}
}

type previewRequest struct {
	Text          string                  `json:"text"`
	VoiceSettings *protocol.VoiceSettings `json:"voiceSettings,omitempty"`
}

type previewResponse struct {
	Audio  string `json:"audio"`
	Format string `json:"format"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	if s.synth == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "no synthesizer configured")
		return
	}

	settings := tts.Settings{}
	if vs := req.VoiceSettings; vs != nil {
		settings = tts.Settings{
			VoiceID:         vs.VoiceID,
			ModelID:         vs.ModelID,
			Stability:       vs.Stability,
			SimilarityBoost: vs.SimilarityBoost,
			Speed:           vs.Speed,
			LanguageCode:    vs.LanguageCode,
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res := s.synth.Synthesize(ctx, req.Text, settings)
	if !res.OK {
		s.metrics.ProviderErrors.WithLabelValues(s.synth.Name(), res.FallbackReason).Inc()
		respondError(w, http.StatusBadGateway, res.FallbackReason, res.Err)
		return
	}
	respondJSON(w, http.StatusOK, previewResponse{Audio: res.AudioBase64, Format: res.Format})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_conversation_id", "missing conversation id")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "no conversation store configured")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	turns, err := s.store.Recent(r.Context(), id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if turns == nil {
		turns = []convstate.Turn{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"conversationId": id,
		"turns":          turns,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		respondError(w, http.StatusBadRequest, "invalid_conversation_id", "missing conversation id")
		return
	}
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "no conversation store configured")
		return
	}

	if err := s.store.Purge(r.Context(), id); err != nil {
		if errors.Is(err, convstate.ErrNotFound) {
			respondError(w, http.StatusNotFound, "conversation_not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ttsProviderName() string {
	if s.synth == nil {
		return "none"
	}
	return s.synth.Name()
}

func (s *Server) storeBacking() string {
	switch s.store.(type) {
	case *convstate.PostgresStore:
		return "postgres"
	case *convstate.MemoryStore:
		return "memory"
	default:
		return "none"
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
