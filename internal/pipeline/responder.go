package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/brain"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/chunker"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/convstate"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/observability"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/persona"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/protocol"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/reliability"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/transcript"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/tts"
)

// Emitter delivers one wire event to the connected client. Implementations
// must preserve call order; the pipeline relies on it for chunk sequencing.
type Emitter interface {
	Emit(event any) error
}

// ErrTranscriptRejected marks utterances filtered out before any model call.
// The HTTP layer maps it to 204 No Content.
var ErrTranscriptRejected = errors.New("transcript rejected")

// Responder orchestrates one roleplay exchange: validate the utterance,
// compile the prospect prompt, stream the model reply through the chunker,
// and resolve audio for each chunk before moving to the next.
type Responder struct {
	brain         brain.Adapter
	synth         tts.Synthesizer
	store         convstate.Store
	metrics       *observability.Metrics
	historyWindow int
}

func NewResponder(adapter brain.Adapter, synth tts.Synthesizer, store convstate.Store, metrics *observability.Metrics, historyWindow int) *Responder {
	if historyWindow <= 0 {
		historyWindow = persona.HistoryWindow
	}
	return &Responder{
		brain:         adapter,
		synth:         synth,
		store:         store,
		metrics:       metrics,
		historyWindow: historyWindow,
	}
}

// Respond runs one full exchange, emitting events until a terminal completion
// or error event. The returned error is for logging; everything the client
// needs is already on the wire.
func (r *Responder) Respond(ctx context.Context, req protocol.StreamRequest, emit Emitter) error {
	if res := transcript.Validate(req.Transcript); !res.Valid {
		return fmt.Errorf("%w: %s", ErrTranscriptRejected, res.Reason)
	}

	r.metrics.ActiveStreams.Inc()
	defer r.metrics.ActiveStreams.Dec()
	r.metrics.StreamEvents.WithLabelValues("started").Inc()

	conversationID := req.CallID
	if conversationID == "" {
		conversationID = "conv-" + uuid.NewString()
	}

	history := r.resolveHistory(ctx, conversationID, req.ConversationHistory)
	systemPrompt := persona.Compile(req.ScenarioPrompt, personaModifiers(req.Persona), history)

	// Persistence is best effort; a storage hiccup must not kill the stream.
	r.appendTurn(ctx, conversationID, "rep", req.Transcript)

	started := time.Now()
	firstAudioSeen := false

	splitter := chunker.NewSplitter(func(c chunker.Chunk) error {
		if err := emit.Emit(protocol.TextChunkEvent{
			Type:       protocol.TypeTextChunk,
			Content:    c.Text,
			ChunkID:    c.ID,
			IsComplete: c.IsComplete,
		}); err != nil {
			return err
		}
		if req.VoiceSettings == nil {
			return nil
		}

		res := r.synth.Synthesize(ctx, c.Text, synthesisSettings(req.VoiceSettings))
		if res.OK {
			if !firstAudioSeen {
				firstAudioSeen = true
				r.metrics.ObserveFirstAudioLatency(time.Since(started))
			}
			return emit.Emit(protocol.AudioChunkEvent{
				Type:    protocol.TypeAudioChunk,
				ChunkID: c.ID,
				Content: res.AudioBase64,
				Format:  res.Format,
			})
		}

		reason := reliability.NormalizeFallbackReason(res.FallbackReason)
		r.metrics.ProviderErrors.WithLabelValues(r.synth.Name(), reason).Inc()
		log.Printf("pipeline: synthesis fallback conversation=%s chunk=%d reason=%s err=%s",
			conversationID, c.ID, reason, res.Err)
		return emit.Emit(protocol.AudioChunkEvent{
			Type:               protocol.TypeAudioChunk,
			ChunkID:            c.ID,
			Text:               c.Text,
			UseSpeechSynthesis: true,
			FallbackReason:     reason,
		})
	})

	msg := brain.MessageRequest{
		ConversationID: conversationID,
		TurnID:         uuid.NewString(),
		SystemPrompt:   systemPrompt,
		InputText:      req.Transcript,
	}

	if _, err := r.brain.StreamResponse(ctx, msg, splitter.Write); err != nil {
		r.metrics.StreamEvents.WithLabelValues("failed").Inc()
		if ctx.Err() != nil {
			// Client already disconnected; nobody is listening for the event.
			return err
		}
		if emitErr := emit.Emit(protocol.ErrorEvent{
			Type:  protocol.TypeError,
			Error: "response generation failed",
			Code:  "brain_error",
		}); emitErr != nil {
			return errors.Join(err, emitErr)
		}
		return err
	}

	if err := splitter.Close(); err != nil {
		r.metrics.StreamEvents.WithLabelValues("failed").Inc()
		return err
	}

	fullText := splitter.FullText()
	r.appendTurn(ctx, conversationID, "prospect", fullText)
	r.metrics.ChunksPerResponse.Observe(float64(splitter.Count()))
	r.metrics.StreamEvents.WithLabelValues("completed").Inc()

	return emit.Emit(protocol.CompletionEvent{
		Type:         protocol.TypeCompletion,
		FullResponse: fullText,
		TotalChunks:  splitter.Count(),
		Timestamp:    time.Now().UnixMilli(),
	})
}

// resolveHistory prefers the client-supplied transcript copy and falls back
// to stored turns when the client sends none but names an ongoing call.
func (r *Responder) resolveHistory(ctx context.Context, conversationID string, supplied []protocol.HistoryTurn) []persona.Turn {
	if len(supplied) > 0 {
		out := make([]persona.Turn, 0, len(supplied))
		for _, h := range supplied {
			out = append(out, persona.Turn{Role: h.Role, Content: h.Content})
		}
		return out
	}
	if r.store == nil {
		return nil
	}
	stored, err := r.store.Recent(ctx, conversationID, r.historyWindow)
	if err != nil {
		log.Printf("pipeline: load history conversation=%s: %v", conversationID, err)
		return nil
	}
	out := make([]persona.Turn, 0, len(stored))
	for _, t := range stored {
		out = append(out, persona.Turn{Role: t.Role, Content: t.Content})
	}
	return out
}

func (r *Responder) appendTurn(ctx context.Context, conversationID, role, content string) {
	if r.store == nil || content == "" {
		return
	}
	err := r.store.Append(ctx, convstate.Turn{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	})
	if err != nil {
		log.Printf("pipeline: append turn conversation=%s role=%s: %v", conversationID, role, err)
	}
}

func personaModifiers(spec *protocol.PersonaSpec) persona.Modifiers {
	if spec == nil {
		return persona.Modifiers{}
	}
	return persona.Modifiers{
		Cooperation: spec.Difficulty,
		Seniority:   spec.Seniority,
		CallType:    spec.CallType,
	}
}

func synthesisSettings(vs *protocol.VoiceSettings) tts.Settings {
	return tts.Settings{
		VoiceID:         vs.VoiceID,
		ModelID:         vs.ModelID,
		Stability:       vs.Stability,
		SimilarityBoost: vs.SimilarityBoost,
		Speed:           vs.Speed,
		LanguageCode:    vs.LanguageCode,
	}
}
