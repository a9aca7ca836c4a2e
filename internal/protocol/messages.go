package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// EventType identifies server-sent event payload variants.
type EventType string

const (
	TypeTextChunk  EventType = "text_chunk"
	TypeAudioChunk EventType = "audio_chunk"
	TypeCompletion EventType = "completion"
	TypeError      EventType = "error"
)

// TextChunkEvent carries one speakable run of generated text.
type TextChunkEvent struct {
	Type       EventType `json:"type"`
	Content    string    `json:"content"`
	ChunkID    int       `json:"chunkId"`
	IsComplete bool      `json:"isComplete"`
}

// AudioChunkEvent resolves a chunk's audio. Exactly one of the two shapes is
// emitted per chunk: synthesized audio (Content holds base64 bytes), or the
// fallback variant (UseSpeechSynthesis true, Text echoes the chunk so the
// client can speak it on-device).
type AudioChunkEvent struct {
	Type               EventType `json:"type"`
	ChunkID            int       `json:"chunkId"`
	Content            string    `json:"content,omitempty"`
	Format             string    `json:"format,omitempty"`
	Text               string    `json:"text,omitempty"`
	UseSpeechSynthesis bool      `json:"useSpeechSynthesis,omitempty"`
	FallbackReason     string    `json:"fallbackReason,omitempty"`
}

// CompletionEvent terminates a successful stream.
type CompletionEvent struct {
	Type         EventType `json:"type"`
	FullResponse string    `json:"fullResponse"`
	TotalChunks  int       `json:"totalChunks"`
	Timestamp    int64     `json:"timestamp"`
}

// ErrorEvent terminates a failed stream. Mutually exclusive with completion.
type ErrorEvent struct {
	Type  EventType `json:"type"`
	Error string    `json:"error"`
	Code  string    `json:"code,omitempty"`
}

// HistoryTurn is one prior exchange supplied by the client. The client owns
// the canonical transcript; the server only sees a copy per request.
type HistoryTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Sentiment string `json:"sentiment,omitempty"`
}

// PersonaSpec selects the behavioral modifiers for the prospect.
type PersonaSpec struct {
	Difficulty int    `json:"difficulty,omitempty"`
	Seniority  string `json:"seniority,omitempty"`
	CallType   string `json:"callType,omitempty"`
}

// VoiceSettings configures server-side synthesis. Absent settings mean the
// stream is text-only and no audio resolution is attempted.
type VoiceSettings struct {
	VoiceID         string  `json:"voiceId,omitempty"`
	ModelID         string  `json:"modelId,omitempty"`
	Stability       float64 `json:"stability,omitempty"`
	SimilarityBoost float64 `json:"similarityBoost,omitempty"`
	Speed           float64 `json:"speed,omitempty"`
	LanguageCode    string  `json:"languageCode,omitempty"`
}

// StreamRequest is the inbound body of the streaming roleplay endpoint.
type StreamRequest struct {
	Transcript          string         `json:"transcript"`
	ScenarioPrompt      string         `json:"scenarioPrompt"`
	Persona             *PersonaSpec   `json:"persona,omitempty"`
	VoiceSettings       *VoiceSettings `json:"voiceSettings,omitempty"`
	ConversationHistory []HistoryTurn  `json:"conversationHistory,omitempty"`
	CallID              string         `json:"callId,omitempty"`
}

var ErrInvalidRequest = errors.New("invalid stream request")

// ParseStreamRequest decodes and validates the inbound body. Field-level
// problems wrap ErrInvalidRequest so callers can map them to 400.
func ParseStreamRequest(raw []byte) (StreamRequest, error) {
	var req StreamRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return StreamRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return StreamRequest{}, fmt.Errorf("%w: transcript is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.ScenarioPrompt) == "" {
		return StreamRequest{}, fmt.Errorf("%w: scenarioPrompt is required", ErrInvalidRequest)
	}
	return req, nil
}
