package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/reliability"
)

type ElevenLabsConfig struct {
	APIKey              string
	WSBaseURL           string
	DefaultVoiceID      string
	DefaultModelID      string
	DefaultOutputFormat string
}

// ElevenLabsSynthesizer speaks the realtime stream-input websocket API. Each
// Synthesize call opens a stream, sends the whole chunk, and drains audio
// until the provider marks it final. Chunks are short (20-30 chars of text)
// so the per-call handshake cost is acceptable and keeps the adapter
// stateless across requests.
type ElevenLabsSynthesizer struct {
	cfg ElevenLabsConfig
}

func NewElevenLabsSynthesizer(cfg ElevenLabsConfig) *ElevenLabsSynthesizer {
	if strings.TrimSpace(cfg.WSBaseURL) == "" {
		cfg.WSBaseURL = "wss://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.DefaultModelID) == "" {
		cfg.DefaultModelID = "eleven_multilingual_v2"
	}
	if strings.TrimSpace(cfg.DefaultOutputFormat) == "" {
		cfg.DefaultOutputFormat = "mp3_44100_128"
	}
	return &ElevenLabsSynthesizer{cfg: cfg}
}

func (s *ElevenLabsSynthesizer) Name() string { return "elevenlabs" }

func (s *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string, settings Settings) Result {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return failure(reliability.FallbackNoAPIKey, "elevenlabs api key is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return failure(reliability.FallbackElevenLabs, "empty synthesis text")
	}

	voiceID := strings.TrimSpace(settings.VoiceID)
	if voiceID == "" {
		voiceID = s.cfg.DefaultVoiceID
	}
	if voiceID == "" {
		return failure(reliability.FallbackElevenLabs, "voice_id is required")
	}
	modelID := strings.TrimSpace(settings.ModelID)
	if modelID == "" {
		modelID = s.cfg.DefaultModelID
	}

	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()

	u, err := url.Parse(strings.TrimRight(s.cfg.WSBaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(voiceID) + "/stream-input")
	if err != nil {
		return failure(reliability.FallbackElevenLabs, err.Error())
	}
	q := u.Query()
	q.Set("model_id", modelID)
	q.Set("output_format", s.cfg.DefaultOutputFormat)
	q.Set("auto_mode", "true")
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("xi-api-key", s.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		return failure(reliability.FallbackAPIError, fmt.Sprintf("dial tts websocket: %v", err))
	}
	defer conn.Close()

	// Prime the stream as documented for stream-input flows, then send the
	// whole chunk and close input so the provider finalizes promptly.
	prime := map[string]any{
		"text":           " ",
		"voice_settings": voiceSettingsPayload(settings),
	}
	if err := writeWithDeadline(ctx, conn, prime); err != nil {
		return failure(reliability.FallbackAPIError, fmt.Sprintf("prime stream: %v", err))
	}
	if err := writeWithDeadline(ctx, conn, map[string]any{"text": text + " ", "try_trigger_generation": true}); err != nil {
		return failure(reliability.FallbackAPIError, fmt.Sprintf("send text: %v", err))
	}
	if err := writeWithDeadline(ctx, conn, map[string]any{"text": ""}); err != nil {
		return failure(reliability.FallbackAPIError, fmt.Sprintf("close input: %v", err))
	}

	var audio strings.Builder
	for {
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetReadDeadline(deadline)
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if audio.Len() > 0 {
				// Provider closed after sending audio but before a final
				// marker; treat what we have as the chunk's audio.
				return Result{OK: true, AudioBase64: audio.String(), Format: s.cfg.DefaultOutputFormat}
			}
			return failure(reliability.FallbackAPIError, fmt.Sprintf("read tts stream: %v", err))
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			continue
		}
		if msg := asString(raw["error"]); msg != "" {
			return failure(reliability.FallbackElevenLabs, msg)
		}
		if a := asString(raw["audio"]); a != "" {
			audio.WriteString(a)
		}
		if asBool(raw["isFinal"]) || asBool(raw["is_final"]) {
			if audio.Len() == 0 {
				return failure(reliability.FallbackElevenLabs, "stream finalized without audio")
			}
			return Result{OK: true, AudioBase64: audio.String(), Format: s.cfg.DefaultOutputFormat}
		}
	}
}

func voiceSettingsPayload(settings Settings) map[string]any {
	stability := clamp(settings.Stability, 0, 1, 0.42)
	similarity := clamp(settings.SimilarityBoost, 0, 1, 0.85)
	speed := clamp(settings.Speed, 0.7, 1.2, 1.0)
	return map[string]any{
		"stability":        stability,
		"similarity_boost": similarity,
		"speed":            speed,
	}
}

func clamp(v, lo, hi, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func writeWithDeadline(ctx context.Context, conn *websocket.Conn, payload map[string]any) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	return conn.WriteJSON(payload)
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
