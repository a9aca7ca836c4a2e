package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/reliability"
)

type GoogleConfig struct {
	APIKey       string
	BaseURL      string
	DefaultVoice string
	LanguageCode string
}

// GoogleSynthesizer calls the Cloud Text-to-Speech REST endpoint with API-key
// auth. It is the hosted fallback voice: lower quality than ElevenLabs but a
// separate failure domain.
type GoogleSynthesizer struct {
	cfg    GoogleConfig
	client *http.Client
}

func NewGoogleSynthesizer(cfg GoogleConfig) *GoogleSynthesizer {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://texttospeech.googleapis.com"
	}
	if strings.TrimSpace(cfg.LanguageCode) == "" {
		cfg.LanguageCode = "en-US"
	}
	return &GoogleSynthesizer{
		cfg:    cfg,
		client: &http.Client{Timeout: 12 * time.Second},
	}
}

func (s *GoogleSynthesizer) Name() string { return "google" }

type googleSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
	} `json:"audioConfig"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
	Error        *struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text string, settings Settings) Result {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return failure(reliability.FallbackNoAPIKey, "google tts api key is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return failure(reliability.FallbackGoogleTTS, "empty synthesis text")
	}

	var req googleSynthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = s.cfg.LanguageCode
	if strings.TrimSpace(settings.LanguageCode) != "" {
		req.Voice.LanguageCode = strings.TrimSpace(settings.LanguageCode)
	}
	req.Voice.Name = s.cfg.DefaultVoice
	req.AudioConfig.AudioEncoding = "MP3"
	if settings.Speed > 0 {
		req.AudioConfig.SpeakingRate = clamp(settings.Speed, 0.25, 4.0, 1.0)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return failure(reliability.FallbackGoogleTTS, fmt.Sprintf("marshal request: %v", err))
	}

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/v1/text:synthesize?key=" + s.cfg.APIKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return failure(reliability.FallbackGoogleTTS, fmt.Sprintf("create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(httpReq)
	if err != nil {
		return failure(reliability.FallbackAPIError, fmt.Sprintf("send request: %v", err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return failure(reliability.FallbackAPIError, fmt.Sprintf("read response: %v", err))
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		detail := strings.TrimSpace(string(body))
		if len(detail) > 512 {
			detail = detail[:512]
		}
		return failure(reliability.FallbackGoogleTTS, fmt.Sprintf("google tts status %d: %s", res.StatusCode, detail))
	}

	var out googleSynthesizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return failure(reliability.FallbackGoogleTTS, fmt.Sprintf("decode response: %v", err))
	}
	if out.Error != nil {
		return failure(reliability.FallbackGoogleTTS, out.Error.Message)
	}
	if strings.TrimSpace(out.AudioContent) == "" {
		return failure(reliability.FallbackGoogleTTS, "response contained no audio")
	}

	return Result{OK: true, AudioBase64: out.AudioContent, Format: "mp3"}
}
