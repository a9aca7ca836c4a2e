package tts

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/reliability"
)

// MockSynthesizer is a local stand-in used when no hosted voice is
// configured. It "synthesizes" the text bytes themselves so tests can assert
// on payloads without decoding real audio.
type MockSynthesizer struct{}

func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

func (s *MockSynthesizer) Name() string { return "mock" }

func (s *MockSynthesizer) Synthesize(_ context.Context, text string, _ Settings) Result {
	if strings.TrimSpace(text) == "" {
		return failure(reliability.FallbackAPIError, "empty synthesis text")
	}
	return Result{
		OK:          true,
		AudioBase64: base64.StdEncoding.EncodeToString([]byte(text)),
		Format:      "mock_text_bytes",
	}
}
