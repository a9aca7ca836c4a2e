package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MessageRequest is the normalized request sent to the text-generation call.
// The system prompt already carries scenario, persona modifiers, and the
// recent history window; InputText is the rep's latest utterance.
type MessageRequest struct {
	ConversationID string
	TurnID         string
	SystemPrompt   string
	InputText      string
}

// MessageResponse is the final response after streaming deltas.
type MessageResponse struct {
	Text string
}

// DeltaHandler receives streaming text fragments in arrival order.
type DeltaHandler func(delta string) error

// Adapter bridges the roleplay pipeline to a streaming chat-completion call.
type Adapter interface {
	StreamResponse(ctx context.Context, req MessageRequest, onDelta DeltaHandler) (MessageResponse, error)
}

// Config controls adapter construction.
type Config struct {
	Mode             string
	HTTPURL          string
	APIKey           string
	Model            string
	Temperature      float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

func NewAdapter(cfg Config) (Adapter, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.HTTPURL) != "" {
			return NewHTTPAdapter(cfg), nil
		}
		return NewMockAdapter(), nil
	case "http":
		if strings.TrimSpace(cfg.HTTPURL) == "" {
			return nil, errors.New("brain HTTP url is required for http mode")
		}
		return NewHTTPAdapter(cfg), nil
	case "mock":
		return NewMockAdapter(), nil
	default:
		return nil, fmt.Errorf("unsupported brain adapter mode %q", cfg.Mode)
	}
}
