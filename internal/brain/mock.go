package brain

import (
	"context"
	"strings"
)

// MockAdapter produces a canned prospect reply, streamed word by word. Used
// in tests and when no brain endpoint is configured.
type MockAdapter struct {
	Reply string
}

func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		Reply: "Honestly, we already have a tool for that. What makes yours different?",
	}
}

func (a *MockAdapter) StreamResponse(ctx context.Context, _ MessageRequest, onDelta DeltaHandler) (MessageResponse, error) {
	words := strings.SplitAfter(a.Reply, " ")
	var out strings.Builder
	for _, w := range words {
		select {
		case <-ctx.Done():
			return MessageResponse{}, ctx.Err()
		default:
		}
		out.WriteString(w)
		if onDelta != nil {
			if err := onDelta(w); err != nil {
				return MessageResponse{}, err
			}
		}
	}
	return MessageResponse{Text: out.String()}, nil
}
