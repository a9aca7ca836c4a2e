package convstate

import (
	"context"
	"errors"
	"time"
)

// Turn is one persisted utterance within a roleplay conversation.
type Turn struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Sentiment      string    `json:"sentiment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("conversation not found")

// Store persists conversation turns across streaming requests.
type Store interface {
	Append(ctx context.Context, turn Turn) error
	Recent(ctx context.Context, conversationID string, limit int) ([]Turn, error)
	Purge(ctx context.Context, conversationID string) error
	Close() error
}
