package convstate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type conversation struct {
	turns          []Turn
	lastActivityAt time.Time
}

// MemoryStore keeps conversations in-process with a TTL sweep for
// abandoned calls. Suitable for local runs and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	ttl           time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryStore{
		conversations: make(map[string]*conversation),
		ttl:           ttl,
	}
}

func (s *MemoryStore) Append(_ context.Context, turn Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[turn.ConversationID]
	if !ok {
		c = &conversation{}
		s.conversations[turn.ConversationID] = c
	}
	c.turns = append(c.turns, turn)
	c.lastActivityAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, conversationID string, limit int) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[conversationID]
	if !ok || len(c.turns) == 0 {
		return nil, nil
	}
	arr := c.turns
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]Turn, 0, limit)
	for i := len(arr) - limit; i < len(arr); i++ {
		out = append(out, arr[i])
	}
	return out, nil
}

func (s *MemoryStore) Purge(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[conversationID]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, conversationID)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// StartJanitor sweeps idle conversations until ctx is canceled.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireIdle()
			}
		}
	}()
}

func (s *MemoryStore) expireIdle() {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.conversations {
		if now.Sub(c.lastActivityAt) >= s.ttl {
			delete(s.conversations, id)
		}
	}
}

func (s *MemoryStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
