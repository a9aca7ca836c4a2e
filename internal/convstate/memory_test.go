package convstate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreAppendAndRecent(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		if err := s.Append(ctx, Turn{ConversationID: "c1", Role: "user", Content: content}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	turns, err := s.Recent(ctx, "c1", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len = %d, want 2", len(turns))
	}
	if turns[0].Content != "two" || turns[1].Content != "three" {
		t.Fatalf("turns = %q, %q; want chronological tail", turns[0].Content, turns[1].Content)
	}
	for _, turn := range turns {
		if turn.ID == "" {
			t.Fatal("turn ID not assigned")
		}
		if turn.CreatedAt.IsZero() {
			t.Fatal("CreatedAt not assigned")
		}
	}
}

func TestMemoryStoreRecentUnknownConversation(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	turns, err := s.Recent(context.Background(), "missing", 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if turns != nil {
		t.Fatalf("turns = %v, want nil", turns)
	}
}

func TestMemoryStorePurge(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	if err := s.Append(ctx, Turn{ConversationID: "c1", Role: "user", Content: "hi"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Purge(ctx, "c1"); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if err := s.Purge(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Purge err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpireIdle(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()

	if err := s.Append(ctx, Turn{ConversationID: "stale", Role: "user", Content: "hello?"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	s.expireIdle()

	if got := s.count(); got != 0 {
		t.Fatalf("count = %d, want 0 after expiry", got)
	}
}
