package tts

import (
	"context"
	"testing"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/reliability"
)

type scriptedSynthesizer struct {
	name    string
	results []Result
	calls   int
}

func (s *scriptedSynthesizer) Name() string { return s.name }

func (s *scriptedSynthesizer) Synthesize(context.Context, string, Settings) Result {
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx]
}

func ok() Result { return Result{OK: true, AudioBase64: "YQ==", Format: "mp3"} }

func fail(reason string) Result {
	return Result{Err: "boom", FallbackReason: reason}
}

func TestFailoverPrefersPrimary(t *testing.T) {
	primary := &scriptedSynthesizer{name: "p", results: []Result{ok()}}
	fallback := &scriptedSynthesizer{name: "f", results: []Result{ok()}}
	s := NewFailoverSynthesizer(primary, fallback)

	res := s.Synthesize(context.Background(), "hello there", Settings{})
	if !res.OK {
		t.Fatalf("Synthesize failed: %+v", res)
	}
	if primary.calls != 1 || fallback.calls != 0 {
		t.Fatalf("calls primary=%d fallback=%d, want 1/0", primary.calls, fallback.calls)
	}
}

func TestFailoverSwitchesAndSticks(t *testing.T) {
	primary := &scriptedSynthesizer{name: "p", results: []Result{fail(reliability.FallbackElevenLabs)}}
	fallback := &scriptedSynthesizer{name: "f", results: []Result{ok()}}
	s := NewFailoverSynthesizer(primary, fallback)

	if res := s.Synthesize(context.Background(), "first", Settings{}); !res.OK {
		t.Fatalf("first call failed: %+v", res)
	}
	if res := s.Synthesize(context.Background(), "second", Settings{}); !res.OK {
		t.Fatalf("second call failed: %+v", res)
	}
	// Second call must go straight to the fallback.
	if primary.calls != 1 || fallback.calls != 2 {
		t.Fatalf("calls primary=%d fallback=%d, want 1/2", primary.calls, fallback.calls)
	}
}

func TestFailoverRecoversToPrimary(t *testing.T) {
	primary := &scriptedSynthesizer{name: "p", results: []Result{fail(reliability.FallbackAPIError), ok()}}
	fallback := &scriptedSynthesizer{name: "f", results: []Result{ok(), fail(reliability.FallbackGoogleTTS)}}
	s := NewFailoverSynthesizer(primary, fallback)

	if res := s.Synthesize(context.Background(), "one", Settings{}); !res.OK {
		t.Fatalf("call one failed: %+v", res)
	}
	// Fallback is active and now fails; primary should be retried and win.
	if res := s.Synthesize(context.Background(), "two", Settings{}); !res.OK {
		t.Fatalf("call two failed: %+v", res)
	}
	// Sticky bit cleared: next call goes to primary first again.
	if res := s.Synthesize(context.Background(), "three", Settings{}); !res.OK {
		t.Fatalf("call three failed: %+v", res)
	}
	if primary.calls != 3 {
		t.Fatalf("primary calls = %d, want 3", primary.calls)
	}
}

func TestFailoverBothFailReturnsStructuredFailure(t *testing.T) {
	primary := &scriptedSynthesizer{name: "p", results: []Result{fail(reliability.FallbackElevenLabs)}}
	fallback := &scriptedSynthesizer{name: "f", results: []Result{fail(reliability.FallbackGoogleTTS)}}
	s := NewFailoverSynthesizer(primary, fallback)

	res := s.Synthesize(context.Background(), "chunk", Settings{})
	if res.OK {
		t.Fatalf("Synthesize succeeded, want failure")
	}
	if res.FallbackReason != reliability.FallbackGoogleTTS {
		t.Fatalf("FallbackReason = %q, want last failure %q", res.FallbackReason, reliability.FallbackGoogleTTS)
	}
}
