package tts

import (
	"context"
	"sync/atomic"
)

// NewFailoverSynthesizer prefers the primary backend and switches to the
// fallback when a primary attempt fails. Once the fallback succeeds it stays
// active until it fails; then primary is retried. Both failing is still a
// non-fatal outcome: the last structured failure propagates so the client
// falls back to on-device speech synthesis for that chunk.
func NewFailoverSynthesizer(primary, fallback Synthesizer) Synthesizer {
	return &failoverSynthesizer{primary: primary, fallback: fallback}
}

type failoverSynthesizer struct {
	primary        Synthesizer
	fallback       Synthesizer
	fallbackActive atomic.Bool
}

func (s *failoverSynthesizer) Name() string { return "failover" }

func (s *failoverSynthesizer) Synthesize(ctx context.Context, text string, settings Settings) Result {
	if s.fallbackActive.Load() {
		res := s.fallback.Synthesize(ctx, text, settings)
		if res.OK {
			return res
		}
		// Fallback failed after being active; try primary again.
		if prRes := s.primary.Synthesize(ctx, text, settings); prRes.OK {
			s.fallbackActive.Store(false)
			return prRes
		}
		return res
	}

	res := s.primary.Synthesize(ctx, text, settings)
	if res.OK {
		return res
	}
	fbRes := s.fallback.Synthesize(ctx, text, settings)
	if fbRes.OK {
		s.fallbackActive.Store(true)
		return fbRes
	}
	return fbRes
}
