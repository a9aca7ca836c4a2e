package tts

import "context"

// Settings configures one synthesis call. Zero values mean provider defaults.
type Settings struct {
	VoiceID         string
	ModelID         string
	Stability       float64
	SimilarityBoost float64
	Speed           float64
	LanguageCode    string
}

// Result is the outcome of exactly one synthesis attempt. Synthesizers never
// return a Go error: every failure is normalized into the failure shape so
// the pipeline can downgrade it to a client-side fallback without branching
// on error types.
type Result struct {
	OK             bool
	AudioBase64    string
	Format         string
	Err            string
	FallbackReason string
}

// Synthesizer converts one finished text chunk into audio. One attempt, no
// internal retry; retry policy belongs to the caller (currently: none).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, settings Settings) Result
	Name() string
}

func failure(reason, detail string) Result {
	return Result{Err: detail, FallbackReason: reason}
}
