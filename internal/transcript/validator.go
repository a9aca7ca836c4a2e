package transcript

import "strings"

// RejectReason explains why an utterance was filtered out before any model
// call. Rejections are cost control, not user errors: the caller answers with
// 204 No Content and the rep simply keeps talking.
type RejectReason string

const (
	ReasonTooShort    RejectReason = "too_short"
	ReasonTooFewWords RejectReason = "too_few_words"
	ReasonFiller      RejectReason = "filler"
)

const (
	minChars = 4
	minWords = 2
)

// fillerTokens are standalone hesitation noises the speech recognizer
// frequently commits between real sentences.
var fillerTokens = map[string]struct{}{
	"um":   {},
	"umm":  {},
	"ummm": {},
	"uh":   {},
	"uhh":  {},
	"uhhh": {},
	"uhm":  {},
	"hm":   {},
	"hmm":  {},
	"hmmm": {},
	"mm":   {},
	"mhm":  {},
	"erm":  {},
}

type Result struct {
	Valid  bool
	Reason RejectReason
}

// Validate is a pure predicate over a raw rep utterance. It never touches the
// network; rejecting here is what keeps filler from burning model tokens.
// The filler check runs first so a committed "hmmm" reports as filler rather
// than a length failure.
func Validate(utterance string) Result {
	trimmed := strings.TrimSpace(utterance)
	if _, ok := fillerTokens[strings.ToLower(trimmed)]; ok {
		return Result{Reason: ReasonFiller}
	}
	if len(trimmed) < minChars {
		return Result{Reason: ReasonTooShort}
	}
	if len(strings.Fields(trimmed)) < minWords {
		return Result{Reason: ReasonTooFewWords}
	}
	return Result{Valid: true}
}
