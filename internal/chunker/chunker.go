package chunker

import (
	"strings"
	"unicode/utf8"
)

// Chunk is a contiguous run of generated text ready for speech synthesis
// before the full model response has finished streaming.
type Chunk struct {
	ID         int
	Text       string
	IsComplete bool
}

// Flush thresholds. A sentence boundary always flushes; otherwise the buffer
// flushes once it outgrows maxBufferLen, or at a comma once past commaFlushLen
// so audio starts on natural pauses instead of mid-clause.
const (
	maxBufferLen  = 30
	commaFlushLen = 20
)

const sentenceEnders = ".!?:;"

// EmitFunc receives each chunk the moment it is flushed. Returning an error
// aborts the split (the caller is gone, so stop accumulating).
type EmitFunc func(Chunk) error

// Splitter accumulates streamed model fragments and yields speakable chunks
// with strictly increasing ids starting at 1. One Splitter serves exactly one
// response; it is not safe for concurrent use and never needs to be.
type Splitter struct {
	emit   EmitFunc
	accum  strings.Builder
	buf    string
	nextID int
}

func NewSplitter(emit EmitFunc) *Splitter {
	return &Splitter{emit: emit, nextID: 1}
}

// Write appends one streamed fragment and flushes any chunk the heuristics
// consider ready. Chunks stream out immediately rather than being batched;
// that is what lets synthesis begin before the reply is complete.
func (s *Splitter) Write(fragment string) error {
	if fragment == "" {
		return nil
	}
	s.accum.WriteString(fragment)
	s.buf += fragment

	// Thresholds count characters, not bytes; multibyte text must not
	// flush early.
	switch {
	case strings.ContainsAny(s.buf, sentenceEnders):
		return s.flush(true)
	case utf8.RuneCountInString(s.buf) > maxBufferLen:
		return s.flush(false)
	case strings.Contains(s.buf, ",") && utf8.RuneCountInString(s.buf) > commaFlushLen:
		return s.flush(false)
	}
	return nil
}

// Close flushes whatever remains after the upstream stream ends. The final
// chunk is always complete: there is nothing left to continue it.
func (s *Splitter) Close() error {
	return s.flush(true)
}

// FullText is the concatenation of every fragment seen, flushed or not. The
// completion event reports this so clients can verify nothing was dropped.
func (s *Splitter) FullText() string {
	return s.accum.String()
}

// Count is the number of chunks emitted so far.
func (s *Splitter) Count() int {
	return s.nextID - 1
}

func (s *Splitter) flush(complete bool) error {
	text := strings.TrimSpace(s.buf)
	s.buf = ""
	if text == "" {
		return nil
	}

	chunk := Chunk{ID: s.nextID, Text: text, IsComplete: complete}
	s.nextID++
	return s.emit(chunk)
}
