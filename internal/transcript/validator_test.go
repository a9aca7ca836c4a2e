package transcript

import (
	"strings"
	"testing"
)

func TestValidateAcceptsRealUtterance(t *testing.T) {
	res := Validate("Hi, tell me about your solution")
	if !res.Valid {
		t.Fatalf("Validate() rejected a real utterance: %+v", res)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		reason RejectReason
	}{
		{"empty", "", ReasonTooShort},
		{"whitespace only", "   \t\n", ReasonTooShort},
		{"three chars", "hey", ReasonTooShort},
		{"three chars padded", "  hi \n", ReasonTooShort},
		{"single long word", "absolutely", ReasonTooFewWords},
		{"filler um", "um", ReasonFiller},
		{"filler hmm", "hmm", ReasonFiller},
		{"filler stretched", "ummm", ReasonFiller},
		{"filler mixed case", "Hmmm", ReasonFiller},
		{"filler padded", "  uh  ", ReasonFiller},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.input)
			if res.Valid {
				t.Fatalf("Validate(%q) accepted, want rejection", tc.input)
			}
			if res.Reason != tc.reason {
				t.Fatalf("Validate(%q) reason = %q, want %q", tc.input, res.Reason, tc.reason)
			}
		})
	}
}

func TestValidateBoundaries(t *testing.T) {
	// Exactly 4 chars and 2 words is the smallest acceptable utterance.
	if res := Validate("no go"); !res.Valid {
		t.Fatalf("Validate(\"no go\") rejected: %+v", res)
	}
	if res := Validate("a b"); res.Valid {
		t.Fatalf("Validate(\"a b\") accepted (3 chars), want too_short")
	}
	long := strings.Repeat("x", 50)
	if res := Validate(long); res.Valid || res.Reason != ReasonTooFewWords {
		t.Fatalf("Validate(long single word) = %+v, want too_few_words", res)
	}
}
