package persona

import (
	"fmt"
	"strings"
	"testing"
)

func TestCompileIncludesScenarioVerbatim(t *testing.T) {
	scenario := "You are the CFO of Meridian Logistics evaluating fleet software."
	prompt := Compile(scenario, Modifiers{}, nil)

	if !strings.Contains(prompt, scenario) {
		t.Fatalf("compiled prompt missing scenario text:\n%s", prompt)
	}
	if !strings.Contains(prompt, "PROSPECT") {
		t.Fatalf("compiled prompt missing role instruction:\n%s", prompt)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	mods := Modifiers{Cooperation: 2, Seniority: "vp", CallType: "referral"}
	history := []Turn{{Role: "rep", Content: "Hi there"}, {Role: "prospect", Content: "Who is this?"}}

	a := Compile("scenario", mods, history)
	b := Compile("scenario", mods, history)
	if a != b {
		t.Fatal("Compile is not deterministic for identical inputs")
	}
}

func TestCompileModifierAxes(t *testing.T) {
	prompt := Compile("s", Modifiers{Cooperation: 1, Seniority: "c-level", CallType: "inbound"}, nil)
	if !strings.Contains(prompt, cooperationModifiers[1]) {
		t.Fatalf("missing cooperation modifier:\n%s", prompt)
	}
	if !strings.Contains(prompt, seniorityModifiers["c-level"]) {
		t.Fatalf("missing seniority modifier:\n%s", prompt)
	}
	if !strings.Contains(prompt, callTypeModifiers["inbound"]) {
		t.Fatalf("missing call type modifier:\n%s", prompt)
	}
}

func TestCompileDefaultsToMidpoints(t *testing.T) {
	cases := []Modifiers{
		{},
		{Cooperation: 0, Seniority: "", CallType: ""},
		{Cooperation: 99, Seniority: "intern", CallType: "smoke-signal"},
	}
	for i, mods := range cases {
		prompt := Compile("s", mods, nil)
		if !strings.Contains(prompt, cooperationModifiers[defaultCooperation]) {
			t.Fatalf("case %d: missing default cooperation modifier", i)
		}
		if !strings.Contains(prompt, seniorityModifiers[defaultSeniority]) {
			t.Fatalf("case %d: missing default seniority modifier", i)
		}
		if !strings.Contains(prompt, callTypeModifiers[defaultCallType]) {
			t.Fatalf("case %d: missing default call type modifier", i)
		}
	}
}

func TestCompileHistoryWindow(t *testing.T) {
	history := make([]Turn, 20)
	for i := range history {
		role := "rep"
		if i%2 == 1 {
			role = "prospect"
		}
		history[i] = Turn{Role: role, Content: fmt.Sprintf("turn-%02d", i)}
	}

	prompt := Compile("s", Modifiers{}, history)

	for i := 0; i < 12; i++ {
		if strings.Contains(prompt, fmt.Sprintf("turn-%02d", i)) {
			t.Fatalf("prompt contains turn-%02d, outside the 8-turn window", i)
		}
	}
	for i := 12; i < 20; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("turn-%02d", i)) {
			t.Fatalf("prompt missing turn-%02d, inside the 8-turn window", i)
		}
	}
}

func TestCompileOmitsHistorySectionWhenEmpty(t *testing.T) {
	prompt := Compile("s", Modifiers{}, nil)
	if strings.Contains(prompt, "Conversation so far") {
		t.Fatalf("empty history should omit the history section:\n%s", prompt)
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := map[string]string{
		"rep":         "user",
		"REP":         "user",
		"user":        "user",
		"salesperson": "user",
		"prospect":    "assistant",
		"assistant":   "assistant",
		"":            "assistant",
		"narrator":    "assistant",
	}
	for in, want := range cases {
		if got := NormalizeRole(in); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}
