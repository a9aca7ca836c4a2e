package persona

import (
	"fmt"
	"strings"
)

// Modifiers are the three independent behavioral axes for the prospect.
// Unrecognized or missing values fall back to the mid-point of each axis.
type Modifiers struct {
	Cooperation int    // 1 (hostile) .. 5 (eager)
	Seniority   string // junior | manager | director | vp | c-level
	CallType    string // inbound | outbound | referral | follow-up
}

// Turn is one prior exchange, already owned by the client.
type Turn struct {
	Role    string
	Content string
}

// HistoryWindow bounds how many recent turns are folded into the prompt so a
// long call cannot blow up the model context.
const HistoryWindow = 8

const (
	defaultCooperation = 3
	defaultSeniority   = "director"
	defaultCallType    = "outbound"
)

// instructionBlock pins the model to the prospect role. Everything else in
// the prompt is scenario- and persona-dependent.
const instructionBlock = `You are playing the PROSPECT in a sales roleplay call. ` +
	`You are never the salesperson and never coach the rep. ` +
	`Stay fully in character, answer in natural spoken language, and keep ` +
	`replies short enough to be spoken aloud in one breath or two.`

var cooperationModifiers = map[int]string{
	1: "You are hostile and dismissive. You interrupt, push back on every claim, and look for reasons to end the call.",
	2: "You are skeptical and guarded. You need strong evidence before conceding any point.",
	3: "You are neutral and businesslike. You engage when the rep earns it and disengage when they ramble.",
	4: "You are open and curious. You volunteer context when asked good questions.",
	5: "You are eager and cooperative. You actively help the rep move the conversation forward.",
}

var seniorityModifiers = map[string]string{
	"junior":   "You are an individual contributor. You care about day-to-day pain and defer budget questions upward.",
	"manager":  "You are a line manager. You care about team productivity and need a story your director will accept.",
	"director": "You are a director. You weigh vendor risk, integration cost, and team impact before anything else.",
	"vp":       "You are a VP. You think in quarters and headcount, and you have little patience for feature tours.",
	"c-level":  "You are a C-level executive. You only care about strategic outcomes and expect the rep to respect your time.",
}

var callTypeModifiers = map[string]string{
	"inbound":   "You requested this call, so you have a concrete problem in mind, but you have not committed to anything.",
	"outbound":  "This is a cold call you did not ask for. Your default is to get off the phone unless the rep earns the next minute.",
	"referral":  "A colleague you trust suggested this conversation, so you extend some goodwill, but you still verify claims.",
	"follow-up": "You have spoken with this rep before. You remember the gist of the last call and expect progress, not repetition.",
}

// Compile deterministically assembles the system prompt from the scenario,
// the behavior modifiers, and a bounded window of recent history. It is a
// pure function of its inputs so it can be unit-tested without any network.
func Compile(scenario string, mods Modifiers, history []Turn) string {
	var b strings.Builder
	b.WriteString(instructionBlock)
	b.WriteString("\n\n## Scenario\n")
	b.WriteString(strings.TrimSpace(scenario))

	b.WriteString("\n\n## Behavior\n")
	b.WriteString(cooperationModifier(mods.Cooperation))
	b.WriteString("\n")
	b.WriteString(seniorityModifier(mods.Seniority))
	b.WriteString("\n")
	b.WriteString(callTypeModifier(mods.CallType))

	recent := recentTurns(history, HistoryWindow)
	if len(recent) > 0 {
		b.WriteString("\n\n## Conversation so far\n")
		for _, turn := range recent {
			b.WriteString(fmt.Sprintf("%s: %s\n", NormalizeRole(turn.Role), strings.TrimSpace(turn.Content)))
		}
	}

	return b.String()
}

// NormalizeRole maps product-side role names onto the two canonical roles the
// chat completion call expects: the rep speaks as "user", the prospect (and
// anything previously generated) as "assistant".
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "rep", "user", "salesperson", "sales_rep":
		return "user"
	default:
		return "assistant"
	}
}

func cooperationModifier(level int) string {
	if s, ok := cooperationModifiers[level]; ok {
		return s
	}
	return cooperationModifiers[defaultCooperation]
}

func seniorityModifier(seniority string) string {
	key := strings.ToLower(strings.TrimSpace(seniority))
	if s, ok := seniorityModifiers[key]; ok {
		return s
	}
	return seniorityModifiers[defaultSeniority]
}

func callTypeModifier(callType string) string {
	key := strings.ToLower(strings.TrimSpace(callType))
	if s, ok := callTypeModifiers[key]; ok {
		return s
	}
	return callTypeModifiers[defaultCallType]
}

func recentTurns(history []Turn, limit int) []Turn {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
