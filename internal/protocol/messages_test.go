package protocol

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseStreamRequestValid(t *testing.T) {
	raw := []byte(`{
		"transcript": "Hi, tell me about your solution",
		"scenarioPrompt": "You are the CFO of a mid-market SaaS company.",
		"persona": {"difficulty": 4, "seniority": "vp", "callType": "outbound"},
		"voiceSettings": {"voiceId": "v1", "speed": 1.05},
		"conversationHistory": [{"role": "rep", "content": "Hello!"}],
		"callId": "call-123"
	}`)

	req, err := ParseStreamRequest(raw)
	if err != nil {
		t.Fatalf("ParseStreamRequest() error = %v", err)
	}
	if req.Persona == nil || req.Persona.Difficulty != 4 {
		t.Fatalf("Persona = %+v, want difficulty 4", req.Persona)
	}
	if req.VoiceSettings == nil || req.VoiceSettings.VoiceID != "v1" {
		t.Fatalf("VoiceSettings = %+v, want voiceId v1", req.VoiceSettings)
	}
	if len(req.ConversationHistory) != 1 || req.ConversationHistory[0].Role != "rep" {
		t.Fatalf("ConversationHistory = %+v", req.ConversationHistory)
	}
}

func TestParseStreamRequestMissingFields(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing transcript", `{"scenarioPrompt": "x"}`},
		{"blank transcript", `{"transcript": "   ", "scenarioPrompt": "x"}`},
		{"missing scenario", `{"transcript": "hi there"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStreamRequest([]byte(tc.raw))
			if err == nil {
				t.Fatalf("ParseStreamRequest(%q) succeeded, want error", tc.raw)
			}
			if tc.name != "not json" && !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestAudioChunkEventFallbackShape(t *testing.T) {
	evt := AudioChunkEvent{
		Type:               TypeAudioChunk,
		ChunkID:            2,
		Text:               "Sure, go ahead.",
		UseSpeechSynthesis: true,
		FallbackReason:     "api_error",
	}
	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["useSpeechSynthesis"] != true {
		t.Fatalf("useSpeechSynthesis missing from %s", data)
	}
	if _, hasAudio := got["content"]; hasAudio {
		t.Fatalf("fallback event must not carry audio content: %s", data)
	}
	if got["fallbackReason"] != "api_error" {
		t.Fatalf("fallbackReason = %v, want api_error", got["fallbackReason"])
	}
}
