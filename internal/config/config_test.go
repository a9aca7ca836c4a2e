package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.BrainMode != "auto" {
		t.Fatalf("BrainMode = %q, want %q", cfg.BrainMode, "auto")
	}
	if cfg.BrainHTTPURL != "" {
		t.Fatalf("BrainHTTPURL = %q, want empty default", cfg.BrainHTTPURL)
	}
	if cfg.HistoryWindow != 8 {
		t.Fatalf("HistoryWindow = %d, want 8", cfg.HistoryWindow)
	}
	if cfg.ConversationTTL != 30*time.Minute {
		t.Fatalf("ConversationTTL = %v, want 30m", cfg.ConversationTTL)
	}
}

func TestLoadUsesExplicitBrainHTTPURL(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("BRAIN_HTTP_URL", "http://localhost:7777/v1/chat/completions")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BrainHTTPURL != "http://localhost:7777/v1/chat/completions" {
		t.Fatalf("BrainHTTPURL = %q, want explicit value", cfg.BrainHTTPURL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"short conversation ttl", "APP_CONVERSATION_TTL", "5s"},
		{"bad duration", "APP_SHUTDOWN_TIMEOUT", "soon"},
		{"zero history window", "APP_HISTORY_WINDOW", "0"},
		{"temperature out of range", "BRAIN_TEMPERATURE", "3.5"},
		{"non-numeric penalty", "BRAIN_PRESENCE_PENALTY", "warm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setCoreEnvEmpty(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load() accepted %s=%q, want error", tc.key, tc.value)
			}
		})
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_CONVERSATION_TTL",
		"APP_HISTORY_WINDOW",
		"BRAIN_MODE",
		"BRAIN_HTTP_URL",
		"BRAIN_API_KEY",
		"BRAIN_MODEL",
		"BRAIN_TEMPERATURE",
		"BRAIN_PRESENCE_PENALTY",
		"BRAIN_FREQUENCY_PENALTY",
		"TTS_PROVIDER",
		"ELEVENLABS_API_KEY",
		"ELEVENLABS_WS_BASE_URL",
		"ELEVENLABS_TTS_VOICE_ID",
		"ELEVENLABS_TTS_MODEL_ID",
		"ELEVENLABS_TTS_OUTPUT_FORMAT",
		"GOOGLE_TTS_API_KEY",
		"GOOGLE_TTS_BASE_URL",
		"GOOGLE_TTS_VOICE",
		"GOOGLE_TTS_LANGUAGE_CODE",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
