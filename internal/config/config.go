package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the roleplay streaming service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	ConversationTTL time.Duration
	HistoryWindow   int

	BrainMode             string
	BrainHTTPURL          string
	BrainAPIKey           string
	BrainModel            string
	BrainTemperature      float64
	BrainPresencePenalty  float64
	BrainFrequencyPenalty float64

	TTSProvider string

	ElevenLabsAPIKey          string
	ElevenLabsWSBaseURL       string
	ElevenLabsTTSVoice        string
	ElevenLabsTTSModel        string
	ElevenLabsTTSOutputFormat string

	GoogleTTSAPIKey       string
	GoogleTTSBaseURL      string
	GoogleTTSVoice        string
	GoogleTTSLanguageCode string

	DatabaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "prospectd"),
		ShutdownTimeout:  15 * time.Second,
		ConversationTTL:  30 * time.Minute,
		HistoryWindow:    8,
		BrainMode:        envOrDefault("BRAIN_MODE", "auto"),
		BrainHTTPURL:     stringsTrimSpace("BRAIN_HTTP_URL"),
		BrainAPIKey:      stringsTrimSpace("BRAIN_API_KEY"),
		// Mid-size chat model keeps per-turn latency low enough for voice.
		BrainModel:            envOrDefault("BRAIN_MODEL", "gpt-4o-mini"),
		BrainTemperature:      0.8,
		BrainPresencePenalty:  0.3,
		BrainFrequencyPenalty: 0.3,
		TTSProvider:           envOrDefault("TTS_PROVIDER", "auto"),
		ElevenLabsAPIKey:      stringsTrimSpace("ELEVENLABS_API_KEY"),
		ElevenLabsWSBaseURL:   envOrDefault("ELEVENLABS_WS_BASE_URL", "wss://api.elevenlabs.io"),
		ElevenLabsTTSVoice:    envOrDefault("ELEVENLABS_TTS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		ElevenLabsTTSModel:    envOrDefault("ELEVENLABS_TTS_MODEL_ID", "eleven_multilingual_v2"),
		// mp3 keeps the base64 payloads small for browser playback.
		ElevenLabsTTSOutputFormat: envOrDefault("ELEVENLABS_TTS_OUTPUT_FORMAT", "mp3_44100_128"),
		GoogleTTSAPIKey:           stringsTrimSpace("GOOGLE_TTS_API_KEY"),
		GoogleTTSBaseURL:          envOrDefault("GOOGLE_TTS_BASE_URL", "https://texttospeech.googleapis.com"),
		GoogleTTSVoice:            envOrDefault("GOOGLE_TTS_VOICE", "en-US-Neural2-D"),
		GoogleTTSLanguageCode:     envOrDefault("GOOGLE_TTS_LANGUAGE_CODE", "en-US"),
		DatabaseURL:               stringsTrimSpace("DATABASE_URL"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ConversationTTL, err = durationFromEnv("APP_CONVERSATION_TTL", cfg.ConversationTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryWindow, err = intFromEnv("APP_HISTORY_WINDOW", cfg.HistoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainTemperature, err = floatFromEnv("BRAIN_TEMPERATURE", cfg.BrainTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainPresencePenalty, err = floatFromEnv("BRAIN_PRESENCE_PENALTY", cfg.BrainPresencePenalty)
	if err != nil {
		return Config{}, err
	}
	cfg.BrainFrequencyPenalty, err = floatFromEnv("BRAIN_FREQUENCY_PENALTY", cfg.BrainFrequencyPenalty)
	if err != nil {
		return Config{}, err
	}

	if cfg.ConversationTTL < time.Minute {
		return Config{}, fmt.Errorf("APP_CONVERSATION_TTL must be at least 1m")
	}
	if cfg.HistoryWindow <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_WINDOW must be positive")
	}
	if cfg.BrainTemperature < 0 || cfg.BrainTemperature > 2 {
		return Config{}, fmt.Errorf("BRAIN_TEMPERATURE must be in [0, 2]")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}
