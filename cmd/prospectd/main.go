package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rinseeprince/sales-training-simulator-sub001/internal/brain"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/config"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/convstate"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/httpapi"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/observability"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/pipeline"
	"github.com/rinseeprince/sales-training-simulator-sub001/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := convstate.NewStore(ctx, cfg.DatabaseURL, cfg.ConversationTTL)
	if err != nil {
		log.Fatalf("conversation store init failed: %v", err)
	}
	defer store.Close()

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:             cfg.BrainMode,
		HTTPURL:          cfg.BrainHTTPURL,
		APIKey:           cfg.BrainAPIKey,
		Model:            cfg.BrainModel,
		Temperature:      cfg.BrainTemperature,
		PresencePenalty:  cfg.BrainPresencePenalty,
		FrequencyPenalty: cfg.BrainFrequencyPenalty,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}

	synth := buildSynthesizer(cfg)

	responder := pipeline.NewResponder(adapter, synth, store, metrics, cfg.HistoryWindow)

	api := httpapi.New(cfg, responder, store, synth, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	if ms, ok := store.(*convstate.MemoryStore); ok {
		ms.StartJanitor(runCtx, time.Minute)
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}

func buildSynthesizer(cfg config.Config) tts.Synthesizer {
	tryElevenLabs := func() tts.Synthesizer {
		if strings.TrimSpace(cfg.ElevenLabsAPIKey) == "" {
			return nil
		}
		return tts.NewElevenLabsSynthesizer(tts.ElevenLabsConfig{
			APIKey:              cfg.ElevenLabsAPIKey,
			WSBaseURL:           cfg.ElevenLabsWSBaseURL,
			DefaultVoiceID:      cfg.ElevenLabsTTSVoice,
			DefaultModelID:      cfg.ElevenLabsTTSModel,
			DefaultOutputFormat: cfg.ElevenLabsTTSOutputFormat,
		})
	}
	tryGoogle := func() tts.Synthesizer {
		if strings.TrimSpace(cfg.GoogleTTSAPIKey) == "" {
			return nil
		}
		return tts.NewGoogleSynthesizer(tts.GoogleConfig{
			APIKey:       cfg.GoogleTTSAPIKey,
			BaseURL:      cfg.GoogleTTSBaseURL,
			DefaultVoice: cfg.GoogleTTSVoice,
			LanguageCode: cfg.GoogleTTSLanguageCode,
		})
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.TTSProvider))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "elevenlabs":
		p := tryElevenLabs()
		if p == nil {
			log.Fatalf("TTS_PROVIDER=elevenlabs but ELEVENLABS_API_KEY is not set")
		}
		log.Printf("tts provider: elevenlabs")
		return p
	case "google":
		p := tryGoogle()
		if p == nil {
			log.Fatalf("TTS_PROVIDER=google but GOOGLE_TTS_API_KEY is not set")
		}
		log.Printf("tts provider: google")
		return p
	case "mock":
		log.Printf("tts provider: mock")
		return tts.NewMockSynthesizer()
	case "auto":
		primary := tryElevenLabs()
		fallback := tryGoogle()
		switch {
		case primary != nil && fallback != nil:
			log.Printf("tts provider: elevenlabs with google fallback")
			return tts.NewFailoverSynthesizer(primary, fallback)
		case primary != nil:
			log.Printf("tts provider: elevenlabs")
			return primary
		case fallback != nil:
			log.Printf("tts provider: google")
			return fallback
		default:
			log.Printf("tts provider: mock (no hosted voice keys configured)")
			return tts.NewMockSynthesizer()
		}
	default:
		log.Fatalf("invalid TTS_PROVIDER: %q (expected auto|elevenlabs|google|mock)", cfg.TTSProvider)
		return nil
	}
}
