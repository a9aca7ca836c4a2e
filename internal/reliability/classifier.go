package reliability

// Fallback reasons reported to the client when server-side synthesis fails.
// The client reacts to `no audio` uniformly (on-device speech synthesis); the
// reason is kept for dashboards and debugging.
const (
	FallbackAPIError   = "api_error"
	FallbackNoAPIKey   = "no_api_key"
	FallbackElevenLabs = "elevenlabs_error"
	FallbackGoogleTTS  = "google_tts_error"
)

// NormalizeFallbackReason maps arbitrary provider codes onto the closed set
// the client understands. Unknown codes degrade to api_error. Runs at the
// emit site so nothing outside the set ever reaches the wire.
func NormalizeFallbackReason(reason string) string {
	switch reason {
	case FallbackAPIError, FallbackNoAPIKey, FallbackElevenLabs, FallbackGoogleTTS:
		return reason
	default:
		return FallbackAPIError
	}
}
