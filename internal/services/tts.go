package services

import "context"

// ---------------------------------------------------------------------------
// TTSService — common interface for text-to-speech providers
// The worker drives whichever provider is configured without knowing the
// underlying protocol.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider.
type TTSResponse struct {
	AudioData []byte
	Format    string // "wav", "mp3", etc.
}

// TTSService is the interface that any TTS provider must implement.
type TTSService interface {
	// Synthesize converts text to audio. Exactly one attempt is made; the
	// caller decides how to contain a failure.
	Synthesize(ctx context.Context, text string) (*TTSResponse, error)
}
