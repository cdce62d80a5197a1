package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// VOICEVOX Text-to-Speech Service
// Talks to a locally running VOICEVOX engine over HTTP. Synthesis is a
// two-call protocol: /audio_query builds a synthesis request from free
// text, /synthesis turns that request into wav bytes. The speed of the
// generated speech is controlled by overwriting the query's speedScale.
// ---------------------------------------------------------------------------

const (
	DefaultVoicevoxURL = "http://127.0.0.1:50021"
	DefaultSpeakerID   = 1
)

// VoicevoxService handles text-to-speech via the VOICEVOX engine API.
type VoicevoxService struct {
	baseURL   string
	speakerID int
	speed     float64
	client    *http.Client
}

// Ensure VoicevoxService implements TTSService at compile time.
var _ TTSService = (*VoicevoxService)(nil)

// NewVoicevoxService creates a VOICEVOX client for one speaker/speed
// combination. timeout 0 means no client timeout; requests block until
// the engine responds.
func NewVoicevoxService(baseURL string, speakerID int, speed float64, timeout time.Duration) *VoicevoxService {
	if baseURL == "" {
		baseURL = DefaultVoicevoxURL
	}
	if speakerID <= 0 {
		speakerID = DefaultSpeakerID
	}
	return &VoicevoxService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		speakerID: speakerID,
		speed:     speed,
		client:    &http.Client{Timeout: timeout},
	}
}

// Synthesize converts text to speech using the VOICEVOX engine.
// Implements the TTSService interface.
func (s *VoicevoxService) Synthesize(ctx context.Context, text string) (*TTSResponse, error) {
	query, err := s.audioQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	// Overwrite the engine's default speaking speed with ours. The query is
	// kept as a generic map so every other engine field passes through
	// untouched.
	query["speedScale"] = s.speed

	audioData, err := s.synthesis(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("VOICEVOX returned empty audio")
	}

	log.Printf("[VOICEVOX] Speech generated (speaker=%d, speed=%.2f, %d bytes)",
		s.speakerID, s.speed, len(audioData))

	return &TTSResponse{
		AudioData: audioData,
		Format:    "wav",
	}, nil
}

// audioQuery asks the engine to build a synthesis request for the text.
func (s *VoicevoxService) audioQuery(ctx context.Context, text string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("speaker", strconv.Itoa(s.speakerID))

	endpoint := fmt.Sprintf("%s/audio_query?%s", s.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio_query request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("VOICEVOX audio_query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("VOICEVOX audio_query returned status %d: %s", resp.StatusCode, string(body))
	}

	var query map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&query); err != nil {
		return nil, fmt.Errorf("failed to decode audio_query response: %w", err)
	}
	return query, nil
}

// synthesis turns a (speed-adjusted) query into raw wav bytes.
func (s *VoicevoxService) synthesis(ctx context.Context, query map[string]interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal synthesis query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/synthesis?speaker=%d", s.baseURL, s.speakerID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("VOICEVOX synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("VOICEVOX synthesis returned status %d: %s", resp.StatusCode, string(body))
	}

	// The response body IS the audio file
	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesis audio response: %w", err)
	}
	return audioData, nil
}
