package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// VOICEVOX (TTS service, must already be running)
	VoicevoxURL            string
	VoicevoxTimeoutSeconds int // 0 = no timeout, block until the service responds

	// Artifact directories
	AudioDir string
	ClipsDir string

	// Media tool binaries
	FFmpegBin  string
	FFprobeBin string

	// Worker
	Workers int // 1 = strictly sequential (reference behavior)
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		VoicevoxURL:            getEnv("VOICEVOX_URL", "http://127.0.0.1:50021"),
		VoicevoxTimeoutSeconds: getEnvInt("VOICEVOX_TIMEOUT_SECONDS", 90),
		AudioDir:               getEnv("KAMISHIBAI_AUDIO_DIR", "audio"),
		ClipsDir:               getEnv("KAMISHIBAI_CLIPS_DIR", "clips"),
		FFmpegBin:              getEnv("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:             getEnv("FFPROBE_BIN", "ffprobe"),
		Workers:                getEnvInt("KAMISHIBAI_WORKERS", 1),
	}

	if _, err := url.ParseRequestURI(cfg.VoicevoxURL); err != nil {
		return nil, fmt.Errorf("VOICEVOX_URL is not a valid URL: %w", err)
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	if cfg.VoicevoxTimeoutSeconds < 0 {
		cfg.VoicevoxTimeoutSeconds = 0
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
