// Package storage owns the on-disk artifact layout: where audio lines and
// rendered clips live, and which artifacts already exist from earlier runs.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"kamishibai/internal/models"
)

type Storage struct {
	AudioDir string
	ClipsDir string
}

func New(audioDir, clipsDir string) *Storage {
	return &Storage{
		AudioDir: audioDir,
		ClipsDir: clipsDir,
	}
}

// EnsureDirs creates the audio and clip directories. Called exactly once,
// before any item is processed, so concurrent items never race on mkdir.
func (s *Storage) EnsureDirs() error {
	for _, dir := range []string{s.AudioDir, s.ClipsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	return nil
}

// AudioPath returns the audio artifact path for a 1-based item index.
func (s *Storage) AudioPath(index int) string {
	return filepath.Join(s.AudioDir, models.AudioFileName(index))
}

// ClipPath returns the clip artifact path for a 1-based item index.
func (s *Storage) ClipPath(index int) string {
	return filepath.Join(s.ClipsDir, models.ClipFileName(index))
}

// Exists reports whether an artifact is already present on disk. A file is
// the cache key: deleting it forces the artifact to be rebuilt on the next
// run.
func (s *Storage) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteAudio persists synthesized audio bytes for an item.
func (s *Storage) WriteAudio(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file %s: %w", path, err)
	}
	return nil
}
