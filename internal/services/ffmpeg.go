package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// FFmpegService
// All media work is delegated to the external ffmpeg/ffprobe binaries:
// rendering one still image + one audio file into a fixed-duration clip,
// probing audio for its exact duration, and stream-copy concatenation of
// the finished clips.
// ---------------------------------------------------------------------------

type FFmpegService struct {
	ffmpegBin  string
	ffprobeBin string
	tempDir    string
}

func NewFFmpegService(ffmpegBin, ffprobeBin, tempDir string) *FFmpegService {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegService{
		ffmpegBin:  ffmpegBin,
		ffprobeBin: ffprobeBin,
		tempDir:    tempDir,
	}
}

// RenderClip creates a video clip from a still image and an audio file.
// The image is looped as the sole video input, the audio is the sole audio
// track, and the output is truncated to exactly duration seconds. Width
// and height are rounded down to even integers, required by yuv420p.
func (s *FFmpegService) RenderClip(ctx context.Context, imagePath, audioPath, outputPath string, duration float64) error {
	args := renderArgs(imagePath, audioPath, outputPath, duration)

	cmd := exec.CommandContext(ctx, s.ffmpegBin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg render clip failed: %w", err)
	}
	return nil
}

// renderArgs builds the ffmpeg argument list for a single clip render.
func renderArgs(imagePath, audioPath, outputPath string, duration float64) []string {
	return []string{
		"-y",
		"-loop", "1", "-i", imagePath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-c:a", "aac", "-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-t", formatDuration(duration),
		"-vf", "scale=trunc(iw/2)*2:trunc(ih/2)*2",
		outputPath,
	}
}

// formatDuration renders the probed duration without rounding it away.
func formatDuration(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// ConcatenateClips stream-copies the ordered clips into one output file.
// The clip order in clipPaths is the output order; no re-encoding happens.
func (s *FFmpegService) ConcatenateClips(ctx context.Context, clipPaths []string, outputPath string) error {
	// Write the concat manifest: one "file '<path>'" line per clip, in order.
	listPath := filepath.Join(s.tempDir, fmt.Sprintf("concat_%s.txt", uuid.New().String()))
	if err := writeConcatList(listPath, clipPaths); err != nil {
		return err
	}
	defer os.Remove(listPath)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy", // Copy without re-encoding
		outputPath,
	}

	cmd := exec.CommandContext(ctx, s.ffmpegBin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg concatenate failed: %w", err)
	}
	return nil
}

// writeConcatList writes the ffmpeg concat demuxer manifest.
func writeConcatList(listPath string, clipPaths []string) error {
	f, err := os.Create(listPath)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}

	for _, path := range clipPaths {
		fmt.Fprintf(f, "file '%s'\n", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(listPath)
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	return nil
}

// probeResult is the subset of the ffprobe JSON output the probe needs.
type probeResult struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	DurationTS int64  `json:"duration_ts"`
}

// ProbeAudioDuration returns the exact playback duration of an audio file
// in seconds. For PCM wav the stream time base is 1/sample_rate, so
// duration_ts/sample_rate is frame_count/sample_rate exactly, unlike the
// pre-rounded format=duration string.
func (s *FFmpegService) ProbeAudioDuration(ctx context.Context, audioPath string) (float64, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return 0, fmt.Errorf("audio file %s missing: %w", audioPath, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("audio file %s is empty", audioPath)
	}

	args := []string{
		"-v", "error",
		"-show_streams",
		"-of", "json",
		audioPath,
	}

	cmd := exec.CommandContext(ctx, s.ffprobeBin, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w", audioPath, err)
	}

	return parseAudioDuration(output)
}

// parseAudioDuration extracts the first audio stream's duration from
// ffprobe JSON output.
func parseAudioDuration(output []byte) (float64, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, stream := range result.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		rate, err := strconv.Atoi(stream.SampleRate)
		if err != nil || rate <= 0 {
			return 0, fmt.Errorf("invalid sample rate %q in ffprobe output", stream.SampleRate)
		}
		if stream.DurationTS <= 0 {
			return 0, fmt.Errorf("invalid duration_ts %d in ffprobe output", stream.DurationTS)
		}
		return float64(stream.DurationTS) / float64(rate), nil
	}
	return 0, fmt.Errorf("no audio stream found in ffprobe output")
}
