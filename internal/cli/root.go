// Package cli wires configuration, services, and the worker behind the
// kamishibai command.
package cli

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kamishibai/internal/assets"
	"kamishibai/internal/config"
	"kamishibai/internal/models"
	"kamishibai/internal/script"
	"kamishibai/internal/services"
	"kamishibai/internal/storage"
	"kamishibai/internal/worker"
)

func NewRootCommand() *cobra.Command {
	var (
		speed   float64
		speaker int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "kamishibai <images-dir> <lines-file>",
		Short: "Build a narrated video from still images and VOICEVOX speech",
		Long: `kamishibai pairs each paragraph of a narration file with one image,
synthesizes the paragraph with a running VOICEVOX engine, renders each
pair into a clip of exactly the audio's duration, and concatenates the
clips in order into a single video.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], args[1], speed, speaker, output)
		},
	}

	cmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "speaking speed scale")
	cmd.Flags().IntVar(&speaker, "speaker", services.DefaultSpeakerID, "VOICEVOX speaker ID")
	cmd.Flags().StringVarP(&output, "output", "o", "output.mp4", "output video file")

	return cmd
}

func run(cmd *cobra.Command, imagesDir, linesFile string, speed float64, speaker int, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if info, err := os.Stat(imagesDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: image directory %s does not exist", worker.ErrInput, imagesDir)
	}
	if _, err := os.Stat(linesFile); err != nil {
		return fmt.Errorf("%w: narration file %s does not exist", worker.ErrInput, linesFile)
	}

	log.Printf("[CLI] run status: %s", models.RunStatusCollecting)
	images, err := assets.List(imagesDir)
	if err != nil {
		return fmt.Errorf("%w: %v", worker.ErrInput, err)
	}

	blocks, err := script.Read(linesFile)
	if err != nil {
		return fmt.Errorf("%w: %v", worker.ErrInput, err)
	}

	store := storage.New(cfg.AudioDir, cfg.ClipsDir)
	tts := services.NewVoicevoxService(
		cfg.VoicevoxURL,
		speaker,
		speed,
		time.Duration(cfg.VoicevoxTimeoutSeconds)*time.Second,
	)
	ffmpeg := services.NewFFmpegService(cfg.FFmpegBin, cfg.FFprobeBin, "")

	w := worker.New(tts, ffmpeg, ffmpeg, store, cfg.Workers)

	log.Printf("[CLI] run status: %s", models.RunStatusAligning)
	items, err := w.Align(images, blocks)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx, items, output)
}
