// Package worker drives the per-item synthesis → probe → render pipeline
// and the final ordered concatenation.
package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"kamishibai/internal/assets"
	"kamishibai/internal/models"
	"kamishibai/internal/script"
	"kamishibai/internal/services"
	"kamishibai/internal/storage"
)

// Renderer is the narrow interface to the external media tool's two
// invocation modes. Implemented by services.FFmpegService.
type Renderer interface {
	RenderClip(ctx context.Context, imagePath, audioPath, outputPath string, duration float64) error
	ConcatenateClips(ctx context.Context, clipPaths []string, outputPath string) error
}

// DurationProber reads the exact playable duration of an audio artifact.
// Implemented by services.FFmpegService.
type DurationProber interface {
	ProbeAudioDuration(ctx context.Context, audioPath string) (float64, error)
}

type Worker struct {
	tts      services.TTSService
	renderer Renderer
	prober   DurationProber
	store    *storage.Storage
	workers  int
}

// New creates a worker. workers is the per-item concurrency bound;
// 1 processes items strictly sequentially.
func New(tts services.TTSService, renderer Renderer, prober DurationProber, store *storage.Storage, workers int) *Worker {
	if workers < 1 {
		workers = 1
	}
	return &Worker{
		tts:      tts,
		renderer: renderer,
		prober:   prober,
		store:    store,
		workers:  workers,
	}
}

// Align pairs each text block with an image by position. The usable item
// count is min(#images, #blocks); a length mismatch is a warning, not an
// error; the pipeline proceeds with the shorter count.
func (w *Worker) Align(images []assets.Image, blocks []script.Block) ([]*models.Item, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no image files found", ErrInput)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no narration text blocks found", ErrInput)
	}

	n := len(images)
	if len(blocks) < n {
		n = len(blocks)
	}

	if len(images) < len(blocks) {
		log.Printf("Warning: not enough images (%d images, %d text blocks), processing %d items", len(images), len(blocks), n)
	} else if len(blocks) < len(images) {
		log.Printf("Warning: not enough text blocks (%d images, %d text blocks), processing %d items", len(images), len(blocks), n)
	}

	items := make([]*models.Item, n)
	for i := 0; i < n; i++ {
		index := i + 1
		items[i] = &models.Item{
			Index:     index,
			Text:      blocks[i].Content,
			ImagePath: images[i].Path,
			AudioPath: w.store.AudioPath(index),
			ClipPath:  w.store.ClipPath(index),
			Status:    models.ItemStatusPending,
		}
	}
	return items, nil
}

// Run attempts every item, builds the manifest of successful clips in
// index order, and concatenates them into outputPath. Per-item failures
// are contained; only the final concatenation can fail the run.
func (w *Worker) Run(ctx context.Context, items []*models.Item, outputPath string) error {
	// Both artifact directories are created before the pool starts so
	// concurrent items never race on mkdir.
	if err := w.store.EnsureDirs(); err != nil {
		return fmt.Errorf("%w: %v", ErrInput, err)
	}

	log.Printf("[Worker] run status: %s (%d items)", models.RunStatusProcessing, len(items))
	bar := progressbar.Default(int64(len(items)), "synthesizing & rendering")

	// SetLimit(1) reproduces the reference's strictly sequential schedule;
	// higher limits run independent item pipelines in parallel. Item
	// goroutines never return errors: failures land on the item itself.
	g := new(errgroup.Group)
	g.SetLimit(w.workers)
	for _, item := range items {
		item := item
		g.Go(func() error {
			w.processItem(ctx, item)
			bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Completion order under parallelism is not index order; the manifest
	// is rebuilt from the items' ascending indices, so output order is
	// always index order.
	log.Printf("[Worker] run status: %s", models.RunStatusManifesting)
	manifest := w.BuildManifest(items)
	log.Printf("[Worker] manifest has %d of %d clips", len(manifest), len(items))

	log.Printf("[Worker] run status: %s", models.RunStatusConcatenating)
	if err := w.renderer.ConcatenateClips(ctx, manifest, outputPath); err != nil {
		log.Printf("[Worker] run status: %s", models.RunStatusFailed)
		return fmt.Errorf("%w: concatenation into %s failed: %v", ErrRender, outputPath, err)
	}

	log.Printf("[Worker] run status: %s, output file: %s", models.RunStatusDone, outputPath)
	return nil
}

// processItem runs one item through synthesis, duration probe, and render.
// Every failure is recorded on the item and logged; nothing propagates.
func (w *Worker) processItem(ctx context.Context, item *models.Item) {
	if err := w.ensureAudio(ctx, item); err != nil {
		item.Status = models.ItemStatusAudioFailed
		item.Err = fmt.Errorf("%w: %v", ErrSynthesis, err)
		log.Printf("Warning: synthesis failed for item %d (%q): %v", item.Index, preview(item.Text), err)
		return
	}
	item.Status = models.ItemStatusAudioReady

	duration, err := w.prober.ProbeAudioDuration(ctx, item.AudioPath)
	if err != nil {
		item.Status = models.ItemStatusClipFailed
		item.Err = fmt.Errorf("%w: %v", ErrMedia, err)
		log.Printf("Warning: duration probe failed for item %d: %v", item.Index, err)
		return
	}

	if err := w.renderer.RenderClip(ctx, item.ImagePath, item.AudioPath, item.ClipPath, duration); err != nil {
		item.Status = models.ItemStatusClipFailed
		item.Err = fmt.Errorf("%w: %v", ErrMedia, err)
		log.Printf("Warning: clip render failed for %s: %v", item.ClipPath, err)
		return
	}

	item.Status = models.ItemStatusClipReady
}

// ensureAudio produces the item's audio artifact, reusing an existing file
// as a cache hit. Deleting the file forces resynthesis on the next run.
func (w *Worker) ensureAudio(ctx context.Context, item *models.Item) error {
	if w.store.Exists(item.AudioPath) {
		log.Printf("[Worker] item %d: reusing cached audio %s", item.Index, item.AudioPath)
		return nil
	}

	resp, err := w.tts.Synthesize(ctx, item.Text)
	if err != nil {
		return err
	}
	return w.store.WriteAudio(item.AudioPath, resp.AudioData)
}

// BuildManifest collects the clip paths of items whose clip file exists on
// disk, in ascending index order. Items that never reached clip_ready are
// silently omitted.
func (w *Worker) BuildManifest(items []*models.Item) []string {
	manifest := make([]string, 0, len(items))
	for _, item := range items {
		if w.store.Exists(item.ClipPath) {
			manifest = append(manifest, item.ClipPath)
		}
	}
	return manifest
}

// preview truncates item text for warning logs, counting runes so
// multi-byte scripts are not cut mid-character.
func preview(text string) string {
	const max = 30
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
