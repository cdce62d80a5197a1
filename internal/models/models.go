package models

import "fmt"

// Enums

// ItemStatus tracks one item through the synthesis → render pipeline.
type ItemStatus string

const (
	ItemStatusPending     ItemStatus = "pending"
	ItemStatusAudioReady  ItemStatus = "audio_ready"
	ItemStatusAudioFailed ItemStatus = "audio_failed"
	ItemStatusClipReady   ItemStatus = "clip_ready"
	ItemStatusClipFailed  ItemStatus = "clip_failed"
)

// RunStatus tracks the overall run.
type RunStatus string

const (
	RunStatusCollecting    RunStatus = "collecting"
	RunStatusAligning      RunStatus = "aligning"
	RunStatusProcessing    RunStatus = "processing"
	RunStatusManifesting   RunStatus = "manifesting"
	RunStatusConcatenating RunStatus = "concatenating"
	RunStatusDone          RunStatus = "done"
	RunStatusFailed        RunStatus = "failed"
)

// Item is the unit of work: one narration block paired with one image,
// plus the artifact paths derived from its 1-based index. Items are
// created once by the aligner and mutated in place as the pipeline
// progresses; each item only ever writes to its own AudioPath/ClipPath.
type Item struct {
	Index     int
	Text      string
	ImagePath string
	AudioPath string
	ClipPath  string
	Status    ItemStatus
	Err       error // last per-item failure, nil while the item is healthy
}

// AudioFileName returns the audio artifact name for a 1-based item index,
// e.g. line001.wav.
func AudioFileName(index int) string {
	return fmt.Sprintf("line%03d.wav", index)
}

// ClipFileName returns the clip artifact name for a 1-based item index,
// e.g. clip001.mp4.
func ClipFileName(index int) string {
	return fmt.Sprintf("clip%03d.mp4", index)
}
