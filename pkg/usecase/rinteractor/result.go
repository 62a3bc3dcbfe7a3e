// 指示: miu200521358
package rinteractor

import (
	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// RetargetProgressEventType tags one kind of batch progress event.
type RetargetProgressEventType string

const (
	// RetargetProgressEventTypeClipStarted is emitted before a clip is processed.
	RetargetProgressEventTypeClipStarted RetargetProgressEventType = "clip_started"
	// RetargetProgressEventTypeClipRetargeted is emitted after a clip succeeds.
	RetargetProgressEventTypeClipRetargeted RetargetProgressEventType = "clip_retargeted"
	// RetargetProgressEventTypeClipFailed is emitted after a clip fails.
	RetargetProgressEventTypeClipFailed RetargetProgressEventType = "clip_failed"
	// RetargetProgressEventTypeBatchCompleted is emitted once a batch finishes or is cancelled.
	RetargetProgressEventTypeBatchCompleted RetargetProgressEventType = "batch_completed"
)

// RetargetProgressEvent is one progress notification of a retarget batch.
type RetargetProgressEvent struct {
	Type      RetargetProgressEventType
	ClipIndex int
	ClipName  string
}

// IRetargetProgressReporter is the progress notification contract.
type IRetargetProgressReporter interface {
	// ReportRetargetProgress is called between clips, never mid-clip.
	ReportRetargetProgress(event RetargetProgressEvent)
}

// ClipOutcomeStatus tags one per-clip batch outcome.
type ClipOutcomeStatus string

const (
	// ClipOutcomeOK marks a successfully retargeted clip.
	ClipOutcomeOK ClipOutcomeStatus = "ok"
	// ClipOutcomeFailed marks a clip whose retarget failed.
	ClipOutcomeFailed ClipOutcomeStatus = "failed"
)

// RetargetResult is the outcome of retargeting a single clip.
type RetargetResult struct {
	Clip        *model.AnimationClip
	Diagnostics []model.Diagnostic
}

// ClipOutcome is one per-clip entry of a batch result.
type ClipOutcome struct {
	ClipName    string
	Status      ClipOutcomeStatus
	Reason      error
	Clip        *model.AnimationClip
	Diagnostics []model.Diagnostic
}

// BatchRequest describes one batch retarget run.
type BatchRequest struct {
	Clips []*model.AnimationClip
	// NewNames optionally overrides the default "_retargeted" naming per
	// clip; empty entries keep the default. Index-aligned with Clips.
	NewNames []string
	// ShouldCancel, when set, is consulted between clips; a true return
	// stops the batch before the next clip.
	ShouldCancel     func() bool
	ProgressReporter IRetargetProgressReporter
}

// BatchResult summarizes one batch retarget run.
type BatchResult struct {
	Outcomes     []ClipOutcome
	SuccessCount int
	TotalCount   int
	Cancelled    bool
}

// Clips returns the successfully retargeted clips in outcome order.
func (r BatchResult) Clips() []*model.AnimationClip {
	clips := make([]*model.AnimationClip, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		if outcome.Status == ClipOutcomeOK && outcome.Clip != nil {
			clips = append(clips, outcome.Clip)
		}
	}
	return clips
}
