// 指示: miu200521358
package rinteractor

// RetargetAll retargets each clip of a batch in input order. Per-clip
// failures are recorded and skipped. The cancellation predicate, when
// present, is consulted between clips and never mid-clip.
func (e *Engine) RetargetAll(request BatchRequest) BatchResult {
	result := BatchResult{
		Outcomes:   make([]ClipOutcome, 0, len(request.Clips)),
		TotalCount: len(request.Clips),
	}

	for index, clip := range request.Clips {
		if request.ShouldCancel != nil && request.ShouldCancel() {
			result.Cancelled = true
			break
		}

		clipName := ""
		if clip != nil {
			clipName = clip.Name
		}
		reportProgress(request.ProgressReporter, RetargetProgressEvent{
			Type:      RetargetProgressEventTypeClipStarted,
			ClipIndex: index,
			ClipName:  clipName,
		})

		newName := ""
		if index < len(request.NewNames) {
			newName = request.NewNames[index]
		}

		retargeted, err := e.retargetClip(clip, newName)
		outcome := ClipOutcome{ClipName: clipName}
		if retargeted != nil {
			outcome.Diagnostics = retargeted.Diagnostics
		}
		if err != nil {
			outcome.Status = ClipOutcomeFailed
			outcome.Reason = err
			reportProgress(request.ProgressReporter, RetargetProgressEvent{
				Type:      RetargetProgressEventTypeClipFailed,
				ClipIndex: index,
				ClipName:  clipName,
			})
		} else {
			outcome.Status = ClipOutcomeOK
			outcome.Clip = retargeted.Clip
			result.SuccessCount++
			reportProgress(request.ProgressReporter, RetargetProgressEvent{
				Type:      RetargetProgressEventTypeClipRetargeted,
				ClipIndex: index,
				ClipName:  retargeted.Clip.Name,
			})
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	reportProgress(request.ProgressReporter, RetargetProgressEvent{
		Type: RetargetProgressEventTypeBatchCompleted,
	})
	return result
}

// reportProgress forwards one event when a reporter is attached.
func reportProgress(reporter IRetargetProgressReporter, event RetargetProgressEvent) {
	if reporter != nil {
		reporter.ReportRetargetProgress(event)
	}
}
