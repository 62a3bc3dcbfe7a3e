// 指示: miu200521358
package rinteractor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// retargetedClipSuffix is the default output clip naming.
const retargetedClipSuffix = "_retargeted"

// scaleRatioEpsilon guards component-wise bind scale division.
const scaleRatioEpsilon = 1e-6

// RetargetAnimation rewrites one source clip into a target clip named
// "<name>_retargeted". An empty input clip yields an empty output clip; a
// non-empty input whose tracks all drop fails with ErrNoTracksRetargeted.
func (e *Engine) RetargetAnimation(clip *model.AnimationClip) (*RetargetResult, error) {
	return e.retargetClip(clip, "")
}

// RetargetAnimationAs retargets one clip under a caller-chosen output name.
func (e *Engine) RetargetAnimationAs(clip *model.AnimationClip, newName string) (*RetargetResult, error) {
	return e.retargetClip(clip, newName)
}

// retargetClip runs the track rewrite pipeline for one clip.
func (e *Engine) retargetClip(clip *model.AnimationClip, newName string) (*RetargetResult, error) {
	if e.state != EngineStateReady {
		return nil, ErrEngineNotReady
	}
	if clip == nil {
		return nil, ErrMissingClip
	}
	if e.mapping.IsEmpty() {
		return nil, ErrEmptyMapping
	}

	outputName := newName
	if outputName == "" {
		outputName = clip.Name + retargetedClipSuffix
	}
	output := model.NewAnimationClip(outputName, clip.Duration)
	diagnostics := make([]model.Diagnostic, 0, 4)

	for _, track := range clip.Tracks {
		if track == nil || track.Validate() != nil {
			continue
		}
		outputTrack, trackDiagnostics := e.retargetTrack(track)
		diagnostics = append(diagnostics, trackDiagnostics...)
		if outputTrack != nil {
			output.AddTrack(outputTrack)
		}
	}

	if len(clip.Tracks) > 0 && len(output.Tracks) == 0 {
		return &RetargetResult{Diagnostics: diagnostics}, ErrNoTracksRetargeted
	}
	return &RetargetResult{Clip: output, Diagnostics: diagnostics}, nil
}

// retargetTrack rewrites one track, or returns nil when the track drops.
func (e *Engine) retargetTrack(track *model.AnimationTrack) (*model.AnimationTrack, []model.Diagnostic) {
	sourceIndex, found := e.bindSource.skeleton.FindByName(track.BoneName)
	if !found {
		return nil, unresolvableBoneDiagnostics(track, "bone not in source skeleton")
	}

	targetIndex := e.indexMap[sourceIndex]
	mapped := targetIndex >= 0
	if !mapped {
		// Unmapped bones fall back to a same-name bone in the target.
		fallbackIndex, fallbackFound := e.bindTarget.skeleton.FindByName(track.BoneName)
		if !fallbackFound {
			return nil, unresolvableBoneDiagnostics(track, "bone neither mapped nor present in target")
		}
		targetIndex = fallbackIndex
	}
	targetBone, _ := e.bindTarget.skeleton.BoneAt(targetIndex)

	switch track.Property {
	case model.TrackQuaternion:
		return e.retargetQuaternionTrack(track, sourceIndex, targetIndex, mapped, targetBone.Name)
	case model.TrackPosition:
		return e.retargetPositionTrack(track, sourceIndex, targetIndex, mapped, targetBone.Name), nil
	case model.TrackScale:
		return e.retargetScaleTrack(track, sourceIndex, targetIndex, targetBone.Name), nil
	default:
		return nil, nil
	}
}

// retargetQuaternionTrack rewrites rotation keyframes through either the
// precomputed fast path or the world-space matrix path.
func (e *Engine) retargetQuaternionTrack(
	track *model.AnimationTrack,
	sourceIndex int,
	targetIndex int,
	mapped bool,
	targetName string,
) (*model.AnimationTrack, []model.Diagnostic) {
	var pair correctionPair
	if mapped {
		pair = e.corrections[sourceIndex]
		if !pair.Valid {
			diagnostic := model.NewDiagnostic(
				model.RetargetWarningInvalidQuaternionPrecompute,
				fmt.Sprintf("track %s dropped: no correction pair for mapped bone", track.Name()),
			)
			return nil, []model.Diagnostic{diagnostic}
		}
	} else {
		pair = correctionFor(e.bindSource, sourceIndex, e.bindTarget, targetIndex)
	}

	applyRootCorrection := e.options.CoordinateCorrectionEnabled && sourceIndex == e.effectiveRootIndex
	correction := e.options.correctionQuat()
	correctionInverse := correction.Inverse()

	values := make([]float32, len(track.Values))
	for key := 0; key < track.KeyframeCount(); key++ {
		offset := key * 4
		q := model.QuatFromXYZW(
			track.Values[offset], track.Values[offset+1],
			track.Values[offset+2], track.Values[offset+3],
		)
		if applyRootCorrection {
			q = correctionInverse.Mul(q).Mul(correction).Normalize()
		}

		var out mgl32.Quat
		if e.options.UseWorldSpaceTransformation {
			out = e.worldSpaceQuaternion(sourceIndex, targetIndex, q)
		} else {
			out = pair.Left.Mul(q).Mul(pair.Right).Normalize()
		}
		values[offset], values[offset+1], values[offset+2], values[offset+3] = model.QuatXYZW(out)
	}

	return model.NewAnimationTrack(targetName, model.TrackQuaternion, copyTimes(track.Times), values), nil
}

// worldSpaceQuaternion composes the animated source local against the bind
// matrices and extracts the target local rotation. Numerically close to the
// fast path but not bit-identical.
func (e *Engine) worldSpaceQuaternion(sourceIndex int, targetIndex int, q mgl32.Quat) mgl32.Quat {
	localBindSource := e.bindSource.localBind(sourceIndex).Mat4()
	anim := localBindSource.Mul4(q.Normalize().Mat4())

	targetBone, _ := e.bindTarget.skeleton.BoneAt(targetIndex)
	targetWorld := e.bindTarget.worlds[targetIndex].Mat4()
	targetParentWorldInverse := mgl32.Ident4()
	if targetBone.ParentIndex >= 0 {
		targetParentWorldInverse = e.bindTarget.worldInverses[targetBone.ParentIndex].Mat4()
	}

	localOut := targetParentWorldInverse.
		Mul4(targetWorld).
		Mul4(localBindSource.Inv()).
		Mul4(anim)
	return model.TransformFromMat4(localOut).Rotation.Normalize()
}

// retargetPositionTrack emits the root motion track; every other position
// track drops. Deltas from the source bind local are coordinate-corrected,
// scaled by the proportion ratio and re-anchored on the target bind local.
func (e *Engine) retargetPositionTrack(
	track *model.AnimationTrack,
	sourceIndex int,
	targetIndex int,
	mapped bool,
	targetName string,
) *model.AnimationTrack {
	if sourceIndex != e.effectiveRootIndex || !e.options.PreserveRootMotion || !mapped {
		return nil
	}

	sourceBindLocal := e.bindSource.localBind(sourceIndex).Translation
	targetBindLocal := e.bindTarget.localBind(targetIndex).Translation
	correction := e.options.correctionQuat()

	values := make([]float32, len(track.Values))
	for key := 0; key < track.KeyframeCount(); key++ {
		offset := key * 3
		position := mgl32.Vec3{track.Values[offset], track.Values[offset+1], track.Values[offset+2]}

		delta := position.Sub(sourceBindLocal)
		if e.options.CoordinateCorrectionEnabled {
			delta = correction.Rotate(delta)
		}
		delta = delta.Mul(e.proportionRatio)

		out := targetBindLocal.Add(delta)
		values[offset], values[offset+1], values[offset+2] = out.X(), out.Y(), out.Z()
	}

	return model.NewAnimationTrack(targetName, model.TrackPosition, copyTimes(track.Times), values)
}

// retargetScaleTrack rescales keyframes by the component-wise ratio of the
// target and source bind local scales.
func (e *Engine) retargetScaleTrack(
	track *model.AnimationTrack,
	sourceIndex int,
	targetIndex int,
	targetName string,
) *model.AnimationTrack {
	sourceScale := e.bindSource.localBind(sourceIndex).Scale
	targetScale := e.bindTarget.localBind(targetIndex).Scale
	ratio := mgl32.Vec3{
		scaleComponentRatio(targetScale.X(), sourceScale.X()),
		scaleComponentRatio(targetScale.Y(), sourceScale.Y()),
		scaleComponentRatio(targetScale.Z(), sourceScale.Z()),
	}

	values := make([]float32, len(track.Values))
	for key := 0; key < track.KeyframeCount(); key++ {
		offset := key * 3
		values[offset] = track.Values[offset] * ratio.X()
		values[offset+1] = track.Values[offset+1] * ratio.Y()
		values[offset+2] = track.Values[offset+2] * ratio.Z()
	}

	return model.NewAnimationTrack(targetName, model.TrackScale, copyTimes(track.Times), values)
}

// scaleComponentRatio divides bind scales with a degenerate-source guard.
func scaleComponentRatio(target float32, source float32) float32 {
	if absFloat32(source) < scaleRatioEpsilon {
		return 1
	}
	return target / source
}

// copyTimes clones a keyframe time vector; outputs never alias inputs.
func copyTimes(times []float32) []float32 {
	out := make([]float32, len(times))
	copy(out, times)
	return out
}

// unresolvableBoneDiagnostics renders the dropped-track warning.
func unresolvableBoneDiagnostics(track *model.AnimationTrack, reason string) []model.Diagnostic {
	return []model.Diagnostic{
		model.NewDiagnostic(
			model.RetargetWarningUnresolvableBone,
			fmt.Sprintf("track %s dropped: %s", track.Name(), reason),
		),
	}
}
