// 指示: miu200521358
package rinteractor

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// EngineState tracks the retargeting session lifecycle.
type EngineState string

const (
	// EngineStateUninitialized means Initialize has not run or was reset.
	EngineStateUninitialized EngineState = "uninitialized"
	// EngineStateInitialized means bind replicas exist but validation is pending.
	EngineStateInitialized EngineState = "initialized"
	// EngineStatePoseValidated is the transient state after pose validation.
	EngineStatePoseValidated EngineState = "pose_validated"
	// EngineStateReady means retargeting calls are accepted.
	EngineStateReady EngineState = "ready"
)

var (
	defaultCorrectionMu sync.RWMutex
	// defaultCoordinateCorrection adapts X-forward rigs: -90 degrees around +Y.
	defaultCoordinateCorrection = mgl32.QuatRotate(float32(-math.Pi/2), mgl32.Vec3{0, 1, 0})
)

// DefaultCoordinateCorrection returns the process-wide correction quaternion
// applied to root rotations and root deltas when correction is enabled.
func DefaultCoordinateCorrection() mgl32.Quat {
	defaultCorrectionMu.RLock()
	defer defaultCorrectionMu.RUnlock()
	return defaultCoordinateCorrection
}

// SetDefaultCoordinateCorrection overrides the process-wide correction
// quaternion. Sessions may still override it per Initialize via options.
func SetDefaultCoordinateCorrection(q mgl32.Quat) {
	defaultCorrectionMu.Lock()
	defer defaultCorrectionMu.Unlock()
	defaultCoordinateCorrection = q.Normalize()
}

// EngineOptions configures one retargeting session.
type EngineOptions struct {
	SourcePoseMode PoseMode
	TargetPoseMode PoseMode
	// SourceEmbedWorld and TargetEmbedWorld capture the world transform of
	// the skeleton root's scene parent into the correction math.
	SourceEmbedWorld bool
	TargetEmbedWorld bool
	// UseWorldSpaceTransformation selects the matrix-composition quaternion
	// path instead of the precomputed L*q*R fast path.
	UseWorldSpaceTransformation bool
	// UseOptimalScale selects the median landmark ratio over the simple
	// segment average for root-motion scaling.
	UseOptimalScale  bool
	AutoValidatePose bool
	// AutoApplyTPose forces T-pose on both bind replicas when validation
	// finds their poses incompatible.
	AutoApplyTPose bool
	// PreserveRootMotion keeps the root position track, scaled by the
	// proportion ratio; all other position tracks are always dropped.
	PreserveRootMotion bool
	// CoordinateCorrectionEnabled applies the correction quaternion to the
	// root bone rotation and root deltas only; child bones are left as
	// authored even when the source rig uses another convention.
	CoordinateCorrectionEnabled bool
	// CoordinateCorrection overrides the process-wide default when set to a
	// non-zero quaternion.
	CoordinateCorrection mgl32.Quat
	// SourceRootName optionally names the effective root bone; the
	// functional root is detected heuristically when empty.
	SourceRootName string
}

// NewEngineOptions returns the default session options: fast quaternion
// path, optimal scale, auto pose validation without forced T-pose, root
// motion preserved, coordinate correction off.
func NewEngineOptions() EngineOptions {
	return EngineOptions{
		SourcePoseMode:     PoseModeDefault,
		TargetPoseMode:     PoseModeDefault,
		UseOptimalScale:    true,
		AutoValidatePose:   true,
		PreserveRootMotion: true,
	}
}

// correctionQuat resolves the session's correction quaternion.
func (o EngineOptions) correctionQuat() mgl32.Quat {
	zero := mgl32.Quat{}
	if o.CoordinateCorrection == zero {
		return DefaultCoordinateCorrection()
	}
	return o.CoordinateCorrection.Normalize()
}

// Engine is one retargeting session between a source and a target skeleton.
// A session is not safe for concurrent mutation; run disjoint sessions on
// separate goroutines instead.
type Engine struct {
	options EngineOptions
	state   EngineState

	mapping    *model.BoneMapping
	bindSource *bindReplica
	bindTarget *bindReplica

	indexMap           []int
	corrections        []correctionPair
	proportionRatio    float32
	effectiveRootIndex int

	poseValidation *PoseValidation
}

// NewEngine returns an uninitialized engine with default options.
func NewEngine() *Engine {
	return &Engine{
		options:         NewEngineOptions(),
		state:           EngineStateUninitialized,
		proportionRatio: 1,
	}
}

// State returns the current session state.
func (e *Engine) State() EngineState {
	return e.state
}

// ProportionRatio returns the root-motion scale computed by Initialize.
func (e *Engine) ProportionRatio() float32 {
	return e.proportionRatio
}

// PoseValidation returns the validation report of the last Initialize, nil
// when auto-validation was disabled.
func (e *Engine) PoseValidation() *PoseValidation {
	return e.poseValidation
}

// SetOptions replaces the session options and resets the session; Initialize
// must run again before retargeting.
func (e *Engine) SetOptions(options EngineOptions) {
	e.options = options
	e.reset()
}

// SetSourcePoseMode changes the source pose mode and resets the session.
func (e *Engine) SetSourcePoseMode(mode PoseMode) {
	e.options.SourcePoseMode = mode
	e.reset()
}

// SetTargetPoseMode changes the target pose mode and resets the session.
func (e *Engine) SetTargetPoseMode(mode PoseMode) {
	e.options.TargetPoseMode = mode
	e.reset()
}

// reset drops all session state derived by Initialize.
func (e *Engine) reset() {
	e.state = EngineStateUninitialized
	e.mapping = nil
	e.bindSource = nil
	e.bindTarget = nil
	e.indexMap = nil
	e.corrections = nil
	e.proportionRatio = 1
	e.effectiveRootIndex = -1
	e.poseValidation = nil
}

// Initialize builds the session: index mapping, bind replicas, optional pose
// validation, correction pairs and the proportion ratio. The mapping is
// copied, so later mapper edits do not affect the session.
func (e *Engine) Initialize(
	source *model.Skeleton,
	target *model.Skeleton,
	mapping *model.BoneMapping,
) ([]model.Diagnostic, error) {
	e.reset()

	if source == nil || target == nil {
		return nil, ErrMissingSkeleton
	}
	if source.Len() == 0 || target.Len() == 0 {
		return nil, ErrInvalidSkeleton
	}
	if mapping.IsEmpty() {
		return nil, ErrEmptyMapping
	}

	diagnostics := make([]model.Diagnostic, 0, 8)
	e.mapping = mapping.Clone()

	indexMap, indexDiagnostics := buildIndexMap(source, target, e.mapping)
	diagnostics = append(diagnostics, indexDiagnostics...)
	e.indexMap = indexMap

	bindSource, err := newBindReplica(source, e.options.SourcePoseMode, e.options.SourceEmbedWorld)
	if err != nil {
		e.reset()
		return diagnostics, errors.Wrap(err, "failed to build source bind replica")
	}
	bindTarget, err := newBindReplica(target, e.options.TargetPoseMode, e.options.TargetEmbedWorld)
	if err != nil {
		e.reset()
		return diagnostics, errors.Wrap(err, "failed to build target bind replica")
	}
	e.bindSource = bindSource
	e.bindTarget = bindTarget
	e.state = EngineStateInitialized

	if e.options.AutoValidatePose {
		validation := ValidatePoses(e.bindSource.skeleton, e.bindTarget.skeleton)
		e.poseValidation = &validation
		e.state = EngineStatePoseValidated
		if !validation.Compatible {
			diagnostics = append(diagnostics, model.NewDiagnostic(
				model.RetargetWarningPoseIncompatible,
				fmt.Sprintf("bind poses differ: source=%s target=%s", validation.SourcePose, validation.TargetPose),
			))
			if e.options.AutoApplyTPose {
				if err := ApplyTPose(e.bindSource.skeleton); err != nil {
					e.reset()
					return diagnostics, errors.Wrap(err, "failed to T-pose source bind replica")
				}
				if err := ApplyTPose(e.bindTarget.skeleton); err != nil {
					e.reset()
					return diagnostics, errors.Wrap(err, "failed to T-pose target bind replica")
				}
				e.bindSource.refreshWorlds()
				e.bindTarget.refreshWorlds()
			}
		}
	}

	e.corrections = computeCorrections(e.bindSource, e.bindTarget, e.indexMap)

	ratio, ratioDiagnostics := computeProportionRatio(
		e.bindSource, e.bindTarget, e.indexMap, e.options.UseOptimalScale)
	diagnostics = append(diagnostics, ratioDiagnostics...)
	e.proportionRatio = ratio

	e.effectiveRootIndex = e.resolveEffectiveRoot()
	e.state = EngineStateReady
	return diagnostics, nil
}

// resolveEffectiveRoot picks the user-selected root when named, else the
// heuristically detected functional root.
func (e *Engine) resolveEffectiveRoot() int {
	if e.options.SourceRootName != "" {
		if index, found := e.bindSource.skeleton.FindByName(e.options.SourceRootName); found {
			return index
		}
	}
	return e.bindSource.skeleton.FunctionalRoot()
}

// buildIndexMap resolves mapped name pairs into source-to-target bone
// indexes; unresolvable pairs are dropped with a diagnostic.
func buildIndexMap(
	source *model.Skeleton,
	target *model.Skeleton,
	mapping *model.BoneMapping,
) ([]int, []model.Diagnostic) {
	indexMap := make([]int, source.Len())
	for index := range indexMap {
		indexMap[index] = -1
	}

	diagnostics := make([]model.Diagnostic, 0, 2)
	for _, sourceName := range mapping.SourceNames() {
		targetName, _ := mapping.Target(sourceName)
		sourceIndex, sourceFound := source.FindByName(sourceName)
		targetIndex, targetFound := target.FindByName(targetName)
		if !sourceFound || !targetFound {
			diagnostics = append(diagnostics, model.NewDiagnostic(
				model.RetargetWarningUnmappedPairDropped,
				fmt.Sprintf("mapping pair %s -> %s dropped: bone not found", sourceName, targetName),
			))
			continue
		}
		indexMap[sourceIndex] = targetIndex
	}
	return indexMap, diagnostics
}
