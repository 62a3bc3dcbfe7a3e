// 指示: miu200521358
package rinteractor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// newIdentitySession initializes an engine between two copies of the same
// fixture rig with an identity mapping.
func newIdentitySession(t *testing.T, options EngineOptions) *Engine {
	t.Helper()
	source := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	target := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))

	engine := NewEngine()
	engine.SetOptions(options)
	if _, err := engine.Initialize(source, target, identityMapping(mixamoNames)); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	return engine
}

// quatTrack builds a rotation track from keyframe quaternions.
func quatTrack(boneName string, times []float32, quats []mgl32.Quat) *model.AnimationTrack {
	values := make([]float32, 0, len(quats)*4)
	for _, q := range quats {
		x, y, z, w := model.QuatXYZW(q)
		values = append(values, x, y, z, w)
	}
	return model.NewAnimationTrack(boneName, model.TrackQuaternion, times, values)
}

func TestInitializeRejectsMissingInput(t *testing.T) {
	rig := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	engine := NewEngine()

	if _, err := engine.Initialize(nil, rig, identityMapping(mixamoNames)); !errors.Is(err, ErrMissingSkeleton) {
		t.Fatalf("missing source error mismatch: got=%v", err)
	}
	if _, err := engine.Initialize(rig, model.NewSkeleton(), identityMapping(mixamoNames)); !errors.Is(err, ErrInvalidSkeleton) {
		t.Fatalf("empty target error mismatch: got=%v", err)
	}
	if _, err := engine.Initialize(rig, rig, model.NewBoneMapping()); !errors.Is(err, ErrEmptyMapping) {
		t.Fatalf("empty mapping error mismatch: got=%v", err)
	}
}

func TestEngineStateMachine(t *testing.T) {
	engine := NewEngine()
	if engine.State() != EngineStateUninitialized {
		t.Fatalf("new engine state mismatch: got=%s", engine.State())
	}
	if _, err := engine.RetargetAnimation(model.NewAnimationClip("clip", 1)); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("retarget before initialize must fail: got=%v", err)
	}

	rig := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	if _, err := engine.Initialize(rig, rig, identityMapping(mixamoNames)); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if engine.State() != EngineStateReady {
		t.Fatalf("initialized engine state mismatch: got=%s", engine.State())
	}

	engine.SetSourcePoseMode(PoseModeCurrent)
	if engine.State() != EngineStateUninitialized {
		t.Fatalf("pose mode setter must reset the session: got=%s", engine.State())
	}
	if _, err := engine.RetargetAnimation(model.NewAnimationClip("clip", 1)); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("reset session must require re-initialization: got=%v", err)
	}
}

func TestRetargetAnimationRejectsNilClip(t *testing.T) {
	engine := newIdentitySession(t, NewEngineOptions())
	if _, err := engine.RetargetAnimation(nil); !errors.Is(err, ErrMissingClip) {
		t.Fatalf("nil clip error mismatch: got=%v", err)
	}
}

func TestIdentityCorrectionsAreIdentity(t *testing.T) {
	engine := newIdentitySession(t, NewEngineOptions())

	identity := mgl32.QuatIdent()
	for sourceIndex, targetIndex := range engine.indexMap {
		if targetIndex < 0 {
			continue
		}
		pair := engine.corrections[sourceIndex]
		if !pair.Valid {
			t.Fatalf("mapped bone %d must carry a correction pair", sourceIndex)
		}
		if !quatNear(pair.Left, identity, 1e-6) || !quatNear(pair.Right, identity, 1e-6) {
			t.Fatalf("identity rig corrections must be identity: bone=%d L=%v R=%v",
				sourceIndex, pair.Left, pair.Right)
		}
	}
	if engine.ProportionRatio() != 1 {
		t.Fatalf("identity rig proportion ratio mismatch: got=%f", engine.ProportionRatio())
	}
}

func TestIdentityRetargetPassesQuaternionsThrough(t *testing.T) {
	engine := newIdentitySession(t, NewEngineOptions())

	times := []float32{0, 0.5, 1}
	quats := []mgl32.Quat{
		mgl32.QuatIdent(),
		mgl32.QuatRotate(float32(math.Pi/4), mgl32.Vec3{0, 0, 1}),
		mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{1, 0, 0}),
	}

	clip := model.NewAnimationClip("walk", 1)
	clip.AddTrack(quatTrack("mixamorig:LeftArm", times, quats))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	if result.Clip.Name != "walk_retargeted" {
		t.Fatalf("output name mismatch: got=%s", result.Clip.Name)
	}
	if result.Clip.Duration != clip.Duration {
		t.Fatalf("duration mismatch: got=%f", result.Clip.Duration)
	}
	if len(result.Clip.Tracks) != 1 {
		t.Fatalf("track count mismatch: got=%d", len(result.Clip.Tracks))
	}

	track := result.Clip.Tracks[0]
	if track.BoneName != "mixamorig:LeftArm" || track.KeyframeCount() != len(times) {
		t.Fatalf("track identity mismatch: got=%s keys=%d", track.BoneName, track.KeyframeCount())
	}
	for key := range times {
		if track.Times[key] != times[key] {
			t.Fatalf("times vector must be preserved: key=%d", key)
		}
		got := model.QuatFromXYZW(
			track.Values[key*4], track.Values[key*4+1], track.Values[key*4+2], track.Values[key*4+3])
		if !quatNear(got, quats[key], 1e-5) {
			t.Fatalf("keyframe %d mismatch: got=%v want=%v", key, got, quats[key])
		}
	}
}

func TestWorldSpacePathMatchesIdentityRetarget(t *testing.T) {
	options := NewEngineOptions()
	options.UseWorldSpaceTransformation = true
	engine := newIdentitySession(t, options)

	q := mgl32.QuatRotate(float32(math.Pi/3), mgl32.Vec3{0, 1, 0})
	clip := model.NewAnimationClip("turn", 1)
	clip.AddTrack(quatTrack("mixamorig:Spine", []float32{0}, []mgl32.Quat{q}))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	track := result.Clip.Tracks[0]
	got := model.QuatFromXYZW(track.Values[0], track.Values[1], track.Values[2], track.Values[3])
	if !quatNear(got, q, 1e-5) {
		t.Fatalf("world-space identity retarget mismatch: got=%v want=%v", got, q)
	}
}

func TestRootMotionScaling(t *testing.T) {
	source := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 0, 0}))
	target := buildRigSkeleton(humanoidSpecs(ue5Names, 2, mgl32.Vec3{0, 1, 0}))

	mapping, _ := GenerateAutomaticMapping(rigNames(mixamoNames), rigNames(ue5Names), false)
	engine := NewEngine()
	if _, err := engine.Initialize(source, target, mapping); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if absFloat32(engine.ProportionRatio()-2) > 1e-4 {
		t.Fatalf("doubled target must double the proportion ratio: got=%f", engine.ProportionRatio())
	}

	clip := model.NewAnimationClip("run", 1)
	clip.AddTrack(model.NewAnimationTrack(
		"mixamorig:Hips", model.TrackPosition,
		[]float32{0, 1},
		[]float32{0, 0, 0, 1, 0, 0},
	))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	if len(result.Clip.Tracks) != 1 {
		t.Fatalf("root position track must survive: got=%d tracks", len(result.Clip.Tracks))
	}

	track := result.Clip.Tracks[0]
	if track.BoneName != "pelvis" || track.Property != model.TrackPosition {
		t.Fatalf("output track mismatch: got=%s.%s", track.BoneName, track.Property)
	}
	first := mgl32.Vec3{track.Values[0], track.Values[1], track.Values[2]}
	last := mgl32.Vec3{track.Values[3], track.Values[4], track.Values[5]}
	if !vecNear(first, mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Fatalf("first keyframe mismatch: got=%v want=(0,1,0)", first)
	}
	if !vecNear(last, mgl32.Vec3{2, 1, 0}, 1e-5) {
		t.Fatalf("last keyframe mismatch: got=%v want=(2,1,0)", last)
	}
}

func TestNonRootPositionTracksAreDropped(t *testing.T) {
	engine := newIdentitySession(t, NewEngineOptions())

	clip := model.NewAnimationClip("wave", 1)
	clip.AddTrack(model.NewAnimationTrack(
		"mixamorig:LeftHand", model.TrackPosition,
		[]float32{0}, []float32{0.1, 0.2, 0.3},
	))
	clip.AddTrack(quatTrack("mixamorig:LeftHand", []float32{0}, []mgl32.Quat{mgl32.QuatIdent()}))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	if len(result.Clip.Tracks) != 1 || result.Clip.Tracks[0].Property != model.TrackQuaternion {
		t.Fatalf("non-root position must drop, quaternion must survive: got=%d tracks", len(result.Clip.Tracks))
	}
}

func TestRootMotionDisabledDropsRootPosition(t *testing.T) {
	options := NewEngineOptions()
	options.PreserveRootMotion = false
	engine := newIdentitySession(t, options)

	clip := model.NewAnimationClip("run", 1)
	clip.AddTrack(model.NewAnimationTrack(
		"mixamorig:Hips", model.TrackPosition,
		[]float32{0}, []float32{0, 0, 0},
	))

	if _, err := engine.RetargetAnimation(clip); !errors.Is(err, ErrNoTracksRetargeted) {
		t.Fatalf("all-dropped clip must fail: got=%v", err)
	}
}

func TestCoordinateCorrectionConjugatesRootRotation(t *testing.T) {
	options := NewEngineOptions()
	options.CoordinateCorrectionEnabled = true
	engine := newIdentitySession(t, options)

	q := mgl32.QuatRotate(float32(math.Pi/2), mgl32.Vec3{1, 0, 0})
	clip := model.NewAnimationClip("lean", 1)
	clip.AddTrack(quatTrack("mixamorig:Hips", []float32{0}, []mgl32.Quat{q}))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	track := result.Clip.Tracks[0]
	got := model.QuatFromXYZW(track.Values[0], track.Values[1], track.Values[2], track.Values[3])

	correction := DefaultCoordinateCorrection()
	want := correction.Inverse().Mul(q).Mul(correction).Normalize()
	if !quatNear(got, want, 1e-5) {
		t.Fatalf("conjugated rotation mismatch: got=%v want=%v", got, want)
	}

	// The effective rotation moves the transformed +X axis accordingly.
	probe := mgl32.Vec3{1, 0, 0}
	if !vecNear(got.Rotate(probe), want.Rotate(probe), 1e-5) {
		t.Fatalf("axis probe mismatch")
	}
}

func TestCoordinateCorrectionRotatesRootDeltas(t *testing.T) {
	options := NewEngineOptions()
	options.CoordinateCorrectionEnabled = true
	engine := newIdentitySession(t, options)

	clip := model.NewAnimationClip("strafe", 1)
	clip.AddTrack(model.NewAnimationTrack(
		"mixamorig:Hips", model.TrackPosition,
		[]float32{0}, []float32{1, 1, 0},
	))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	track := result.Clip.Tracks[0]
	got := mgl32.Vec3{track.Values[0], track.Values[1], track.Values[2]}

	// Bind local is (0,1,0) on both sides; delta (1,0,0) rotates by the
	// correction, scales by 1 and re-anchors at (0,1,0).
	delta := DefaultCoordinateCorrection().Rotate(mgl32.Vec3{1, 0, 0})
	want := mgl32.Vec3{0, 1, 0}.Add(delta)
	if !vecNear(got, want, 1e-5) {
		t.Fatalf("corrected delta mismatch: got=%v want=%v", got, want)
	}
}

func TestScaleTracksUseBindScaleRatio(t *testing.T) {
	source := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	targetSpecs := humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0})
	for index := range targetSpecs {
		if targetSpecs[index].Name == "mixamorig:Spine" {
			targetSpecs[index].Scale = mgl32.Vec3{2, 2, 2}
		}
	}
	target := buildRigSkeleton(targetSpecs)

	engine := NewEngine()
	if _, err := engine.Initialize(source, target, identityMapping(mixamoNames)); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	clip := model.NewAnimationClip("pulse", 1)
	clip.AddTrack(model.NewAnimationTrack(
		"mixamorig:Spine", model.TrackScale,
		[]float32{0}, []float32{1, 1.5, 1},
	))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("retarget failed: %v", err)
	}
	track := result.Clip.Tracks[0]
	got := mgl32.Vec3{track.Values[0], track.Values[1], track.Values[2]}
	if !vecNear(got, mgl32.Vec3{2, 3, 2}, 1e-4) {
		t.Fatalf("scale ratio mismatch: got=%v want=(2,3,2)", got)
	}
}

func TestEmptyClipRetargetsToEmptyClip(t *testing.T) {
	engine := newIdentitySession(t, NewEngineOptions())

	result, err := engine.RetargetAnimation(model.NewAnimationClip("empty", 0.5))
	if err != nil {
		t.Fatalf("empty clip must not fail: %v", err)
	}
	if len(result.Clip.Tracks) != 0 || result.Clip.Duration != 0.5 {
		t.Fatalf("empty clip output mismatch: got=%+v", result.Clip)
	}
}

func TestUnresolvableTracksDropWithDiagnostic(t *testing.T) {
	engine := newIdentitySession(t, NewEngineOptions())

	clip := model.NewAnimationClip("bad", 1)
	clip.AddTrack(quatTrack("NotABone", []float32{0}, []mgl32.Quat{mgl32.QuatIdent()}))

	result, err := engine.RetargetAnimation(clip)
	if !errors.Is(err, ErrNoTracksRetargeted) {
		t.Fatalf("clip with only unresolvable tracks must fail: got=%v", err)
	}
	if !model.HasDiagnosticCode(result.Diagnostics, model.RetargetWarningUnresolvableBone) {
		t.Fatalf("dropped track must be diagnosed: got=%v", result.Diagnostics)
	}
}

func TestUnmappedBoneFallsBackToSameName(t *testing.T) {
	source := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	target := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))

	mapping := model.NewBoneMapping()
	mapping.Add("mixamorig:Hips", "mixamorig:Hips")

	engine := NewEngine()
	if _, err := engine.Initialize(source, target, mapping); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	q := mgl32.QuatRotate(float32(math.Pi/6), mgl32.Vec3{0, 0, 1})
	clip := model.NewAnimationClip("nod", 1)
	clip.AddTrack(quatTrack("mixamorig:Head", []float32{0}, []mgl32.Quat{q}))

	result, err := engine.RetargetAnimation(clip)
	if err != nil {
		t.Fatalf("same-name fallback retarget failed: %v", err)
	}
	track := result.Clip.Tracks[0]
	if track.BoneName != "mixamorig:Head" {
		t.Fatalf("fallback track name mismatch: got=%s", track.BoneName)
	}
	got := model.QuatFromXYZW(track.Values[0], track.Values[1], track.Values[2], track.Values[3])
	if !quatNear(got, q, 1e-5) {
		t.Fatalf("fallback keyframe mismatch: got=%v want=%v", got, q)
	}
}

func TestInitializeCopiesMapping(t *testing.T) {
	source := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	target := buildRigSkeleton(humanoidSpecs(mixamoNames, 1, mgl32.Vec3{0, 1, 0}))
	mapping := identityMapping(mixamoNames)

	engine := NewEngine()
	if _, err := engine.Initialize(source, target, mapping); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	mapping.Clear()
	clip := model.NewAnimationClip("walk", 1)
	clip.AddTrack(quatTrack("mixamorig:Spine", []float32{0}, []mgl32.Quat{mgl32.QuatIdent()}))
	if _, err := engine.RetargetAnimation(clip); err != nil {
		t.Fatalf("session must be isolated from later mapper edits: %v", err)
	}
}
