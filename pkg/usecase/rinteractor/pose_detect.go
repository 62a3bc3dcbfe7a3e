// 指示: miu200521358
package rinteractor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

const (
	poseSegmentEpsilon          = 1e-3
	tposeSideToleranceDegree    = 20.0
	tposeUpDownToleranceDegree  = 15.0
	aposeMinimumDownDegree      = 30.0
	aposeMaximumDownDegree      = 60.0
	degreesPerRadian            = 180.0 / math.Pi
	poseRecommendationTPoseBoth = "apply T-pose to both skeletons before retargeting"
)

// Pose classifies a rig's reference pose.
type Pose string

const (
	// TPose marks arms horizontal along the X axis.
	TPose Pose = "t_pose"
	// APose marks arms lowered 30-60 degrees toward the body.
	APose Pose = "a_pose"
	// UnknownPose marks every other arm placement.
	UnknownPose Pose = "unknown"
)

// PoseValidation reports whether two bind poses can be retargeted directly.
type PoseValidation struct {
	SourcePose     Pose
	TargetPose     Pose
	Compatible     bool
	Recommendation string
}

// DetectPose classifies the current pose of a skeleton. The upper arm and
// hand on each side are located through the canonical role patterns; the
// world-space arm vectors decide between T-pose, A-pose and unknown.
func DetectPose(skel *model.Skeleton) Pose {
	leftArm, leftOK := armVector(skel, model.RoleLeftArm, model.RoleLeftHand)
	rightArm, rightOK := armVector(skel, model.RoleRightArm, model.RoleRightHand)
	if !leftOK || !rightOK {
		return UnknownPose
	}

	if isTPoseArm(leftArm, 1) && isTPoseArm(rightArm, -1) {
		return TPose
	}
	if isAPoseArm(leftArm, 1) && isAPoseArm(rightArm, -1) {
		return APose
	}
	return UnknownPose
}

// armVector returns the unit shoulder-to-hand direction in world space.
func armVector(skel *model.Skeleton, armRole model.BoneRole, handRole model.BoneRole) (mgl32.Vec3, bool) {
	armIndex, armFound := model.FindBoneByRole(skel, armRole)
	handIndex, handFound := model.FindBoneByRole(skel, handRole)
	if !armFound || !handFound {
		return mgl32.Vec3{}, false
	}

	worlds := skel.WorldMatrices()
	direction := worldPosition(worlds[handIndex]).Sub(worldPosition(worlds[armIndex]))
	if direction.Len() < poseSegmentEpsilon {
		return mgl32.Vec3{}, false
	}
	return direction.Normalize(), true
}

// worldPosition extracts the translation column of a world matrix.
func worldPosition(world mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{world.At(0, 3), world.At(1, 3), world.At(2, 3)}
}

// isTPoseArm checks one unit arm vector against the horizontal X axis.
// sideSign is +1 for the left arm, -1 for the right arm.
func isTPoseArm(direction mgl32.Vec3, sideSign float32) bool {
	axis := mgl32.Vec3{sideSign, 0, 0}
	sideLimit := float32(math.Cos(tposeSideToleranceDegree / degreesPerRadian))
	upDownLimit := float32(math.Sin(tposeUpDownToleranceDegree / degreesPerRadian))
	return direction.Dot(axis) >= sideLimit && absFloat32(direction.Y()) <= upDownLimit
}

// isAPoseArm checks one unit arm vector for a 30-60 degree drop toward -Y
// on the correct side of the body.
func isAPoseArm(direction mgl32.Vec3, sideSign float32) bool {
	if direction.X()*sideSign <= 0 {
		return false
	}
	downDot := direction.Dot(mgl32.Vec3{0, -1, 0})
	downDegree := float64(0)
	if downDot > -1 && downDot < 1 {
		downDegree = math.Acos(float64(downDot)) * degreesPerRadian
	} else if downDot <= -1 {
		downDegree = 180
	}
	return downDegree >= aposeMinimumDownDegree && downDegree <= aposeMaximumDownDegree
}

// absFloat32 returns the absolute value.
func absFloat32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// ValidatePoses compares the bind poses of two skeletons and recommends a
// normalization step when they disagree.
func ValidatePoses(bindSource *model.Skeleton, bindTarget *model.Skeleton) PoseValidation {
	validation := PoseValidation{
		SourcePose: DetectPose(bindSource),
		TargetPose: DetectPose(bindTarget),
	}
	validation.Compatible = validation.SourcePose == validation.TargetPose
	if !validation.Compatible {
		validation.Recommendation = poseRecommendationTPoseBoth
	}
	return validation
}
