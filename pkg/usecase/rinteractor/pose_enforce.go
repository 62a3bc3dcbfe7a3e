// 指示: miu200521358
package rinteractor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// limbChain is one origin-to-end bone chain aligned onto a fixed world axis.
type limbChain struct {
	Origin model.BoneRole
	End    model.BoneRole
	Axis   mgl32.Vec3
}

// aposeArmDrop is the unit in-plane drop of an A-pose arm: 45 degrees
// between straight out and straight down.
var aposeArmDrop = mgl32.Vec3{1, -1, 0}.Normalize()

// tposeChains are the T-pose limb alignments in application order.
var tposeChains = []limbChain{
	{Origin: model.RoleHips, End: model.RoleHead, Axis: mgl32.Vec3{0, 1, 0}},
	{Origin: model.RoleLeftArm, End: model.RoleLeftHand, Axis: mgl32.Vec3{1, 0, 0}},
	{Origin: model.RoleRightArm, End: model.RoleRightHand, Axis: mgl32.Vec3{-1, 0, 0}},
	{Origin: model.RoleLeftUpLeg, End: model.RoleLeftFoot, Axis: mgl32.Vec3{0, -1, 0}},
	{Origin: model.RoleRightUpLeg, End: model.RoleRightFoot, Axis: mgl32.Vec3{0, -1, 0}},
}

// aposeChains are the A-pose limb alignments; legs and spine match T-pose.
var aposeChains = []limbChain{
	{Origin: model.RoleHips, End: model.RoleHead, Axis: mgl32.Vec3{0, 1, 0}},
	{Origin: model.RoleLeftArm, End: model.RoleLeftHand, Axis: aposeArmDrop},
	{Origin: model.RoleRightArm, End: model.RoleRightHand, Axis: mgl32.Vec3{-aposeArmDrop.X(), aposeArmDrop.Y(), 0}},
	{Origin: model.RoleLeftUpLeg, End: model.RoleLeftFoot, Axis: mgl32.Vec3{0, -1, 0}},
	{Origin: model.RoleRightUpLeg, End: model.RoleRightFoot, Axis: mgl32.Vec3{0, -1, 0}},
}

// ApplyTPose snaps a skeleton into the canonical T-pose in place: every limb
// chain is straightened, aligned onto its axis, and the body is re-faced
// toward +Z.
func ApplyTPose(skel *model.Skeleton) error {
	return applyReferencePose(skel, tposeChains)
}

// ApplyAPose snaps a skeleton into the canonical A-pose in place. The body
// is re-faced toward +Z the same way T-pose enforcement does.
func ApplyAPose(skel *model.Skeleton) error {
	return applyReferencePose(skel, aposeChains)
}

// applyReferencePose runs extend and align over each limb chain, then
// re-faces the skeleton.
func applyReferencePose(skel *model.Skeleton, chains []limbChain) error {
	if skel == nil {
		return ErrMissingSkeleton
	}
	if skel.Len() == 0 {
		return ErrInvalidSkeleton
	}

	for _, chain := range chains {
		originIndex, originFound := model.FindBoneByRole(skel, chain.Origin)
		endIndex, endFound := model.FindBoneByRole(skel, chain.End)
		if !originFound || !endFound {
			continue
		}
		indexes, resolved := chainIndexes(skel, originIndex, endIndex)
		if !resolved {
			continue
		}
		extendChain(skel, indexes)
		alignBoneToAxis(skel, originIndex, endIndex, chain.Axis)
	}

	refaceForward(skel)
	return nil
}

// chainIndexes walks parent links from end up to origin and returns the
// chain in origin-to-end order.
func chainIndexes(skel *model.Skeleton, originIndex int, endIndex int) ([]int, bool) {
	reversed := make([]int, 0, 8)
	for current := endIndex; current >= 0; {
		reversed = append(reversed, current)
		if current == originIndex {
			break
		}
		bone, exists := skel.BoneAt(current)
		if !exists || len(reversed) > skel.Len() {
			return nil, false
		}
		current = bone.ParentIndex
	}
	if len(reversed) == 0 || reversed[len(reversed)-1] != originIndex {
		return nil, false
	}

	indexes := make([]int, len(reversed))
	for position, index := range reversed {
		indexes[len(reversed)-1-position] = index
	}
	return indexes, true
}

// extendChain removes kinks so the chain lies on one line: walking bottom-up,
// each intermediate bone is rotated until the direction toward its chain
// child continues the direction from its chain parent.
func extendChain(skel *model.Skeleton, indexes []int) {
	for position := len(indexes) - 2; position >= 1; position-- {
		worlds := skel.WorldMatrices()
		bonePos := worldPosition(worlds[indexes[position]])
		childPos := worldPosition(worlds[indexes[position+1]])
		parentPos := worldPosition(worlds[indexes[position-1]])

		current := childPos.Sub(bonePos)
		desired := bonePos.Sub(parentPos)
		if current.Len() < poseSegmentEpsilon || desired.Len() < poseSegmentEpsilon {
			continue
		}
		delta := mgl32.QuatBetweenVectors(current, desired)
		applyWorldRotation(skel, worlds, indexes[position], delta)
	}
}

// alignBoneToAxis rotates the origin bone so the origin-to-end direction
// coincides with axis in world space.
func alignBoneToAxis(skel *model.Skeleton, originIndex int, endIndex int, axis mgl32.Vec3) {
	worlds := skel.WorldMatrices()
	direction := worldPosition(worlds[endIndex]).Sub(worldPosition(worlds[originIndex]))
	if direction.Len() < poseSegmentEpsilon {
		return
	}
	delta := mgl32.QuatBetweenVectors(direction, axis)
	applyWorldRotation(skel, worlds, originIndex, delta)
}

// refaceForward rotates the whole skeleton so the arms-line cross spine-line
// points along +Z, i.e. the character faces +Z.
func refaceForward(skel *model.Skeleton) {
	leftArmIndex, leftFound := model.FindBoneByRole(skel, model.RoleLeftArm)
	rightArmIndex, rightFound := model.FindBoneByRole(skel, model.RoleRightArm)
	hipsIndex, hipsFound := model.FindBoneByRole(skel, model.RoleHips)
	headIndex, headFound := model.FindBoneByRole(skel, model.RoleHead)
	if !leftFound || !rightFound || !hipsFound || !headFound {
		return
	}

	worlds := skel.WorldMatrices()
	armsLine := worldPosition(worlds[leftArmIndex]).Sub(worldPosition(worlds[rightArmIndex]))
	spineLine := worldPosition(worlds[headIndex]).Sub(worldPosition(worlds[hipsIndex]))
	facing := armsLine.Cross(spineLine)
	if facing.Len() < poseSegmentEpsilon {
		return
	}

	delta := mgl32.QuatBetweenVectors(facing, mgl32.Vec3{0, 0, 1})
	for _, rootIndex := range skel.RootBones() {
		applyWorldRotation(skel, worlds, rootIndex, delta)
	}
}

// applyWorldRotation composes a world-space rotation onto one bone and
// stores the result as the bone's local rotation.
func applyWorldRotation(skel *model.Skeleton, worlds []mgl32.Mat4, index int, delta mgl32.Quat) {
	bone, exists := skel.BoneAt(index)
	if !exists {
		return
	}

	worldRotation := model.TransformFromMat4(worlds[index]).Rotation
	parentRotation := mgl32.QuatIdent()
	if bone.ParentIndex >= 0 && bone.ParentIndex < len(worlds) {
		parentRotation = model.TransformFromMat4(worlds[bone.ParentIndex]).Rotation
	}
	bone.Local.Rotation = parentRotation.Inverse().
		Mul(delta).
		Mul(worldRotation).
		Normalize()
}
