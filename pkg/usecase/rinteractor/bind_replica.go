// 指示: miu200521358
package rinteractor

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

const identityMatrixEpsilon = 1e-6

// PoseMode selects which pose a bind replica is snapped to.
type PoseMode string

const (
	// PoseModeDefault replays the stored bind pose.
	PoseModeDefault PoseMode = "default"
	// PoseModeCurrent keeps whatever pose the bones currently hold. The
	// caller is expected to pose the skeleton before Initialize; behavior
	// is well-defined only at rest.
	PoseModeCurrent PoseMode = "current"
)

// embeddedWorld captures the world transform of the skeleton root's scene
// parent, kept so retargeting math stays exact when the rig sits under a
// non-identity armature node.
type embeddedWorld struct {
	Forward model.Transform
	Inverse model.Transform
}

// bindReplica is a deep copy of a skeleton frozen at one pose, with
// per-bone world transforms and their inverses precomputed.
type bindReplica struct {
	skeleton      *model.Skeleton
	worlds        []model.Transform
	worldInverses []model.Transform
	embedded      *embeddedWorld
}

// newBindReplica clones a skeleton and snaps it to the requested pose mode.
func newBindReplica(skel *model.Skeleton, mode PoseMode, embedWorld bool) (*bindReplica, error) {
	clone, err := skel.Clone()
	if err != nil {
		return nil, errors.Wrap(err, "failed to clone skeleton for bind replica")
	}

	switch mode {
	case PoseModeDefault:
		snapToBindPose(clone)
	case PoseModeCurrent:
		// Current locals stay untouched.
	default:
		return nil, errors.Wrapf(ErrUnknownPoseMode, "pose mode %q", string(mode))
	}

	replica := &bindReplica{skeleton: clone}
	replica.refreshWorlds()

	if embedWorld && !isIdentityMatrix(clone.RootParentWorld) {
		forward := model.TransformFromMat4(clone.RootParentWorld)
		replica.embedded = &embeddedWorld{
			Forward: forward,
			Inverse: model.TransformFromMat4(clone.RootParentWorld.Inv()),
		}
	}
	return replica, nil
}

// snapToBindPose rewrites every bone local from the stored bind inverses.
func snapToBindPose(skel *model.Skeleton) {
	for index, bone := range skel.Bones {
		if bone == nil {
			continue
		}
		world := skel.BindWorldMatrix(index)
		local := world
		if bone.ParentIndex >= 0 && bone.ParentIndex < skel.Len() {
			local = skel.BindWorldMatrix(bone.ParentIndex).Inv().Mul4(world)
		}
		bone.Local = model.TransformFromMat4(local)
	}
}

// refreshWorlds recomputes the per-bone world transform caches from the
// replica's current locals.
func (r *bindReplica) refreshWorlds() {
	matrices := r.skeleton.WorldMatrices()
	r.worlds = make([]model.Transform, len(matrices))
	r.worldInverses = make([]model.Transform, len(matrices))
	for index, world := range matrices {
		r.worlds[index] = model.TransformFromMat4(world)
		r.worldInverses[index] = model.TransformFromMat4(world.Inv())
	}
}

// localBind returns the bone's local transform at the replica pose.
func (r *bindReplica) localBind(index int) model.Transform {
	bone, exists := r.skeleton.BoneAt(index)
	if !exists {
		return model.NewTransform()
	}
	return bone.Local
}

// worldRotation returns the bone's world rotation at the replica pose.
func (r *bindReplica) worldRotation(index int) mgl32.Quat {
	if index < 0 || index >= len(r.worlds) {
		return mgl32.QuatIdent()
	}
	return r.worlds[index].Rotation
}

// worldRotationInverse returns the inverse of the bone's world rotation.
func (r *bindReplica) worldRotationInverse(index int) mgl32.Quat {
	if index < 0 || index >= len(r.worldInverses) {
		return mgl32.QuatIdent()
	}
	return r.worldInverses[index].Rotation
}

// parentWorldRotation returns the world rotation of the bone's parent,
// identity for roots.
func (r *bindReplica) parentWorldRotation(index int) mgl32.Quat {
	bone, exists := r.skeleton.BoneAt(index)
	if !exists || bone.ParentIndex < 0 {
		return mgl32.QuatIdent()
	}
	return r.worldRotation(bone.ParentIndex)
}

// parentWorldRotationInverse returns the inverse parent world rotation.
func (r *bindReplica) parentWorldRotationInverse(index int) mgl32.Quat {
	bone, exists := r.skeleton.BoneAt(index)
	if !exists || bone.ParentIndex < 0 {
		return mgl32.QuatIdent()
	}
	return r.worldRotationInverse(bone.ParentIndex)
}

// worldPositionAt returns the bone's world position at the replica pose.
func (r *bindReplica) worldPositionAt(index int) mgl32.Vec3 {
	if index < 0 || index >= len(r.worlds) {
		return mgl32.Vec3{}
	}
	return r.worlds[index].Translation
}

// embeddedRotation returns the embedded root world rotation, identity when
// the replica carries none.
func (r *bindReplica) embeddedRotation() mgl32.Quat {
	if r.embedded == nil {
		return mgl32.QuatIdent()
	}
	return r.embedded.Forward.Rotation
}

// embeddedRotationInverse returns the inverse embedded rotation.
func (r *bindReplica) embeddedRotationInverse() mgl32.Quat {
	if r.embedded == nil {
		return mgl32.QuatIdent()
	}
	return r.embedded.Inverse.Rotation
}

// isIdentityMatrix reports whether a matrix is the identity within tolerance.
func isIdentityMatrix(m mgl32.Mat4) bool {
	identity := mgl32.Ident4()
	for element := 0; element < 16; element++ {
		if absFloat32(m[element]-identity[element]) > identityMatrixEpsilon {
			return false
		}
	}
	return true
}
