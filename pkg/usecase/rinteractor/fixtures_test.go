// 指示: miu200521358
package rinteractor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// rigBoneSpec describes one bone of a synthetic test rig.
type rigBoneSpec struct {
	Name   string
	Parent int
	Pos    mgl32.Vec3
	Scale  mgl32.Vec3
}

// buildRigSkeleton assembles a skeleton arena and derives bind inverses from
// the assembled pose.
func buildRigSkeleton(specs []rigBoneSpec) *model.Skeleton {
	skeleton := model.NewSkeleton()
	for _, spec := range specs {
		bone := model.NewBoneByName(spec.Name)
		bone.ParentIndex = spec.Parent
		bone.Local.Translation = spec.Pos
		if spec.Scale != (mgl32.Vec3{}) {
			bone.Local.Scale = spec.Scale
		}
		skeleton.AppendBone(bone)
	}
	worlds := skeleton.WorldMatrices()
	for index := range skeleton.Bones {
		skeleton.SetBindInverse(index, worlds[index].Inv())
	}
	return skeleton
}

// humanoidRoleOrder fixes the fixture bone order used by humanoidSpecs.
var humanoidRoleOrder = []model.BoneRole{
	model.RoleHips, model.RoleSpine, model.RoleNeck, model.RoleHead,
	model.RoleLeftShoulder, model.RoleLeftArm, model.RoleLeftForeArm, model.RoleLeftHand,
	model.RoleRightShoulder, model.RoleRightArm, model.RoleRightForeArm, model.RoleRightHand,
	model.RoleLeftUpLeg, model.RoleLeftLeg, model.RoleLeftFoot,
	model.RoleRightUpLeg, model.RoleRightLeg, model.RoleRightFoot,
}

// mixamoNames names the fixture bones in the Mixamo convention.
var mixamoNames = map[model.BoneRole]string{
	model.RoleHips: "mixamorig:Hips", model.RoleSpine: "mixamorig:Spine",
	model.RoleNeck: "mixamorig:Neck", model.RoleHead: "mixamorig:Head",
	model.RoleLeftShoulder: "mixamorig:LeftShoulder", model.RoleLeftArm: "mixamorig:LeftArm",
	model.RoleLeftForeArm: "mixamorig:LeftForeArm", model.RoleLeftHand: "mixamorig:LeftHand",
	model.RoleRightShoulder: "mixamorig:RightShoulder", model.RoleRightArm: "mixamorig:RightArm",
	model.RoleRightForeArm: "mixamorig:RightForeArm", model.RoleRightHand: "mixamorig:RightHand",
	model.RoleLeftUpLeg: "mixamorig:LeftUpLeg", model.RoleLeftLeg: "mixamorig:LeftLeg",
	model.RoleLeftFoot:   "mixamorig:LeftFoot",
	model.RoleRightUpLeg: "mixamorig:RightUpLeg", model.RoleRightLeg: "mixamorig:RightLeg",
	model.RoleRightFoot: "mixamorig:RightFoot",
}

// ue5Names names the fixture bones in the UE5 mannequin convention.
var ue5Names = map[model.BoneRole]string{
	model.RoleHips: "pelvis", model.RoleSpine: "spine_01",
	model.RoleNeck: "neck_01", model.RoleHead: "head",
	model.RoleLeftShoulder: "clavicle_l", model.RoleLeftArm: "upperarm_l",
	model.RoleLeftForeArm: "lowerarm_l", model.RoleLeftHand: "hand_l",
	model.RoleRightShoulder: "clavicle_r", model.RoleRightArm: "upperarm_r",
	model.RoleRightForeArm: "lowerarm_r", model.RoleRightHand: "hand_r",
	model.RoleLeftUpLeg: "thigh_l", model.RoleLeftLeg: "calf_l",
	model.RoleLeftFoot:   "foot_l",
	model.RoleRightUpLeg: "thigh_r", model.RoleRightLeg: "calf_r",
	model.RoleRightFoot: "foot_r",
}

// humanoidSpecs builds a T-posed humanoid rig: hips up the spine along +Y,
// arms along the X axis, legs down -Y. scale multiplies every segment;
// hipsLocal places the root bone.
func humanoidSpecs(names map[model.BoneRole]string, scale float32, hipsLocal mgl32.Vec3) []rigBoneSpec {
	offsets := map[model.BoneRole]struct {
		Parent int
		Pos    mgl32.Vec3
	}{
		model.RoleHips:          {Parent: -1, Pos: hipsLocal},
		model.RoleSpine:         {Parent: 0, Pos: mgl32.Vec3{0, 0.2, 0}},
		model.RoleNeck:          {Parent: 1, Pos: mgl32.Vec3{0, 0.3, 0}},
		model.RoleHead:          {Parent: 2, Pos: mgl32.Vec3{0, 0.1, 0}},
		model.RoleLeftShoulder:  {Parent: 1, Pos: mgl32.Vec3{0.05, 0.25, 0}},
		model.RoleLeftArm:       {Parent: 4, Pos: mgl32.Vec3{0.1, 0, 0}},
		model.RoleLeftForeArm:   {Parent: 5, Pos: mgl32.Vec3{0.25, 0, 0}},
		model.RoleLeftHand:      {Parent: 6, Pos: mgl32.Vec3{0.25, 0, 0}},
		model.RoleRightShoulder: {Parent: 1, Pos: mgl32.Vec3{-0.05, 0.25, 0}},
		model.RoleRightArm:      {Parent: 8, Pos: mgl32.Vec3{-0.1, 0, 0}},
		model.RoleRightForeArm:  {Parent: 9, Pos: mgl32.Vec3{-0.25, 0, 0}},
		model.RoleRightHand:     {Parent: 10, Pos: mgl32.Vec3{-0.25, 0, 0}},
		model.RoleLeftUpLeg:     {Parent: 0, Pos: mgl32.Vec3{0.1, -0.05, 0}},
		model.RoleLeftLeg:       {Parent: 12, Pos: mgl32.Vec3{0, -0.45, 0}},
		model.RoleLeftFoot:      {Parent: 13, Pos: mgl32.Vec3{0, -0.45, 0}},
		model.RoleRightUpLeg:    {Parent: 0, Pos: mgl32.Vec3{-0.1, -0.05, 0}},
		model.RoleRightLeg:      {Parent: 15, Pos: mgl32.Vec3{0, -0.45, 0}},
		model.RoleRightFoot:     {Parent: 16, Pos: mgl32.Vec3{0, -0.45, 0}},
	}

	specs := make([]rigBoneSpec, 0, len(humanoidRoleOrder))
	for _, role := range humanoidRoleOrder {
		offset := offsets[role]
		pos := offset.Pos.Mul(scale)
		if role == model.RoleHips {
			pos = hipsLocal
		}
		specs = append(specs, rigBoneSpec{Name: names[role], Parent: offset.Parent, Pos: pos})
	}
	return specs
}

// rigNames lists the fixture bone names in fixture order.
func rigNames(names map[model.BoneRole]string) []string {
	out := make([]string, 0, len(humanoidRoleOrder))
	for _, role := range humanoidRoleOrder {
		out = append(out, names[role])
	}
	return out
}

// identityMapping maps every fixture bone onto itself.
func identityMapping(names map[model.BoneRole]string) *model.BoneMapping {
	mapping := model.NewBoneMapping()
	for _, name := range rigNames(names) {
		mapping.Add(name, name)
	}
	return mapping
}

// quatNear compares quaternions component-wise, accepting the sign double
// cover.
func quatNear(a mgl32.Quat, b mgl32.Quat, epsilon float32) bool {
	direct := absFloat32(a.W-b.W) <= epsilon &&
		absFloat32(a.V.X()-b.V.X()) <= epsilon &&
		absFloat32(a.V.Y()-b.V.Y()) <= epsilon &&
		absFloat32(a.V.Z()-b.V.Z()) <= epsilon
	flipped := absFloat32(a.W+b.W) <= epsilon &&
		absFloat32(a.V.X()+b.V.X()) <= epsilon &&
		absFloat32(a.V.Y()+b.V.Y()) <= epsilon &&
		absFloat32(a.V.Z()+b.V.Z()) <= epsilon
	return direct || flipped
}

// vecNear compares vectors component-wise.
func vecNear(a mgl32.Vec3, b mgl32.Vec3, epsilon float32) bool {
	return absFloat32(a.X()-b.X()) <= epsilon &&
		absFloat32(a.Y()-b.Y()) <= epsilon &&
		absFloat32(a.Z()-b.Z()) <= epsilon
}
