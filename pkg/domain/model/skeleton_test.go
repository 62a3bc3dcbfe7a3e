// 指示: miu200521358
package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// boneSpec describes one bone of a test skeleton.
type boneSpec struct {
	Name   string
	Parent int
	Pos    mgl32.Vec3
}

// newSkeletonFromSpecs builds a skeleton arena from bone specs.
func newSkeletonFromSpecs(specs []boneSpec) *Skeleton {
	skeleton := NewSkeleton()
	for _, spec := range specs {
		bone := NewBoneByName(spec.Name)
		bone.ParentIndex = spec.Parent
		bone.Local.Translation = spec.Pos
		skeleton.AppendBone(bone)
	}
	worlds := skeleton.WorldMatrices()
	for index := range skeleton.Bones {
		skeleton.SetBindInverse(index, worlds[index].Inv())
	}
	return skeleton
}

func TestFindByNameReturnsFirstMatch(t *testing.T) {
	skeleton := newSkeletonFromSpecs([]boneSpec{
		{Name: "Hips", Parent: -1},
		{Name: "Spine", Parent: 0},
		{Name: "Spine", Parent: 1},
	})

	index, found := skeleton.FindByName("Spine")
	if !found || index != 1 {
		t.Fatalf("first-match lookup mismatch: got=(%d,%v) want=(1,true)", index, found)
	}
	if _, found := skeleton.FindByName("Missing"); found {
		t.Fatalf("lookup should miss for unknown name")
	}
}

func TestFindByRefMatchesInstanceNotName(t *testing.T) {
	skeleton := newSkeletonFromSpecs([]boneSpec{
		{Name: "Hips", Parent: -1},
		{Name: "Spine", Parent: 0},
	})

	bone, _ := skeleton.BoneAt(1)
	index, found := skeleton.FindByRef(bone)
	if !found || index != 1 {
		t.Fatalf("ref lookup mismatch: got=(%d,%v) want=(1,true)", index, found)
	}

	detached := NewBoneByName("Spine")
	if _, found := skeleton.FindByRef(detached); found {
		t.Fatalf("ref lookup should not match a detached bone of the same name")
	}
}

func TestRootBonesAndFunctionalRoot(t *testing.T) {
	skeleton := newSkeletonFromSpecs([]boneSpec{
		{Name: "Armature", Parent: -1},
		{Name: "mixamorig:Hips", Parent: 0},
		{Name: "Prop", Parent: -1},
	})

	roots := skeleton.RootBones()
	if len(roots) != 2 || roots[0] != 0 || roots[1] != 2 {
		t.Fatalf("root bones mismatch: got=%v want=[0 2]", roots)
	}
	if functionalRoot := skeleton.FunctionalRoot(); functionalRoot != 1 {
		t.Fatalf("functional root should find hips by normalized name: got=%d", functionalRoot)
	}
}

func TestFunctionalRootFallsBackToFirstRoot(t *testing.T) {
	skeleton := newSkeletonFromSpecs([]boneSpec{
		{Name: "BoneA", Parent: -1},
		{Name: "BoneB", Parent: 0},
	})
	if functionalRoot := skeleton.FunctionalRoot(); functionalRoot != 0 {
		t.Fatalf("functional root fallback mismatch: got=%d want=0", functionalRoot)
	}
	if functionalRoot := NewSkeleton().FunctionalRoot(); functionalRoot != -1 {
		t.Fatalf("empty skeleton should have no functional root: got=%d", functionalRoot)
	}
}

func TestDetectDuplicateBoneNames(t *testing.T) {
	duplicates := DetectDuplicateBoneNames([]string{"Hips", "Spine", "Hips", "Hand", "Spine", "Hips"})
	if len(duplicates) != 2 {
		t.Fatalf("duplicate count mismatch: got=%d want=2", len(duplicates))
	}
	if duplicates[0].Name != "Hips" || duplicates[0].Count != 3 {
		t.Fatalf("first duplicate mismatch: got=%+v", duplicates[0])
	}
	if duplicates[1].Name != "Spine" || duplicates[1].Count != 2 {
		t.Fatalf("second duplicate mismatch: got=%+v", duplicates[1])
	}
}

func TestWorldMatricesComposeParentChains(t *testing.T) {
	skeleton := newSkeletonFromSpecs([]boneSpec{
		{Name: "Hips", Parent: -1, Pos: mgl32.Vec3{0, 10, 0}},
		{Name: "Spine", Parent: 0, Pos: mgl32.Vec3{0, 1.5, 0}},
		{Name: "Chest", Parent: 1, Pos: mgl32.Vec3{0, 1.5, 0}},
	})

	worlds := skeleton.WorldMatrices()
	chestWorld := TransformFromMat4(worlds[2])
	if !vecNear(chestWorld.Translation, mgl32.Vec3{0, 13, 0}, 1e-5) {
		t.Fatalf("chest world position mismatch: got=%v want=(0,13,0)", chestWorld.Translation)
	}

	bindWorld := TransformFromMat4(skeleton.BindWorldMatrix(2))
	if !vecNear(bindWorld.Translation, mgl32.Vec3{0, 13, 0}, 1e-4) {
		t.Fatalf("bind world position mismatch: got=%v want=(0,13,0)", bindWorld.Translation)
	}
}

func TestWorldMatricesTolerateChildBeforeParent(t *testing.T) {
	skeleton := NewSkeleton()
	child := NewBoneByName("Child")
	child.ParentIndex = 1
	child.Local.Translation = mgl32.Vec3{0, 1, 0}
	skeleton.AppendBone(child)
	parent := NewBoneByName("Parent")
	parent.ParentIndex = -1
	parent.Local.Translation = mgl32.Vec3{0, 5, 0}
	skeleton.AppendBone(parent)
	skeleton.RebuildChildIndexes()

	worlds := skeleton.WorldMatrices()
	childWorld := TransformFromMat4(worlds[0])
	if !vecNear(childWorld.Translation, mgl32.Vec3{0, 6, 0}, 1e-5) {
		t.Fatalf("out-of-order world mismatch: got=%v want=(0,6,0)", childWorld.Translation)
	}

	parentBone, _ := skeleton.BoneAt(1)
	if len(parentBone.ChildIndexes) != 1 || parentBone.ChildIndexes[0] != 0 {
		t.Fatalf("rebuilt child indexes mismatch: got=%v want=[0]", parentBone.ChildIndexes)
	}
}

func TestCloneIsDeepAndIndependent(t *testing.T) {
	skeleton := newSkeletonFromSpecs([]boneSpec{
		{Name: "Hips", Parent: -1, Pos: mgl32.Vec3{0, 10, 0}},
		{Name: "Spine", Parent: 0, Pos: mgl32.Vec3{0, 1.5, 0}},
	})

	clone, err := skeleton.Clone()
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	if clone.Len() != skeleton.Len() {
		t.Fatalf("clone length mismatch: got=%d want=%d", clone.Len(), skeleton.Len())
	}

	cloneBone, _ := clone.BoneAt(1)
	cloneBone.Local.Translation = mgl32.Vec3{9, 9, 9}
	originalBone, _ := skeleton.BoneAt(1)
	if vecNear(originalBone.Local.Translation, mgl32.Vec3{9, 9, 9}, 1e-6) {
		t.Fatalf("clone should not share bone instances with the original")
	}
}

func TestNormalizeBoneName(t *testing.T) {
	cases := []struct {
		In   string
		Want string
	}{
		{In: "mixamorig:Hips", Want: "hips"},
		{In: "spine_01", Want: "spine01"},
		{In: "Left Upper Arm", Want: "leftupperarm"},
		{In: "  CC_Base_Pelvis ", Want: "ccbasepelvis"},
		{In: "thigh_l", Want: "thighl"},
	}
	for _, c := range cases {
		if got := NormalizeBoneName(c.In); got != c.Want {
			t.Fatalf("normalize mismatch for %q: got=%q want=%q", c.In, got, c.Want)
		}
	}
}
