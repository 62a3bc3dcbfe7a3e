// 指示: miu200521358
package model

import (
	"sort"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	deepcopy "github.com/tiendc/go-deepcopy"
)

// functionalRootKeys are normalized names accepted as a functional root.
var functionalRootKeys = map[string]struct{}{
	"hips":   {},
	"pelvis": {},
	"root":   {},
}

// Skeleton is an arena of bones in stable order plus per-bone bind inverses.
// Bone locals and bind inverses are expressed relative to the root bone's
// scene parent; that parent's own world transform is kept in RootParentWorld.
type Skeleton struct {
	Bones           []*Bone
	BindInverses    []mgl32.Mat4
	RootParentWorld mgl32.Mat4
}

// DuplicateBoneName is one repeated bone name and its occurrence count.
type DuplicateBoneName struct {
	Name  string
	Count int
}

// NewSkeleton returns an empty skeleton arena.
func NewSkeleton() *Skeleton {
	return &Skeleton{
		Bones:           make([]*Bone, 0, 64),
		BindInverses:    make([]mgl32.Mat4, 0, 64),
		RootParentWorld: mgl32.Ident4(),
	}
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bones)
}

// AppendBone adds a bone to the arena and returns its assigned index.
func (s *Skeleton) AppendBone(bone *Bone) int {
	if s == nil || bone == nil {
		return -1
	}
	bone.Index = len(s.Bones)
	s.Bones = append(s.Bones, bone)
	s.BindInverses = append(s.BindInverses, mgl32.Ident4())
	if bone.ParentIndex >= 0 && bone.ParentIndex < len(s.Bones)-1 {
		parent := s.Bones[bone.ParentIndex]
		parent.ChildIndexes = append(parent.ChildIndexes, bone.Index)
	}
	return bone.Index
}

// SetBindInverse stores the world-space bind-pose inverse for one bone.
func (s *Skeleton) SetBindInverse(index int, bindInverse mgl32.Mat4) {
	if s == nil || index < 0 || index >= len(s.BindInverses) {
		return
	}
	s.BindInverses[index] = bindInverse
}

// BoneAt returns the bone at index.
func (s *Skeleton) BoneAt(index int) (*Bone, bool) {
	if s == nil || index < 0 || index >= len(s.Bones) {
		return nil, false
	}
	return s.Bones[index], true
}

// FindByName returns the index of the first bone with the given name.
// Repeated names are tolerated and reported by DetectDuplicates.
func (s *Skeleton) FindByName(name string) (int, bool) {
	if s == nil {
		return -1, false
	}
	for index, bone := range s.Bones {
		if bone != nil && bone.Name == name {
			return index, true
		}
	}
	return -1, false
}

// FindByRef returns the index of the exact bone instance.
func (s *Skeleton) FindByRef(ref *Bone) (int, bool) {
	if s == nil || ref == nil {
		return -1, false
	}
	for index, bone := range s.Bones {
		if bone == ref {
			return index, true
		}
	}
	return -1, false
}

// RootBones returns the indexes of bones whose parent is not in the arena.
func (s *Skeleton) RootBones() []int {
	if s == nil {
		return nil
	}
	roots := make([]int, 0, 2)
	for index, bone := range s.Bones {
		if bone == nil {
			continue
		}
		if bone.ParentIndex < 0 || bone.ParentIndex >= len(s.Bones) {
			roots = append(roots, index)
		}
	}
	return roots
}

// FunctionalRoot returns the bone treated as the character root for motion:
// the first bone named hips, pelvis or root after normalization, else the
// first root bone, else -1.
func (s *Skeleton) FunctionalRoot() int {
	if s == nil || len(s.Bones) == 0 {
		return -1
	}
	for index, bone := range s.Bones {
		if bone == nil {
			continue
		}
		if _, exists := functionalRootKeys[NormalizeBoneName(bone.Name)]; exists {
			return index
		}
	}
	roots := s.RootBones()
	if len(roots) > 0 {
		return roots[0]
	}
	return -1
}

// DetectDuplicates returns repeated bone names in first-appearance order.
func (s *Skeleton) DetectDuplicates() []DuplicateBoneName {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Bones))
	for _, bone := range s.Bones {
		if bone == nil {
			continue
		}
		names = append(names, bone.Name)
	}
	return DetectDuplicateBoneNames(names)
}

// DetectDuplicateBoneNames returns names appearing more than once with counts.
func DetectDuplicateBoneNames(names []string) []DuplicateBoneName {
	counts := map[string]int{}
	order := make([]string, 0, len(names))
	for _, name := range names {
		if _, exists := counts[name]; !exists {
			order = append(order, name)
		}
		counts[name]++
	}

	duplicates := make([]DuplicateBoneName, 0, 4)
	for _, name := range order {
		if counts[name] > 1 {
			duplicates = append(duplicates, DuplicateBoneName{
				Name:  name,
				Count: counts[name],
			})
		}
	}
	return duplicates
}

// WorldMatrices composes every bone's local transform down its parent chain.
// Parent order may be arbitrary; cycles are cut at the revisited bone.
func (s *Skeleton) WorldMatrices() []mgl32.Mat4 {
	if s == nil {
		return nil
	}
	worlds := make([]mgl32.Mat4, len(s.Bones))
	state := make([]int, len(s.Bones))
	for index := range s.Bones {
		s.resolveWorldMatrix(index, worlds, state)
	}
	return worlds
}

// WorldMatrix composes one bone's world matrix from its parent chain.
func (s *Skeleton) WorldMatrix(index int) mgl32.Mat4 {
	if s == nil || index < 0 || index >= len(s.Bones) {
		return mgl32.Ident4()
	}
	worlds := make([]mgl32.Mat4, len(s.Bones))
	state := make([]int, len(s.Bones))
	return s.resolveWorldMatrix(index, worlds, state)
}

// resolveWorldMatrix memoizes parent-chain composition with a cycle guard.
func (s *Skeleton) resolveWorldMatrix(index int, worlds []mgl32.Mat4, state []int) mgl32.Mat4 {
	const (
		stateUnvisited = 0
		stateVisiting  = 1
		stateDone      = 2
	)
	if index < 0 || index >= len(s.Bones) || s.Bones[index] == nil {
		return mgl32.Ident4()
	}
	if state[index] == stateDone {
		return worlds[index]
	}
	if state[index] == stateVisiting {
		return s.Bones[index].Local.Mat4()
	}

	state[index] = stateVisiting
	world := s.Bones[index].Local.Mat4()
	parentIndex := s.Bones[index].ParentIndex
	if parentIndex >= 0 && parentIndex < len(s.Bones) {
		world = s.resolveWorldMatrix(parentIndex, worlds, state).Mul4(world)
	}
	worlds[index] = world
	state[index] = stateDone
	return world
}

// BindWorldMatrix returns the world matrix the bone occupies in its bind pose.
func (s *Skeleton) BindWorldMatrix(index int) mgl32.Mat4 {
	if s == nil || index < 0 || index >= len(s.BindInverses) {
		return mgl32.Ident4()
	}
	return s.BindInverses[index].Inv()
}

// RebuildChildIndexes recomputes every bone's child list from parent indexes.
func (s *Skeleton) RebuildChildIndexes() {
	if s == nil {
		return
	}
	for _, bone := range s.Bones {
		if bone != nil {
			bone.ChildIndexes = bone.ChildIndexes[:0]
		}
	}
	for index, bone := range s.Bones {
		if bone == nil || bone.ParentIndex < 0 || bone.ParentIndex >= len(s.Bones) {
			continue
		}
		parent := s.Bones[bone.ParentIndex]
		if parent == nil || bone.ParentIndex == index {
			continue
		}
		parent.ChildIndexes = append(parent.ChildIndexes, index)
	}
	for _, bone := range s.Bones {
		if bone != nil {
			sort.Ints(bone.ChildIndexes)
		}
	}
}

// Clone returns a deep copy of the skeleton arena.
func (s *Skeleton) Clone() (*Skeleton, error) {
	if s == nil {
		return nil, nil
	}
	clone := &Skeleton{}
	if err := deepcopy.Copy(clone, s); err != nil {
		return nil, err
	}
	return clone, nil
}

// NormalizeBoneName lowercases a bone name, strips a namespace prefix such
// as mixamorig:, and removes everything that is not a letter or digit.
func NormalizeBoneName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if separator := strings.LastIndexByte(lowered, ':'); separator >= 0 {
		lowered = lowered[separator+1:]
	}

	var builder strings.Builder
	builder.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
