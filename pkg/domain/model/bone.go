// 指示: miu200521358
package model

// Bone is one joint owned by a skeleton arena.
type Bone struct {
	Name         string
	Index        int
	Local        Transform
	ParentIndex  int
	ChildIndexes []int
}

// NewBoneByName returns a detached bone with an identity local transform.
func NewBoneByName(name string) *Bone {
	return &Bone{
		Name:        name,
		Index:       -1,
		Local:       NewTransform(),
		ParentIndex: -1,
	}
}

// IsRoot reports whether the bone has no parent inside its arena.
func (b *Bone) IsRoot() bool {
	return b == nil || b.ParentIndex < 0
}
