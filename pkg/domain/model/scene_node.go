// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeKind discriminates scene node types during skeleton extraction.
type NodeKind int

const (
	// NodeKindOther is any node without a recognized role.
	NodeKindOther NodeKind = iota
	// NodeKindBone is a joint node referenced by a skin.
	NodeKindBone
	// NodeKindSkinnedMesh is a mesh node deformed by a skeleton.
	NodeKindSkinnedMesh
	// NodeKindGroup is a grouping node such as an armature container.
	NodeKindGroup
)

// SceneNode is one node of a loaded scene tree in canonical form.
// BindInverse, when present, is relative to the skeleton root's scene parent.
type SceneNode struct {
	Name           string
	Kind           NodeKind
	Local          Transform
	BindInverse    mgl32.Mat4
	HasBindInverse bool
	Children       []*SceneNode
}

// NewSceneNode returns a node with an identity local transform.
func NewSceneNode(name string, kind NodeKind) *SceneNode {
	return &SceneNode{
		Name:  name,
		Kind:  kind,
		Local: NewTransform(),
	}
}

// AddChild appends a child node and returns it.
func (n *SceneNode) AddChild(child *SceneNode) *SceneNode {
	if n == nil || child == nil {
		return child
	}
	n.Children = append(n.Children, child)
	return child
}

// skeletonExtraction carries state across one extraction traversal.
type skeletonExtraction struct {
	skeleton           *Skeleton
	providedInverses   []bool
	rootParentCaptured bool
}

// ExtractSkeleton collects bone nodes from a scene subtree in depth-first
// order. When the subtree holds no bone nodes, every non-mesh node is
// collected instead so animation-only hierarchies still yield a skeleton.
func ExtractSkeleton(root *SceneNode) (*Skeleton, []Diagnostic) {
	skeleton, diagnostics := extractSkeletonByKind(root, func(node *SceneNode) bool {
		return node.Kind == NodeKindBone
	})
	if skeleton.Len() > 0 {
		return skeleton, diagnostics
	}
	return extractSkeletonByKind(root, func(node *SceneNode) bool {
		return node.Kind != NodeKindSkinnedMesh
	})
}

// ExtractSkeletonWithClip extracts a skeleton and, when the scene yields no
// bones at all, recovers bone names from the clip's track names.
func ExtractSkeletonWithClip(root *SceneNode, clip *AnimationClip) (*Skeleton, []Diagnostic) {
	skeleton, diagnostics := ExtractSkeleton(root)
	if skeleton.Len() > 0 || clip == nil {
		return skeleton, diagnostics
	}
	recovered, recoveredDiagnostics := RecoverSkeletonFromClip(clip)
	return recovered, append(diagnostics, recoveredDiagnostics...)
}

// RecoverSkeletonFromClip builds a flat skeleton from clip track names.
func RecoverSkeletonFromClip(clip *AnimationClip) (*Skeleton, []Diagnostic) {
	skeleton := NewSkeleton()
	if clip == nil {
		return skeleton, nil
	}

	for _, name := range clip.BoneNames() {
		skeleton.AppendBone(NewBoneByName(name))
	}
	if skeleton.Len() == 0 {
		return skeleton, nil
	}
	diagnostics := []Diagnostic{
		NewDiagnostic(
			RetargetWarningBonesRecoveredFromClip,
			fmt.Sprintf("recovered %d bones from clip %s", skeleton.Len(), clip.Name),
		),
	}
	return skeleton, diagnostics
}

// extractSkeletonByKind runs one traversal with a node admission predicate.
func extractSkeletonByKind(root *SceneNode, admit func(*SceneNode) bool) (*Skeleton, []Diagnostic) {
	extraction := &skeletonExtraction{skeleton: NewSkeleton()}
	if root != nil {
		extraction.visit(root, -1, mgl32.Ident4(), mgl32.Ident4(), admit)
	}
	extraction.fillMissingBindInverses()

	diagnostics := make([]Diagnostic, 0, 2)
	for _, duplicate := range extraction.skeleton.DetectDuplicates() {
		diagnostics = append(diagnostics, NewDiagnostic(
			RetargetWarningDuplicateBoneNames,
			fmt.Sprintf("bone name %s appears %d times; lookups use the first", duplicate.Name, duplicate.Count),
		))
	}
	return extraction.skeleton, diagnostics
}

// visit walks one node. pending accumulates locals of skipped non-bone nodes
// since the nearest collected ancestor; worldAbove is the parent scene world.
func (e *skeletonExtraction) visit(
	node *SceneNode,
	parentBoneIndex int,
	pending mgl32.Mat4,
	worldAbove mgl32.Mat4,
	admit func(*SceneNode) bool,
) {
	if node == nil {
		return
	}

	localMat := node.Local.Mat4()
	nextParentBoneIndex := parentBoneIndex
	nextPending := pending.Mul4(localMat)

	if admit(node) {
		arenaLocal := localMat
		if parentBoneIndex < 0 {
			if !e.rootParentCaptured {
				e.skeleton.RootParentWorld = worldAbove
				e.rootParentCaptured = true
			}
		} else {
			arenaLocal = pending.Mul4(localMat)
		}

		bone := NewBoneByName(node.Name)
		bone.ParentIndex = parentBoneIndex
		bone.Local = TransformFromMat4(arenaLocal)
		index := e.skeleton.AppendBone(bone)

		e.providedInverses = append(e.providedInverses, node.HasBindInverse)
		if node.HasBindInverse {
			e.skeleton.SetBindInverse(index, node.BindInverse)
		}

		nextParentBoneIndex = index
		nextPending = mgl32.Ident4()
	}

	childWorldAbove := worldAbove.Mul4(localMat)
	for _, child := range node.Children {
		e.visit(child, nextParentBoneIndex, nextPending, childWorldAbove, admit)
	}
}

// fillMissingBindInverses derives bind inverses from the extracted pose for
// bones whose scene data carried none.
func (e *skeletonExtraction) fillMissingBindInverses() {
	if e.skeleton.Len() == 0 {
		return
	}
	worlds := e.skeleton.WorldMatrices()
	for index := range e.skeleton.Bones {
		if index < len(e.providedInverses) && e.providedInverses[index] {
			continue
		}
		e.skeleton.SetBindInverse(index, worlds[index].Inv())
	}
}
