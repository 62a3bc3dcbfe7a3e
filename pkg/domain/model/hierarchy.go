// 指示: miu200521358
package model

import (
	"sort"
	"strings"
)

// HierarchyNode is one row of a skeleton hierarchy view.
type HierarchyNode struct {
	BoneIndex int
	Name      string
	Mapped    bool
	Children  []*HierarchyNode
}

// HierarchyView is a read-only rendering of a skeleton's parent/child
// structure annotated with bone-mapping membership.
type HierarchyView struct {
	Roots []*HierarchyNode
}

// BuildHierarchyView assembles the hierarchy of a skeleton. isSource selects
// whether mapping membership is checked against the mapping's domain or image.
func BuildHierarchyView(skel *Skeleton, mapping *BoneMapping, isSource bool) *HierarchyView {
	view := &HierarchyView{}
	if skel == nil || skel.Len() == 0 {
		return view
	}

	childrenByParent := collectChildIndexesByParent(skel)
	for _, rootIndex := range skel.RootBones() {
		view.Roots = append(view.Roots, buildHierarchyNode(skel, mapping, isSource, rootIndex, childrenByParent))
	}
	return view
}

// buildHierarchyNode renders one bone and recurses into its children.
func buildHierarchyNode(
	skel *Skeleton,
	mapping *BoneMapping,
	isSource bool,
	index int,
	childrenByParent map[int][]int,
) *HierarchyNode {
	bone, _ := skel.BoneAt(index)
	node := &HierarchyNode{
		BoneIndex: index,
		Name:      bone.Name,
		Mapped:    isBoneMapped(mapping, bone.Name, isSource),
	}
	for _, childIndex := range childrenByParent[index] {
		node.Children = append(node.Children, buildHierarchyNode(skel, mapping, isSource, childIndex, childrenByParent))
	}
	return node
}

// isBoneMapped checks mapping membership on the requested side.
func isBoneMapped(mapping *BoneMapping, boneName string, isSource bool) bool {
	if mapping == nil {
		return false
	}
	if isSource {
		return mapping.Has(boneName)
	}
	return mapping.HasTargetName(boneName)
}

// collectChildIndexesByParent groups child bone indexes under each parent.
func collectChildIndexesByParent(skel *Skeleton) map[int][]int {
	childrenByParent := map[int][]int{}
	for index, bone := range skel.Bones {
		if bone == nil || bone.ParentIndex < 0 || bone.ParentIndex >= len(skel.Bones) {
			continue
		}
		childrenByParent[bone.ParentIndex] = append(childrenByParent[bone.ParentIndex], index)
	}
	for parentIndex := range childrenByParent {
		sort.Ints(childrenByParent[parentIndex])
	}
	return childrenByParent
}

// String renders the view as an indented tree with mapping markers.
func (v *HierarchyView) String() string {
	if v == nil || len(v.Roots) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, root := range v.Roots {
		renderHierarchyNode(&builder, root, 0)
	}
	return builder.String()
}

// renderHierarchyNode writes one row and recurses with deeper indentation.
func renderHierarchyNode(builder *strings.Builder, node *HierarchyNode, depth int) {
	if node == nil {
		return
	}
	builder.WriteString(strings.Repeat("  ", depth))
	builder.WriteString(node.Name)
	if node.Mapped {
		builder.WriteString(" [mapped]")
	} else {
		builder.WriteString(" [unmapped]")
	}
	builder.WriteString("\n")
	for _, child := range node.Children {
		renderHierarchyNode(builder, child, depth+1)
	}
}
