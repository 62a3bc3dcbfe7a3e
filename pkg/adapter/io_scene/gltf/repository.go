// 指示: miu200521358

// Package gltf adapts glTF documents into the retargeting domain model. The
// qmuntal/gltf library does all the parsing; this package only maps parsed
// documents to scene nodes, skeletons and animation clips, and writes
// retargeted clips back.
package gltf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/usecase/port/routput"
)

// Repository loads and saves retargeting scene data through glTF files.
type Repository struct{}

// interface guards
var (
	_ routput.ISceneReader = (*Repository)(nil)
	_ routput.IClipWriter  = (*Repository)(nil)
)

// NewRepository returns a glTF scene repository.
func NewRepository() *Repository {
	return &Repository{}
}

// LoadScene parses a glTF file into a canonical scene tree.
func (r *Repository) LoadScene(path string) (*model.SceneNode, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open glTF file %s", path)
	}
	return buildSceneTree(doc)
}

// LoadClips returns all animation clips stored in a glTF file.
func (r *Repository) LoadClips(path string) ([]*model.AnimationClip, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open glTF file %s", path)
	}
	return clipsFromDocument(doc)
}

// buildSceneTree maps a parsed document onto typed scene nodes. Joints of
// any skin become bone nodes carrying their inverse bind matrices; nodes
// with a skinned mesh become mesh nodes; plain parents become groups.
func buildSceneTree(doc *gltf.Document) (*model.SceneNode, error) {
	boneNodes := map[uint32]struct{}{}
	bindInverses := map[uint32]mgl32.Mat4{}
	for skinIndex, skin := range doc.Skins {
		for _, joint := range skin.Joints {
			boneNodes[joint] = struct{}{}
		}
		if skin.InverseBindMatrices == nil {
			continue
		}
		matrices, err := readInverseBindMatrices(doc, *skin.InverseBindMatrices)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read inverse bind matrices of skin %d", skinIndex)
		}
		for position, joint := range skin.Joints {
			if position < len(matrices) {
				bindInverses[joint] = matrices[position]
			}
		}
	}

	root := model.NewSceneNode("scene", model.NodeKindGroup)
	for _, nodeIndex := range sceneRootIndexes(doc) {
		child, err := buildSceneNode(doc, nodeIndex, boneNodes, bindInverses, map[uint32]struct{}{})
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

// sceneRootIndexes returns the root node indexes of the default scene, or
// of the first scene when no default is set.
func sceneRootIndexes(doc *gltf.Document) []uint32 {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	return nil
}

// buildSceneNode maps one glTF node and recurses into its children.
func buildSceneNode(
	doc *gltf.Document,
	index uint32,
	boneNodes map[uint32]struct{},
	bindInverses map[uint32]mgl32.Mat4,
	visited map[uint32]struct{},
) (*model.SceneNode, error) {
	if int(index) >= len(doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", index)
	}
	if _, seen := visited[index]; seen {
		return nil, errors.Errorf("node graph cycle at node %d", index)
	}
	visited[index] = struct{}{}

	gltfNode := doc.Nodes[index]
	node := model.NewSceneNode(nodeName(gltfNode, index), nodeKind(gltfNode, index, boneNodes))
	node.Local = nodeTransform(gltfNode)
	if bindInverse, exists := bindInverses[index]; exists {
		node.BindInverse = bindInverse
		node.HasBindInverse = true
	}

	for _, childIndex := range gltfNode.Children {
		child, err := buildSceneNode(doc, childIndex, boneNodes, bindInverses, visited)
		if err != nil {
			return nil, err
		}
		node.AddChild(child)
	}
	return node, nil
}

// nodeName falls back to a positional name for anonymous nodes.
func nodeName(node *gltf.Node, index uint32) string {
	if node.Name != "" {
		return node.Name
	}
	return fmt.Sprintf("node_%d", index)
}

// nodeKind discriminates the canonical node type.
func nodeKind(node *gltf.Node, index uint32, boneNodes map[uint32]struct{}) model.NodeKind {
	if _, isBone := boneNodes[index]; isBone {
		return model.NodeKindBone
	}
	if node.Mesh != nil && node.Skin != nil {
		return model.NodeKindSkinnedMesh
	}
	if node.Mesh == nil && len(node.Children) > 0 {
		return model.NodeKindGroup
	}
	return model.NodeKindOther
}

// nodeTransform converts a glTF node transform. A non-identity matrix wins;
// otherwise the TRS fields apply, with glTF defaults for zero values.
func nodeTransform(node *gltf.Node) model.Transform {
	if hasExplicitMatrix(node.Matrix) {
		return model.TransformFromMat4(mat4FromColumnSlice(node.Matrix))
	}

	transform := model.NewTransform()
	transform.Translation = mgl32.Vec3{node.Translation[0], node.Translation[1], node.Translation[2]}
	if node.Rotation != [4]float32{} {
		transform.Rotation = model.QuatFromXYZW(
			node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3],
		).Normalize()
	}
	if node.Scale != [3]float32{} {
		transform.Scale = mgl32.Vec3{node.Scale[0], node.Scale[1], node.Scale[2]}
	}
	return transform
}

// hasExplicitMatrix reports whether the matrix field holds a meaningful
// transform: neither all zeros (Go zero value) nor the identity default.
func hasExplicitMatrix(matrix [16]float32) bool {
	if matrix == [16]float32{} {
		return false
	}
	identity := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	return matrix != identity
}

// mat4FromColumnSlice builds an mgl32 matrix from glTF's column-major order.
func mat4FromColumnSlice(matrix [16]float32) mgl32.Mat4 {
	var out mgl32.Mat4
	copy(out[:], matrix[:])
	return out
}
