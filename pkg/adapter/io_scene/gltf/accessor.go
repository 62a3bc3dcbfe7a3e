// 指示: miu200521358
package gltf

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// readAccessorData decodes one accessor with bounds checking.
func readAccessorData(doc *gltf.Document, index uint32) (any, error) {
	if int(index) >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor index %d out of range", index)
	}
	data, err := modeler.ReadAccessor(doc, doc.Accessors[index], nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read accessor %d", index)
	}
	return data, nil
}

// readScalarFloats decodes a SCALAR float accessor, as used for keyframe times.
func readScalarFloats(doc *gltf.Document, index uint32) ([]float32, error) {
	data, err := readAccessorData(doc, index)
	if err != nil {
		return nil, err
	}
	scalars, ok := data.([]float32)
	if !ok {
		return nil, errors.Errorf("accessor %d is not a float scalar accessor", index)
	}
	return scalars, nil
}

// readKeyframeValues decodes a VEC3 or VEC4 float accessor into a flat
// value slice plus its per-keyframe stride.
func readKeyframeValues(doc *gltf.Document, index uint32) ([]float32, int, error) {
	data, err := readAccessorData(doc, index)
	if err != nil {
		return nil, 0, err
	}
	switch values := data.(type) {
	case [][3]float32:
		flat := make([]float32, 0, len(values)*3)
		for _, value := range values {
			flat = append(flat, value[0], value[1], value[2])
		}
		return flat, 3, nil
	case [][4]float32:
		flat := make([]float32, 0, len(values)*4)
		for _, value := range values {
			flat = append(flat, value[0], value[1], value[2], value[3])
		}
		return flat, 4, nil
	default:
		return nil, 0, errors.Errorf("accessor %d is not a VEC3/VEC4 float accessor", index)
	}
}

// readInverseBindMatrices decodes a MAT4 accessor into column-major matrices.
func readInverseBindMatrices(doc *gltf.Document, index uint32) ([]mgl32.Mat4, error) {
	data, err := readAccessorData(doc, index)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][4][4]float32)
	if !ok {
		return nil, errors.Errorf("accessor %d is not a MAT4 float accessor", index)
	}
	matrices := make([]mgl32.Mat4, len(raw))
	for i, columns := range raw {
		var flat [16]float32
		for column := 0; column < 4; column++ {
			for row := 0; row < 4; row++ {
				flat[column*4+row] = columns[column][row]
			}
		}
		matrices[i] = mat4FromColumnSlice(flat)
	}
	return matrices, nil
}
