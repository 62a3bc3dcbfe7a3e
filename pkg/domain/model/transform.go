// 指示: miu200521358

// Package model holds the retargeting data model: TRS transforms, bone
// arenas, scene nodes, animation clips, bone mappings, and the diagnostic
// values attached to retargeting results.
package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// transformScaleEpsilon is the smallest basis length treated as non-degenerate.
	transformScaleEpsilon = 1e-8
)

// Transform is a TRS decomposition of an affine transform.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Translation: mgl32.Vec3{0, 0, 0},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Mat4 composes the transform into a matrix in translate, rotate, scale order.
func (t Transform) Mat4() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	rotate := t.Rotation.Normalize().Mat4()
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(rotate).Mul4(scale)
}

// Inverse returns the decomposed inverse of the transform.
func (t Transform) Inverse() Transform {
	return TransformFromMat4(t.Mat4().Inv())
}

// Apply maps a point through the transform.
func (t Transform) Apply(v mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{v.X() * t.Scale.X(), v.Y() * t.Scale.Y(), v.Z() * t.Scale.Z()}
	return t.Rotation.Normalize().Rotate(scaled).Add(t.Translation)
}

// TransformFromMat4 decomposes an affine matrix into translation, rotation and scale.
func TransformFromMat4(m mgl32.Mat4) Transform {
	translation := mgl32.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}

	basisX := mgl32.Vec3{m.At(0, 0), m.At(1, 0), m.At(2, 0)}
	basisY := mgl32.Vec3{m.At(0, 1), m.At(1, 1), m.At(2, 1)}
	basisZ := mgl32.Vec3{m.At(0, 2), m.At(1, 2), m.At(2, 2)}

	scaleX := basisX.Len()
	if m.Det() < 0 {
		scaleX = -scaleX
	}
	scale := mgl32.Vec3{scaleX, basisY.Len(), basisZ.Len()}

	rotation := mgl32.QuatIdent()
	if absFloat32(scale.X()) > transformScaleEpsilon &&
		scale.Y() > transformScaleEpsilon &&
		scale.Z() > transformScaleEpsilon {
		normX := basisX.Mul(1.0 / scale.X())
		normY := basisY.Mul(1.0 / scale.Y())
		normZ := basisZ.Mul(1.0 / scale.Z())
		rotationMat := mgl32.Mat4FromCols(
			normX.Vec4(0),
			normY.Vec4(0),
			normZ.Vec4(0),
			mgl32.Vec4{0, 0, 0, 1},
		)
		rotation = mgl32.Mat4ToQuat(rotationMat).Normalize()
	}

	return Transform{
		Translation: translation,
		Rotation:    rotation,
		Scale:       scale,
	}
}

// QuatFromXYZW builds a quaternion from component order x, y, z, w.
func QuatFromXYZW(x float32, y float32, z float32, w float32) mgl32.Quat {
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

// QuatXYZW returns quaternion components in order x, y, z, w.
func QuatXYZW(q mgl32.Quat) (float32, float32, float32, float32) {
	return q.V.X(), q.V.Y(), q.V.Z(), q.W
}

// absFloat32 returns the absolute value.
func absFloat32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
