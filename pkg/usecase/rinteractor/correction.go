// 指示: miu200521358
package rinteractor

import (
	"github.com/go-gl/mathgl/mgl32"
)

// correctionPair is the precomputed rotation pair of one mapped bone. A
// keyframe quaternion q retargets as Left * q * Right.
type correctionPair struct {
	Valid bool
	Left  mgl32.Quat
	Right mgl32.Quat
}

// correctionFor derives the correction pair for one source/target bone pair
// from the bind replica world rotations. Embedded terms collapse to identity
// when a replica carries no embedded root world.
func correctionFor(source *bindReplica, sourceIndex int, target *bindReplica, targetIndex int) correctionPair {
	left := target.parentWorldRotationInverse(targetIndex).
		Mul(target.embeddedRotationInverse()).
		Mul(source.embeddedRotation()).
		Mul(source.parentWorldRotation(sourceIndex)).
		Normalize()
	right := source.worldRotationInverse(sourceIndex).
		Mul(source.embeddedRotationInverse()).
		Mul(target.embeddedRotation()).
		Mul(target.worldRotation(targetIndex)).
		Normalize()
	return correctionPair{Valid: true, Left: left, Right: right}
}

// computeCorrections precomputes correction pairs for every mapped source
// bone; unmapped bones keep an invalid pair and their tracks are skipped.
func computeCorrections(source *bindReplica, target *bindReplica, indexMap []int) []correctionPair {
	pairs := make([]correctionPair, len(indexMap))
	for sourceIndex, targetIndex := range indexMap {
		if targetIndex < 0 {
			continue
		}
		pairs[sourceIndex] = correctionFor(source, sourceIndex, target, targetIndex)
	}
	return pairs
}
