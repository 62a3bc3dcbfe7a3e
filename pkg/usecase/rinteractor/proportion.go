// 指示: miu200521358
package rinteractor

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// degenerateSegmentEpsilon is the smallest bind segment length admitted into
// proportion measurement.
const degenerateSegmentEpsilon = 1e-3

// proportionLandmarkPair is one canonical segment measured on both rigs.
// Each endpoint lists role candidates tried in order, so rigs without an
// explicit shoulder bone still measure the arm through the upper arm.
type proportionLandmarkPair struct {
	A []model.BoneRole
	B []model.BoneRole
}

// proportionLandmarkPairs are the segments feeding the median ratio:
// hips-spine, spine-neck, shoulder-hand both sides, hips-foot both sides.
var proportionLandmarkPairs = []proportionLandmarkPair{
	{A: []model.BoneRole{model.RoleHips}, B: []model.BoneRole{model.RoleSpine}},
	{A: []model.BoneRole{model.RoleSpine}, B: []model.BoneRole{model.RoleNeck}},
	{A: []model.BoneRole{model.RoleLeftShoulder, model.RoleLeftArm}, B: []model.BoneRole{model.RoleLeftHand}},
	{A: []model.BoneRole{model.RoleRightShoulder, model.RoleRightArm}, B: []model.BoneRole{model.RoleRightHand}},
	{A: []model.BoneRole{model.RoleHips}, B: []model.BoneRole{model.RoleLeftFoot}},
	{A: []model.BoneRole{model.RoleHips}, B: []model.BoneRole{model.RoleRightFoot}},
}

// computeProportionRatio derives the scalar applied to root-motion deltas.
// With optimal scale the ratio is the median over canonical landmark
// segments; otherwise it is the average over mapped-bone first-child
// segments. With no usable measurement the ratio defaults to 1.
func computeProportionRatio(
	source *bindReplica,
	target *bindReplica,
	indexMap []int,
	useOptimalScale bool,
) (float32, []model.Diagnostic) {
	if useOptimalScale {
		return medianLandmarkRatio(source, target, indexMap)
	}
	return averageSegmentRatio(source, target, indexMap)
}

// medianLandmarkRatio measures the canonical landmark pairs on both replicas
// and takes the median of per-pair target/source length ratios.
func medianLandmarkRatio(
	source *bindReplica,
	target *bindReplica,
	indexMap []int,
) (float32, []model.Diagnostic) {
	diagnostics := make([]model.Diagnostic, 0, 2)
	ratios := make([]float64, 0, len(proportionLandmarkPairs))

	for _, pair := range proportionLandmarkPairs {
		sourceA, foundA := findLandmark(source.skeleton, pair.A)
		sourceB, foundB := findLandmark(source.skeleton, pair.B)
		if !foundA || !foundB {
			continue
		}
		targetA := mappedIndex(indexMap, sourceA)
		targetB := mappedIndex(indexMap, sourceB)
		if targetA < 0 || targetB < 0 {
			continue
		}

		sourceLength := source.worldPositionAt(sourceB).Sub(source.worldPositionAt(sourceA)).Len()
		if sourceLength < degenerateSegmentEpsilon {
			diagnostics = append(diagnostics, model.NewDiagnostic(
				model.RetargetWarningDegenerateBindPose,
				fmt.Sprintf("segment %d-%d dropped from proportion measurement: length %.6f", sourceA, sourceB, sourceLength),
			))
			continue
		}
		targetLength := target.worldPositionAt(targetB).Sub(target.worldPositionAt(targetA)).Len()
		ratios = append(ratios, float64(targetLength)/float64(sourceLength))
	}

	if len(ratios) == 0 {
		diagnostics = append(diagnostics, model.NewDiagnostic(
			model.RetargetWarningNoRoleLandmarks,
			"no landmark segments measurable; proportion ratio defaults to 1",
		))
		return 1, diagnostics
	}

	sort.Float64s(ratios)
	return float32(stat.Quantile(0.5, stat.Empirical, ratios, nil)), diagnostics
}

// averageSegmentRatio averages target/source first-child segment length
// ratios over every mapped bone.
func averageSegmentRatio(
	source *bindReplica,
	target *bindReplica,
	indexMap []int,
) (float32, []model.Diagnostic) {
	diagnostics := make([]model.Diagnostic, 0, 2)
	sum := 0.0
	count := 0

	for sourceIndex, targetIndex := range indexMap {
		if targetIndex < 0 {
			continue
		}
		sourceLength, sourceOK := firstChildSegmentLength(source, sourceIndex)
		targetLength, targetOK := firstChildSegmentLength(target, targetIndex)
		if !sourceOK || !targetOK {
			continue
		}
		if sourceLength < degenerateSegmentEpsilon {
			diagnostics = append(diagnostics, model.NewDiagnostic(
				model.RetargetWarningDegenerateBindPose,
				fmt.Sprintf("bone %d dropped from proportion measurement: segment length %.6f", sourceIndex, sourceLength),
			))
			continue
		}
		sum += float64(targetLength) / float64(sourceLength)
		count++
	}

	if count == 0 {
		return 1, diagnostics
	}
	return float32(sum / float64(count)), diagnostics
}

// firstChildSegmentLength measures the bind segment from a bone to its first
// child in world space.
func firstChildSegmentLength(replica *bindReplica, index int) (float32, bool) {
	bone, exists := replica.skeleton.BoneAt(index)
	if !exists || len(bone.ChildIndexes) == 0 {
		return 0, false
	}
	childIndex := bone.ChildIndexes[0]
	return replica.worldPositionAt(childIndex).Sub(replica.worldPositionAt(index)).Len(), true
}

// findLandmark resolves the first role candidate present in the skeleton.
func findLandmark(skel *model.Skeleton, candidates []model.BoneRole) (int, bool) {
	for _, role := range candidates {
		if index, found := model.FindBoneByRole(skel, role); found {
			return index, true
		}
	}
	return -1, false
}

// mappedIndex returns the mapped target index, -1 when out of range.
func mappedIndex(indexMap []int, sourceIndex int) int {
	if sourceIndex < 0 || sourceIndex >= len(indexMap) {
		return -1
	}
	return indexMap[sourceIndex]
}
