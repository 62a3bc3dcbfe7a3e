// 指示: miu200521358
package rinteractor

import (
	"fmt"
	"time"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// GenerateAutomaticMapping aligns two rigs by canonical role. Base roles are
// mapped first in priority order, then fingers when includeHands is set; a
// target bone is claimed at most once. Confidence is the mapped share of the
// base role set; fingers never change it.
func GenerateAutomaticMapping(
	sourceNames []string,
	targetNames []string,
	includeHands bool,
) (*model.BoneMapping, []model.Diagnostic) {
	mapping := model.NewBoneMapping()
	mapping.SourceRigType = DetectRigType(sourceNames)
	mapping.TargetRigType = DetectRigType(targetNames)
	mapping.CreatedAt = time.Now()

	usedTargets := map[string]struct{}{}
	diagnostics := make([]model.Diagnostic, 0, 4)

	mappedBaseRoles := 0
	for _, role := range model.BaseRoles() {
		mapped, roleDiagnostics := mapRole(mapping, usedTargets, role, sourceNames, targetNames)
		diagnostics = append(diagnostics, roleDiagnostics...)
		if mapped {
			mappedBaseRoles++
		}
	}
	mapping.Confidence = float64(mappedBaseRoles) / float64(len(model.BaseRoles()))

	if includeHands {
		for _, role := range model.FingerRoles() {
			_, roleDiagnostics := mapRole(mapping, usedTargets, role, sourceNames, targetNames)
			diagnostics = append(diagnostics, roleDiagnostics...)
		}
	}
	return mapping, diagnostics
}

// mapRole claims the first source/target bones matching one role.
func mapRole(
	mapping *model.BoneMapping,
	usedTargets map[string]struct{},
	role model.BoneRole,
	sourceNames []string,
	targetNames []string,
) (bool, []model.Diagnostic) {
	sourceName, sourceFound := model.MatchRoleName(role, sourceNames)
	targetName, targetFound := model.MatchRoleName(role, targetNames)
	if !sourceFound || !targetFound {
		return false, nil
	}
	if mapping.Has(sourceName) {
		return false, nil
	}
	if _, claimed := usedTargets[targetName]; claimed {
		diagnostic := model.NewDiagnostic(
			model.RetargetWarningMappingTargetClaimed,
			fmt.Sprintf("role %s skipped: target bone %s is already claimed", role, targetName),
		)
		return false, []model.Diagnostic{diagnostic}
	}

	mapping.Add(sourceName, targetName)
	usedTargets[targetName] = struct{}{}
	return true, nil
}
