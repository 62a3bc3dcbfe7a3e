// 指示: miu200521358
package rinteractor

import (
	"strings"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// DetectRigType classifies a rig's naming convention from its raw bone names.
// Checks run from the most specific convention to the most generic.
func DetectRigType(names []string) model.RigType {
	joined := strings.ToLower(strings.Join(names, ", "))

	if strings.Contains(joined, "mixamorig:") {
		return model.RigTypeMixamo
	}
	if strings.Contains(joined, "pelvis") &&
		strings.Contains(joined, "spine_01") &&
		(strings.Contains(joined, "clavicle_l") || strings.Contains(joined, "clavicle_r")) {
		return model.RigTypeUE5
	}
	if strings.Contains(joined, "hips") &&
		strings.Contains(joined, "spine") &&
		strings.Contains(joined, "chest") &&
		(strings.Contains(joined, "leftupperarm") || strings.Contains(joined, "left upper arm")) {
		return model.RigTypeUnity
	}
	if isGenericHumanoid(joined) {
		return model.RigTypeHumanoid
	}
	return model.RigTypeCustom
}

// isGenericHumanoid reports whether the five coarse humanoid landmarks exist.
func isGenericHumanoid(joined string) bool {
	hasAny := func(keys ...string) bool {
		for _, key := range keys {
			if strings.Contains(joined, key) {
				return true
			}
		}
		return false
	}
	return hasAny("hips", "pelvis") &&
		hasAny("spine") &&
		hasAny("head", "neck") &&
		hasAny("arm", "shoulder") &&
		hasAny("leg", "thigh")
}
