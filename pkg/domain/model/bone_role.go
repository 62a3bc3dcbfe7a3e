// 指示: miu200521358
package model

import "strings"

// BoneRole identifies a canonical humanoid joint used to align rigs whose
// bones carry different naming conventions.
type BoneRole string

const (
	RoleRoot          BoneRole = "Root"
	RoleHips          BoneRole = "Hips"
	RoleSpine         BoneRole = "Spine"
	RoleSpine1        BoneRole = "Spine1"
	RoleSpine2        BoneRole = "Spine2"
	RoleNeck          BoneRole = "Neck"
	RoleHead          BoneRole = "Head"
	RoleLeftShoulder  BoneRole = "LeftShoulder"
	RoleLeftArm       BoneRole = "LeftArm"
	RoleLeftForeArm   BoneRole = "LeftForeArm"
	RoleLeftHand      BoneRole = "LeftHand"
	RoleRightShoulder BoneRole = "RightShoulder"
	RoleRightArm      BoneRole = "RightArm"
	RoleRightForeArm  BoneRole = "RightForeArm"
	RoleRightHand     BoneRole = "RightHand"
	RoleLeftUpLeg     BoneRole = "LeftUpLeg"
	RoleLeftLeg       BoneRole = "LeftLeg"
	RoleLeftFoot      BoneRole = "LeftFoot"
	RoleLeftToeBase   BoneRole = "LeftToeBase"
	RoleRightUpLeg    BoneRole = "RightUpLeg"
	RoleRightLeg      BoneRole = "RightLeg"
	RoleRightFoot     BoneRole = "RightFoot"
	RoleRightToeBase  BoneRole = "RightToeBase"
)

// baseRoleOrder is the mapping priority order. Earlier roles claim target
// bones first; confidence counts these roles only.
var baseRoleOrder = []BoneRole{
	RoleRoot,
	RoleHips,
	RoleSpine,
	RoleSpine1,
	RoleSpine2,
	RoleNeck,
	RoleHead,
	RoleLeftShoulder,
	RoleLeftArm,
	RoleLeftForeArm,
	RoleLeftHand,
	RoleRightShoulder,
	RoleRightArm,
	RoleRightForeArm,
	RoleRightHand,
	RoleLeftUpLeg,
	RoleLeftLeg,
	RoleLeftFoot,
	RoleLeftToeBase,
	RoleRightUpLeg,
	RoleRightLeg,
	RoleRightFoot,
	RoleRightToeBase,
}

// baseRolePatterns maps each base role to its normalized name patterns in
// priority order. Patterns cover Mixamo, UE5, Unity humanoid and common
// generic conventions; matching tries equality first, then containment.
var baseRolePatterns = map[BoneRole][]string{
	RoleRoot:  {"root", "reference", "motion"},
	RoleHips:  {"hips", "pelvis", "hip", "cog"},
	RoleSpine: {"spine", "spine01"},
	RoleSpine1: {
		"spine1", "spine02", "chest",
	},
	RoleSpine2: {
		"spine2", "spine03", "upperchest", "chestupper",
	},
	RoleNeck: {"neck", "neck01"},
	RoleHead: {"head"},
	RoleLeftShoulder: {
		"leftshoulder", "claviclel", "lclavicle", "leftclavicle",
		"shoulderl", "lshoulder", "leftcollar", "collarl",
	},
	RoleLeftArm: {
		"leftarm", "leftupperarm", "upperarml", "luparm",
		"arml", "larm",
	},
	RoleLeftForeArm: {
		"leftforearm", "leftlowerarm", "lowerarml", "forearml",
		"lforearm", "leftelbow", "elbowl",
	},
	RoleLeftHand: {
		"lefthand", "handl", "lhand", "leftwrist", "wristl",
	},
	RoleRightShoulder: {
		"rightshoulder", "clavicler", "rclavicle", "rightclavicle",
		"shoulderr", "rshoulder", "rightcollar", "collarr",
	},
	RoleRightArm: {
		"rightarm", "rightupperarm", "upperarmr", "ruparm",
		"armr", "rarm",
	},
	RoleRightForeArm: {
		"rightforearm", "rightlowerarm", "lowerarmr", "forearmr",
		"rforearm", "rightelbow", "elbowr",
	},
	RoleRightHand: {
		"righthand", "handr", "rhand", "rightwrist", "wristr",
	},
	RoleLeftUpLeg: {
		"leftupleg", "leftupperleg", "thighl", "lthigh",
		"leftthigh", "upperlegl", "uplegl",
	},
	RoleLeftLeg: {
		"leftleg", "leftlowerleg", "calfl", "lcalf",
		"lowerlegl", "leftknee", "kneel", "shinl", "legl",
	},
	RoleLeftFoot: {
		"leftfoot", "footl", "lfoot", "leftankle", "anklel",
	},
	RoleLeftToeBase: {
		"lefttoebase", "lefttoes", "balll", "lball",
		"toebasel", "lefttoe", "toel",
	},
	RoleRightUpLeg: {
		"rightupleg", "rightupperleg", "thighr", "rthigh",
		"rightthigh", "upperlegr", "uplegr",
	},
	RoleRightLeg: {
		"rightleg", "rightlowerleg", "calfr", "rcalf",
		"lowerlegr", "rightknee", "kneer", "shinr", "legr",
	},
	RoleRightFoot: {
		"rightfoot", "footr", "rfoot", "rightankle", "ankler",
	},
	RoleRightToeBase: {
		"righttoebase", "righttoes", "ballr", "rball",
		"toebaser", "righttoe", "toer",
	},
}

// fingerKeywords are substrings that mark a bone name as a finger segment.
// Hand roles never claim a name containing one of these.
var fingerKeywords = []string{
	"thumb", "index", "middle", "ring", "pinky", "little", "finger",
}

// unityFingerSegmentNames maps segment numbers to Unity humanoid suffixes.
var unityFingerSegmentNames = map[int]string{
	1: "proximal",
	2: "intermediate",
	3: "distal",
	4: "tip",
}

// fingerRoleOrder and fingerRolePatterns are generated from side, finger and
// segment templates; fingers never count toward mapping confidence.
var (
	fingerRoleOrder    []BoneRole
	fingerRolePatterns = map[BoneRole][]string{}
)

func init() {
	sides := []struct {
		Full  string
		Short string
	}{
		{Full: "left", Short: "l"},
		{Full: "right", Short: "r"},
	}
	fingers := []string{"thumb", "index", "middle", "ring", "pinky"}

	for _, side := range sides {
		for _, finger := range fingers {
			for segment := 1; segment <= 4; segment++ {
				role := fingerRole(side.Full, finger, segment)
				fingerRoleOrder = append(fingerRoleOrder, role)
				fingerRolePatterns[role] = fingerPatterns(side.Full, side.Short, finger, segment)
			}
		}
	}
}

// fingerRole renders the canonical role name for one finger segment.
func fingerRole(sideFull string, finger string, segment int) BoneRole {
	title := strings.ToUpper(sideFull[:1]) + sideFull[1:]
	fingerTitle := strings.ToUpper(finger[:1]) + finger[1:]
	return BoneRole(title + "Hand" + fingerTitle + string(rune('0'+segment)))
}

// fingerPatterns renders the normalized patterns for one finger segment.
func fingerPatterns(sideFull string, sideShort string, finger string, segment int) []string {
	digit := string(rune('0' + segment))
	patterns := []string{
		sideFull + "hand" + finger + digit,
		finger + "0" + digit + sideShort,
		sideFull + finger + unityFingerSegmentNames[segment],
		sideShort + finger + digit,
	}
	if finger == "pinky" {
		patterns = append(patterns,
			sideFull+"hand"+"little"+digit,
			"little0"+digit+sideShort,
			sideFull+"little"+unityFingerSegmentNames[segment],
		)
	}
	return patterns
}

// BaseRoles returns the base humanoid roles in mapping priority order.
func BaseRoles() []BoneRole {
	roles := make([]BoneRole, len(baseRoleOrder))
	copy(roles, baseRoleOrder)
	return roles
}

// FingerRoles returns the finger roles in mapping priority order.
func FingerRoles() []BoneRole {
	roles := make([]BoneRole, len(fingerRoleOrder))
	copy(roles, fingerRoleOrder)
	return roles
}

// RolePatterns returns the normalized name patterns of a role, best first.
func RolePatterns(role BoneRole) []string {
	if patterns, exists := baseRolePatterns[role]; exists {
		return patterns
	}
	return fingerRolePatterns[role]
}

// IsHandRole reports whether the role is a whole-hand role subject to the
// finger guard.
func IsHandRole(role BoneRole) bool {
	return role == RoleLeftHand || role == RoleRightHand
}

// HasFingerKeyword reports whether a normalized name contains a finger
// substring.
func HasFingerKeyword(normalized string) bool {
	for _, keyword := range fingerKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// MatchRoleName returns the first bone name matching the role. Matching is
// two-pass over the pattern list: exact equality after normalization, then
// substring containment. Hand roles never match finger names.
func MatchRoleName(role BoneRole, names []string) (string, bool) {
	patterns := RolePatterns(role)
	if len(patterns) == 0 {
		return "", false
	}

	normalized := make([]string, len(names))
	for index, name := range names {
		normalized[index] = NormalizeBoneName(name)
	}
	guard := IsHandRole(role)

	for _, pattern := range patterns {
		for index, candidate := range normalized {
			if guard && HasFingerKeyword(candidate) {
				continue
			}
			if candidate == pattern {
				return names[index], true
			}
		}
	}
	for _, pattern := range patterns {
		for index, candidate := range normalized {
			if guard && HasFingerKeyword(candidate) {
				continue
			}
			if strings.Contains(candidate, pattern) {
				return names[index], true
			}
		}
	}
	return "", false
}

// FindBoneByRole returns the index of the first bone matching the role.
func FindBoneByRole(skel *Skeleton, role BoneRole) (int, bool) {
	if skel == nil || skel.Len() == 0 {
		return -1, false
	}
	names := make([]string, 0, skel.Len())
	for _, bone := range skel.Bones {
		if bone == nil {
			names = append(names, "")
			continue
		}
		names = append(names, bone.Name)
	}
	name, found := MatchRoleName(role, names)
	if !found {
		return -1, false
	}
	return skel.FindByName(name)
}
