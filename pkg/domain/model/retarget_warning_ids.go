// 指示: miu200521358
package model

const (
	// RetargetWarningDuplicateBoneNames is the repeated-bone-name warning.
	RetargetWarningDuplicateBoneNames = "RetargetWarningDuplicateBoneNames"
	// RetargetWarningUnresolvableBone is the unmatched-bone warning; the track is dropped.
	RetargetWarningUnresolvableBone = "RetargetWarningUnresolvableBone"
	// RetargetWarningUnmappedPairDropped is the mapping-pair-resolution warning.
	RetargetWarningUnmappedPairDropped = "RetargetWarningUnmappedPairDropped"
	// RetargetWarningDegenerateBindPose is the near-zero bind segment warning.
	RetargetWarningDegenerateBindPose = "RetargetWarningDegenerateBindPose"
	// RetargetWarningInvalidQuaternionPrecompute is the missing correction-pair warning.
	RetargetWarningInvalidQuaternionPrecompute = "RetargetWarningInvalidQuaternionPrecompute"
	// RetargetWarningPoseIncompatible is the bind-pose mismatch warning.
	RetargetWarningPoseIncompatible = "RetargetWarningPoseIncompatible"
	// RetargetWarningBonesRecoveredFromClip is the track-name bone recovery warning.
	RetargetWarningBonesRecoveredFromClip = "RetargetWarningBonesRecoveredFromClip"
	// RetargetWarningMappingTargetReplaced is the manual-override replacement warning.
	RetargetWarningMappingTargetReplaced = "RetargetWarningMappingTargetReplaced"
	// RetargetWarningMappingTargetClaimed is the already-claimed target warning; the later role is skipped.
	RetargetWarningMappingTargetClaimed = "RetargetWarningMappingTargetClaimed"
	// RetargetWarningNoRoleLandmarks is the missing-landmark warning for proportion measurement.
	RetargetWarningNoRoleLandmarks = "RetargetWarningNoRoleLandmarks"
)
