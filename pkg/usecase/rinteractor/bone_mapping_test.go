// 指示: miu200521358
package rinteractor

import (
	"testing"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

func TestGenerateAutomaticMappingMixamoToUE5(t *testing.T) {
	sourceNames := rigNames(mixamoNames)
	targetNames := rigNames(ue5Names)

	mapping, _ := GenerateAutomaticMapping(sourceNames, targetNames, false)

	expected := map[string]string{
		"mixamorig:Hips":      "pelvis",
		"mixamorig:LeftUpLeg": "thigh_l",
		"mixamorig:LeftHand":  "hand_l",
	}
	for sourceName, wantTarget := range expected {
		targetName, found := mapping.Target(sourceName)
		if !found || targetName != wantTarget {
			t.Fatalf("mapping mismatch for %s: got=(%s,%v) want=%s", sourceName, targetName, found, wantTarget)
		}
	}

	if mapping.SourceRigType != model.RigTypeMixamo {
		t.Fatalf("source rig type mismatch: got=%s", mapping.SourceRigType)
	}
	if mapping.TargetRigType != model.RigTypeUE5 {
		t.Fatalf("target rig type mismatch: got=%s", mapping.TargetRigType)
	}
	if mapping.Confidence < 0.7 {
		t.Fatalf("confidence too low: got=%f", mapping.Confidence)
	}
	if !mapping.IsInjective() {
		t.Fatalf("generated mapping must be injective")
	}
}

func TestGenerateAutomaticMappingFingerGuard(t *testing.T) {
	sourceNames := []string{"mixamorig:LeftHand", "mixamorig:LeftHandThumb1"}
	targetNames := []string{"hand_l", "thumb_01_l"}

	withoutHands, _ := GenerateAutomaticMapping(sourceNames, targetNames, false)
	if targetName, _ := withoutHands.Target("mixamorig:LeftHand"); targetName != "hand_l" {
		t.Fatalf("hand role must choose hand_l: got=%s", targetName)
	}
	if withoutHands.Has("mixamorig:LeftHandThumb1") {
		t.Fatalf("fingers must not map with includeHands=false")
	}

	withHands, _ := GenerateAutomaticMapping(sourceNames, targetNames, true)
	if targetName, _ := withHands.Target("mixamorig:LeftHand"); targetName != "hand_l" {
		t.Fatalf("hand role mismatch with hands: got=%s", targetName)
	}
	if targetName, _ := withHands.Target("mixamorig:LeftHandThumb1"); targetName != "thumb_01_l" {
		t.Fatalf("thumb role mismatch: got=%s", targetName)
	}
	if !withHands.IsInjective() {
		t.Fatalf("hand_l must not be double-mapped")
	}
}

func TestGenerateAutomaticMappingFingersDoNotChangeConfidence(t *testing.T) {
	sourceNames := append(rigNames(mixamoNames), "mixamorig:LeftHandThumb1", "mixamorig:LeftHandIndex1")
	targetNames := append(rigNames(ue5Names), "thumb_01_l", "index_01_l")

	withoutHands, _ := GenerateAutomaticMapping(sourceNames, targetNames, false)
	withHands, _ := GenerateAutomaticMapping(sourceNames, targetNames, true)

	if withoutHands.Confidence != withHands.Confidence {
		t.Fatalf("confidence must ignore fingers: got=%f want=%f", withHands.Confidence, withoutHands.Confidence)
	}
	if withoutHands.Confidence < 0 || withoutHands.Confidence > 1 {
		t.Fatalf("confidence out of range: got=%f", withoutHands.Confidence)
	}
	if withHands.Len() <= withoutHands.Len() {
		t.Fatalf("includeHands must add finger pairs")
	}
}

func TestGenerateAutomaticMappingClaimedTargetSkipped(t *testing.T) {
	// Both the upper and lower arm roles match forearm_l by substring; the
	// first-processed role claims it and the second is skipped.
	sourceNames := []string{"LeftArm", "LeftForeArm"}
	targetNames := []string{"forearm_l"}

	mapping, diagnostics := GenerateAutomaticMapping(sourceNames, targetNames, false)

	if targetName, _ := mapping.Target("LeftArm"); targetName != "forearm_l" {
		t.Fatalf("first role must claim the target: got=%s", targetName)
	}
	if mapping.Has("LeftForeArm") {
		t.Fatalf("second role must be skipped when the target is claimed")
	}
	if !model.HasDiagnosticCode(diagnostics, model.RetargetWarningMappingTargetClaimed) {
		t.Fatalf("claimed-target skip must be diagnosed: got=%v", diagnostics)
	}
	if !mapping.IsInjective() {
		t.Fatalf("mapping must stay injective")
	}
}

func TestDetectRigType(t *testing.T) {
	tests := []struct {
		names []string
		want  model.RigType
	}{
		{rigNames(mixamoNames), model.RigTypeMixamo},
		{rigNames(ue5Names), model.RigTypeUE5},
		{[]string{"Hips", "Spine", "Chest", "LeftUpperArm", "LeftLeg", "Head"}, model.RigTypeUnity},
		{[]string{"hips", "spine", "head", "left_arm", "left_leg"}, model.RigTypeHumanoid},
		{[]string{"boneA", "boneB"}, model.RigTypeCustom},
	}
	for _, test := range tests {
		if got := DetectRigType(test.names); got != test.want {
			t.Fatalf("rig type mismatch for %v: got=%s want=%s", test.names, got, test.want)
		}
	}
}
