// 指示: miu200521358
package messages

import (
	"strings"
	"testing"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

func TestWarningTitlesCoverAllCodes(t *testing.T) {
	codes := []string{
		model.RetargetWarningDuplicateBoneNames,
		model.RetargetWarningUnresolvableBone,
		model.RetargetWarningUnmappedPairDropped,
		model.RetargetWarningDegenerateBindPose,
		model.RetargetWarningInvalidQuaternionPrecompute,
		model.RetargetWarningPoseIncompatible,
		model.RetargetWarningBonesRecoveredFromClip,
		model.RetargetWarningMappingTargetReplaced,
		model.RetargetWarningMappingTargetClaimed,
		model.RetargetWarningNoRoleLandmarks,
	}

	seen := map[string]struct{}{}
	for _, code := range codes {
		title := WarningTitle(code)
		if title == "" || title == code {
			t.Fatalf("code %s should have a cataloged title", code)
		}
		if _, exists := seen[title]; exists {
			t.Fatalf("title should be unique: %s", title)
		}
		seen[title] = struct{}{}
	}
}

func TestWarningTitleFallsBackToRawCode(t *testing.T) {
	if got := WarningTitle("UnknownCode"); got != "UnknownCode" {
		t.Fatalf("unknown code should pass through: got=%s", got)
	}
}

func TestFormatDiagnostic(t *testing.T) {
	line := FormatDiagnostic(model.NewDiagnostic(
		model.RetargetWarningUnresolvableBone, "bone Hips not found in target",
	))
	if !strings.HasPrefix(line, "warning: ") {
		t.Fatalf("line should carry the warning prefix: got=%s", line)
	}
	if !strings.Contains(line, "bone Hips not found in target") {
		t.Fatalf("line should carry the detail: got=%s", line)
	}

	bare := FormatDiagnostic(model.NewDiagnostic(model.RetargetWarningPoseIncompatible, ""))
	if strings.HasSuffix(bare, ": ") {
		t.Fatalf("empty detail should not leave a trailing separator: got=%s", bare)
	}
}

func TestRenderDiagnosticsPreservesOrder(t *testing.T) {
	lines := RenderDiagnostics([]model.Diagnostic{
		model.NewDiagnostic(model.RetargetWarningDuplicateBoneNames, "first"),
		model.NewDiagnostic(model.RetargetWarningDegenerateBindPose, "second"),
	})
	if len(lines) != 2 {
		t.Fatalf("line count mismatch: got=%d want=2", len(lines))
	}
	if !strings.Contains(lines[0], "first") || !strings.Contains(lines[1], "second") {
		t.Fatalf("order should be preserved: got=%v", lines)
	}
}

func TestPrintfFormatsNumbers(t *testing.T) {
	line := Printf(LogBatchSummary, 3, 4)
	if !strings.Contains(line, "3") || !strings.Contains(line, "4") {
		t.Fatalf("summary should carry the counters: got=%s", line)
	}
}
