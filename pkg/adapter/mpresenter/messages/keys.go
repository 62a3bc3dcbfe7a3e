// 指示: miu200521358
// Package messages renders diagnostics and CLI text for display.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// CLI labels.
const (
	LabelSourcePath     = "source scene"
	LabelTargetPath     = "target scene"
	LabelOutputPath     = "output scene"
	LabelMappingPath    = "bone mapping file"
	LabelProfilePath    = "retarget profile"
	LabelClipList       = "available clips"
	LabelHierarchy      = "bone hierarchy"
	LabelRetargetedClip = "retargeted clip"
)

// Log formats.
const (
	LogLoadSuccess     = "loaded %s: %d bones, %d clips"
	LogMappingGenerate = "generated mapping %s -> %s: %d pairs, confidence %.2f"
	LogMappingLoaded   = "loaded mapping from %s: %d pairs"
	LogClipRetargeted  = "retargeted clip %s -> %s (%d tracks)"
	LogClipFailed      = "failed to retarget clip %s: %v"
	LogSaveSuccess     = "saved %d clips to %s"
	LogBatchSummary    = "retargeted %d/%d clips"
)

// warningTitles maps every diagnostic code to a short human title.
var warningTitles = map[string]string{
	model.RetargetWarningDuplicateBoneNames:          "duplicate bone names",
	model.RetargetWarningUnresolvableBone:            "bone not resolvable, track dropped",
	model.RetargetWarningUnmappedPairDropped:         "mapping pair dropped",
	model.RetargetWarningDegenerateBindPose:          "degenerate bind pose segment",
	model.RetargetWarningInvalidQuaternionPrecompute: "missing rotation correction",
	model.RetargetWarningPoseIncompatible:            "source and target poses differ",
	model.RetargetWarningBonesRecoveredFromClip:      "bones recovered from clip tracks",
	model.RetargetWarningMappingTargetReplaced:       "mapping target replaced",
	model.RetargetWarningMappingTargetClaimed:        "mapping target already claimed",
	model.RetargetWarningNoRoleLandmarks:             "no landmarks for proportion measurement",
}

// printer localizes all rendered output.
var printer = message.NewPrinter(language.English)

// Printf proxies the presenter's localized printer.
func Printf(format string, args ...any) string {
	return printer.Sprintf(format, args...)
}

// WarningTitle returns the display title of a diagnostic code, or the raw
// code when no title is cataloged.
func WarningTitle(code string) string {
	if title, exists := warningTitles[code]; exists {
		return title
	}
	return code
}

// FormatDiagnostic renders one diagnostic as a single display line.
func FormatDiagnostic(diagnostic model.Diagnostic) string {
	if diagnostic.Detail == "" {
		return printer.Sprintf("warning: %s", WarningTitle(diagnostic.Code))
	}
	return printer.Sprintf("warning: %s: %s", WarningTitle(diagnostic.Code), diagnostic.Detail)
}

// RenderDiagnostics renders diagnostics preserving their order.
func RenderDiagnostics(diagnostics []model.Diagnostic) []string {
	lines := make([]string, 0, len(diagnostics))
	for _, diagnostic := range diagnostics {
		lines = append(lines, FormatDiagnostic(diagnostic))
	}
	return lines
}
