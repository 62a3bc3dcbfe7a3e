// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"

	io_scene "github.com/armandoalonso/Animexa3D-sub001/pkg/adapter/io_scene/gltf"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/adapter/mpresenter/messages"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/usecase/rinteractor"
)

const (
	batchOutputDirMode = 0o755
)

// rigName indexes one bone of the synthetic humanoid rig layout.
type rigName int

const (
	rigHips rigName = iota
	rigSpine
	rigNeck
	rigHead
	rigLeftShoulder
	rigLeftArm
	rigLeftForeArm
	rigLeftHand
	rigRightShoulder
	rigRightArm
	rigRightForeArm
	rigRightHand
	rigLeftUpLeg
	rigLeftLeg
	rigLeftFoot
	rigRightUpLeg
	rigRightLeg
	rigRightFoot
	rigBoneCount
)

// rigParents is the fixed parent index per rig bone.
var rigParents = [rigBoneCount]int{
	-1, 0, 1, 2,
	1, 4, 5, 6,
	1, 8, 9, 10,
	0, 12, 13,
	0, 15, 16,
}

// mixamoNames is the Adobe Mixamo naming of the synthetic rig.
var mixamoNames = [rigBoneCount]string{
	"mixamorig:Hips", "mixamorig:Spine", "mixamorig:Neck", "mixamorig:Head",
	"mixamorig:LeftShoulder", "mixamorig:LeftArm", "mixamorig:LeftForeArm", "mixamorig:LeftHand",
	"mixamorig:RightShoulder", "mixamorig:RightArm", "mixamorig:RightForeArm", "mixamorig:RightHand",
	"mixamorig:LeftUpLeg", "mixamorig:LeftLeg", "mixamorig:LeftFoot",
	"mixamorig:RightUpLeg", "mixamorig:RightLeg", "mixamorig:RightFoot",
}

// ue5Names is the Unreal Engine 5 mannequin naming of the synthetic rig.
var ue5Names = [rigBoneCount]string{
	"pelvis", "spine_01", "neck_01", "head",
	"clavicle_l", "upperarm_l", "lowerarm_l", "hand_l",
	"clavicle_r", "upperarm_r", "lowerarm_r", "hand_r",
	"thigh_l", "calf_l", "foot_l",
	"thigh_r", "calf_r", "foot_r",
}

// unityNames is the Unity humanoid naming of the synthetic rig.
var unityNames = [rigBoneCount]string{
	"Hips", "Spine", "Neck", "Head",
	"LeftShoulder", "LeftUpperArm", "LeftLowerArm", "LeftHand",
	"RightShoulder", "RightUpperArm", "RightLowerArm", "RightHand",
	"LeftUpperLeg", "LeftLowerLeg", "LeftFoot",
	"RightUpperLeg", "RightLowerLeg", "RightFoot",
}

// retargetCase is one synthetic end-to-end scenario.
type retargetCase struct {
	Name    string
	Source  func() *model.Skeleton
	Target  func() *model.Skeleton
	Options func() rinteractor.EngineOptions
}

// batchConfig holds the harness run settings.
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
}

// caseEntry is one resolved scenario with its output plan.
type caseEntry struct {
	Index      int
	Case       retargetCase
	CaseDir    string
	OutputPath string
}

// caseResult is the outcome of one scenario.
type caseResult struct {
	Entry        caseEntry
	Status       string
	Duration     time.Duration
	Err          error
	ProgressInfo string
}

// progressCollector counts retarget progress events per type.
type progressCollector struct {
	eventCounts map[rinteractor.RetargetProgressEventType]int
}

// main runs the synthetic retargeting scenarios end to end.
func main() {
	os.Exit(run())
}

// run resolves the settings, executes all scenarios and returns an exit code.
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse settings: %v\n", err)
		return 2
	}
	entries := buildCaseEntries(config.OutputRoot, retargetCases())
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no scenarios to run")
		return 2
	}

	results := executeBatch(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig builds the run settings from the command line.
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "output root directory for retargeted scenes")
	dryRun := flag.Bool("dry-run", false, "print the scenario plan without retargeting")
	failFast := flag.Bool("fail-fast", false, "stop at the first failed scenario")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root is empty")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot returns the default output directory next to this file.
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot resolve the harness file location")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// retargetCases lists the synthetic scenarios.
func retargetCases() []retargetCase {
	return []retargetCase{
		{
			Name:    "mixamo_to_ue5_default",
			Source:  func() *model.Skeleton { return buildHumanoidRig(mixamoNames, 1, false) },
			Target:  func() *model.Skeleton { return buildHumanoidRig(ue5Names, 1.8, false) },
			Options: rinteractor.NewEngineOptions,
		},
		{
			Name:   "unity_to_mixamo_world_space",
			Source: func() *model.Skeleton { return buildHumanoidRig(unityNames, 1, false) },
			Target: func() *model.Skeleton { return buildHumanoidRig(mixamoNames, 0.6, false) },
			Options: func() rinteractor.EngineOptions {
				options := rinteractor.NewEngineOptions()
				options.UseWorldSpaceTransformation = true
				return options
			},
		},
		{
			Name:   "apose_source_forced_tpose",
			Source: func() *model.Skeleton { return buildHumanoidRig(mixamoNames, 1, true) },
			Target: func() *model.Skeleton { return buildHumanoidRig(ue5Names, 1, false) },
			Options: func() rinteractor.EngineOptions {
				options := rinteractor.NewEngineOptions()
				options.AutoApplyTPose = true
				return options
			},
		},
		{
			Name:   "coordinate_corrected_root",
			Source: func() *model.Skeleton { return buildHumanoidRig(unityNames, 1, false) },
			Target: func() *model.Skeleton { return buildHumanoidRig(ue5Names, 1, false) },
			Options: func() rinteractor.EngineOptions {
				options := rinteractor.NewEngineOptions()
				options.CoordinateCorrectionEnabled = true
				return options
			},
		},
	}
}

// buildCaseEntries plans the output location of every scenario.
func buildCaseEntries(outputRoot string, cases []retargetCase) []caseEntry {
	entries := make([]caseEntry, 0, len(cases))
	for i, scenario := range cases {
		caseDirName := fmt.Sprintf("%03d_%s", i+1, sanitizePathComponent(scenario.Name))
		caseDir := filepath.Join(outputRoot, caseDirName)
		entries = append(entries, caseEntry{
			Index:      i + 1,
			Case:       scenario,
			CaseDir:    caseDir,
			OutputPath: filepath.Join(caseDir, "retargeted.gltf"),
		})
	}
	return entries
}

// executeBatch runs every scenario in order.
func executeBatch(config batchConfig, entries []caseEntry) []caseResult {
	results := make([]caseResult, 0, len(entries))
	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] scenario started: %s\n", entry.Index, total, entry.Case.Name)
		result := runCase(config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] scenario succeeded: %s output=%s elapsed=%s\n",
				entry.Index, total, entry.Case.Name, entry.OutputPath, result.Duration.Round(time.Millisecond))
			if result.ProgressInfo != "" {
				fmt.Printf("[%d/%d] progress: %s\n", entry.Index, total, result.ProgressInfo)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: %s output=%s\n", entry.Index, total, entry.Case.Name, entry.OutputPath)
		default:
			fmt.Printf("[%d/%d] scenario failed: %s reason=%v\n", entry.Index, total, entry.Case.Name, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// runCase executes one scenario: auto-map, retarget, save, reload.
func runCase(config batchConfig, entry caseEntry) caseResult {
	result := caseResult{Entry: entry, Status: "failed"}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("failed to create the case directory: %w", err)
		return result
	}

	startedAt := time.Now()
	source := entry.Case.Source()
	target := entry.Case.Target()
	clip := buildTestClip(source)

	mapping, diagnostics := rinteractor.GenerateAutomaticMapping(
		skeletonBoneNames(source), skeletonBoneNames(target), true,
	)
	printDiagnostics(diagnostics)
	if mapping.Confidence < 0.7 {
		result.Err = fmt.Errorf("auto-mapping confidence too low: %.2f", mapping.Confidence)
		return result
	}

	engine := rinteractor.NewEngine()
	engine.SetOptions(entry.Case.Options())
	initDiagnostics, err := engine.Initialize(source, target, mapping)
	printDiagnostics(initDiagnostics)
	if err != nil {
		result.Err = fmt.Errorf("failed to initialize the session: %w", err)
		return result
	}

	collector := newProgressCollector()
	batch := engine.RetargetAll(rinteractor.BatchRequest{
		Clips:            []*model.AnimationClip{clip},
		ProgressReporter: collector,
	})
	if batch.SuccessCount != batch.TotalCount {
		result.Err = fmt.Errorf("retargeted %d of %d clips", batch.SuccessCount, batch.TotalCount)
		return result
	}

	targetScenePath := filepath.Join(entry.CaseDir, "target.gltf")
	if err := writeSkeletonScene(targetScenePath, target); err != nil {
		result.Err = fmt.Errorf("failed to write the target scene: %w", err)
		return result
	}
	repository := io_scene.NewRepository()
	if err := repository.SaveClips(targetScenePath, entry.OutputPath, batch.Clips()); err != nil {
		result.Err = fmt.Errorf("failed to save the retargeted clips: %w", err)
		return result
	}

	reloaded, err := repository.LoadClips(entry.OutputPath)
	if err != nil {
		result.Err = fmt.Errorf("failed to reload the retargeted clips: %w", err)
		return result
	}
	if len(reloaded) != 1 || len(reloaded[0].Tracks) == 0 {
		result.Err = fmt.Errorf("reloaded output is incomplete: %d clips", len(reloaded))
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.ProgressInfo = collector.Summary()
	return result
}

// buildHumanoidRig assembles the synthetic rig with the given names and
// uniform scale. aPose lowers the arms by 45 degrees.
func buildHumanoidRig(names [rigBoneCount]string, scale float32, aPose bool) *model.Skeleton {
	locals := [rigBoneCount]mgl32.Vec3{
		{0, 1, 0}, {0, 0.2, 0}, {0, 0.3, 0}, {0, 0.1, 0},
		{0.05, 0.25, 0}, {0.1, 0, 0}, {0.25, 0, 0}, {0.25, 0, 0},
		{-0.05, 0.25, 0}, {-0.1, 0, 0}, {-0.25, 0, 0}, {-0.25, 0, 0},
		{0.1, -0.05, 0}, {0, -0.4, 0}, {0, -0.4, 0},
		{-0.1, -0.05, 0}, {0, -0.4, 0}, {0, -0.4, 0},
	}
	if aPose {
		locals[rigLeftForeArm] = mgl32.Vec3{0.18, -0.18, 0}
		locals[rigLeftHand] = mgl32.Vec3{0.18, -0.18, 0}
		locals[rigRightForeArm] = mgl32.Vec3{-0.18, -0.18, 0}
		locals[rigRightHand] = mgl32.Vec3{-0.18, -0.18, 0}
	}

	skeleton := model.NewSkeleton()
	for i := 0; i < int(rigBoneCount); i++ {
		bone := model.NewBoneByName(names[i])
		bone.ParentIndex = rigParents[i]
		bone.Local.Translation = locals[i].Mul(scale)
		skeleton.AppendBone(bone)
	}
	worlds := skeleton.WorldMatrices()
	for i := range worlds {
		skeleton.SetBindInverse(i, worlds[i].Inv())
	}
	return skeleton
}

// buildTestClip keys the root position plus rotations on the root and the
// left upper arm of a rig.
func buildTestClip(source *model.Skeleton) *model.AnimationClip {
	rootBone, _ := source.BoneAt(0)
	armBone, _ := source.BoneAt(int(rigLeftArm))

	clip := model.NewAnimationClip("locomotion", 1)
	clip.AddTrack(model.NewAnimationTrack(rootBone.Name, model.TrackQuaternion,
		[]float32{0, 0.5, 1},
		[]float32{0, 0, 0, 1, 0, 0.3826834, 0, 0.9238795, 0, 0.7071, 0, 0.7071},
	))
	clip.AddTrack(model.NewAnimationTrack(rootBone.Name, model.TrackPosition,
		[]float32{0, 0.5, 1},
		[]float32{
			rootBone.Local.Translation.X(), rootBone.Local.Translation.Y(), rootBone.Local.Translation.Z(),
			rootBone.Local.Translation.X(), rootBone.Local.Translation.Y(), rootBone.Local.Translation.Z() + 0.5,
			rootBone.Local.Translation.X(), rootBone.Local.Translation.Y(), rootBone.Local.Translation.Z() + 1,
		},
	))
	clip.AddTrack(model.NewAnimationTrack(armBone.Name, model.TrackQuaternion,
		[]float32{0, 1},
		[]float32{0, 0, 0, 1, 0.3826834, 0, 0, 0.9238795},
	))
	return clip
}

// writeSkeletonScene saves a skeleton as a skinned glTF scene so the clip
// writer can resolve its bone nodes.
func writeSkeletonScene(path string, skeleton *model.Skeleton) error {
	doc := &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
	joints := make([]uint32, 0, skeleton.Len())
	for i, bone := range skeleton.Bones {
		translation := bone.Local.Translation
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        bone.Name,
			Translation: [3]float32{translation.X(), translation.Y(), translation.Z()},
		})
		joints = append(joints, uint32(i))
		if bone.ParentIndex >= 0 {
			parent := doc.Nodes[bone.ParentIndex]
			parent.Children = append(parent.Children, uint32(i))
		}
	}

	doc.Skins = []*gltf.Skin{{Joints: joints}}
	roots := []uint32{}
	for _, rootIndex := range skeleton.RootBones() {
		roots = append(roots, uint32(rootIndex))
	}
	doc.Scenes = []*gltf.Scene{{Nodes: roots}}
	doc.Scene = gltf.Index(0)
	return gltf.Save(doc, path)
}

// printBatchSummary prints the aggregated scenario outcome.
func printBatchSummary(results []caseResult) {
	succeeded := 0
	failed := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		default:
			failed++
		}
	}
	fmt.Printf("scenario summary: total=%d succeeded=%d failed=%d dry_run=%d\n",
		len(results), succeeded, failed, dryRun)
}

// printDiagnostics renders diagnostics to standard error.
func printDiagnostics(diagnostics []model.Diagnostic) {
	for _, line := range messages.RenderDiagnostics(diagnostics) {
		fmt.Fprintln(os.Stderr, line)
	}
}

// skeletonBoneNames returns the bone names in arena order.
func skeletonBoneNames(skeleton *model.Skeleton) []string {
	names := make([]string, 0, skeleton.Len())
	for _, bone := range skeleton.Bones {
		names = append(names, bone.Name)
	}
	return names
}

// sanitizePathComponent replaces characters unusable in directory names.
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "case"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "case"
	}
	return replaced
}

// newProgressCollector returns an empty event collector.
func newProgressCollector() *progressCollector {
	return &progressCollector{
		eventCounts: map[rinteractor.RetargetProgressEventType]int{},
	}
}

// ReportRetargetProgress implements rinteractor.IRetargetProgressReporter.
func (collector *progressCollector) ReportRetargetProgress(event rinteractor.RetargetProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[rinteractor.RetargetProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
}

// Summary renders the collected event counts.
func (collector *progressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for eventType := range collector.eventCounts {
		types = append(types, string(eventType))
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, eventType := range types {
		parts = append(parts, fmt.Sprintf("%s=%d", eventType, collector.eventCounts[rinteractor.RetargetProgressEventType(eventType)]))
	}
	return strings.Join(parts, " ")
}
