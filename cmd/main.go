// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"

	io_scene "github.com/armandoalonso/Animexa3D-sub001/pkg/adapter/io_scene/gltf"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/adapter/mpresenter/messages"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/usecase/port/routput"
	"github.com/armandoalonso/Animexa3D-sub001/pkg/usecase/rinteractor"
)

// options holds the parsed CLI arguments.
type options struct {
	sourcePath     string
	targetPath     string
	outputPath     string
	mappingPath    string
	profilePath    string
	clipNames      []string
	includeHands   bool
	printHierarchy bool
	listClips      bool
}

// main retargets animation clips from a source rig onto a target rig.
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the whole CLI flow.
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	repository := io_scene.NewRepository()
	sourceSkeleton, sourceClips, err := loadRig(repository, opts.sourcePath, errOut)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, messages.Printf(messages.LogLoadSuccess, opts.sourcePath, sourceSkeleton.Len(), len(sourceClips)))

	if opts.listClips {
		fmt.Fprintf(out, "%s:\n", messages.LabelClipList)
		for _, clip := range sourceClips {
			fmt.Fprintf(out, "  %s (%.2fs, %d tracks)\n", clip.Name, clip.Duration, len(clip.Tracks))
		}
		return nil
	}

	targetSkeleton, _, err := loadRig(repository, opts.targetPath, errOut)
	if err != nil {
		return err
	}

	mapping, err := resolveMapping(opts, sourceSkeleton, targetSkeleton, out, errOut)
	if err != nil {
		return err
	}

	if opts.printHierarchy {
		fmt.Fprintf(out, "%s (%s):\n%s", messages.LabelHierarchy, opts.sourcePath,
			model.BuildHierarchyView(sourceSkeleton, mapping, true))
		fmt.Fprintf(out, "%s (%s):\n%s", messages.LabelHierarchy, opts.targetPath,
			model.BuildHierarchyView(targetSkeleton, mapping, false))
		return nil
	}

	clips, err := selectClips(sourceClips, opts.clipNames)
	if err != nil {
		return err
	}

	engineOptions, err := resolveEngineOptions(opts.profilePath)
	if err != nil {
		return err
	}
	engine := rinteractor.NewEngine()
	engine.SetOptions(engineOptions)

	diagnostics, err := engine.Initialize(sourceSkeleton, targetSkeleton, mapping)
	printDiagnostics(errOut, diagnostics)
	if err != nil {
		return fmt.Errorf("failed to initialize retarget session: %w", err)
	}

	result := retargetClips(engine, clips, out)
	for _, outcome := range result.Outcomes {
		printDiagnostics(errOut, outcome.Diagnostics)
		if outcome.Status == rinteractor.ClipOutcomeFailed {
			fmt.Fprintln(errOut, messages.Printf(messages.LogClipFailed, outcome.ClipName, outcome.Reason))
			continue
		}
		fmt.Fprintln(out, messages.Printf(
			messages.LogClipRetargeted, outcome.ClipName, outcome.Clip.Name, len(outcome.Clip.Tracks),
		))
	}
	fmt.Fprintln(out, messages.Printf(messages.LogBatchSummary, result.SuccessCount, result.TotalCount))

	retargeted := result.Clips()
	if len(retargeted) == 0 {
		return fmt.Errorf("no clip could be retargeted")
	}
	if err := ensureOutputDir(opts.outputPath); err != nil {
		return err
	}
	if err := repository.SaveClips(opts.targetPath, opts.outputPath, retargeted); err != nil {
		return fmt.Errorf("failed to save retargeted clips: %w", err)
	}
	fmt.Fprintln(out, messages.Printf(messages.LogSaveSuccess, len(retargeted), opts.outputPath))
	return nil
}

// parseOptions parses and validates the CLI arguments.
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("animexa3d", flag.ContinueOnError)
	fs.SetOutput(errOut)

	src := fs.String("src", "", messages.LabelSourcePath)
	trg := fs.String("trg", "", messages.LabelTargetPath)
	out := fs.String("out", "", messages.LabelOutputPath)
	mapping := fs.String("mapping", "", messages.LabelMappingPath)
	profile := fs.String("profile", "", messages.LabelProfilePath)
	clips := fs.String("clips", "", "comma-separated clip names; all clips when empty")
	includeHands := fs.Bool("include-hands", false, "map finger bones as well")
	printHierarchy := fs.Bool("print-hierarchy", false, "print both bone hierarchies and exit")
	listClips := fs.Bool("list-clips", false, "list the source clips and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{
		sourcePath:     *src,
		targetPath:     *trg,
		outputPath:     *out,
		mappingPath:    *mapping,
		profilePath:    *profile,
		clipNames:      splitClipNames(*clips),
		includeHands:   *includeHands,
		printHierarchy: *printHierarchy,
		listClips:      *listClips,
	}
	if opts.sourcePath == "" {
		return options{}, fmt.Errorf("source scene is required (-src)")
	}
	if err := validateScenePath(opts.sourcePath); err != nil {
		return options{}, err
	}
	if opts.listClips {
		return opts, nil
	}
	if opts.targetPath == "" {
		return options{}, fmt.Errorf("target scene is required (-trg)")
	}
	if err := validateScenePath(opts.targetPath); err != nil {
		return options{}, err
	}
	if opts.printHierarchy {
		return opts, nil
	}
	if opts.outputPath == "" {
		return options{}, fmt.Errorf("output scene is required (-out)")
	}
	if err := validateScenePath(opts.outputPath); err != nil {
		return options{}, err
	}
	return opts, nil
}

// validateScenePath accepts .gltf and .glb paths.
func validateScenePath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".gltf" && ext != ".glb" {
		return fmt.Errorf("scene path must end in .gltf or .glb: %s", path)
	}
	return nil
}

// splitClipNames parses a comma-separated clip filter.
func splitClipNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// loadRig loads a scene and its clips and extracts the skeleton.
func loadRig(repository routput.ISceneReader, path string, errOut io.Writer) (*model.Skeleton, []*model.AnimationClip, error) {
	scene, err := repository.LoadScene(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load scene %s: %w", path, err)
	}
	clips, err := repository.LoadClips(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load clips of %s: %w", path, err)
	}

	var firstClip *model.AnimationClip
	if len(clips) > 0 {
		firstClip = clips[0]
	}
	skeleton, diagnostics := model.ExtractSkeletonWithClip(scene, firstClip)
	printDiagnostics(errOut, diagnostics)
	if skeleton.Len() == 0 {
		return nil, nil, fmt.Errorf("no skeleton found in %s", path)
	}
	return skeleton, clips, nil
}

// resolveMapping loads the mapping file when present, otherwise generates one
// automatically and saves it back when a mapping path was given.
func resolveMapping(
	opts options,
	sourceSkeleton *model.Skeleton,
	targetSkeleton *model.Skeleton,
	out io.Writer,
	errOut io.Writer,
) (*model.BoneMapping, error) {
	if opts.mappingPath != "" {
		if _, err := os.Stat(opts.mappingPath); err == nil {
			mapping, err := rinteractor.LoadBoneMapping(opts.mappingPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load bone mapping %s: %w", opts.mappingPath, err)
			}
			fmt.Fprintln(out, messages.Printf(messages.LogMappingLoaded, opts.mappingPath, mapping.Len()))
			return mapping, nil
		}
	}

	mapping, diagnostics := rinteractor.GenerateAutomaticMapping(
		boneNames(sourceSkeleton), boneNames(targetSkeleton), opts.includeHands,
	)
	printDiagnostics(errOut, diagnostics)
	fmt.Fprintln(out, messages.Printf(
		messages.LogMappingGenerate,
		string(mapping.SourceRigType), string(mapping.TargetRigType), mapping.Len(), mapping.Confidence,
	))

	if opts.mappingPath != "" {
		if err := ensureOutputDir(opts.mappingPath); err != nil {
			return nil, err
		}
		if err := rinteractor.SaveBoneMapping(opts.mappingPath, mapping); err != nil {
			return nil, fmt.Errorf("failed to save bone mapping %s: %w", opts.mappingPath, err)
		}
	}
	return mapping, nil
}

// resolveEngineOptions loads a profile when given, defaults otherwise.
func resolveEngineOptions(profilePath string) (rinteractor.EngineOptions, error) {
	if profilePath == "" {
		return rinteractor.NewEngineOptions(), nil
	}
	profile, err := rinteractor.LoadRetargetProfile(profilePath)
	if err != nil {
		return rinteractor.EngineOptions{}, fmt.Errorf("failed to load retarget profile %s: %w", profilePath, err)
	}
	engineOptions, err := profile.EngineOptions()
	if err != nil {
		return rinteractor.EngineOptions{}, fmt.Errorf("invalid retarget profile %s: %w", profilePath, err)
	}
	return engineOptions, nil
}

// selectClips applies the clip name filter preserving clip order.
func selectClips(clips []*model.AnimationClip, names []string) ([]*model.AnimationClip, error) {
	if len(names) == 0 {
		if len(clips) == 0 {
			return nil, fmt.Errorf("the source scene holds no animation clips")
		}
		return clips, nil
	}

	wanted := map[string]struct{}{}
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	selected := make([]*model.AnimationClip, 0, len(names))
	for _, clip := range clips {
		if _, exists := wanted[clip.Name]; exists {
			selected = append(selected, clip)
			delete(wanted, clip.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for name := range wanted {
			missing = append(missing, name)
		}
		return nil, fmt.Errorf("clips not found in the source scene: %s", strings.Join(missing, ", "))
	}
	return selected, nil
}

// barReporter advances a progress bar as clips complete.
type barReporter struct {
	bar *pb.ProgressBar
}

// ReportRetargetProgress implements rinteractor.IRetargetProgressReporter.
func (r *barReporter) ReportRetargetProgress(event rinteractor.RetargetProgressEvent) {
	switch event.Type {
	case rinteractor.RetargetProgressEventTypeClipRetargeted,
		rinteractor.RetargetProgressEventTypeClipFailed:
		r.bar.Increment()
	}
}

// retargetClips runs the batch, with a progress bar for multi-clip runs.
func retargetClips(engine *rinteractor.Engine, clips []*model.AnimationClip, out io.Writer) rinteractor.BatchResult {
	request := rinteractor.BatchRequest{Clips: clips}
	if len(clips) > 1 {
		bar := pb.StartNew(len(clips))
		bar.SetWriter(out)
		defer bar.Finish()
		request.ProgressReporter = &barReporter{bar: bar}
	}
	return engine.RetargetAll(request)
}

// printDiagnostics renders diagnostics one per line.
func printDiagnostics(errOut io.Writer, diagnostics []model.Diagnostic) {
	for _, line := range messages.RenderDiagnostics(diagnostics) {
		fmt.Fprintln(errOut, line)
	}
}

// boneNames returns the skeleton's bone names in arena order.
func boneNames(skeleton *model.Skeleton) []string {
	names := make([]string, 0, skeleton.Len())
	for _, bone := range skeleton.Bones {
		if bone != nil {
			names = append(names, bone.Name)
		}
	}
	return names
}

// ensureOutputDir creates the directory an output file will land in.
func ensureOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
