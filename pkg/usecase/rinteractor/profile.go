// 指示: miu200521358
package rinteractor

import (
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const retargetProfileFileMode = 0o644

// CorrectionProfile is the YAML shape of a coordinate correction.
type CorrectionProfile struct {
	Enabled      bool       `yaml:"enabled"`
	Axis         [3]float32 `yaml:"axis"`
	AngleDegrees float32    `yaml:"angleDegrees"`
}

// RetargetProfile is the YAML shape of one engine configuration.
type RetargetProfile struct {
	SourcePoseMode              string            `yaml:"sourcePoseMode"`
	TargetPoseMode              string            `yaml:"targetPoseMode"`
	SourceEmbedWorld            bool              `yaml:"sourceEmbedWorld"`
	TargetEmbedWorld            bool              `yaml:"targetEmbedWorld"`
	UseWorldSpaceTransformation bool              `yaml:"useWorldSpaceTransformation"`
	UseOptimalScale             bool              `yaml:"useOptimalScale"`
	AutoValidatePose            bool              `yaml:"autoValidatePose"`
	AutoApplyTPose              bool              `yaml:"autoApplyTPose"`
	PreserveRootMotion          bool              `yaml:"preserveRootMotion"`
	SourceRootName              string            `yaml:"sourceRootName"`
	CoordinateCorrection        CorrectionProfile `yaml:"coordinateCorrection"`
}

// DefaultRetargetProfile mirrors NewEngineOptions with the default
// correction of -90 degrees around +Y, disabled.
func DefaultRetargetProfile() RetargetProfile {
	return RetargetProfile{
		SourcePoseMode:     string(PoseModeDefault),
		TargetPoseMode:     string(PoseModeDefault),
		UseOptimalScale:    true,
		AutoValidatePose:   true,
		PreserveRootMotion: true,
		CoordinateCorrection: CorrectionProfile{
			Axis:         [3]float32{0, 1, 0},
			AngleDegrees: -90,
		},
	}
}

// LoadRetargetProfile reads a profile from a YAML file.
func LoadRetargetProfile(path string) (RetargetProfile, error) {
	profile := DefaultRetargetProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, errors.Wrapf(err, "failed to read retarget profile %s", path)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, errors.Wrapf(err, "failed to decode retarget profile %s", path)
	}
	return profile, nil
}

// SaveRetargetProfile writes a profile to a YAML file.
func SaveRetargetProfile(path string, profile RetargetProfile) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "failed to encode retarget profile")
	}
	if err := os.WriteFile(path, data, retargetProfileFileMode); err != nil {
		return errors.Wrapf(err, "failed to write retarget profile %s", path)
	}
	return nil
}

// EngineOptions converts the profile into engine options, validating the
// pose mode strings.
func (p RetargetProfile) EngineOptions() (EngineOptions, error) {
	options := NewEngineOptions()

	sourceMode, err := parsePoseMode(p.SourcePoseMode)
	if err != nil {
		return options, err
	}
	targetMode, err := parsePoseMode(p.TargetPoseMode)
	if err != nil {
		return options, err
	}

	options.SourcePoseMode = sourceMode
	options.TargetPoseMode = targetMode
	options.SourceEmbedWorld = p.SourceEmbedWorld
	options.TargetEmbedWorld = p.TargetEmbedWorld
	options.UseWorldSpaceTransformation = p.UseWorldSpaceTransformation
	options.UseOptimalScale = p.UseOptimalScale
	options.AutoValidatePose = p.AutoValidatePose
	options.AutoApplyTPose = p.AutoApplyTPose
	options.PreserveRootMotion = p.PreserveRootMotion
	options.SourceRootName = p.SourceRootName
	options.CoordinateCorrectionEnabled = p.CoordinateCorrection.Enabled
	options.CoordinateCorrection = p.CoordinateCorrection.quat()
	return options, nil
}

// quat builds the correction quaternion from axis and angle; a degenerate
// axis keeps the process-wide default.
func (c CorrectionProfile) quat() mgl32.Quat {
	axis := mgl32.Vec3{c.Axis[0], c.Axis[1], c.Axis[2]}
	if axis.Len() < 1e-6 {
		return mgl32.Quat{}
	}
	radians := float32(float64(c.AngleDegrees) * math.Pi / 180)
	return mgl32.QuatRotate(radians, axis.Normalize())
}

// parsePoseMode validates a pose mode string; empty selects the default.
func parsePoseMode(value string) (PoseMode, error) {
	switch value {
	case "", string(PoseModeDefault):
		return PoseModeDefault, nil
	case string(PoseModeCurrent):
		return PoseModeCurrent, nil
	default:
		return PoseModeDefault, errors.Wrapf(ErrUnknownPoseMode, "pose mode %q", value)
	}
}
