// 指示: miu200521358
package model

import (
	"fmt"
	"strings"

	deepcopy "github.com/tiendc/go-deepcopy"
)

// TrackProperty enumerates animatable bone properties.
type TrackProperty string

const (
	// TrackQuaternion keys a bone's local rotation.
	TrackQuaternion TrackProperty = "quaternion"
	// TrackPosition keys a bone's local translation.
	TrackPosition TrackProperty = "position"
	// TrackScale keys a bone's local scale.
	TrackScale TrackProperty = "scale"
)

// ValueStride returns the floats stored per keyframe, 0 for unknown properties.
func (p TrackProperty) ValueStride() int {
	switch p {
	case TrackQuaternion:
		return 4
	case TrackPosition, TrackScale:
		return 3
	default:
		return 0
	}
}

// AnimationTrack is the keyframed sequence for one property of one bone.
// len(Values) equals len(Times) multiplied by the property stride.
type AnimationTrack struct {
	BoneName string
	Property TrackProperty
	Times    []float32
	Values   []float32
}

// NewAnimationTrack returns a track for the given bone and property.
func NewAnimationTrack(boneName string, property TrackProperty, times []float32, values []float32) *AnimationTrack {
	return &AnimationTrack{
		BoneName: boneName,
		Property: property,
		Times:    times,
		Values:   values,
	}
}

// Name renders the track name in boneName.property form.
func (t *AnimationTrack) Name() string {
	if t == nil {
		return ""
	}
	return t.BoneName + "." + string(t.Property)
}

// KeyframeCount returns the number of keyed times.
func (t *AnimationTrack) KeyframeCount() int {
	if t == nil {
		return 0
	}
	return len(t.Times)
}

// Validate checks the times/values length contract.
func (t *AnimationTrack) Validate() error {
	if t == nil {
		return fmt.Errorf("track is nil")
	}
	stride := t.Property.ValueStride()
	if stride == 0 {
		return fmt.Errorf("track %s: unknown property %q", t.Name(), string(t.Property))
	}
	if len(t.Values) != len(t.Times)*stride {
		return fmt.Errorf(
			"track %s: %d values for %d keyframes with stride %d",
			t.Name(), len(t.Values), len(t.Times), stride,
		)
	}
	return nil
}

// ParseTrackName splits a track name into bone name and property at the
// last dot. The bone name itself may contain dots.
func ParseTrackName(name string) (string, TrackProperty, bool) {
	separator := strings.LastIndexByte(name, '.')
	if separator <= 0 || separator == len(name)-1 {
		return "", "", false
	}
	boneName := name[:separator]
	property := TrackProperty(name[separator+1:])
	if property.ValueStride() == 0 {
		return "", "", false
	}
	return boneName, property, true
}

// AnimationClip is a named set of tracks with a shared duration in seconds.
type AnimationClip struct {
	Name     string
	Duration float32
	Tracks   []*AnimationTrack
}

// NewAnimationClip returns an empty clip.
func NewAnimationClip(name string, duration float32) *AnimationClip {
	return &AnimationClip{
		Name:     name,
		Duration: duration,
	}
}

// AddTrack appends a track preserving input order.
func (c *AnimationClip) AddTrack(track *AnimationTrack) {
	if c == nil || track == nil {
		return
	}
	c.Tracks = append(c.Tracks, track)
}

// BoneNames returns the unique bone names across tracks in track order.
func (c *AnimationClip) BoneNames() []string {
	if c == nil {
		return nil
	}
	seen := map[string]struct{}{}
	names := make([]string, 0, len(c.Tracks))
	for _, track := range c.Tracks {
		if track == nil || track.BoneName == "" {
			continue
		}
		if _, exists := seen[track.BoneName]; exists {
			continue
		}
		seen[track.BoneName] = struct{}{}
		names = append(names, track.BoneName)
	}
	return names
}

// Clone returns a deep copy of the clip.
func (c *AnimationClip) Clone() (*AnimationClip, error) {
	if c == nil {
		return nil, nil
	}
	clone := &AnimationClip{}
	if err := deepcopy.Copy(clone, c); err != nil {
		return nil, err
	}
	return clone, nil
}
