// 指示: miu200521358
package gltf

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// clipsFromDocument converts every glTF animation into a domain clip.
// Channels targeting unsupported paths (weights) are skipped.
func clipsFromDocument(doc *gltf.Document) ([]*model.AnimationClip, error) {
	clips := make([]*model.AnimationClip, 0, len(doc.Animations))
	for animationIndex, animation := range doc.Animations {
		clip, err := clipFromAnimation(doc, animation, animationIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to convert animation %d", animationIndex)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// clipFromAnimation converts one animation into a clip whose duration is
// the latest keyed time across all channels.
func clipFromAnimation(doc *gltf.Document, animation *gltf.Animation, animationIndex int) (*model.AnimationClip, error) {
	name := animation.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animationIndex)
	}
	clip := model.NewAnimationClip(name, 0)

	for channelIndex, channel := range animation.Channels {
		if channel == nil || channel.Sampler == nil || channel.Target.Node == nil {
			continue
		}
		property, supported := trackProperty(channel.Target.Path)
		if !supported {
			continue
		}
		if int(*channel.Sampler) >= len(animation.Samplers) {
			return nil, errors.Errorf("channel %d references sampler %d out of range", channelIndex, *channel.Sampler)
		}
		sampler := animation.Samplers[*channel.Sampler]
		if sampler == nil || sampler.Input == nil || sampler.Output == nil {
			continue
		}

		times, err := readScalarFloats(doc, *sampler.Input)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read keyframe times of channel %d", channelIndex)
		}
		values, stride, err := readKeyframeValues(doc, *sampler.Output)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read keyframe values of channel %d", channelIndex)
		}
		if stride != property.ValueStride() {
			return nil, errors.Errorf(
				"channel %d: %s values have stride %d", channelIndex, string(property), stride,
			)
		}
		if len(values) != len(times)*stride {
			return nil, errors.Errorf(
				"channel %d: %d values for %d keyframes", channelIndex, len(values), len(times),
			)
		}

		boneName := nodeNameAt(doc, *channel.Target.Node)
		clip.AddTrack(model.NewAnimationTrack(boneName, property, times, values))
		for _, time := range times {
			if time > clip.Duration {
				clip.Duration = time
			}
		}
	}
	return clip, nil
}

// trackProperty maps a glTF channel path to a domain track property.
func trackProperty(path gltf.TRSProperty) (model.TrackProperty, bool) {
	switch path {
	case gltf.TRSRotation:
		return model.TrackQuaternion, true
	case gltf.TRSTranslation:
		return model.TrackPosition, true
	case gltf.TRSScale:
		return model.TrackScale, true
	default:
		return "", false
	}
}

// nodeNameAt resolves a node name with a positional fallback.
func nodeNameAt(doc *gltf.Document, index uint32) string {
	if int(index) < len(doc.Nodes) && doc.Nodes[index].Name != "" {
		return doc.Nodes[index].Name
	}
	return fmt.Sprintf("node_%d", index)
}
