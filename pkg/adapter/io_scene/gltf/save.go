// 指示: miu200521358
package gltf

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"
)

// SaveClips writes the clips as animations into a copy of the target
// document. Tracks whose bone has no node in the target are skipped; a clip
// left with no channels at all is dropped.
func (r *Repository) SaveClips(targetPath string, outputPath string, clips []*model.AnimationClip) error {
	doc, err := gltf.Open(targetPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open glTF file %s", targetPath)
	}

	nodeIndexes := nodeIndexesByName(doc)
	written := 0
	for _, clip := range clips {
		if clip == nil {
			continue
		}
		animation, err := animationFromClip(doc, clip, nodeIndexes)
		if err != nil {
			return errors.Wrapf(err, "failed to encode clip %s", clip.Name)
		}
		if len(animation.Channels) == 0 {
			continue
		}
		doc.Animations = append(doc.Animations, animation)
		written++
	}
	if written == 0 {
		return errors.Errorf("no clip matched any node of %s", targetPath)
	}

	return saveDocument(doc, outputPath)
}

// nodeIndexesByName indexes named nodes; on duplicate names the first wins.
func nodeIndexesByName(doc *gltf.Document) map[string]uint32 {
	indexes := map[string]uint32{}
	for i, node := range doc.Nodes {
		if node.Name == "" {
			continue
		}
		if _, exists := indexes[node.Name]; exists {
			continue
		}
		indexes[node.Name] = uint32(i)
	}
	return indexes
}

// animationFromClip encodes one clip, appending its accessors to the document.
func animationFromClip(doc *gltf.Document, clip *model.AnimationClip, nodeIndexes map[string]uint32) (*gltf.Animation, error) {
	animation := &gltf.Animation{Name: clip.Name}
	for _, track := range clip.Tracks {
		if track == nil || len(track.Times) == 0 {
			continue
		}
		nodeIndex, exists := nodeIndexes[track.BoneName]
		if !exists {
			continue
		}
		if err := track.Validate(); err != nil {
			return nil, err
		}

		timesAccessor := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, append([]float32{}, track.Times...))
		valuesAccessor, path, err := writeTrackValues(doc, track)
		if err != nil {
			return nil, err
		}

		animation.Samplers = append(animation.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(timesAccessor),
			Output:        gltf.Index(valuesAccessor),
			Interpolation: gltf.InterpolationLinear,
		})
		animation.Channels = append(animation.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(animation.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(nodeIndex),
				Path: path,
			},
		})
	}
	return animation, nil
}

// writeTrackValues stores a track's keyframe values as a VEC3/VEC4 accessor.
func writeTrackValues(doc *gltf.Document, track *model.AnimationTrack) (uint32, gltf.TRSProperty, error) {
	switch track.Property {
	case model.TrackQuaternion:
		values := make([][4]float32, len(track.Times))
		for i := range values {
			copy(values[i][:], track.Values[i*4:i*4+4])
		}
		return modeler.WriteTangent(doc, values), gltf.TRSRotation, nil
	case model.TrackPosition, model.TrackScale:
		values := make([][3]float32, len(track.Times))
		for i := range values {
			copy(values[i][:], track.Values[i*3:i*3+3])
		}
		path := gltf.TRSTranslation
		if track.Property == model.TrackScale {
			path = gltf.TRSScale
		}
		return modeler.WritePosition(doc, values), path, nil
	default:
		return 0, 0, errors.Errorf("track %s: unknown property %q", track.Name(), string(track.Property))
	}
}

// saveDocument writes the document in the container the extension asks for.
// Writing animation accessors appends to buffer data, so any URI captured at
// load time no longer matches the bytes and must be rebuilt before saving.
func saveDocument(doc *gltf.Document, outputPath string) error {
	if strings.EqualFold(filepath.Ext(outputPath), ".glb") {
		for _, buffer := range doc.Buffers {
			if len(buffer.Data) > 0 && strings.HasPrefix(buffer.URI, "data:") {
				buffer.URI = ""
			}
		}
		if err := gltf.SaveBinary(doc, outputPath); err != nil {
			return errors.Wrapf(err, "failed to save glTF binary %s", outputPath)
		}
		return nil
	}
	for _, buffer := range doc.Buffers {
		if len(buffer.Data) > 0 {
			buffer.EmbeddedResource()
		}
	}
	if err := gltf.Save(doc, outputPath); err != nil {
		return errors.Wrapf(err, "failed to save glTF file %s", outputPath)
	}
	return nil
}
