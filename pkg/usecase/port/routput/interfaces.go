// 指示: miu200521358

// Package routput declares the narrow contracts between the retargeting core
// and its scene I/O collaborators.
package routput

import "github.com/armandoalonso/Animexa3D-sub001/pkg/domain/model"

// ISceneReader loads scene trees and animation clips from model files.
type ISceneReader interface {
	// LoadScene parses a model file into a canonical scene tree.
	LoadScene(path string) (*model.SceneNode, error)
	// LoadClips returns the raw animation clips stored in a model file.
	LoadClips(path string) ([]*model.AnimationClip, error)
}

// IClipWriter persists retargeted clips into a copy of a model file.
type IClipWriter interface {
	// SaveClips writes clips into a copy of the model at targetPath.
	SaveClips(targetPath string, outputPath string, clips []*model.AnimationClip) error
}
