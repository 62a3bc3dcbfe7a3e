// 指示: miu200521358

// Package rinteractor implements the retargeting use cases: the heuristic
// bone mapper, the pose normalizer, and the retargeting engine that rewrites
// animation clips from a source skeleton onto a target skeleton.
package rinteractor

import "github.com/pkg/errors"

var (
	// ErrMissingSkeleton is returned when a source or target skeleton is absent.
	ErrMissingSkeleton = errors.New("missing skeleton")
	// ErrInvalidSkeleton is returned when a skeleton holds no bones at all.
	ErrInvalidSkeleton = errors.New("skeleton has no bones")
	// ErrMissingClip is returned when a retarget is requested with a nil clip.
	ErrMissingClip = errors.New("missing animation clip")
	// ErrEmptyMapping is returned when a retarget is requested with no mapped pairs.
	ErrEmptyMapping = errors.New("bone mapping is empty")
	// ErrUnknownPoseMode is returned for pose mode values outside default/current.
	ErrUnknownPoseMode = errors.New("unknown pose mode")
	// ErrNoTracksRetargeted is returned when no input track survived retargeting.
	ErrNoTracksRetargeted = errors.New("no tracks retargeted")
	// ErrEngineNotReady is returned when retargeting is requested before Initialize.
	ErrEngineNotReady = errors.New("engine is not initialized")
)
