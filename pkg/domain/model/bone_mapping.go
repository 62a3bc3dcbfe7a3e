// 指示: miu200521358
package model

import (
	"sort"
	"time"
)

// RigType tags the naming-convention family of a rig.
type RigType string

const (
	// RigTypeMixamo is the Adobe Mixamo convention (mixamorig: prefixes).
	RigTypeMixamo RigType = "mixamo"
	// RigTypeUE5 is the Unreal Engine 5 mannequin convention.
	RigTypeUE5 RigType = "ue5"
	// RigTypeUnity is the Unity humanoid convention.
	RigTypeUnity RigType = "unity"
	// RigTypeHumanoid is a generic humanoid with recognizable role names.
	RigTypeHumanoid RigType = "humanoid"
	// RigTypeCustom is any rig no other tag matches.
	RigTypeCustom RigType = "custom"
)

// BoneMapping is an injective map from source bone names to target bone
// names, plus rig tags and a confidence score in [0,1].
type BoneMapping struct {
	Name          string
	SourceRigType RigType
	TargetRigType RigType
	Pairs         map[string]string
	Confidence    float64
	CreatedAt     time.Time
}

// NewBoneMapping returns an empty mapping tagged as custom on both sides.
func NewBoneMapping() *BoneMapping {
	return &BoneMapping{
		SourceRigType: RigTypeCustom,
		TargetRigType: RigTypeCustom,
		Pairs:         map[string]string{},
	}
}

// Len returns the number of mapped pairs.
func (m *BoneMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Pairs)
}

// IsEmpty reports whether no pairs are mapped.
func (m *BoneMapping) IsEmpty() bool {
	return m.Len() == 0
}

// Target returns the mapped target name for a source bone.
func (m *BoneMapping) Target(sourceName string) (string, bool) {
	if m == nil {
		return "", false
	}
	targetName, exists := m.Pairs[sourceName]
	return targetName, exists
}

// Has reports whether the source bone is mapped.
func (m *BoneMapping) Has(sourceName string) bool {
	_, exists := m.Target(sourceName)
	return exists
}

// SourceFor returns the source bone currently claiming a target name.
func (m *BoneMapping) SourceFor(targetName string) (string, bool) {
	if m == nil {
		return "", false
	}
	for sourceName, mappedTarget := range m.Pairs {
		if mappedTarget == targetName {
			return sourceName, true
		}
	}
	return "", false
}

// HasTargetName reports whether any pair maps onto the target name.
func (m *BoneMapping) HasTargetName(targetName string) bool {
	_, exists := m.SourceFor(targetName)
	return exists
}

// Add maps a source bone onto a target bone. Injectivity of the image is
// preserved: a pair already claiming the target is removed first.
func (m *BoneMapping) Add(sourceName string, targetName string) {
	if m == nil || sourceName == "" || targetName == "" {
		return
	}
	if m.Pairs == nil {
		m.Pairs = map[string]string{}
	}
	if priorSource, exists := m.SourceFor(targetName); exists && priorSource != sourceName {
		delete(m.Pairs, priorSource)
	}
	m.Pairs[sourceName] = targetName
}

// Remove drops the pair for a source bone.
func (m *BoneMapping) Remove(sourceName string) {
	if m == nil {
		return
	}
	delete(m.Pairs, sourceName)
}

// Clear drops every pair and resets the confidence.
func (m *BoneMapping) Clear() {
	if m == nil {
		return
	}
	m.Pairs = map[string]string{}
	m.Confidence = 0
}

// SourceNames returns mapped source names in sorted order.
func (m *BoneMapping) SourceNames() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Pairs))
	for sourceName := range m.Pairs {
		names = append(names, sourceName)
	}
	sort.Strings(names)
	return names
}

// IsInjective reports whether no two sources share a target.
func (m *BoneMapping) IsInjective() bool {
	if m == nil {
		return true
	}
	seen := map[string]struct{}{}
	for _, targetName := range m.Pairs {
		if _, exists := seen[targetName]; exists {
			return false
		}
		seen[targetName] = struct{}{}
	}
	return true
}

// Clone returns an independent copy of the mapping.
func (m *BoneMapping) Clone() *BoneMapping {
	if m == nil {
		return nil
	}
	pairs := make(map[string]string, len(m.Pairs))
	for sourceName, targetName := range m.Pairs {
		pairs[sourceName] = targetName
	}
	return &BoneMapping{
		Name:          m.Name,
		SourceRigType: m.SourceRigType,
		TargetRigType: m.TargetRigType,
		Pairs:         pairs,
		Confidence:    m.Confidence,
		CreatedAt:     m.CreatedAt,
	}
}
